package dapcore

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkedBufferValuesMatchFlatSliceBuffer(t *testing.T) {
	data := []any{
		int32(0), int32(1), int32(2), int32(3), int32(4),
		int32(5), int32(6), int32(7), int32(8), int32(9),
	}

	flat := NewSliceBuffer(Int32, data)
	chunked := NewChunkedBuffer(Int32, len(data), 3, func(start, n int) []any {
		return append([]any(nil), data[start:start+n]...)
	})

	var fromFlat, fromChunked []any
	for v := range flat.Values() {
		fromFlat = append(fromFlat, v)
	}
	for v := range chunked.Values() {
		fromChunked = append(fromChunked, v)
	}
	assert.Equal(t, fromFlat, fromChunked)
}

// spec.md §8's "chunked-vs-flat equivalence" property: for identical data,
// chunked-buffer emission concatenates to the exact same byte string as
// flat emission, regardless of the encoder's own output chunk size or the
// buffer's native chunk size.
func TestChunkedVsFlatBufferEncodeToIdenticalBytes(t *testing.T) {
	data := make([]any, 37)
	for i := range data {
		data[i] = int32(i * 3)
	}

	flat := NewSliceBuffer(Int32, data)

	var flatBuf bytes.Buffer
	flatEnc := NewEncoder(&flatBuf, 0)
	require.NoError(t, flatEnc.EncodeArray(Int32, flat.Len(), flat.Values()))
	require.NoError(t, flatEnc.Close())

	for _, nativeChunk := range []int{1, 4, 10, 37, 100} {
		for _, outputChunk := range []int{0, 8, 1024} {
			chunked := NewChunkedBuffer(Int32, len(data), nativeChunk, func(start, n int) []any {
				return append([]any(nil), data[start:start+n]...)
			})

			var chunkedBuf bytes.Buffer
			chunkedEnc := NewEncoder(&chunkedBuf, outputChunk)
			require.NoError(t, chunkedEnc.EncodeArray(Int32, chunked.Len(), chunked.Values()))
			require.NoError(t, chunkedEnc.Close())

			assert.Equal(t, flatBuf.Bytes(), chunkedBuf.Bytes(),
				"native chunk size %d, output chunk size %d must reproduce flat encoding exactly", nativeChunk, outputChunk)
		}
	}
}

func TestNewChunkedBufferNonPositiveChunkSizeIsSingleChunk(t *testing.T) {
	data := []any{int32(1), int32(2), int32(3)}
	b := NewChunkedBuffer(Int32, len(data), 0, func(start, n int) []any {
		return append([]any(nil), data[start:start+n]...)
	})
	assert.Equal(t, 3, b.ChunkSize())
}
