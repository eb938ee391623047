package dapcore

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeScalarInt32(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 0)
	require.NoError(t, enc.EncodeScalar(Int32, int32(7)))
	require.NoError(t, enc.Close())

	want := make([]byte, 4)
	binary.BigEndian.PutUint32(want, 7)
	assert.Equal(t, want, buf.Bytes())
}

func TestEncodeScalarFloat32Zero(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 0)
	require.NoError(t, enc.EncodeScalar(Float32, float32(0)))
	require.NoError(t, enc.Close())

	assert.Equal(t, []byte{0, 0, 0, 0}, buf.Bytes())
}

func TestEncodeScalarFloat64(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 0)
	require.NoError(t, enc.EncodeScalar(Float64, 4.0))
	require.NoError(t, enc.Close())

	want := make([]byte, 8)
	binary.BigEndian.PutUint64(want, math.Float64bits(4.0))
	assert.Equal(t, want, buf.Bytes())
}

func TestEncodeScalarInt16UsesFourBytes(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 0)
	require.NoError(t, enc.EncodeScalar(Int16, int16(-1)))
	require.NoError(t, enc.Close())

	assert.Len(t, buf.Bytes(), 4)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, buf.Bytes())
}

func TestEncodeScalarByteIsOneSignificantByteLeftJustified(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 0)
	require.NoError(t, enc.EncodeScalar(Byte, uint8(0x7f)))
	require.NoError(t, enc.Close())

	assert.Equal(t, []byte{0x7f, 0, 0, 0}, buf.Bytes(), "Byte occupies a 4-byte XDR slot but is left-justified, not right-justified like the 4-byte integer types")
}

func TestEncodeScalarByteRejectsOverflow(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 0)
	err := enc.EncodeScalar(Byte, 256)
	require.Error(t, err)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, EncodingMismatch, derr.Code)
}

func TestEncodeArrayOfBytes(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 0)
	buffer := NewSliceBuffer(Byte, []any{uint8(1), uint8(2), uint8(3)})

	err := enc.EncodeArray(Byte, buffer.Len(), buffer.Values())
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	out := buf.Bytes()
	require.Len(t, out, 8+3*4)
	assert.Equal(t, []byte{1, 0, 0, 0}, out[8:12])
	assert.Equal(t, []byte{2, 0, 0, 0}, out[12:16])
	assert.Equal(t, []byte{3, 0, 0, 0}, out[16:20])
}

func TestEncodeScalarString(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 0)
	require.NoError(t, enc.EncodeScalar(String, "second"))
	require.NoError(t, enc.Close())

	out := buf.Bytes()
	length := binary.BigEndian.Uint32(out[0:4])
	assert.Equal(t, uint32(6), length)
	assert.Equal(t, "second", string(out[4:10]))
	assert.Equal(t, 0, len(out)%4, "string data is padded to a 4-byte boundary")
}

func TestEncodeArrayDuplicatesLengthPrefix(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 0)
	buffer := NewSliceBuffer(Int32, []any{int32(1), int32(2), int32(3)})

	err := enc.EncodeArray(Int32, buffer.Len(), buffer.Values())
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	out := buf.Bytes()
	require.Len(t, out, 8+3*4)
	assert.Equal(t, uint32(3), binary.BigEndian.Uint32(out[0:4]))
	assert.Equal(t, uint32(3), binary.BigEndian.Uint32(out[4:8]))
	assert.Equal(t, int32(1), int32(binary.BigEndian.Uint32(out[8:12])))
	assert.Equal(t, int32(2), int32(binary.BigEndian.Uint32(out[12:16])))
	assert.Equal(t, int32(3), int32(binary.BigEndian.Uint32(out[16:20])))
}

func TestEncodeArrayElementCountMismatch(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 0)
	buffer := NewSliceBuffer(Int32, []any{int32(1), int32(2)})

	err := enc.EncodeArray(Int32, 5, buffer.Values())
	require.Error(t, err)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, EncodingMismatch, derr.Code)
}

func TestEncoderFlushesAtChunkSize(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 8) // flush every 8 bytes

	for i := 0; i < 5; i++ {
		require.NoError(t, enc.EncodeScalar(Int32, int32(i)))
	}
	// 5 * 4 = 20 bytes, chunk size 8 => at least two flushes before Close
	require.GreaterOrEqual(t, enc.Chunks(), 2)
	require.NoError(t, enc.Close())
	assert.Len(t, buf.Bytes(), 20)
}

func TestValidateChunkSize(t *testing.T) {
	assert.NoError(t, ValidateChunkSize(1))
	assert.Error(t, ValidateChunkSize(0))
	assert.Error(t, ValidateChunkSize(-1))
}
