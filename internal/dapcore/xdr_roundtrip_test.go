package dapcore

import (
	"bytes"
	"testing"

	xdr "github.com/rasky/go-xdr/xdr2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests decode this package's own encoder output with an independent
// reference XDR implementation, covering the "XDR round-trip" testable
// property: what this encoder writes must mean what RFC 4506 says it
// means, not just what this package's own decode path expects.

func TestXDRRoundTripScalarAgainstReferenceDecoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 0)
	require.NoError(t, enc.EncodeScalar(Int32, int32(-42)))
	require.NoError(t, enc.Close())

	var got int32
	_, err := xdr.Unmarshal(bytes.NewReader(buf.Bytes()), &got)
	require.NoError(t, err)
	assert.Equal(t, int32(-42), got)
}

func TestXDRRoundTripFloat64ScalarAgainstReferenceDecoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 0)
	require.NoError(t, enc.EncodeScalar(Float64, 3.25))
	require.NoError(t, enc.Close())

	var got float64
	_, err := xdr.Unmarshal(bytes.NewReader(buf.Bytes()), &got)
	require.NoError(t, err)
	assert.Equal(t, 3.25, got)
}

// The DAP wire format duplicates the element count ahead of array data
// (spec.md's non-standard duplicated length prefix); a standard XDR decoder
// only expects one, so the reference decode skips the first 4 bytes.
func TestXDRRoundTripArrayAgainstReferenceDecoderSkipsDuplicatePrefix(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 0)
	values := NewSliceBuffer(Float32, []any{float32(1.5), float32(2.5), float32(3.5)})
	require.NoError(t, enc.EncodeArray(Float32, values.Len(), values.Values()))
	require.NoError(t, enc.Close())

	standard := buf.Bytes()[4:]

	var got []float32
	_, err := xdr.Unmarshal(bytes.NewReader(standard), &got)
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5, 2.5, 3.5}, got)
}
