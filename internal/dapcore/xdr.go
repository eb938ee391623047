package dapcore

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// DefaultChunkSize is the default number of bytes an Encoder buffers
// before flushing to its writer, matching the reference encoder's
// DASK_ENCODE_CHUNK_SIZE default.
const DefaultChunkSize = 20_000_000

// Encoder writes DAP-flavored XDR (RFC 4506 big-endian scalars, plus DAP's
// non-standard duplicated length prefix ahead of array data) to an
// io.Writer. It buffers output and flushes once the buffer reaches
// ChunkSize bytes, bounding peak memory when a caller streams a very large
// Array or Grid.
type Encoder struct {
	w         io.Writer
	chunkSize int
	buf       []byte
	chunks    int
}

// NewEncoder builds an Encoder writing to w. A non-positive chunkSize
// falls back to DefaultChunkSize.
func NewEncoder(w io.Writer, chunkSize int) *Encoder {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Encoder{w: w, chunkSize: chunkSize, buf: make([]byte, 0, min(chunkSize, 4096))}
}

// Chunks returns the number of times Flush has actually written to the
// underlying writer so far, including the final Close flush.
func (e *Encoder) Chunks() int { return e.chunks }

func (e *Encoder) append(b []byte) error {
	e.buf = append(e.buf, b...)
	if len(e.buf) >= e.chunkSize {
		return e.Flush()
	}
	return nil
}

// Flush writes any buffered bytes to the underlying writer.
func (e *Encoder) Flush() error {
	if len(e.buf) == 0 {
		return nil
	}
	if _, err := e.w.Write(e.buf); err != nil {
		return wrapError(EncodingMismatch, err, "writing XDR chunk")
	}
	e.chunks++
	e.buf = e.buf[:0]
	return nil
}

// Close flushes any remaining buffered bytes. Callers must call Close (or
// a final Flush) once encoding is complete.
func (e *Encoder) Close() error {
	return e.Flush()
}

// EncodeRaw writes b directly to the encoder's buffer, unmodified. It
// exists for wire markers that are not themselves typed DAP values (the
// Sequence start/end-of-sequence markers).
func (e *Encoder) EncodeRaw(b []byte) error {
	return e.append(b)
}

// ValidateChunkSize reports whether n is usable as an Encoder chunk size.
// This is the validated-setter seam spec.md's
// set_dask_encoding_chunk_size calls for; pkg/dap.Config.SetChunkSize
// calls it before accepting a new configured value.
func ValidateChunkSize(n int) error {
	if n <= 0 {
		return newError(InternalInvariant, "chunk size must be positive, got %d", n)
	}
	return nil
}

// EncodeScalar writes a single value of the given type with no length
// prefix, e.g. a scalar Atom's DODS data section.
func (e *Encoder) EncodeScalar(typ Type, v any) error {
	b, err := encodeAtomValue(typ, v)
	if err != nil {
		return err
	}
	return e.append(b)
}

// EncodeArray writes the DAP array wire format for an ordered sequence of
// values: the element count written twice (DAP's duplicated length
// prefix), followed by each element's wire encoding in order.
func (e *Encoder) EncodeArray(typ Type, count int, values func(yield func(any) bool)) error {
	header := make([]byte, 8)
	binary.BigEndian.PutUint32(header[0:4], uint32(count))
	binary.BigEndian.PutUint32(header[4:8], uint32(count))
	if err := e.append(header); err != nil {
		return err
	}

	written := 0
	var encodeErr error
	values(func(v any) bool {
		b, err := encodeAtomValue(typ, v)
		if err != nil {
			encodeErr = err
			return false
		}
		if err := e.append(b); err != nil {
			encodeErr = err
			return false
		}
		written++
		return true
	})
	if encodeErr != nil {
		return encodeErr
	}
	if written != count {
		return newError(EncodingMismatch, "array declared %d elements but buffer yielded %d", count, written)
	}
	return nil
}

// encodeAtomValue renders one scalar value of typ as DAP-flavored XDR.
func encodeAtomValue(typ Type, v any) ([]byte, error) {
	switch typ {
	case Byte:
		// Byte is a true 1-byte value (types.go's FixedWidth reports 1), but
		// like every DAP atom it still occupies a 4-byte XDR slot: the value
		// goes in the first byte, left-justified, with three zero padding
		// bytes -- XDR's fixed-length-opaque convention, not the
		// right-justified convention used for the 4-byte integer types.
		n, ok := toUint64(v)
		if !ok {
			return nil, newError(EncodingMismatch, "value %v is not numeric for Byte", v)
		}
		if n > math.MaxUint8 {
			return nil, newError(EncodingMismatch, "value %d overflows Byte", n)
		}
		return []byte{byte(n), 0, 0, 0}, nil

	case Int16, Int32:
		n, ok := toInt64(v)
		if !ok {
			return nil, newError(EncodingMismatch, "value %v is not numeric for %s", v, typ)
		}
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, uint32(int32(n)))
		return buf, nil

	case UInt16, UInt32:
		n, ok := toUint64(v)
		if !ok {
			return nil, newError(EncodingMismatch, "value %v is not numeric for %s", v, typ)
		}
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, uint32(n))
		return buf, nil

	case Float32:
		f, ok := toFloat64(v)
		if !ok {
			return nil, newError(EncodingMismatch, "value %v is not numeric for Float32", v)
		}
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, math.Float32bits(float32(f)))
		return buf, nil

	case Float64:
		f, ok := toFloat64(v)
		if !ok {
			return nil, newError(EncodingMismatch, "value %v is not numeric for Float64", v)
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, math.Float64bits(f))
		return buf, nil

	case String, URL:
		s, ok := v.(string)
		if !ok {
			return nil, newError(EncodingMismatch, "value %v is not a string for %s", v, typ)
		}
		return encodeXDRString(s), nil

	default:
		return nil, newError(UnsupportedType, "cannot encode unknown type %v", typ)
	}
}

// encodeXDRString renders an XDR variable-length string: a 4-byte length
// prefix followed by the bytes, zero-padded to a 4-byte boundary.
func encodeXDRString(s string) []byte {
	data := []byte(s)
	padded := (len(data) + 3) &^ 3
	buf := make([]byte, 4+padded)
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(data)))
	copy(buf[4:], data)
	return buf
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}

func toUint64(v any) (uint64, bool) {
	n, ok := toInt64(v)
	if !ok {
		return 0, false
	}
	return uint64(n), true
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		if i, ok := toInt64(v); ok {
			return float64(i), true
		}
		return 0, false
	}
}

// DebugString is a small helper used by package tests to render an
// encoded byte slice for assertion failure messages.
func DebugString(b []byte) string {
	return fmt.Sprintf("% x", b)
}
