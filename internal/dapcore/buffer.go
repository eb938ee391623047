package dapcore

import "iter"

// Buffer supplies the scalar data backing an Array or Grid. It is
// deliberately the only seam between dapcore and an actual numerical
// array library (numpy/dask equivalents), which this package does not
// depend on: any type that can report its element Type, its element
// count, and yield values lazily can back an Array.
type Buffer interface {
	Type() Type
	Len() int
	// Values yields this buffer's elements in order. Implementations
	// should support being ranged over more than once (DDS emission
	// never reads data, but DODS emission and test assertions both may
	// want to walk the same buffer independently).
	Values() iter.Seq[any]
}

// SliceBuffer is an in-memory Buffer backed by a concrete slice of Go
// scalars. It is the Buffer implementation the demo dataset and this
// package's own tests use; a production deployment would instead adapt a
// real array library's storage behind the Buffer interface.
type SliceBuffer struct {
	typ  Type
	data []any
}

// NewSliceBuffer builds a SliceBuffer. Every element of data must be a Go
// scalar accepted by FromPlatformType and consistent with typ.
func NewSliceBuffer(typ Type, data []any) *SliceBuffer {
	return &SliceBuffer{typ: typ, data: data}
}

func (b *SliceBuffer) Type() Type { return b.typ }
func (b *SliceBuffer) Len() int   { return len(b.data) }

func (b *SliceBuffer) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range b.data {
			if !yield(v) {
				return
			}
		}
	}
}

// ChunkedBuffer is a lazy, axis-0-chunked Buffer: a stand-in for a real
// array library's on-disk or networked storage, which cannot afford to
// materialize an entire array at once. It only ever holds one native chunk
// of elements in memory, fetched on demand via its fetch callback. This is distinct from
// Encoder's own DASK_ENCODE_CHUNK_SIZE output buffering: that bounds how
// much *encoded wire data* the encoder accumulates before flushing, while
// ChunkedBuffer bounds how much *source data* is pulled off the backing
// store at once. A dataset can combine both: a ChunkedBuffer with a large
// native chunk size feeding an Encoder with a smaller output chunk size, or
// vice versa.
type ChunkedBuffer struct {
	typ       Type
	length    int
	chunkSize int
	fetch     func(start, n int) []any
}

// NewChunkedBuffer builds a ChunkedBuffer of length elements of typ, native
// chunk size chunkSize, fetching each chunk lazily via fetch(start, n):
// fetch must return exactly n elements starting at offset start. A
// non-positive chunkSize is clamped to length (a single chunk).
func NewChunkedBuffer(typ Type, length, chunkSize int, fetch func(start, n int) []any) *ChunkedBuffer {
	if chunkSize <= 0 {
		chunkSize = length
	}
	return &ChunkedBuffer{typ: typ, length: length, chunkSize: chunkSize, fetch: fetch}
}

func (b *ChunkedBuffer) Type() Type     { return b.typ }
func (b *ChunkedBuffer) Len() int       { return b.length }
func (b *ChunkedBuffer) ChunkSize() int { return b.chunkSize }

// Values yields this buffer's elements in order, pulling one native chunk
// at a time from fetch and discarding it before pulling the next. The
// concatenation of chunks yielded here is required to equal, element for
// element, what a flat SliceBuffer over the same data would yield -- the
// "chunked-vs-flat equivalence" property the XDR encoder depends on to
// produce byte-identical output regardless of how its source buffer is
// shaped.
func (b *ChunkedBuffer) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for start := 0; start < b.length; start += b.chunkSize {
			n := b.chunkSize
			if start+n > b.length {
				n = b.length - start
			}
			for _, v := range b.fetch(start, n) {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// SlicedValues applies a resolved Slice to buf, yielding only the selected
// elements in order without materializing the unselected ones.
func SlicedValues(buf Buffer, s Slice) iter.Seq[any] {
	return func(yield func(any) bool) {
		i := 0
		for v := range buf.Values() {
			if i >= s.Stop {
				return
			}
			if i >= s.Start && (i-s.Start)%s.Stride == 0 {
				if !yield(v) {
					return
				}
			}
			i++
		}
	}
}
