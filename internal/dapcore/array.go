package dapcore

import (
	"fmt"
	"io"
	"iter"
)

// Dimension is one named, sized axis of an Array.
type Dimension struct {
	Name string
	Size int
}

// Array is a multi-dimensional DAP variable backed by a Buffer.
type Array struct {
	base
	attrHolder
	typ  Type
	dims []Dimension
	buf  Buffer
}

// NewArray builds an Array named name of the given type and dimensions,
// backed by buf. Returns an *Error(InternalInvariant) if buf's declared
// type or element count disagrees with dims.
func NewArray(name string, typ Type, dims []Dimension, buf Buffer) (*Array, error) {
	if buf.Type() != typ {
		return nil, newError(InternalInvariant, "array %q declares type %v but buffer holds %v", name, typ, buf.Type())
	}
	total := dimsElementCount(dims)
	if buf.Len() != total {
		return nil, newError(InternalInvariant, "array %q declares %d elements across dimensions but buffer has %d", name, total, buf.Len())
	}
	return &Array{base: base{name: name}, typ: typ, dims: dims, buf: buf}, nil
}

func dimsElementCount(dims []Dimension) int {
	total := 1
	for _, d := range dims {
		total *= d.Size
	}
	return total
}

func (a *Array) Kind() Kind             { return KindArray }
func (a *Array) Type() Type             { return a.typ }
func (a *Array) Dimensions() []Dimension { return a.dims }
func (a *Array) Buffer() Buffer         { return a.buf }

func (a *Array) EmitDDS(w io.Writer, depth int) error {
	label, ok := a.typ.DDSLabel()
	if !ok {
		return newError(UnsupportedType, "array %q has unknown type %v", a.name, a.typ)
	}
	dimsText := ""
	for _, d := range a.dims {
		dimsText += fmt.Sprintf("[%s = %d]", sanitizeName(d.Name), d.Size)
	}
	_, err := fmt.Fprintf(w, "%s%s %s%s;\n", indentString(depth), label, sanitizeName(a.name), dimsText)
	return err
}

func (a *Array) EmitDAS(w io.Writer, depth int) error {
	return a.emitAttrBlock(w, a.name, depth)
}

// ResolvedDims returns each dimension's length after applying dimSlices (a
// nil or short entry means the full dimension), in dimension order.
func (a *Array) ResolvedDims(dimSlices []DimSlice) ([]int, error) {
	sizes := make([]int, len(a.dims))
	for i, d := range a.dims {
		ds := DimSlice{Full: true}
		if i < len(dimSlices) {
			ds = dimSlices[i]
		}
		s, err := ds.Resolve(d.Size)
		if err != nil {
			return nil, err
		}
		sizes[i] = s.Len()
	}
	return sizes, nil
}

// EmitDDSSliced writes the array's DDS declaration using the lengths that
// result from applying dimSlices rather than each dimension's full declared
// size -- the shape a constrained response shows its client (e.g.
// "[x = 1][y = 1]" after a single-index projection).
func (a *Array) EmitDDSSliced(w io.Writer, depth int, dimSlices []DimSlice) error {
	label, ok := a.typ.DDSLabel()
	if !ok {
		return newError(UnsupportedType, "array %q has unknown type %v", a.name, a.typ)
	}
	sizes, err := a.ResolvedDims(dimSlices)
	if err != nil {
		return err
	}
	dimsText := ""
	for i, d := range a.dims {
		dimsText += fmt.Sprintf("[%s = %d]", sanitizeName(d.Name), sizes[i])
	}
	_, err = fmt.Fprintf(w, "%s%s %s%s;\n", indentString(depth), label, sanitizeName(a.name), dimsText)
	return err
}

// EmitData writes this array's DODS data section: the duplicated element
// count followed by the selected elements, applying dimSlices (one
// DimSlice per dimension, in order; a shorter dimSlices selects every
// index of the remaining trailing dimensions).
func (a *Array) EmitData(enc *Encoder, dimSlices []DimSlice) error {
	resolved := make([]Slice, len(a.dims))
	for i, d := range a.dims {
		ds := DimSlice{Full: true}
		if i < len(dimSlices) {
			ds = dimSlices[i]
		}
		s, err := ds.Resolve(d.Size)
		if err != nil {
			return err
		}
		resolved[i] = s
	}

	count := 1
	for _, s := range resolved {
		count *= s.Len()
	}

	return enc.EncodeArray(a.typ, count, flattenedSelect(a.dims, resolved, a.buf))
}

// flattenedSelect walks buf's flat element sequence once, converting each
// linear position into its multi-dimensional coordinate (row-major, same
// order as dims) and yielding only elements whose coordinate falls inside
// every dimension's resolved Slice. This keeps slicing lazy over buf
// without requiring Buffer to support random access.
func flattenedSelect(dims []Dimension, resolved []Slice, buf Buffer) iter.Seq[any] {
	return func(yield func(any) bool) {
		sizes := make([]int, len(dims))
		for i, d := range dims {
			sizes[i] = d.Size
		}
		coord := make([]int, len(dims))
		for v := range buf.Values() {
			if coordMatches(coord, resolved) {
				if !yield(v) {
					return
				}
			}
			incCoord(coord, sizes)
		}
	}
}

func coordMatches(coord []int, resolved []Slice) bool {
	for d, c := range coord {
		s := resolved[d]
		if c < s.Start || c >= s.Stop {
			return false
		}
		if (c-s.Start)%s.Stride != 0 {
			return false
		}
	}
	return true
}

func incCoord(coord []int, sizes []int) {
	for d := len(coord) - 1; d >= 0; d-- {
		coord[d]++
		if coord[d] < sizes[d] {
			return
		}
		coord[d] = 0
	}
}
