package dapcore

import (
	"fmt"
	"io"
)

// Grid is a DAP Array paired with one coordinate Array ("map") per
// dimension. The maps are the same Array nodes also reachable as their
// own top-level Dataset children: a Grid only borrows them for its own
// DDS "Maps:" listing, it does not own or reparent them. No Grid method
// computes a data_path for a map or touches the map's own parent link,
// so the map keeps its independent identity and data_path when walked
// directly from the Dataset.
type Grid struct {
	base
	attrHolder
	array *Array
	maps  []*Array
}

// NewGrid builds a Grid named name wrapping array, with one map Array per
// dimension of array, in dimension order. Returns
// *Error(InternalInvariant) if the map count does not match array's
// dimension count.
func NewGrid(name string, array *Array, maps []*Array) (*Grid, error) {
	if len(maps) != len(array.Dimensions()) {
		return nil, newError(InternalInvariant, "grid %q has %d dimensions but %d maps", name, len(array.Dimensions()), len(maps))
	}
	return &Grid{base: base{name: name}, array: array, maps: maps}, nil
}

func (g *Grid) Kind() Kind       { return KindGrid }
func (g *Grid) Array() *Array    { return g.array }
func (g *Grid) Maps() []*Array   { return g.maps }

func (g *Grid) EmitDDS(w io.Writer, depth int) error {
	if _, err := fmt.Fprintf(w, "%sGrid {\n", indentString(depth)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s  Array:\n", indentString(depth)); err != nil {
		return err
	}
	if err := g.array.EmitDDS(w, depth+1); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s  Maps:\n", indentString(depth)); err != nil {
		return err
	}
	for _, m := range g.maps {
		if err := m.EmitDDS(w, depth+1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s} %s;\n", indentString(depth), sanitizeName(g.name))
	return err
}

// EmitDDSSliced writes the Grid's DDS declaration with its Array and Maps
// shown at their sliced (rather than full) sizes, mirroring
// Array.EmitDDSSliced. mapSlices[i] applies to maps[i]; a short or nil
// mapSlices entry means that map's full dimension.
func (g *Grid) EmitDDSSliced(w io.Writer, depth int, arraySlices []DimSlice, mapSlices [][]DimSlice) error {
	if _, err := fmt.Fprintf(w, "%sGrid {\n", indentString(depth)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s  Array:\n", indentString(depth)); err != nil {
		return err
	}
	if err := g.array.EmitDDSSliced(w, depth+1, arraySlices); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s  Maps:\n", indentString(depth)); err != nil {
		return err
	}
	for i, m := range g.maps {
		var slices []DimSlice
		if i < len(mapSlices) {
			slices = mapSlices[i]
		}
		if err := m.EmitDDSSliced(w, depth+1, slices); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s} %s;\n", indentString(depth), sanitizeName(g.name))
	return err
}

// EmitDAS writes the Grid's own attribute block. Its Array and Maps
// either carry no separately-addressable attributes of their own in this
// model (the Array shares the Grid's semantic attributes) or, for maps
// that are also independent Dataset children, are emitted once by the
// Dataset's own top-level walk — so Grid does not re-emit them here.
func (g *Grid) EmitDAS(w io.Writer, depth int) error {
	return g.emitAttrBlock(w, g.name, depth)
}

// EmitData writes the Grid's DODS data section: the Array's data followed
// by each map's data, applying arraySlices to the array and
// mapSlices[i] to maps[i] (nil entries mean "every index").
func (g *Grid) EmitData(enc *Encoder, arraySlices []DimSlice, mapSlices [][]DimSlice) error {
	if err := g.array.EmitData(enc, arraySlices); err != nil {
		return err
	}
	for i, m := range g.maps {
		var slices []DimSlice
		if i < len(mapSlices) {
			slices = mapSlices[i]
		}
		if err := m.EmitData(enc, slices); err != nil {
			return err
		}
	}
	return nil
}
