// Package dap assembles the three DAP response bodies (DDS, DAS, DODS) by
// driving an internal/dapcore object tree through a parsed constraint
// expression. It is the response assembler spec.md calls C6: the object
// model itself stays constraint-agnostic (each node only knows how to emit
// its own declaration, attributes, and data), and this package decides, for
// a given constraint, which nodes participate and with what per-dimension
// slice.
package dap

import (
	"bytes"
	"fmt"
	"io"

	"github.com/opendap-go/dapserve/internal/dapcore"
)

// DDS renders the Dataset Descriptor Structure response body for the given
// raw constraint expression.
func DDS(ds *dapcore.Dataset, constraint string) ([]byte, error) {
	projections, err := dapcore.ParseConstraint(constraint)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := emitDatasetDDS(&buf, ds, projections); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DAS renders the Dataset Attribute Structure response body for the given
// raw constraint expression.
func DAS(ds *dapcore.Dataset, constraint string) ([]byte, error) {
	projections, err := dapcore.ParseConstraint(constraint)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := emitDatasetDAS(&buf, ds, projections); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DODS streams the combined DDS text + XDR binary response for the given
// raw constraint expression to w: "<DDS text>\nData:\r\n<XDR payload>",
// chunked through chunkSize so a large body never materializes fully in
// memory (a non-positive chunkSize falls back to the encoder's default).
func DODS(w io.Writer, ds *dapcore.Dataset, constraint string, chunkSize int) error {
	projections, err := dapcore.ParseConstraint(constraint)
	if err != nil {
		return err
	}

	if err := emitDatasetDDS(w, ds, projections); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\nData:\r\n"); err != nil {
		return err
	}

	enc := dapcore.NewEncoder(w, chunkSize)
	if err := emitDatasetData(enc, ds, projections); err != nil {
		return err
	}
	return enc.Close()
}

// gridMapCoverage returns the set of map Arrays owned by some top-level
// Grid child of ds. Those maps are also direct Dataset children (so their
// attribute blocks can be emitted independently in DAS -- see grid.go), but
// their declaration and data already appear once inside their owning
// Grid's "Maps:" section and data payload, so the DDS and data passes skip
// them at the top level to avoid emitting the same array twice.
func gridMapCoverage(ds *dapcore.Dataset) map[dapcore.Node]bool {
	covered := make(map[dapcore.Node]bool)
	for _, child := range ds.Children() {
		if g, ok := child.(*dapcore.Grid); ok {
			for _, m := range g.Maps() {
				covered[m] = true
			}
		}
	}
	return covered
}

func emitDatasetDDS(w io.Writer, ds *dapcore.Dataset, projections []dapcore.Projection) error {
	if _, err := fmt.Fprintf(w, "Dataset {\n"); err != nil {
		return err
	}
	covered := gridMapCoverage(ds)
	for _, child := range ds.Children() {
		if covered[child] {
			continue
		}
		if err := emitNodeDDS(w, child, projections, 1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "} %s;\n", dapcore.SanitizeName(ds.Name()))
	return err
}

// emitNodeDDS writes node's DDS declaration at depth if node's data path
// participates under projections, resolving any attached slice for Array
// and Grid nodes so their declared dimension lengths reflect the
// constraint rather than their full backing size.
func emitNodeDDS(w io.Writer, node dapcore.Node, projections []dapcore.Projection, depth int) error {
	path := dapcore.DataPath(node)
	if !dapcore.MeetsConstraint(path, projections) {
		return nil
	}

	switch n := node.(type) {
	case *dapcore.Array:
		dimSlices, err := resolveSlices(path, projections)
		if err != nil {
			return err
		}
		return n.EmitDDSSliced(w, depth, dimSlices)

	case *dapcore.Grid:
		arrayPath := path + "." + n.Array().Name()
		arraySlices, err := resolveSlices(arrayPath, projections)
		if err != nil {
			return err
		}
		if arraySlices == nil {
			if arraySlices, err = resolveSlices(path, projections); err != nil {
				return err
			}
		}
		return n.EmitDDSSliced(w, depth, arraySlices, mapSlicesFrom(n, arraySlices))

	default:
		return node.EmitDDS(w, depth)
	}
}

func emitDatasetData(enc *dapcore.Encoder, ds *dapcore.Dataset, projections []dapcore.Projection) error {
	covered := gridMapCoverage(ds)
	for _, child := range ds.Children() {
		if covered[child] {
			continue
		}
		if err := emitNodeData(enc, child, projections); err != nil {
			return err
		}
	}
	return nil
}

func emitNodeData(enc *dapcore.Encoder, node dapcore.Node, projections []dapcore.Projection) error {
	path := dapcore.DataPath(node)
	if !dapcore.MeetsConstraint(path, projections) {
		return nil
	}

	switch n := node.(type) {
	case *dapcore.Atom:
		return n.EmitData(enc)

	case *dapcore.Array:
		dimSlices, err := resolveSlices(path, projections)
		if err != nil {
			return err
		}
		return n.EmitData(enc, dimSlices)

	case *dapcore.Grid:
		arrayPath := path + "." + n.Array().Name()
		arraySlices, err := resolveSlices(arrayPath, projections)
		if err != nil {
			return err
		}
		if arraySlices == nil {
			if arraySlices, err = resolveSlices(path, projections); err != nil {
				return err
			}
		}
		return n.EmitData(enc, arraySlices, mapSlicesFrom(n, arraySlices))

	case *dapcore.Sequence:
		return n.EmitData(enc)

	case *dapcore.Structure:
		for _, c := range n.Children() {
			if err := emitNodeData(enc, c, projections); err != nil {
				return err
			}
		}
		return nil

	default:
		return nil
	}
}

// mapSlicesFrom builds per-map dimension slices for a Grid's maps from its
// array's resolved per-dimension slices: map i corresponds 1:1 to the
// array's dimension i, so it is sliced along that single dimension only.
func mapSlicesFrom(g *dapcore.Grid, arraySlices []dapcore.DimSlice) [][]dapcore.DimSlice {
	maps := g.Maps()
	mapSlices := make([][]dapcore.DimSlice, len(maps))
	for i := range maps {
		if i < len(arraySlices) {
			mapSlices[i] = []dapcore.DimSlice{arraySlices[i]}
		}
	}
	return mapSlices
}

// resolveSlices parses the slice suffix attached to dataPath under
// projections, if any. A dataPath with no attached slice resolves to a nil
// DimSlice list, which callers treat as "every index of every dimension".
func resolveSlices(dataPath string, projections []dapcore.Projection) ([]dapcore.DimSlice, error) {
	raw := dapcore.SliceFor(dataPath, projections)
	if raw == "" {
		return nil, nil
	}
	return dapcore.ParseSliceConstraint(raw)
}

// emitDatasetDAS writes the DAS response, omitting the attribute block of
// any top-level variable whose data path does not participate under the
// constraint (spec.md scenario S2: a constraint naming only a Grid's array
// member still excludes its unrelated sibling variables' DAS sections). The
// outer "Attributes { }" wrapper is written unconditionally, even when no
// child participates, matching the original DAPObject.das algorithm's
// unconditional head+tail (the Dataset itself always meets its own
// constraint, so it always reaches the point of emitting its wrapper).
func emitDatasetDAS(w io.Writer, ds *dapcore.Dataset, projections []dapcore.Projection) error {
	var inner bytes.Buffer
	for _, child := range ds.Children() {
		if !dapcore.MeetsConstraint(dapcore.DataPath(child), projections) {
			continue
		}
		if err := child.EmitDAS(&inner, 1); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Attributes {\n"); err != nil {
		return err
	}
	if _, err := w.Write(inner.Bytes()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "}\n")
	return err
}
