// Package demo builds the sample "test" dataset used by cmd/dapserve: Int16
// x[3] and y[3] coordinate arrays and an Int32 z Grid over [x, y], the same
// topology spec.md's S1/S2 scenarios walk through.
package demo

import "github.com/opendap-go/dapserve/internal/dapcore"

// Dataset builds a fresh "test" Dataset. Returns an error only if the
// object model's own invariants are violated, which cannot happen for this
// fixed, known-good topology; callers may safely ignore it in practice, but
// it is still surfaced rather than panicking.
func Dataset() (*dapcore.Dataset, error) {
	xBuf := dapcore.NewSliceBuffer(dapcore.Int16, []any{int16(0), int16(1), int16(2)})
	xArr, err := dapcore.NewArray("x", dapcore.Int16, []dapcore.Dimension{{Name: "x", Size: 3}}, xBuf)
	if err != nil {
		return nil, err
	}
	xArr.AddAttribute(dapcore.NewAttribute("units", dapcore.String, "second"))

	yBuf := dapcore.NewSliceBuffer(dapcore.Int16, []any{int16(0), int16(1), int16(2)})
	yArr, err := dapcore.NewArray("y", dapcore.Int16, []dapcore.Dimension{{Name: "y", Size: 3}}, yBuf)
	if err != nil {
		return nil, err
	}
	zBuf := dapcore.NewSliceBuffer(dapcore.Int32, []any{
		int32(0), int32(1), int32(2),
		int32(3), int32(4), int32(5),
		int32(6), int32(7), int32(8),
	})
	zArr, err := dapcore.NewArray("z", dapcore.Int32, []dapcore.Dimension{{Name: "x", Size: 3}, {Name: "y", Size: 3}}, zBuf)
	if err != nil {
		return nil, err
	}

	grid, err := dapcore.NewGrid("z", zArr, []*dapcore.Array{xArr, yArr})
	if err != nil {
		return nil, err
	}
	grid.AddAttribute(dapcore.NewAttribute("size", dapcore.Float64, "4.0"))

	ds := dapcore.NewDataset("test")
	ds.AddChild(xArr)
	ds.AddChild(yArr)
	ds.AddChild(grid)
	return ds, nil
}
