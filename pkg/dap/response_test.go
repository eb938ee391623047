package dap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendap-go/dapserve/internal/dapcore"
)

// buildScenarioDataset constructs the "test" dataset spec.md's S1/S2
// scenarios walk through: Int16 x[3] and y[3] coordinate arrays, an
// Int32 z Grid over [x, y], with units/size attributes.
func buildScenarioDataset(t *testing.T) *dapcore.Dataset {
	t.Helper()

	xBuf := dapcore.NewSliceBuffer(dapcore.Int16, []any{int16(0), int16(1), int16(2)})
	xArr, err := dapcore.NewArray("x", dapcore.Int16, []dapcore.Dimension{{Name: "x", Size: 3}}, xBuf)
	require.NoError(t, err)
	xArr.AddAttribute(dapcore.NewAttribute("units", dapcore.String, "second"))

	yBuf := dapcore.NewSliceBuffer(dapcore.Int16, []any{int16(0), int16(1), int16(2)})
	yArr, err := dapcore.NewArray("y", dapcore.Int16, []dapcore.Dimension{{Name: "y", Size: 3}}, yBuf)
	require.NoError(t, err)

	zBuf := dapcore.NewSliceBuffer(dapcore.Int32, []any{
		int32(0), int32(1), int32(2),
		int32(3), int32(4), int32(5),
		int32(6), int32(7), int32(8),
	})
	zArr, err := dapcore.NewArray("z", dapcore.Int32, []dapcore.Dimension{{Name: "x", Size: 3}, {Name: "y", Size: 3}}, zBuf)
	require.NoError(t, err)

	grid, err := dapcore.NewGrid("z", zArr, []*dapcore.Array{xArr, yArr})
	require.NoError(t, err)
	grid.AddAttribute(dapcore.NewAttribute("size", dapcore.Float64, "4.0"))

	ds := dapcore.NewDataset("test")
	ds.AddChild(xArr)
	ds.AddChild(yArr)
	ds.AddChild(grid)
	return ds
}

func TestDDSUnconstrainedOmitsDuplicateGridMaps(t *testing.T) {
	ds := buildScenarioDataset(t)

	out, err := DDS(ds, "")
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "Grid {\n")
	assert.Contains(t, text, "Int32 z[x = 3][y = 3];\n")
	assert.Contains(t, text, "Int16 x[x = 3];\n")
	assert.Contains(t, text, "Int16 y[y = 3];\n")
	assert.Equal(t, 1, strings.Count(text, "Int16 x[x = 3];\n"), "x is declared once, inside the Grid's Maps section, not again as a standalone top-level variable")
}

func TestDASUnconstrainedEmitsEmptyWrapperForAttributelessVariable(t *testing.T) {
	ds := buildScenarioDataset(t)

	out, err := DAS(ds, "")
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "Attributes {\n")
	assert.Contains(t, text, "x {\n")
	assert.Contains(t, text, `String units "second";`)
	assert.Contains(t, text, "z {\n")
	assert.Contains(t, text, "Float64 size 4.0;")
	assert.Contains(t, text, "y {\n}\n", "y carries no attributes, but still gets an empty wrapper per the unconditional head+tail rule")
}

func TestDDSConstrainedToGridArrayMemberSlicesDims(t *testing.T) {
	ds := buildScenarioDataset(t)

	out, err := DDS(ds, "z.z[0][0]")
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "Int32 z[x = 1][y = 1];\n")
	assert.Contains(t, text, "Int16 x[x = 1];\n")
	assert.Contains(t, text, "Int16 y[y = 1];\n")
}

func TestDASConstrainedToGridArrayMemberOmitsSiblingSections(t *testing.T) {
	ds := buildScenarioDataset(t)

	out, err := DAS(ds, "z.z[0][0]")
	require.NoError(t, err)

	text := string(out)
	assert.NotContains(t, text, "x {\n")
	assert.NotContains(t, text, "y {\n")
	assert.Contains(t, text, "z {\n")
}

func TestDODSUnconstrainedOrdersGridArrayThenMaps(t *testing.T) {
	ds := buildScenarioDataset(t)

	var buf bytes.Buffer
	require.NoError(t, DODS(&buf, ds, "", 0))

	out := buf.String()
	dataIdx := strings.Index(out, "\nData:\r\n")
	require.GreaterOrEqual(t, dataIdx, 0)

	payload := []byte(out[dataIdx+len("\nData:\r\n"):])
	// z: 8(dup count)+9*4=44, x: 8+3*4=20, y: 8+3*4=20
	assert.Len(t, payload, 44+20+20)
}

func TestDODSConstrainedEmitsOneElementPayloads(t *testing.T) {
	ds := buildScenarioDataset(t)

	var buf bytes.Buffer
	require.NoError(t, DODS(&buf, ds, "z.z[0][0]", 0))

	out := buf.String()
	dataIdx := strings.Index(out, "\nData:\r\n")
	require.GreaterOrEqual(t, dataIdx, 0)

	payload := []byte(out[dataIdx+len("\nData:\r\n"):])
	// z[0][0]: 8+4, x[0]: 8+4, y[0]: 8+4
	assert.Len(t, payload, 12+12+12)
}

func TestDatasetWithNoChildrenProducesEmptyWrapper(t *testing.T) {
	ds := dapcore.NewDataset("empty")

	dds, err := DDS(ds, "")
	require.NoError(t, err)
	assert.Equal(t, "Dataset {\n} empty;\n", string(dds))

	das, err := DAS(ds, "")
	require.NoError(t, err)
	assert.Equal(t, "Attributes {\n}\n", string(das), "the wrapper is written unconditionally, even with no children")

	var buf bytes.Buffer
	require.NoError(t, DODS(&buf, ds, "", 0))
	assert.Equal(t, "Dataset {\n} empty;\n\nData:\r\n", buf.String())
}
