package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportSegments(t *testing.T) {
	lines := []Segment{
		seg(0, 0, 0, 0, 0, 10),
		seg(0, 0, 3, 4, 0, 3),
		seg(0, 0, 10, 5, 0, 0),
	}
	weights := []float64{-27.4, -29.5, -27.6}
	order := Order(weights)

	exported := ExportSegments(lines, weights, order, DefaultTolerance())
	require.Len(t, exported, 3)

	assert.Equal(t, Vertical, exported[0].Kind)
	assert.Equal(t, Horizontal, exported[1].Kind)
	assert.Equal(t, Angled, exported[2].Kind)

	assert.Equal(t, 3, exported[0].Order)
	assert.Equal(t, 1, exported[1].Order)
	assert.Equal(t, 2, exported[2].Order)
}

func TestToFeatureCollection(t *testing.T) {
	exported := []ExportedSegment{
		{Segment: seg(0, 0, 0, 0, 0, 10), Weight: -27.411, Kind: Vertical, Order: 1},
		{Segment: seg(0, 0, 3, 4, 0, 3), Weight: -29.481, Kind: Horizontal},
	}
	fc := ToFeatureCollection(exported)
	require.Len(t, fc.Features, 2)

	props := fc.Features[0].Properties
	assert.Equal(t, []float64{0, 10}, props["z"])
	assert.Equal(t, -27.411, props["weight"])
	assert.Equal(t, "vertical", props["kind"])
	assert.Equal(t, 1, props["order"])

	_, hasOrder := fc.Features[1].Properties["order"]
	assert.False(t, hasOrder)
}

func TestGeoJSONRoundTripKeepsHeights(t *testing.T) {
	lines := []Segment{seg(0, 0, 0, 5, 0, 10)}
	exported := ExportSegments(lines, []float64{1}, []int{0}, DefaultTolerance())

	path := filepath.Join(t.TempDir(), "out.geojson")
	require.NoError(t, SaveGeoJSON(exported, path))

	lattice, err := LoadLattice(path, "", DefaultTolerance(), quietLogger())
	require.NoError(t, err)
	assert.Equal(t, lines, lattice.Segments)
}

func TestWeightBand(t *testing.T) {
	assert.Equal(t, 0, weightBand(0, 0, 10, 5))
	assert.Equal(t, 2, weightBand(5, 0, 10, 5))
	assert.Equal(t, 4, weightBand(10, 0, 10, 5), "the maximum falls in the last band")
	assert.Equal(t, 0, weightBand(3, 3, 3, 5), "a single weight uses the first band")
}

func TestSaveWeightedDXF(t *testing.T) {
	exported := []ExportedSegment{
		{Segment: seg(0, 0, 0, 0, 0, 10), Weight: -27.4},
		{Segment: seg(0, 0, 10, 0, 0, 20), Weight: -17.4},
	}
	path := filepath.Join(t.TempDir(), "weights.dxf")
	require.NoError(t, SaveWeightedDXF(exported, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "band-0")
	assert.Contains(t, content, "band-4")
	assert.Contains(t, content, "LINE")

	assert.ErrorIs(t, SaveWeightedDXF(nil, path), ErrEmptyInput)
}

func TestVisitedDXF(t *testing.T) {
	nodes, segments := triangleAndBar()
	g := BuildGraph(nodes, segments, DefaultTolerance(), quietLogger())

	drawing, err := NewVisitedDXF()
	require.NoError(t, err)

	visited, err := Traverse(t.Context(), g, TraverseOptions{Visit: drawing.Visit, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, len(visited), drawing.Lines())

	path := filepath.Join(t.TempDir(), "visited.dxf")
	require.NoError(t, drawing.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), VisitedLayer)
}
