package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignWeightsEmpty(t *testing.T) {
	weighted, err := AssignWeights(nil, DefaultTolerance(), DefaultWeightParams())
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Nil(t, weighted)
}

func TestAssignWeightsHorizontal(t *testing.T) {
	// Horizontal segments weigh their height plus the offset, whatever touches them
	segments := []Segment{
		seg(0, 0, 3, 4, 0, 3),
		seg(0, 0, 0, 0, 0, 3),
		seg(4, 0, 0, 4, 0, 3),
	}
	weighted, err := AssignWeights(segments, DefaultTolerance(), DefaultWeightParams())
	require.NoError(t, err)

	assert.Equal(t, Horizontal, weighted[0].Kind)
	assert.InDelta(t, -29.481, weighted[0].Weight, 1e-9)
}

func TestAssignWeightsIsolatedVertical(t *testing.T) {
	// Only the unsupported top bonus applies
	weighted, err := AssignWeights([]Segment{seg(0, 0, 0, 0, 0, 10)}, DefaultTolerance(), DefaultWeightParams())
	require.NoError(t, err)

	require.Len(t, weighted, 1)
	assert.Equal(t, Vertical, weighted[0].Kind)
	assert.InDelta(t, -27.411, weighted[0].Weight, 1e-9)
}

func TestAssignWeightsCanonicalizes(t *testing.T) {
	weighted, err := AssignWeights([]Segment{seg(0, 0, 10, 0, 0, 0)}, DefaultTolerance(), DefaultWeightParams())
	require.NoError(t, err)

	assert.Equal(t, Point{0, 0, 0}, weighted[0].Start)
	assert.Equal(t, Point{0, 0, 10}, weighted[0].End)
	assert.Equal(t, 0, weighted[0].Index)
}

func TestAssignWeightsSharedBase(t *testing.T) {
	// A vertical and an angled member leave the same node
	segments := []Segment{
		seg(0, 0, 0, 0, 0, 10), // vertical
		seg(0, 0, 0, 5, 0, 10), // angled
	}

	t.Run("inherit at end", func(t *testing.T) {
		weighted, err := AssignWeights(segments, DefaultTolerance(), DefaultWeightParams())
		require.NoError(t, err)

		// vertical: start bonus 0.1 and unsupported top 0.07
		assert.InDelta(t, -27.311, weighted[0].Weight, 1e-9)
		// angled: start penalty only; no vertical ends where it ends
		assert.InDelta(t, -27.631, weighted[1].Weight, 1e-9)
	})

	t.Run("inherit at start", func(t *testing.T) {
		params := DefaultWeightParams()
		params.InheritAnchor = AnchorStart

		weighted, err := AssignWeights(segments, DefaultTolerance(), params)
		require.NoError(t, err)

		assert.InDelta(t, -27.311, weighted[0].Weight, 1e-9)
		// start penalty plus the vertical's start bonus
		assert.InDelta(t, -27.531, weighted[1].Weight, 1e-9)
	})
}

func TestAssignWeightsSharedTop(t *testing.T) {
	// An angled member lands on top of a vertical
	segments := []Segment{
		seg(0, 0, 0, 0, 0, 10), // vertical
		seg(5, 0, 0, 0, 0, 10), // angled
	}
	weighted, err := AssignWeights(segments, DefaultTolerance(), DefaultWeightParams())
	require.NoError(t, err)

	// vertical: end bonus, and the top is supported so no top bonus
	assert.InDelta(t, -27.431, weighted[0].Weight, 1e-9)
	// angled: end bonus for the vertical ending at its end
	assert.InDelta(t, -27.271, weighted[1].Weight, 1e-9)
}

func TestAssignWeightsInheritsAtEnd(t *testing.T) {
	// A1 braces off the vertical's base; A2 lands on its top
	segments := []Segment{
		seg(0, 0, 0, 0, 0, 10), // V
		seg(0, 0, 0, 5, 0, 5),  // A1
		seg(5, 0, 0, 0, 0, 10), // A2
	}
	weighted, err := AssignWeights(segments, DefaultTolerance(), DefaultWeightParams())
	require.NoError(t, err)

	// V: start bonus 0.1 and end bonus 0.05, top supported by A2
	assert.InDelta(t, -27.331, weighted[0].Weight, 1e-9)
	// A1: start penalty; no vertical ends where it ends, so nothing inherited
	assert.InDelta(t, -30.131, weighted[1].Weight, 1e-9)
	// A2: end bonus 0.21 plus V's start bonus 0.1
	assert.InDelta(t, -27.171, weighted[2].Weight, 1e-9)
}

func TestAssignWeightsHeightDominates(t *testing.T) {
	segments := []Segment{
		seg(0, 0, 20, 0, 0, 30),
		seg(0, 0, 0, 0, 0, 10),
		seg(0, 0, 10, 4, 0, 10),
	}
	weighted, err := AssignWeights(segments, DefaultTolerance(), DefaultWeightParams())
	require.NoError(t, err)

	assert.Greater(t, weighted[0].Weight, weighted[2].Weight)
	assert.Greater(t, weighted[2].Weight, weighted[1].Weight)
}

func TestAssignWeightsDeterministic(t *testing.T) {
	segments := []Segment{
		seg(0, 0, 0, 0, 0, 10),
		seg(0, 0, 0, 5, 0, 10),
		seg(5, 0, 10, 0, 0, 10),
		seg(5, 0, 0, 5, 0, 10),
		seg(0, 0, 10, 0, 0, 20),
	}

	first, err := AssignWeights(segments, DefaultTolerance(), DefaultWeightParams())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := AssignWeights(segments, DefaultTolerance(), DefaultWeightParams())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestLinesAndWeights(t *testing.T) {
	weighted, err := AssignWeights([]Segment{seg(0, 0, 0, 0, 0, 10), seg(0, 0, 3, 4, 0, 3)}, DefaultTolerance(), DefaultWeightParams())
	require.NoError(t, err)

	lines, weights := LinesAndWeights(weighted)
	assert.Len(t, lines, 2)
	assert.Len(t, weights, 2)
	assert.Equal(t, weighted[1].Segment, lines[1])
	assert.Equal(t, weighted[1].Weight, weights[1])
}
