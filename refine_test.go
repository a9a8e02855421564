package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tiedStar() []WeightedSegment {
	return []WeightedSegment{
		{Segment: seg(0, 0, 0, 0, 0, 10), Kind: Vertical, Weight: 1, Index: 0},
		{Segment: seg(0, 0, 0, 5, 0, 5), Kind: Angled, Weight: 1, Index: 1},
		{Segment: seg(5, 0, 5, 0, 0, 10), Kind: Angled, Weight: 1, Index: 2},
		{Segment: seg(9, 9, 0, 9, 9, 3), Kind: Vertical, Weight: 4, Index: 3},
	}
}

func TestRefineTiesDisabled(t *testing.T) {
	in := tiedStar()
	out := RefineTies(in, DefaultTolerance(), DefaultRefineParams())
	assert.Equal(t, in, out)
}

func TestRefineTiesSinglePass(t *testing.T) {
	in := tiedStar()
	out := RefineTies(in, DefaultTolerance(), RefineParams{Passes: 1, Step: 0.05})

	// The vertical both shares its start and its end: +0.05 then -0.05
	assert.InDelta(t, 1.0, out[0].Weight, 1e-9)
	// Sharing the vertical's start pushes earlier, sharing its end pushes later
	assert.InDelta(t, 0.95, out[1].Weight, 1e-9)
	assert.InDelta(t, 1.05, out[2].Weight, 1e-9)
	// Not part of a tie
	assert.Equal(t, 4.0, out[3].Weight)

	assert.Equal(t, 1.0, in[1].Weight, "input is not modified")
}

func TestRefineTiesStopsWhenSettled(t *testing.T) {
	in := []WeightedSegment{
		{Segment: seg(0, 0, 0, 0, 0, 10), Kind: Vertical, Weight: 2, Index: 0},
		{Segment: seg(5, 5, 0, 5, 5, 10), Kind: Vertical, Weight: 2, Index: 1},
	}
	out := RefineTies(in, DefaultTolerance(), RefineParams{Passes: 10, Step: 0.05})

	// Tied but not touching, so nothing moves
	assert.Equal(t, in, out)
}
