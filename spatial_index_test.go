package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpointIndex(t *testing.T) {
	segments := []Segment{
		seg(0, 0, 0, 0, 0, 10),  // 0
		seg(0, 0, 10, 5, 0, 20), // 1
		seg(5, 0, 0, 0, 0, 10),  // 2
		seg(0, 0, 0, 5, 0, 0),   // 3
	}
	index := NewEndpointIndex(segments, DefaultTolerance())

	assert.Equal(t, []int{0, 3}, index.StartsAt(Point{0, 0, 0}))
	assert.Equal(t, []int{1}, index.StartsAt(Point{0, 0, 10}))
	assert.Equal(t, []int{0, 2}, index.EndsAt(Point{0, 0, 10}))
	assert.Equal(t, []int{0, 1, 2}, index.Touching(Point{0, 0, 10}))
	assert.Empty(t, index.StartsAt(Point{9, 9, 9}))
}

func TestEndpointIndexTolerance(t *testing.T) {
	segments := []Segment{
		seg(1.001, 2.002, 3, 4, 4, 4),
		seg(1.2, 2, 3, 4, 4, 4),
	}
	index := NewEndpointIndex(segments, DefaultTolerance())

	assert.Equal(t, []int{0}, index.StartsAt(Point{1, 2, 3}), "near points match, far points do not")
	assert.Equal(t, []int{0, 1}, index.EndsAt(Point{4, 4, 4}))
}

func TestEndpointIndexShortSegment(t *testing.T) {
	// Both endpoints fall in the same cell; the segment is reported once
	segments := []Segment{seg(0, 0, 0, 0, 0, 0.001)}
	index := NewEndpointIndex(segments, DefaultTolerance())

	assert.Equal(t, []int{0}, index.Touching(Point{0, 0, 0}))
}
