package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrder(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		want    []int
	}{
		{"empty", nil, []int{}},
		{"sorted", []float64{1, 2, 3}, []int{0, 1, 2}},
		{"reversed", []float64{3, 2, 1}, []int{2, 1, 0}},
		{"ties keep input order", []float64{3, 1, 2, 1}, []int{1, 3, 2, 0}},
		{"negative", []float64{-27.311, -29.481, -27.631}, []int{1, 2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Order(tt.weights))
		})
	}
}

func TestUncovered(t *testing.T) {
	nodes := []Point{
		{0, 0, 0},  // endpoint
		{0, 0, 10}, // endpoint
		{0, 0, 5},  // interior, absorbed by a chain
		{9, 9, 9},  // lost
	}
	segments := []Segment{seg(0, 0, 0, 0, 0, 10)}

	assert.Equal(t, []int{3}, Uncovered(nodes, segments, DefaultTolerance()))
}

func TestUncoveredAllCovered(t *testing.T) {
	nodes := []Point{{0, 0, 0}, {0, 0, 10}}
	segments := []Segment{seg(0, 0, 0, 0, 0, 10)}

	uncovered := Uncovered(nodes, segments, DefaultTolerance())
	assert.NotNil(t, uncovered)
	assert.Empty(t, uncovered)
}

func TestBraceOrder(t *testing.T) {
	horizontal := seg(9, 9, 0, 12, 9, 0)

	tests := []struct {
		name     string
		segments []Segment
		order    []int
		want     []int
	}{
		{
			name: "angled pulled behind the vertical it sits on",
			segments: []Segment{
				seg(0, 0, 0, 0, 0, 10),
				horizontal,
				seg(0, 0, 10, 5, 0, 20),
			},
			order: []int{0, 1, 2},
			want:  []int{0, 2, 1},
		},
		{
			name: "vertical pulled ahead of the angled landing on its base",
			segments: []Segment{
				seg(5, 0, 0, 0, 0, 10),
				horizontal,
				seg(0, 0, 10, 0, 0, 20),
			},
			order: []int{0, 1, 2},
			want:  []int{2, 0, 1},
		},
		{
			name: "unrelated segments keep their order",
			segments: []Segment{
				seg(0, 0, 0, 0, 0, 10),
				horizontal,
				seg(20, 0, 0, 25, 0, 10),
			},
			order: []int{2, 0, 1},
			want:  []int{2, 0, 1},
		},
		{
			name:     "empty",
			segments: nil,
			order:    []int{},
			want:     []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BraceOrder(tt.segments, tt.order, DefaultTolerance()))
		})
	}
}

func TestBraceOrderKeepsInput(t *testing.T) {
	segments := []Segment{
		seg(0, 0, 0, 0, 0, 10),
		seg(9, 9, 0, 12, 9, 0),
		seg(0, 0, 10, 5, 0, 20),
	}
	order := []int{0, 1, 2}

	out := BraceOrder(segments, order, DefaultTolerance())

	assert.Equal(t, []int{0, 1, 2}, order)
	assert.ElementsMatch(t, order, out, "a reorder is a permutation")
}
