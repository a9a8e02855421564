package main

import (
	"cmp"
	"slices"
)

// Order returns segment positions sorted by ascending weight.
// Equal weights keep input order.
func Order(weights []float64) []int {
	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(weights[a], weights[b])
	})

	return order
}

// Uncovered returns the nodes that are no longer an endpoint of, or lying on,
// any output segment. An empty result means merging lost no connectivity.
func Uncovered(nodes []Point, segments []Segment, tol Tolerance) []int {
	index := NewEndpointIndex(segments, tol)
	uncovered := make([]int, 0)

	for i, p := range nodes {
		if len(index.Touching(p)) > 0 {
			continue
		}

		covered := false
		for _, seg := range segments {
			if tol.OnSegment(p, seg) {
				covered = true
				break
			}
		}
		if !covered {
			uncovered = append(uncovered, i)
		}
	}

	return uncovered
}

// BraceOrder adjusts a print order so bracing prints beside its vertical.
// Walking the order front to back:
//   - after a vertical, the first later angled segment touching its top is
//     pulled in directly behind it;
//   - before an angled segment, the first later vertical touching its top is
//     pulled in directly ahead of it, and that vertical is then revisited.
//
// Every segment is pulled at most once, which bounds the walk. The input
// order is not modified.
func BraceOrder(segments []Segment, order []int, tol Tolerance) []int {
	out := slices.Clone(order)

	canonical := make([]Segment, len(segments))
	kinds := make([]Kind, len(segments))
	for i, s := range segments {
		canonical[i] = s.Canonical()
		kinds[i] = tol.Classify(canonical[i])
	}
	touchesTop := func(candidate int, top Point) bool {
		c := canonical[candidate]
		return tol.PointsEqual(c.Start, top) || tol.PointsEqual(c.End, top)
	}

	pulled := make([]bool, len(segments))
	move := func(from, to int) {
		seg := out[from]
		pulled[seg] = true
		out = slices.Delete(out, from, from+1)
		out = slices.Insert(out, to, seg)
	}

	for i := 0; i < len(out); i++ {
		current := out[i]
		top := canonical[current].End

		switch kinds[current] {
		case Vertical:
			for j := i + 1; j < len(out); j++ {
				if c := out[j]; !pulled[c] && kinds[c] == Angled && touchesTop(c, top) {
					move(j, i+1)
					break
				}
			}

		case Angled:
			for j := i + 1; j < len(out); j++ {
				if c := out[j]; !pulled[c] && kinds[c] == Vertical && touchesTop(c, top) {
					move(j, i)
					i-- // revisit the vertical now at position i
					break
				}
			}
		}
	}

	return out
}
