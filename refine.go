package main

import "slices"

// RefineParams controls tie refinement; zero passes disables it
type RefineParams struct {
	Passes int     `toml:"passes" json:"passes"`
	Step   float64 `toml:"step" json:"step"`
}

// DefaultRefineParams returns refinement switched off with the usual step
func DefaultRefineParams() RefineParams {
	return RefineParams{Passes: 0, Step: 0.05}
}

// RefineTies nudges segments that share a weight so verticals and the members
// hanging off them no longer tie. Each pass regroups by the current weights.
func RefineTies(weighted []WeightedSegment, tol Tolerance, params RefineParams) []WeightedSegment {
	out := slices.Clone(weighted)

	for pass := 0; pass < params.Passes; pass++ {
		groups := make(map[float64][]int)
		for i, ws := range out {
			groups[ws.Weight] = append(groups[ws.Weight], i)
		}

		// Visit groups in ascending weight so the result does not depend on map order
		keys := make([]float64, 0, len(groups))
		for w, members := range groups {
			if len(members) > 1 {
				keys = append(keys, w)
			}
		}
		slices.Sort(keys)

		delta := make([]float64, len(out))
		for _, w := range keys {
			refineGroup(out, groups[w], delta, tol, params.Step)
		}

		changed := false
		for i := range out {
			if delta[i] != 0 {
				out[i].Weight = round3(out[i].Weight + delta[i])
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return out
}

// refineGroup accumulates nudges for one group of equal-weight segments
func refineGroup(segments []WeightedSegment, members []int, delta []float64, tol Tolerance, step float64) {
	for _, v := range members {
		if segments[v].Kind != Vertical {
			continue
		}
		vertical := segments[v]

		startHit := false
		for _, m := range members {
			if m != v && tol.PointsEqual(segments[m].Start, vertical.Start) {
				delta[m] -= step
				startHit = true
			}
		}
		if startHit {
			delta[v] += step
		}

		endHit := false
		for _, m := range members {
			if m != v && tol.PointsEqual(segments[m].End, vertical.End) {
				delta[m] += step
				endHit = true
			}
		}
		if endHit {
			delta[v] -= step
		}
	}
}
