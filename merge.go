package main

// MergeParams controls chain merging and redundancy pruning
type MergeParams struct {
	MaxSpan            float64 `toml:"max_span" json:"maxSpan"`
	PruneLength        float64 `toml:"prune_length" json:"pruneLength"`
	VerticalChainBonus float64 `toml:"vertical_chain_bonus" json:"verticalChainBonus"`
}

// DefaultMergeParams returns the calibrated merge thresholds
func DefaultMergeParams() MergeParams {
	return MergeParams{
		MaxSpan:            40,
		PruneLength:        20,
		VerticalChainBonus: 0.13,
	}
}

// MergedSegment is an output move: an untouched input segment or a chain of two
type MergedSegment struct {
	Segment
	Weight  float64 `json:"weight"`
	Sources []int   `json:"sources"`
	Merged  bool    `json:"merged"`
}

// MergeChains collapses collinear, head-to-tail connected pairs into single
// segments, then prunes short segments subsumed by a longer collinear one.
func MergeChains(weighted []WeightedSegment, tol Tolerance, params MergeParams) []MergedSegment {
	if len(weighted) == 0 {
		return nil
	}

	segments := make([]Segment, len(weighted))
	for i, ws := range weighted {
		segments[i] = ws.Segment
	}
	index := NewEndpointIndex(segments, tol)

	// First qualifying partner for every segment, -1 when none
	partner := make([]int, len(weighted))
	absorbed := make([]bool, len(weighted))
	for i := range weighted {
		partner[i] = findChainPartner(i, weighted, index, tol, params)
		if partner[i] >= 0 {
			absorbed[partner[i]] = true
		}
	}

	result := make([]MergedSegment, 0, len(weighted))
	for i, a := range weighted {
		if j := partner[i]; j >= 0 {
			b := weighted[j]
			weight := b.Weight
			if b.Kind == Vertical {
				weight = round3(weight + params.VerticalChainBonus)
			}
			result = append(result, MergedSegment{
				Segment: Segment{Start: a.Start, End: b.End},
				Weight:  weight,
				Sources: []int{a.Index, b.Index},
				Merged:  true,
			})
			continue
		}

		// A segment already carried inside a chain is not emitted twice
		if absorbed[i] {
			continue
		}
		result = append(result, MergedSegment{
			Segment: a.Segment,
			Weight:  a.Weight,
			Sources: []int{a.Index},
		})
	}

	return pruneSubsumed(result, tol, params)
}

// findChainPartner returns the first B, in input order, that continues A
func findChainPartner(i int, weighted []WeightedSegment, index *EndpointIndex, tol Tolerance, params MergeParams) int {
	a := weighted[i]

	if touchesHorizontal(a.End, weighted, index) {
		return -1
	}

	for _, j := range index.StartsAt(a.End) {
		if j == i {
			continue
		}
		b := weighted[j]

		if !SameDirection(a.Segment, b.Segment) {
			continue
		}
		if touchesHorizontal(b.Start, weighted, index) {
			continue
		}
		if a.Start.Distance(b.End) >= params.MaxSpan {
			continue
		}
		return j
	}
	return -1
}

// touchesHorizontal checks if p is an endpoint of any horizontal segment
func touchesHorizontal(p Point, weighted []WeightedSegment, index *EndpointIndex) bool {
	for _, j := range index.Touching(p) {
		if weighted[j].Kind == Horizontal {
			return true
		}
	}
	return false
}

// pruneSubsumed removes short segments covering exactly one half of a longer
// collinear segment. Removals are decided on a snapshot and applied once.
// Short segments of every kind are pruned, horizontal and vertical included,
// not only angled ones.
func pruneSubsumed(segments []MergedSegment, tol Tolerance, params MergeParams) []MergedSegment {
	if len(segments) <= 1 {
		return segments
	}

	removed := make([]bool, len(segments))

	for i := 0; i < len(segments); i++ {
		a := segments[i]
		if removed[i] || a.Length() <= params.PruneLength {
			continue
		}
		mid := a.Midpoint()

		for j := 0; j < len(segments); j++ {
			if i == j || removed[j] {
				continue
			}
			b := segments[j]
			if b.Length() >= params.PruneLength || !SameDirection(a.Segment, b.Segment) {
				continue
			}

			upperHalf := tol.PointsEqual(b.Start, mid) && tol.PointsEqual(b.End, a.End)
			lowerHalf := tol.PointsEqual(b.End, mid) && tol.PointsEqual(b.Start, a.Start)
			if upperHalf || lowerHalf {
				removed[j] = true
			}
		}
	}

	result := make([]MergedSegment, 0, len(segments))
	for i, seg := range segments {
		if !removed[i] {
			result = append(result, seg)
		}
	}
	return result
}

// MergedLinesAndWeights splits merged segments into the parallel output lists
func MergedLinesAndWeights(merged []MergedSegment) ([]Segment, []float64) {
	lines := make([]Segment, len(merged))
	weights := make([]float64, len(merged))
	for i, ms := range merged {
		lines[i] = ms.Segment
		weights[i] = ms.Weight
	}
	return lines, weights
}
