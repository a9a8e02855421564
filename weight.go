package main

import "fmt"

// Inheritance anchors for angled segments
const (
	AnchorEnd   = "end"
	AnchorStart = "start"
)

// WeightParams holds the tuned priority nudges of the weighting heuristic.
// The values are empirical; nothing beyond their sign is meaningful.
// InheritAnchor defaults to AnchorEnd: an angled segment inherits the start
// bonus of a vertical ending where it ends. AnchorStart looks at its start.
type WeightParams struct {
	Offset              float64 `toml:"offset" json:"offset"`
	VerticalStartBonus  float64 `toml:"vertical_start_bonus" json:"verticalStartBonus"`
	VerticalEndBonus    float64 `toml:"vertical_end_bonus" json:"verticalEndBonus"`
	UnsupportedTopBonus float64 `toml:"unsupported_top_bonus" json:"unsupportedTopBonus"`
	AngledStartPenalty  float64 `toml:"angled_start_penalty" json:"angledStartPenalty"`
	AngledEndBonus      float64 `toml:"angled_end_bonus" json:"angledEndBonus"`
	InheritAnchor       string  `toml:"inherit_anchor" json:"inheritAnchor"`
}

// DefaultWeightParams returns the calibrated heuristic values
func DefaultWeightParams() WeightParams {
	return WeightParams{
		Offset:              -32.481,
		VerticalStartBonus:  0.1,
		VerticalEndBonus:    0.05,
		UnsupportedTopBonus: 0.07,
		AngledStartPenalty:  -0.15,
		AngledEndBonus:      0.21,
		InheritAnchor:       AnchorEnd,
	}
}

// WeightedSegment is a canonical segment with its print priority
type WeightedSegment struct {
	Segment
	Kind   Kind    `json:"kind"`
	Weight float64 `json:"weight"`
	Index  int     `json:"index"`
}

// localScore is the phase-one result for one segment
type localScore struct {
	base       float64
	startBonus float64 // vertical only: angled member starting at its base
}

// AssignWeights computes a weight for every segment.
// Segments are canonicalized (low Z first) before any comparison. Scoring runs
// in two phases: every segment is classified and scored from its own
// neighborhood, then angled segments inherit from already-scored verticals.
func AssignWeights(segments []Segment, tol Tolerance, params WeightParams) ([]WeightedSegment, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("failed to assign weights: %w", ErrEmptyInput)
	}

	canonical := make([]Segment, len(segments))
	kinds := make([]Kind, len(segments))
	for i, seg := range segments {
		canonical[i] = seg.Canonical()
		kinds[i] = tol.Classify(canonical[i])
	}

	index := NewEndpointIndex(canonical, tol)
	sc := &scorer{
		segments: canonical,
		kinds:    kinds,
		index:    index,
		tol:      tol,
		params:   params,
	}

	// Phase 1: local structural score
	scores := make([]localScore, len(canonical))
	for i := range canonical {
		scores[i] = sc.local(i)
	}

	// Phase 2: resolve cross references and add the height term
	weighted := make([]WeightedSegment, len(canonical))
	for i, seg := range canonical {
		weight := scores[i].base
		if kinds[i] == Angled {
			if v, ok := sc.inheritFrom(i); ok {
				weight += scores[v].startBonus
			}
		}

		weight = round3(weight + seg.AverageZ() + params.Offset)
		weighted[i] = WeightedSegment{
			Segment: seg,
			Kind:    kinds[i],
			Weight:  weight,
			Index:   i,
		}
	}

	return weighted, nil
}

// scorer bundles the lookups shared by both weighting phases
type scorer struct {
	segments []Segment
	kinds    []Kind
	index    *EndpointIndex
	tol      Tolerance
	params   WeightParams
}

// local scores a segment from the members touching its endpoints
func (sc *scorer) local(i int) localScore {
	seg := sc.segments[i]

	switch sc.kinds[i] {
	case Vertical:
		var score localScore
		if sc.any(sc.index.StartsAt(seg.Start), i, isKind(Angled)) {
			score.startBonus = sc.params.VerticalStartBonus
		}
		score.base += score.startBonus

		if sc.any(sc.index.EndsAt(seg.End), i, notKind(Vertical)) {
			score.base += sc.params.VerticalEndBonus
		}

		// Unsupported top: nothing angled at or below mid-height lands on the end
		avg := seg.AverageZ()
		supported := sc.any(sc.index.EndsAt(seg.End), i, func(k Kind, other Segment) bool {
			return k == Angled && other.AverageZ() <= avg
		})
		if !supported {
			score.base += sc.params.UnsupportedTopBonus
		}
		return score

	case Angled:
		var score localScore
		if sc.any(sc.index.StartsAt(seg.Start), i, isKind(Vertical)) {
			score.base += sc.params.AngledStartPenalty
		}
		if sc.any(sc.index.EndsAt(seg.End), i, isKind(Vertical)) {
			score.base += sc.params.AngledEndBonus
		}
		return score

	default:
		return localScore{}
	}
}

// inheritFrom finds the first vertical, in input order, connected to angled
// segment i at the configured anchor. Duplicates of i itself are skipped.
func (sc *scorer) inheritFrom(i int) (int, bool) {
	seg := sc.segments[i]

	candidates := sc.index.EndsAt(seg.End)
	if sc.params.InheritAnchor == AnchorStart {
		candidates = sc.index.StartsAt(seg.Start)
	}

	for _, j := range candidates {
		if j == i || sc.tol.SameSegment(sc.segments[j], seg) {
			continue
		}
		if sc.kinds[j] == Vertical {
			return j, true
		}
	}
	return -1, false
}

// any reports whether a candidate other than self satisfies match
func (sc *scorer) any(candidates []int, self int, match func(Kind, Segment) bool) bool {
	for _, j := range candidates {
		if j == self {
			continue
		}
		if match(sc.kinds[j], sc.segments[j]) {
			return true
		}
	}
	return false
}

func isKind(k Kind) func(Kind, Segment) bool {
	return func(other Kind, _ Segment) bool { return other == k }
}

func notKind(k Kind) func(Kind, Segment) bool {
	return func(other Kind, _ Segment) bool { return other != k }
}

// LinesAndWeights splits weighted segments into the parallel output lists
func LinesAndWeights(weighted []WeightedSegment) ([]Segment, []float64) {
	lines := make([]Segment, len(weighted))
	weights := make([]float64, len(weighted))
	for i, ws := range weighted {
		lines[i] = ws.Segment
		weights[i] = ws.Weight
	}
	return lines, weights
}
