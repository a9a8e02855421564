package main

import (
	"slices"

	"github.com/dhconnelly/rtreego"
)

// endpointRole tells which end of a segment an index entry stands for
type endpointRole int

const (
	roleStart endpointRole = iota
	roleEnd
)

// EndpointEntry wraps one segment endpoint for R-tree storage
type EndpointEntry struct {
	Segment int
	Role    endpointRole
	Point   Point
	BBox    rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *EndpointEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// EndpointIndex answers "which segments start or end here" queries
type EndpointIndex struct {
	tree *rtreego.Rtree
	tol  Tolerance
}

// NewEndpointIndex indexes the start and end of every segment
func NewEndpointIndex(segments []Segment, tol Tolerance) *EndpointIndex {
	tree := rtreego.NewTree(3, 25, 50) // 3D, min 25, max 50 entries per node

	for i, seg := range segments {
		tree.Insert(newEndpointEntry(i, roleStart, seg.Start, tol))
		tree.Insert(newEndpointEntry(i, roleEnd, seg.End, tol))
	}

	return &EndpointIndex{tree: tree, tol: tol}
}

func newEndpointEntry(segment int, role endpointRole, p Point, tol Tolerance) *EndpointEntry {
	return &EndpointEntry{
		Segment: segment,
		Role:    role,
		Point:   p,
		BBox:    rtreego.Point{p.X, p.Y, p.Z}.ToRect(tol.Precision / 2),
	}
}

// StartsAt returns the segments whose start coincides with p, in input order
func (ei *EndpointIndex) StartsAt(p Point) []int {
	return ei.query(p, func(r endpointRole) bool { return r == roleStart })
}

// EndsAt returns the segments whose end coincides with p, in input order
func (ei *EndpointIndex) EndsAt(p Point) []int {
	return ei.query(p, func(r endpointRole) bool { return r == roleEnd })
}

// Touching returns the segments with either endpoint at p, in input order
func (ei *EndpointIndex) Touching(p Point) []int {
	return ei.query(p, func(endpointRole) bool { return true })
}

// query searches the tree around p and re-checks candidates with the tolerance.
// Results are sorted ascending so callers can apply first-in-input-order rules.
func (ei *EndpointIndex) query(p Point, keep func(endpointRole) bool) []int {
	// Rounding equality implies |a-b| < precision on every axis
	area := rtreego.Point{p.X, p.Y, p.Z}.ToRect(ei.tol.Precision)

	results := ei.tree.SearchIntersect(area)
	segments := make([]int, 0, len(results))

	for _, item := range results {
		entry := item.(*EndpointEntry)
		if keep(entry.Role) && ei.tol.PointsEqual(entry.Point, p) {
			segments = append(segments, entry.Segment)
		}
	}

	slices.Sort(segments)
	return slices.Compact(segments)
}
