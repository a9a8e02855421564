package main

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Default tolerances used when comparing lattice geometry
const (
	DefaultPrecision   = 0.01 // coordinates compared at 2 decimals
	DefaultHorizontalZ = 0.02 // max |dZ| for a horizontal segment
)

// Point is a 3D lattice coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec converts the point to an sdfx vector
func (p Point) Vec() v3.Vec {
	return v3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// pointFromVec converts an sdfx vector back to a Point
func pointFromVec(v v3.Vec) Point {
	return Point{X: v.X, Y: v.Y, Z: v.Z}
}

// Distance calculates the Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	return other.Vec().Sub(p.Vec()).Length()
}

// Tolerance decides when two coordinates are the same
type Tolerance struct {
	Precision   float64 `toml:"precision" json:"precision"`
	HorizontalZ float64 `toml:"horizontal_z" json:"horizontalZ"`
}

// DefaultTolerance returns the 2-decimal comparison rules
func DefaultTolerance() Tolerance {
	return Tolerance{Precision: DefaultPrecision, HorizontalZ: DefaultHorizontalZ}
}

// Same checks if two coordinates are equal once rounded
func (t Tolerance) Same(a, b float64) bool {
	return math.Round(a/t.Precision) == math.Round(b/t.Precision)
}

// PointsEqual checks if two points are equal within tolerance
func (t Tolerance) PointsEqual(a, b Point) bool {
	return t.Same(a.X, b.X) && t.Same(a.Y, b.Y) && t.Same(a.Z, b.Z)
}

// pointKey is the grid cell of a point, used as a map key
type pointKey [3]int64

// Key returns the grid cell a point falls in
func (t Tolerance) Key(p Point) pointKey {
	return pointKey{
		int64(math.Round(p.X / t.Precision)),
		int64(math.Round(p.Y / t.Precision)),
		int64(math.Round(p.Z / t.Precision)),
	}
}

// Kind classifies a segment by its orientation
type Kind int

const (
	Horizontal Kind = iota
	Vertical
	Angled
)

// String returns the lower-case kind name
func (k Kind) String() string {
	switch k {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "angled"
	}
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Segment is a straight lattice member between two points
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Canonical returns the segment oriented so the lower-Z endpoint is Start
func (s Segment) Canonical() Segment {
	if s.Start.Z > s.End.Z {
		return Segment{Start: s.End, End: s.Start}
	}
	return s
}

// Length returns the segment length
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// Midpoint returns the point halfway along the segment
func (s Segment) Midpoint() Point {
	return pointFromVec(s.Start.Vec().Add(s.End.Vec()).MulScalar(0.5))
}

// AverageZ returns the mean height of the two endpoints
func (s Segment) AverageZ() float64 {
	return (s.Start.Z + s.End.Z) / 2
}

// Direction returns the unit vector from Start to End
func (s Segment) Direction() v3.Vec {
	d := s.End.Vec().Sub(s.Start.Vec())
	if d.Length() == 0 {
		return d
	}
	return d.Normalize()
}

// Classify determines whether a segment is horizontal, vertical or angled
func (t Tolerance) Classify(s Segment) Kind {
	if math.Abs(s.End.Z-s.Start.Z) <= t.HorizontalZ {
		return Horizontal
	}
	if t.Same(s.Start.X, s.End.X) && t.Same(s.Start.Y, s.End.Y) {
		return Vertical
	}
	return Angled
}

// SameDirection checks if two segments share a unit direction at 2 decimals.
// Unit vectors are compared on a fixed grid, independent of coordinate precision.
func SameDirection(a, b Segment) bool {
	da, db := a.Direction(), b.Direction()
	const unitPrecision = 0.01
	same := func(x, y float64) bool {
		return math.Round(x/unitPrecision) == math.Round(y/unitPrecision)
	}
	return same(da.X, db.X) && same(da.Y, db.Y) && same(da.Z, db.Z)
}

// SameSegment checks if two segments have the same endpoints in the same order
func (t Tolerance) SameSegment(a, b Segment) bool {
	return t.PointsEqual(a.Start, b.Start) && t.PointsEqual(a.End, b.End)
}

// OnSegment checks if p lies on s within tolerance
func (t Tolerance) OnSegment(p Point, s Segment) bool {
	if t.PointsEqual(p, s.Start) || t.PointsEqual(p, s.End) {
		return true
	}
	length := s.Length()
	if length == 0 {
		return false
	}

	// Project p onto the segment and compare with the foot of the perpendicular
	d := s.End.Vec().Sub(s.Start.Vec())
	u := p.Vec().Sub(s.Start.Vec()).Dot(d) / (length * length)
	if u < 0 || u > 1 {
		return false
	}
	foot := pointFromVec(s.Start.Vec().Add(d.MulScalar(u)))
	return t.PointsEqual(p, foot)
}

// round3 rounds a weight to 3 decimals
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
