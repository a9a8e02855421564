package main

import (
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// Output formats
const (
	OutputJSON    = "json"
	OutputGeoJSON = "geojson"
	OutputTable   = "table"
)

// VisitedLayer is the DXF layer traversal output is drawn on
const VisitedLayer = "visited"

// bandColors colors weight bands from the earliest to the latest to print
var bandColors = []color.ColorNumber{color.Blue, color.Cyan, color.Green, color.Yellow, color.Red}

// ExportedSegment is one segment ready for a file exporter
type ExportedSegment struct {
	Segment
	Weight float64
	Kind   Kind
	Order  int // position in print order, 1-based; 0 when unknown
}

// ExportSegments pairs segments with their weights and print position
func ExportSegments(lines []Segment, weights []float64, order []int, tol Tolerance) []ExportedSegment {
	position := make([]int, len(lines))
	for rank, i := range order {
		position[i] = rank + 1
	}

	out := make([]ExportedSegment, len(lines))
	for i, seg := range lines {
		out[i] = ExportedSegment{
			Segment: seg,
			Weight:  weights[i],
			Kind:    tol.Classify(seg.Canonical()),
			Order:   position[i],
		}
	}
	return out
}

// ToFeatureCollection converts segments to GeoJSON line strings.
// GeoJSON positions are planar here, so heights travel in the "z" property.
func ToFeatureCollection(segments []ExportedSegment) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, seg := range segments {
		line := orb.LineString{
			orb.Point{seg.Start.X, seg.Start.Y},
			orb.Point{seg.End.X, seg.End.Y},
		}
		feature := geojson.NewFeature(line)
		feature.Properties["z"] = []float64{seg.Start.Z, seg.End.Z}
		feature.Properties["weight"] = seg.Weight
		feature.Properties["kind"] = seg.Kind.String()
		if seg.Order > 0 {
			feature.Properties["order"] = seg.Order
		}
		fc.Append(feature)
	}

	return fc
}

// SaveGeoJSON writes segments as a GeoJSON feature collection
func SaveGeoJSON(segments []ExportedSegment, path string) error {
	data, err := ToFeatureCollection(segments).MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal feature collection: %w", err)
	}

	if path == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// weightBand maps a weight to one of n bands between lo and hi
func weightBand(w, lo, hi float64, n int) int {
	if hi <= lo {
		return 0
	}
	band := int(math.Floor((w - lo) / (hi - lo) * float64(n)))
	return min(max(band, 0), n-1)
}

// SaveWeightedDXF draws segments on one layer per weight band
func SaveWeightedDXF(segments []ExportedSegment, path string) error {
	if len(segments) == 0 {
		return fmt.Errorf("failed to write DXF: %w", ErrEmptyInput)
	}

	lo, hi := segments[0].Weight, segments[0].Weight
	for _, seg := range segments[1:] {
		lo = min(lo, seg.Weight)
		hi = max(hi, seg.Weight)
	}

	d := dxf.NewDrawing()
	for band, c := range bandColors {
		if _, err := d.AddLayer(fmt.Sprintf("band-%d", band), c, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer: %w", err)
		}
	}

	for _, seg := range segments {
		layer := fmt.Sprintf("band-%d", weightBand(seg.Weight, lo, hi, len(bandColors)))
		if err := d.ChangeLayer(layer); err != nil {
			return fmt.Errorf("failed to change layer: %w", err)
		}
		if _, err := d.Line(seg.Start.X, seg.Start.Y, seg.Start.Z, seg.End.X, seg.End.Y, seg.End.Z); err != nil {
			return fmt.Errorf("failed to add line: %w", err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF: %w", err)
	}
	return nil
}

// VisitedDXF collects traversed edges on the "visited" layer, in visit order
type VisitedDXF struct {
	drawing *drawing.Drawing
	lines   int
}

// NewVisitedDXF creates a drawing with the visited layer current
func NewVisitedDXF() (*VisitedDXF, error) {
	d := dxf.NewDrawing()
	if _, err := d.AddLayer(VisitedLayer, color.Red, dxf.DefaultLineType, true); err != nil {
		return nil, fmt.Errorf("failed to add layer: %w", err)
	}
	return &VisitedDXF{drawing: d}, nil
}

// Visit adds one traversed edge; it matches TraverseOptions.Visit
func (v *VisitedDXF) Visit(edge VisitedEdge) error {
	s := edge.Segment
	if _, err := v.drawing.Line(s.Start.X, s.Start.Y, s.Start.Z, s.End.X, s.End.Y, s.End.Z); err != nil {
		return fmt.Errorf("failed to add line %d: %w", edge.Order, err)
	}
	v.lines++
	return nil
}

// Lines returns the number of lines drawn so far
func (v *VisitedDXF) Lines() int {
	return v.lines
}

// Save writes the drawing to path
func (v *VisitedDXF) Save(path string) error {
	if err := v.drawing.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF: %w", err)
	}
	return nil
}
