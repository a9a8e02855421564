package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Input formats
const (
	FormatJSON    = "json"
	FormatGeoJSON = "geojson"
)

// Lattice is the geometry to be sequenced: nodes and the segments between them
type Lattice struct {
	Nodes     []Point   `json:"nodes,omitempty"`
	Segments  []Segment `json:"segments"`
	Polylines [][]Point `json:"polylines,omitempty"`
}

// normalize explodes polylines into segments and drops zero-length pieces
func (l *Lattice) normalize(tol Tolerance) {
	for _, pl := range l.Polylines {
		l.Segments = append(l.Segments, explodePolyline(pl)...)
	}
	l.Polylines = nil

	kept := l.Segments[:0]
	for _, seg := range l.Segments {
		if !tol.PointsEqual(seg.Start, seg.End) {
			kept = append(kept, seg)
		}
	}
	l.Segments = kept
}

// explodePolyline turns consecutive vertices into segments
func explodePolyline(points []Point) []Segment {
	if len(points) < 2 {
		return nil
	}
	segments := make([]Segment, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		segments = append(segments, Segment{Start: points[i], End: points[i+1]})
	}
	return segments
}

// DetectFormat guesses the input format from the file extension
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson":
		return FormatGeoJSON
	default:
		return FormatJSON
	}
}

// LoadLattice reads a lattice file in the given format ("" detects it)
func LoadLattice(path, format string, tol Tolerance, logger *log.Logger) (*Lattice, error) {
	logger.Debug("loading lattice", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if format == "" {
		format = DetectFormat(path)
	}

	lattice, err := ParseLattice(data, format, tol, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}

	logger.Info("lattice loaded", "file", filepath.Base(path), "segments", len(lattice.Segments), "nodes", len(lattice.Nodes))
	return lattice, nil
}

// ParseLattice decodes a lattice document
func ParseLattice(data []byte, format string, tol Tolerance, logger *log.Logger) (*Lattice, error) {
	var lattice *Lattice

	switch format {
	case FormatJSON:
		lattice = &Lattice{}
		if err := json.Unmarshal(data, lattice); err != nil {
			return nil, fmt.Errorf("failed to unmarshal lattice: %w", err)
		}
	case FormatGeoJSON:
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal feature collection: %w", err)
		}
		lattice = latticeFromFeatures(fc, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	lattice.normalize(tol)
	return lattice, nil
}

// latticeFromFeatures converts GeoJSON features. Z values come from the "z"
// property: a number for every vertex or an array with one value per vertex.
func latticeFromFeatures(fc *geojson.FeatureCollection, logger *log.Logger) *Lattice {
	lattice := &Lattice{}

	for i, feature := range fc.Features {
		switch g := feature.Geometry.(type) {
		case orb.LineString:
			lattice.Polylines = append(lattice.Polylines, liftLine(g, feature.Properties, 0))

		case orb.MultiLineString:
			offset := 0
			for _, ls := range g {
				lattice.Polylines = append(lattice.Polylines, liftLine(ls, feature.Properties, offset))
				offset += len(ls)
			}

		case orb.Point:
			lattice.Nodes = append(lattice.Nodes, liftPoint(g, zAt(feature.Properties, 0)))

		case orb.MultiPoint:
			for j, p := range g {
				lattice.Nodes = append(lattice.Nodes, liftPoint(p, zAt(feature.Properties, j)))
			}

		case nil:
			logger.Warn("skipping feature without geometry", "feature", i)

		default:
			logger.Warn("skipping unsupported geometry", "feature", i, "type", feature.Geometry.GeoJSONType())
		}
	}

	return lattice
}

func liftLine(ls orb.LineString, props geojson.Properties, offset int) []Point {
	points := make([]Point, 0, len(ls))
	for j, p := range ls {
		points = append(points, liftPoint(p, zAt(props, offset+j)))
	}
	return points
}

func liftPoint(p orb.Point, z float64) Point {
	return Point{X: p.X(), Y: p.Y(), Z: z}
}

// zAt reads the height of the i-th vertex from feature properties
func zAt(props geojson.Properties, i int) float64 {
	switch z := props["z"].(type) {
	case float64:
		return z
	case []interface{}:
		if i < len(z) {
			if v, ok := z[i].(float64); ok {
				return v
			}
		}
	}
	return 0
}

// SaveJSON serializes v and writes it to path, or to stdout when path is empty
func SaveJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
