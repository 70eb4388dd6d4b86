// Package geo loads state boundaries from GeoJSON and projects them onto a
// drawing surface with a composite Albers projection for the United States.
package geo

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/congressmap/pkg/metrics"
)

// ErrNoFeatures is returned when a document carries no usable features.
var ErrNoFeatures = errors.New("no features")

// Point is a longitude/latitude pair in degrees, or a projected x/y pair.
type Point [2]float64

// Ring is a closed sequence of points.
type Ring []Point

// Polygon is an outer ring followed by any holes.
type Polygon []Ring

// Geometry is a Polygon or MultiPolygon, normalized to a list of polygons.
type Geometry struct {
	Type     string
	Polygons []Polygon
}

// Feature is one named region.
type Feature struct {
	Name       string
	Properties map[string]any
	Geometry   Geometry
}

type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   *rawGeometry   `json:"geometry"`
}

type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Load reads a GeoJSON FeatureCollection from path.
func Load(path string) ([]Feature, error) {
	defer metrics.Timer(metrics.GeoLoad)()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geography: %w", err)
	}
	defer f.Close()

	features, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return features, nil
}

// Decode reads a GeoJSON FeatureCollection. Features without a name or
// with an unsupported geometry type are skipped.
func Decode(r io.Reader) ([]Feature, error) {
	var raw rawCollection
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	if raw.Type != "" && raw.Type != "FeatureCollection" {
		return nil, fmt.Errorf("decode geojson: unexpected type %q", raw.Type)
	}

	features := make([]Feature, 0, len(raw.Features))
	for i, rf := range raw.Features {
		name, _ := rf.Properties["name"].(string)
		if name == "" || rf.Geometry == nil {
			continue
		}
		geom, err := decodeGeometry(rf.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %d (%s): %w", i, name, err)
		}
		if len(geom.Polygons) == 0 {
			continue
		}
		features = append(features, Feature{
			Name:       name,
			Properties: rf.Properties,
			Geometry:   geom,
		})
	}
	if len(features) == 0 {
		return nil, ErrNoFeatures
	}
	return features, nil
}

func decodeGeometry(g *rawGeometry) (Geometry, error) {
	out := Geometry{Type: g.Type}
	switch g.Type {
	case "Polygon":
		var poly Polygon
		if err := json.Unmarshal(g.Coordinates, &poly); err != nil {
			return out, fmt.Errorf("polygon coordinates: %w", err)
		}
		out.Polygons = []Polygon{poly}
	case "MultiPolygon":
		var polys []Polygon
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return out, fmt.Errorf("multipolygon coordinates: %w", err)
		}
		out.Polygons = polys
	}
	return out, nil
}
