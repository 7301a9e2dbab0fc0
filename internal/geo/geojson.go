package geo

import (
	"encoding/json"
	"math"

	droneerrors "github.com/aboldguess/Nerfdrone/internal/errors"
)

// Geometry is a GeoJSON Polygon geometry. Positions are [lon, lat].
type Geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// Feature is a GeoJSON Feature suitable for map overlays.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// BoundsFeature builds a rectangular Polygon Feature from a bounding box.
// The ring runs counter-clockwise from the south-west corner and closes on
// itself.
func BoundsFeature(b Bounds, properties map[string]any) Feature {
	if properties == nil {
		properties = map[string]any{}
	}
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type: "Polygon",
			Coordinates: [][][2]float64{{
				{b.LonMin, b.LatMin},
				{b.LonMax, b.LatMin},
				{b.LonMax, b.LatMax},
				{b.LonMin, b.LatMax},
				{b.LonMin, b.LatMin},
			}},
		},
		Properties: properties,
	}
}

// BoundsFromGeoJSON extracts the bounding envelope from a GeoJSON Polygon
// geometry, or a Feature wrapping one. The result covers every ring in the
// polygon.
func BoundsFromGeoJSON(payload []byte) (Bounds, error) {
	var doc struct {
		Geometry json.RawMessage `json:"geometry"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return Bounds{}, droneerrors.NewValidation("GeoJSON payload is invalid JSON")
	}

	geom := payload
	if len(doc.Geometry) > 0 && string(doc.Geometry) != "null" {
		geom = doc.Geometry
	}

	var polygon struct {
		Type        string        `json:"type"`
		Coordinates [][][]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(geom, &polygon); err != nil {
		return Bounds{}, droneerrors.NewValidation("GeoJSON payload is invalid JSON")
	}
	if polygon.Type != "Polygon" {
		return Bounds{}, droneerrors.NewValidation("Only polygon GeoJSON payloads are supported")
	}

	bounds := Bounds{
		LatMin: math.Inf(1),
		LonMin: math.Inf(1),
		LatMax: math.Inf(-1),
		LonMax: math.Inf(-1),
	}
	points := 0
	for _, ring := range polygon.Coordinates {
		for _, position := range ring {
			if len(position) < 2 {
				continue
			}
			lon, lat := position[0], position[1]
			bounds.LatMin = math.Min(bounds.LatMin, lat)
			bounds.LonMin = math.Min(bounds.LonMin, lon)
			bounds.LatMax = math.Max(bounds.LatMax, lat)
			bounds.LonMax = math.Max(bounds.LonMax, lon)
			points++
		}
	}
	if points == 0 {
		return Bounds{}, droneerrors.NewValidation("Polygon coordinates are required")
	}
	return bounds, nil
}
