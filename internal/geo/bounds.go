// Package geo provides the bounding-box and GeoJSON helpers shared by the
// route planner and the survey manager.
package geo

import (
	"math"

	droneerrors "github.com/aboldguess/Nerfdrone/internal/errors"
)

const (
	// metersPerDegree is the equirectangular approximation of one degree
	// of latitude (and of longitude at the equator).
	metersPerDegree = 111320.0
	// acresPerSquareMeter converts square meters to acres.
	acresPerSquareMeter = 0.000247105
)

// Bounds is a geographic bounding box in decimal degrees.
type Bounds struct {
	LatMin float64 `json:"lat_min"`
	LonMin float64 `json:"lon_min"`
	LatMax float64 `json:"lat_max"`
	LonMax float64 `json:"lon_max"`
}

// BoundsFromSlice validates and converts a raw four-value coordinate list.
// Dynamic inputs (tool arguments, CLI flags) arrive as slices; everything
// past this boundary works with the typed struct.
func BoundsFromSlice(values []float64) (Bounds, error) {
	if len(values) != 4 {
		return Bounds{}, droneerrors.NewValidation("Bounds must be (lat_min, lon_min, lat_max, lon_max)")
	}
	return Bounds{
		LatMin: values[0],
		LonMin: values[1],
		LatMax: values[2],
		LonMax: values[3],
	}, nil
}

// Center returns the midpoint of the bounding box.
func (b Bounds) Center() (lat, lon float64) {
	return (b.LatMin + b.LatMax) / 2, (b.LonMin + b.LonMax) / 2
}

// Acres estimates the covered area in acres using an equirectangular
// approximation: good enough for survey-sized boxes, not for continents.
func Acres(b Bounds) float64 {
	meanLat := (b.LatMin + b.LatMax) / 2 * math.Pi / 180
	heightM := math.Abs(b.LatMax-b.LatMin) * metersPerDegree
	widthM := math.Abs(b.LonMax-b.LonMin) * metersPerDegree * math.Cos(meanLat)
	return heightM * widthM * acresPerSquareMeter
}
