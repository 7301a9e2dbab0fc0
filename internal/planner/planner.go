// Package planner generates drone flight paths over survey areas.
package planner

import (
	"math"

	droneerrors "github.com/aboldguess/Nerfdrone/internal/errors"
	"github.com/aboldguess/Nerfdrone/internal/geo"
)

const (
	// DefaultAltitude is the cruise altitude in meters used when the
	// caller does not configure one.
	DefaultAltitude = 50.0
	// DefaultSpacing is the grid spacing in decimal degrees between
	// survey rows and columns.
	DefaultSpacing = 0.0003

	// ActionNavigate is the only command action the demo fleet understands.
	ActionNavigate = "navigate_to"
)

// Waypoint is a single position in a flight path.
type Waypoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// Command is the flat navigation record consumed by providers and the
// dashboard map. One command is emitted per waypoint.
type Command struct {
	Action      string  `json:"action"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Altitude    float64 `json:"altitude"`
	CruiseSpeed float64 `json:"cruise_speed"`
}

// FlightPath is an ordered sequence of waypoints with a human-readable
// description.
type FlightPath struct {
	Waypoints   []Waypoint `json:"waypoints"`
	Description string     `json:"description"`
}

// Commands converts the path into navigation records, preserving waypoint
// order. The cruise speed is stamped onto every record.
func (p FlightPath) Commands(cruiseSpeed float64) []Command {
	commands := make([]Command, 0, len(p.Waypoints))
	for _, wp := range p.Waypoints {
		commands = append(commands, Command{
			Action:      ActionNavigate,
			Latitude:    wp.Latitude,
			Longitude:   wp.Longitude,
			Altitude:    wp.Altitude,
			CruiseSpeed: cruiseSpeed,
		})
	}
	return commands
}

// Planner produces lawnmower grids and custom paths at a fixed cruise
// altitude and grid spacing.
type Planner struct {
	Altitude float64
	Spacing  float64
}

// New creates a planner. Non-positive altitude or spacing falls back to the
// defaults.
func New(altitude, spacing float64) *Planner {
	if altitude <= 0 {
		altitude = DefaultAltitude
	}
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	return &Planner{Altitude: altitude, Spacing: spacing}
}

// GridSurvey sweeps the bounding box in a boustrophedon pattern: latitude
// rows south to north, with every other row traversing its longitude
// columns in reverse so the drone never dead-heads back across the site.
// Inverted or degenerate bounds produce an empty path.
func (p *Planner) GridSurvey(b geo.Bounds) FlightPath {
	lats := frange(b.LatMin, b.LatMax, p.Spacing)
	lons := frange(b.LonMin, b.LonMax, p.Spacing)

	waypoints := make([]Waypoint, 0, len(lats)*len(lons))
	for row, lat := range lats {
		if row%2 == 0 {
			for _, lon := range lons {
				waypoints = append(waypoints, Waypoint{Latitude: lat, Longitude: lon, Altitude: p.Altitude})
			}
		} else {
			for i := len(lons) - 1; i >= 0; i-- {
				waypoints = append(waypoints, Waypoint{Latitude: lat, Longitude: lons[i], Altitude: p.Altitude})
			}
		}
	}
	return FlightPath{Waypoints: waypoints, Description: "Grid survey pattern"}
}

// CustomPath wraps caller-supplied waypoints into a flight path.
func (p *Planner) CustomPath(waypoints []Waypoint) (FlightPath, error) {
	if len(waypoints) == 0 {
		return FlightPath{}, droneerrors.NewValidation("At least one waypoint is required")
	}
	return FlightPath{
		Waypoints:   append([]Waypoint(nil), waypoints...),
		Description: "Custom path",
	}, nil
}

// frange walks start..stop inclusive. Emitted values are rounded to six
// decimal places to damp float drift, but the accumulator itself stays
// unrounded so the stop comparison is not disturbed. A non-positive step
// yields nothing.
func frange(start, stop, step float64) []float64 {
	if step <= 0 {
		return nil
	}
	var values []float64
	for v := start; v <= stop; v += step {
		values = append(values, round6(v))
	}
	return values
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
