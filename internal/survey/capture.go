// Package survey manages historical capture data, asset diffs, and operator
// annotations for the control centre.
package survey

import (
	"time"

	"github.com/aboldguess/Nerfdrone/internal/geo"
)

const dateLayout = "2006-01-02"

// Asset is a classified object detected within a capture's coverage area.
type Asset struct {
	// ID identifies the asset within its capture.
	ID string
	// Classification is the asset class assigned during reconstruction.
	Classification string
	// RepresentativePoint is the asset's anchor position as lat, lon.
	RepresentativePoint [2]float64
	// VolumeCubicM is the reconstructed volume in cubic meters.
	VolumeCubicM float64
	// Annotations holds operator notes in the order they were recorded.
	Annotations []string
}

func (a Asset) clone() Asset {
	out := a
	out.Annotations = append([]string(nil), a.Annotations...)
	return out
}

// AssetSummary is the JSON shape for asset listings.
type AssetSummary struct {
	AssetID        string   `json:"asset_id"`
	Classification string   `json:"classification"`
	VolumeCubicM   float64  `json:"volume_cubic_m"`
	Annotations    []string `json:"annotations"`
}

// Summary returns the wire form of the asset.
func (a Asset) Summary() AssetSummary {
	annotations := make([]string, 0, len(a.Annotations))
	annotations = append(annotations, a.Annotations...)
	return AssetSummary{
		AssetID:        a.ID,
		Classification: a.Classification,
		VolumeCubicM:   a.VolumeCubicM,
		Annotations:    annotations,
	}
}

// Capture summarises one survey mission's captured data.
type Capture struct {
	// ID identifies the capture across the control centre.
	ID string
	// Name is the display name of the surveyed site.
	Name string
	// CapturedOn is the survey date. Only the date part is meaningful.
	CapturedOn time.Time
	// Bounds is the surveyed bounding box.
	Bounds geo.Bounds
	// Assets lists detected assets in detection order.
	Assets []Asset
	// PointCloudPath locates the exported point cloud for this capture.
	PointCloudPath string
	// FlightTimeMinutes is the total flight time spent on the mission.
	FlightTimeMinutes float64
	// DataVolumeGB is the raw footage volume collected.
	DataVolumeGB float64
	// Notes mirrors asset annotations at the capture level.
	Notes []string
}

// Acres approximates the surveyed area from the capture bounds.
func (c Capture) Acres() float64 {
	return geo.Acres(c.Bounds)
}

// Overlay returns a GeoJSON Feature of the capture bounds for map overlays.
func (c Capture) Overlay() geo.Feature {
	return geo.BoundsFeature(c.Bounds, map[string]any{
		"name":        c.Name,
		"capture_id":  c.ID,
		"captured_on": c.CapturedOn.Format(dateLayout),
	})
}

func (c Capture) clone() Capture {
	out := c
	out.Assets = make([]Asset, 0, len(c.Assets))
	for _, asset := range c.Assets {
		out.Assets = append(out.Assets, asset.clone())
	}
	out.Notes = append([]string(nil), c.Notes...)
	return out
}

// CaptureSummary is the JSON shape for survey-day listings.
type CaptureSummary struct {
	CaptureID      string         `json:"capture_id"`
	Name           string         `json:"name"`
	CapturedOn     string         `json:"captured_on"`
	PointCloudPath string         `json:"point_cloud_path"`
	AssetCount     int            `json:"asset_count"`
	Acres          float64        `json:"acres"`
	Notes          []string       `json:"notes"`
	Overlay        geo.Feature    `json:"overlay"`
	Assets         []AssetSummary `json:"assets"`
}

// Summary returns the wire form of the capture, including its map overlay.
func (c Capture) Summary() CaptureSummary {
	notes := make([]string, 0, len(c.Notes))
	notes = append(notes, c.Notes...)
	assets := make([]AssetSummary, 0, len(c.Assets))
	for _, asset := range c.Assets {
		assets = append(assets, asset.Summary())
	}
	return CaptureSummary{
		CaptureID:      c.ID,
		Name:           c.Name,
		CapturedOn:     c.CapturedOn.Format(dateLayout),
		PointCloudPath: c.PointCloudPath,
		AssetCount:     len(c.Assets),
		Acres:          c.Acres(),
		Notes:          notes,
		Overlay:        c.Overlay(),
		Assets:         assets,
	}
}
