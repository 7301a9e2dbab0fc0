package survey

import (
	"time"

	"github.com/aboldguess/Nerfdrone/internal/geo"
)

// DemoCaptures returns the deterministic capture set used for UI previews:
// two missions over the same river basin eight weeks apart.
func DemoCaptures() []Capture {
	basinBounds := geo.Bounds{LatMin: 51.4995, LonMin: -0.1312, LatMax: 51.5025, LonMax: -0.1275}
	return []Capture{
		{
			ID:         "central_river_2024_03_14",
			Name:       "Central River Basin",
			CapturedOn: time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
			Bounds:     basinBounds,
			Assets: []Asset{
				{
					ID:                  "bridge_east",
					Classification:     "bridge",
					RepresentativePoint: [2]float64{51.5007, -0.1298},
					VolumeCubicM:        2300.0,
					Annotations:         []string{"Structural joints intact", "Low vegetation"},
				},
				{
					ID:                  "riverbank_section_a",
					Classification:     "riverbank",
					RepresentativePoint: [2]float64{51.5018, -0.1301},
					VolumeCubicM:        180.0,
				},
				{
					ID:                  "parkland_south",
					Classification:     "park",
					RepresentativePoint: [2]float64{51.5002, -0.1285},
					VolumeCubicM:        75.0,
					Annotations:         []string{"Playground equipment requires inspection"},
				},
			},
			PointCloudPath:    "/point-clouds/central-river-2024-03-14.ply",
			FlightTimeMinutes: 82.0,
			DataVolumeGB:      14.4,
		},
		{
			ID:         "central_river_2024_05_22",
			Name:       "Central River Basin",
			CapturedOn: time.Date(2024, time.May, 22, 0, 0, 0, 0, time.UTC),
			Bounds:     basinBounds,
			Assets: []Asset{
				{
					ID:                  "bridge_east",
					Classification:     "bridge",
					RepresentativePoint: [2]float64{51.5007, -0.1298},
					VolumeCubicM:        2305.5,
					Annotations:         []string{"Slight debris accumulation"},
				},
				{
					ID:                  "riverbank_section_a",
					Classification:     "riverbank",
					RepresentativePoint: [2]float64{51.5018, -0.1301},
					VolumeCubicM:        205.0,
					Annotations:         []string{"Higher water levels recorded"},
				},
				{
					ID:                  "construction_zone",
					Classification:     "construction",
					RepresentativePoint: [2]float64{51.5004, -0.1292},
					VolumeCubicM:        450.0,
				},
			},
			PointCloudPath:    "/point-clouds/central-river-2024-05-22.ply",
			FlightTimeMinutes: 88.0,
			DataVolumeGB:      16.2,
		},
	}
}
