// Package pointcloud persists reconstructed asset geometry as ASCII PLY
// files, the interchange format most photogrammetry viewers accept.
package pointcloud

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	droneerrors "github.com/aboldguess/Nerfdrone/internal/errors"
)

// Point is a single vertex in metres, east-north-up relative to the
// reconstruction origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Color is an 8-bit RGB vertex colour.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Cloud holds the geometry of one asset. Colors are optional; when present
// they pair one-to-one with Points.
type Cloud struct {
	Points []Point `json:"points"`
	Colors []Color `json:"colors,omitempty"`
}

// Export writes the cloud to destination in ASCII PLY format, creating
// parent directories as needed.
func Export(cloud Cloud, destination string) error {
	if cloud.Colors != nil && len(cloud.Colors) != len(cloud.Points) {
		return droneerrors.NewValidation("Colors must pair one-to-one with points")
	}
	if err := os.MkdirAll(filepath.Dir(destination), 0700); err != nil {
		return droneerrors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	header := []string{
		"ply",
		"format ascii 1.0",
		fmt.Sprintf("element vertex %d", len(cloud.Points)),
		"property float x",
		"property float y",
		"property float z",
	}
	if cloud.Colors != nil {
		header = append(header,
			"property uchar red",
			"property uchar green",
			"property uchar blue",
		)
	}
	header = append(header, "end_header\n")

	var buf bytes.Buffer
	buf.WriteString(strings.Join(header, "\n"))
	for i, point := range cloud.Points {
		if cloud.Colors != nil {
			color := cloud.Colors[i]
			fmt.Fprintf(&buf, "%s %s %s %d %d %d\n",
				coord(point.X), coord(point.Y), coord(point.Z),
				color.R, color.G, color.B)
		} else {
			fmt.Fprintf(&buf, "%s %s %s\n",
				coord(point.X), coord(point.Y), coord(point.Z))
		}
	}

	if err := os.WriteFile(destination, buf.Bytes(), 0600); err != nil {
		return droneerrors.NewInternal(fmt.Errorf("failed to write point cloud: %w", err))
	}
	return nil
}

// ExportAssets writes one <asset>.ply per selected asset into outputDir and
// returns the written paths in selection order. Assets missing from the
// lookup are skipped.
func ExportAssets(selected []string, clouds map[string][]Point, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0700); err != nil {
		return nil, droneerrors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}
	paths := make([]string, 0, len(selected))
	for _, asset := range selected {
		points, ok := clouds[asset]
		if !ok {
			continue
		}
		destination := filepath.Join(outputDir, asset+".ply")
		if err := Export(Cloud{Points: points}, destination); err != nil {
			return nil, err
		}
		paths = append(paths, destination)
	}
	return paths, nil
}

// coord renders a coordinate with the shortest representation that parses
// back to the same float64.
func coord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
