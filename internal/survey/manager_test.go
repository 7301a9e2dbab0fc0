package survey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	droneerrors "github.com/aboldguess/Nerfdrone/internal/errors"
	"github.com/aboldguess/Nerfdrone/internal/geo"
)

func testCapture(id, name string, capturedOn time.Time, assets ...Asset) Capture {
	return Capture{
		ID:                id,
		Name:              name,
		CapturedOn:        capturedOn,
		Bounds:            geo.Bounds{LatMin: 0, LonMin: 0, LatMax: 1, LonMax: 1},
		Assets:            assets,
		PointCloudPath:    "/tmp/" + id + ".ply",
		FlightTimeMinutes: 60.0,
		DataVolumeGB:      10.0,
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestListCaptures_DescendingOrder(t *testing.T) {
	manager := NewManagerWith(
		testCapture("a", "Test A", day(2023, time.May, 1)),
		testCapture("b", "Test B", day(2024, time.May, 1)),
	)

	captures := manager.ListCaptures()
	if len(captures) != 2 {
		t.Fatalf("captures = %d, want 2", len(captures))
	}
	if captures[0].ID != "b" || captures[1].ID != "a" {
		t.Errorf("order = [%s, %s], want [b, a]", captures[0].ID, captures[1].ID)
	}
}

func TestListCaptures_EqualDatesKeepSeedOrder(t *testing.T) {
	sameDay := day(2024, time.June, 1)
	manager := NewManagerWith(
		testCapture("first_seeded", "One", sameDay),
		testCapture("second_seeded", "Two", sameDay),
	)

	captures := manager.ListCaptures()
	if captures[0].ID != "first_seeded" || captures[1].ID != "second_seeded" {
		t.Errorf("order = [%s, %s], want seed order for equal dates", captures[0].ID, captures[1].ID)
	}
}

func TestListCaptures_ReturnsDetachedCopies(t *testing.T) {
	manager := NewManagerWith(testCapture("a", "Test", day(2024, time.May, 1), Asset{ID: "bridge"}))

	listed := manager.ListCaptures()
	listed[0].Assets[0].Annotations = append(listed[0].Assets[0].Annotations, "scribble")
	listed[0].Notes = append(listed[0].Notes, "scribble")

	capture, err := manager.GetCapture("a")
	if err != nil {
		t.Fatalf("GetCapture() error = %v", err)
	}
	if len(capture.Assets[0].Annotations) != 0 || len(capture.Notes) != 0 {
		t.Error("mutating a listed capture leaked into manager state")
	}
}

func TestGetCapture_NotFound(t *testing.T) {
	manager := NewManagerWith()

	_, err := manager.GetCapture("ghost")
	if !droneerrors.Is(err, droneerrors.ErrNotFound) {
		t.Fatalf("GetCapture() error = %v, want not-found", err)
	}
	if err.Error() != "NOT_FOUND: Capture ghost is not registered" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestAppendAnnotation(t *testing.T) {
	manager := NewManagerWith(testCapture("cap", "Test", day(2024, time.May, 1),
		Asset{ID: "bridge", Classification: "bridge", VolumeCubicM: 100.0},
	))

	asset, err := manager.AppendAnnotation("cap", "bridge", "Check expansion joints")
	if err != nil {
		t.Fatalf("AppendAnnotation() error = %v", err)
	}
	if len(asset.Annotations) != 1 || asset.Annotations[0] != "Check expansion joints" {
		t.Errorf("Annotations = %v", asset.Annotations)
	}

	capture, err := manager.GetCapture("cap")
	if err != nil {
		t.Fatalf("GetCapture() error = %v", err)
	}
	if len(capture.Notes) != 1 || capture.Notes[0] != "bridge: Check expansion joints" {
		t.Errorf("Notes = %v, want mirrored note", capture.Notes)
	}
}

func TestAppendAnnotation_UnknownAsset(t *testing.T) {
	manager := NewManagerWith(testCapture("cap", "Test", day(2024, time.May, 1)))

	_, err := manager.AppendAnnotation("cap", "ghost", "note")
	if !droneerrors.Is(err, droneerrors.ErrNotFound) {
		t.Fatalf("AppendAnnotation() error = %v, want not-found", err)
	}
	if err.Error() != "NOT_FOUND: Asset ghost not present in capture cap" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestAppendAnnotation_UnknownCapture(t *testing.T) {
	manager := NewManagerWith()

	_, err := manager.AppendAnnotation("ghost", "bridge", "note")
	if !droneerrors.Is(err, droneerrors.ErrNotFound) {
		t.Fatalf("AppendAnnotation() error = %v, want not-found", err)
	}
}

func TestAppendAnnotation_ReturnedAssetDetached(t *testing.T) {
	manager := NewManagerWith(testCapture("cap", "Test", day(2024, time.May, 1), Asset{ID: "bridge"}))

	asset, err := manager.AppendAnnotation("cap", "bridge", "first")
	if err != nil {
		t.Fatalf("AppendAnnotation() error = %v", err)
	}
	asset.Annotations[0] = "tampered"

	capture, _ := manager.GetCapture("cap")
	if capture.Assets[0].Annotations[0] != "first" {
		t.Error("mutating the returned asset leaked into manager state")
	}
}

func TestMetrics_Totals(t *testing.T) {
	alpha := testCapture("demo_one", "Alpha", day(2024, time.June, 1),
		Asset{ID: "asset_a", Classification: "bridge", VolumeCubicM: 100.0},
	)
	alpha.Bounds = geo.Bounds{LatMin: 10.0, LonMin: 20.0, LatMax: 10.01, LonMax: 20.01}
	alpha.FlightTimeMinutes = 45.0
	alpha.DataVolumeGB = 5.0

	beta := testCapture("demo_two", "Beta", day(2024, time.June, 15),
		Asset{ID: "asset_b", Classification: "road", VolumeCubicM: 120.0},
		Asset{ID: "asset_c", Classification: "river", VolumeCubicM: 200.0},
	)
	beta.Bounds = geo.Bounds{LatMin: 10.0, LonMin: 20.0, LatMax: 10.02, LonMax: 20.02}
	beta.FlightTimeMinutes = 75.0
	beta.DataVolumeGB = 7.5

	manager := NewManagerWith(alpha, beta)

	metrics := manager.Metrics()
	if metrics.TotalSurveys != 2 {
		t.Errorf("TotalSurveys = %d, want 2", metrics.TotalSurveys)
	}
	if got, want := metrics.TotalFlightHours, (45.0+75.0)/60.0; !approx(got, want) {
		t.Errorf("TotalFlightHours = %v, want %v", got, want)
	}
	if !approx(metrics.TotalDataGB, 12.5) {
		t.Errorf("TotalDataGB = %v, want 12.5", metrics.TotalDataGB)
	}
	if !approx(metrics.AverageAssetsPerSurvey, 1.5) {
		t.Errorf("AverageAssetsPerSurvey = %v, want 1.5", metrics.AverageAssetsPerSurvey)
	}
	if metrics.TotalAcres <= 0 {
		t.Errorf("TotalAcres = %v, want positive", metrics.TotalAcres)
	}
	if metrics.LatestCaptureName != "Beta" {
		t.Errorf("LatestCaptureName = %q, want Beta", metrics.LatestCaptureName)
	}
	if metrics.LatestCaptureDate != "2024-06-15" {
		t.Errorf("LatestCaptureDate = %q, want 2024-06-15", metrics.LatestCaptureDate)
	}
}

func TestMetrics_EmptyManager(t *testing.T) {
	manager := NewManagerWith()

	metrics := manager.Metrics()
	if metrics != (Metrics{}) {
		t.Errorf("Metrics() = %+v, want zero values", metrics)
	}
}

func approx(got, want float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}

// TestManagerWorkflow_DemoSeed drives the demo data end to end the way the
// dashboard does: list, compare, annotate, then read back metrics.
func TestManagerWorkflow_DemoSeed(t *testing.T) {
	manager := NewManager()

	captures := manager.ListCaptures()
	require.Len(t, captures, 2)
	require.Equal(t, "central_river_2024_05_22", captures[0].ID)
	require.Equal(t, "central_river_2024_03_14", captures[1].ID)

	comparison, err := manager.CompareCaptures("central_river_2024_03_14", "central_river_2024_05_22", "")
	require.NoError(t, err)
	require.Len(t, comparison.Differences, 4)
	require.Equal(t, "bridge_east", comparison.Differences[0].AssetID)
	require.InDelta(t, 5.5, comparison.Differences[0].Delta, 1e-9)
	require.Contains(t, comparison.Narrative, "New asset construction_zone detected with 450.00 m³ volume.")
	require.Contains(t, comparison.Narrative, "Asset parkland_south is no longer present in the target survey.")

	asset, err := manager.AppendAnnotation("central_river_2024_05_22", "construction_zone", "Crane moved to north corner")
	require.NoError(t, err)
	require.Equal(t, []string{"Crane moved to north corner"}, asset.Annotations)

	capture, err := manager.GetCapture("central_river_2024_05_22")
	require.NoError(t, err)
	require.Contains(t, capture.Notes, "construction_zone: Crane moved to north corner")

	metrics := manager.Metrics()
	require.Equal(t, 2, metrics.TotalSurveys)
	require.Equal(t, "Central River Basin", metrics.LatestCaptureName)
	require.Equal(t, "2024-05-22", metrics.LatestCaptureDate)
	require.InDelta(t, (82.0+88.0)/60.0, metrics.TotalFlightHours, 1e-9)
	require.InDelta(t, 30.6, metrics.TotalDataGB, 1e-9)
	require.InDelta(t, 3.0, metrics.AverageAssetsPerSurvey, 1e-9)
}

func TestCaptureSummary(t *testing.T) {
	capture := DemoCaptures()[0]

	summary := capture.Summary()
	if summary.CaptureID != "central_river_2024_03_14" {
		t.Errorf("CaptureID = %q", summary.CaptureID)
	}
	if summary.CapturedOn != "2024-03-14" {
		t.Errorf("CapturedOn = %q", summary.CapturedOn)
	}
	if summary.AssetCount != 3 || len(summary.Assets) != 3 {
		t.Errorf("AssetCount = %d, Assets = %d", summary.AssetCount, len(summary.Assets))
	}
	if summary.Acres <= 0 {
		t.Errorf("Acres = %v, want positive", summary.Acres)
	}
	if summary.Overlay.Properties["capture_id"] != "central_river_2024_03_14" {
		t.Errorf("Overlay properties = %v", summary.Overlay.Properties)
	}
	if summary.Notes == nil {
		t.Error("Notes should be an empty slice, not nil")
	}
	// riverbank_section_a has no annotations; the summary must still carry
	// an empty slice so JSON encodes [] rather than null.
	if summary.Assets[1].Annotations == nil {
		t.Error("Annotations should be an empty slice, not nil")
	}
}
