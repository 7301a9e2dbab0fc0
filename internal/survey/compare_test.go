package survey

import (
	"testing"
	"time"

	droneerrors "github.com/aboldguess/Nerfdrone/internal/errors"
)

func compareFixture() *Manager {
	return NewManagerWith(
		testCapture("first", "Test", day(2024, time.January, 1),
			Asset{ID: "bridge", Classification: "bridge", RepresentativePoint: [2]float64{0.1, 0.1}, VolumeCubicM: 100.0},
		),
		testCapture("second", "Test", day(2024, time.February, 1),
			Asset{ID: "bridge", Classification: "bridge", RepresentativePoint: [2]float64{0.1, 0.1}, VolumeCubicM: 110.0},
			Asset{ID: "road", Classification: "road", RepresentativePoint: [2]float64{0.2, 0.2}, VolumeCubicM: 50.0},
		),
	)
}

func diffByID(t *testing.T, diffs []AssetDiff, assetID string) AssetDiff {
	t.Helper()
	for _, diff := range diffs {
		if diff.AssetID == assetID {
			return diff
		}
	}
	t.Fatalf("asset %q not in differences %v", assetID, diffs)
	return AssetDiff{}
}

func TestCompareCaptures_HighlightsNewAsset(t *testing.T) {
	manager := compareFixture()

	comparison, err := manager.CompareCaptures("first", "second", "")
	if err != nil {
		t.Fatalf("CompareCaptures() error = %v", err)
	}

	bridge := diffByID(t, comparison.Differences, "bridge")
	if !approx(bridge.Delta, 10.0) {
		t.Errorf("bridge delta = %v, want 10.0", bridge.Delta)
	}
	road := diffByID(t, comparison.Differences, "road")
	if !approx(road.TargetVolume, 50.0) {
		t.Errorf("road target volume = %v, want 50.0", road.TargetVolume)
	}
	if road.BaseVolume != 0 {
		t.Errorf("road base volume = %v, want 0", road.BaseVolume)
	}

	wantNarrative := "Asset bridge changed by +10.00 m³ between surveys.\nNew asset road detected with 50.00 m³ volume."
	if comparison.Narrative != wantNarrative {
		t.Errorf("Narrative = %q, want %q", comparison.Narrative, wantNarrative)
	}
}

func TestCompareCaptures_SortedUnion(t *testing.T) {
	manager := NewManagerWith(
		testCapture("base", "Test", day(2024, time.January, 1),
			Asset{ID: "zulu", VolumeCubicM: 10},
			Asset{ID: "alpha", VolumeCubicM: 20},
		),
		testCapture("target", "Test", day(2024, time.February, 1),
			Asset{ID: "mike", VolumeCubicM: 30},
		),
	)

	comparison, err := manager.CompareCaptures("base", "target", "")
	if err != nil {
		t.Fatalf("CompareCaptures() error = %v", err)
	}
	got := make([]string, 0, len(comparison.Differences))
	for _, diff := range comparison.Differences {
		got = append(got, diff.AssetID)
	}
	want := []string{"alpha", "mike", "zulu"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("difference order = %v, want %v", got, want)
		}
	}
}

func TestCompareCaptures_RemovedAsset(t *testing.T) {
	manager := compareFixture()

	// Reverse direction: the road disappears.
	comparison, err := manager.CompareCaptures("second", "first", "")
	if err != nil {
		t.Fatalf("CompareCaptures() error = %v", err)
	}
	road := diffByID(t, comparison.Differences, "road")
	if !approx(road.Delta, -50.0) {
		t.Errorf("road delta = %v, want -50.0", road.Delta)
	}
	wantLine := "Asset road is no longer present in the target survey."
	if comparison.Narrative != "Asset bridge changed by -10.00 m³ between surveys.\n"+wantLine {
		t.Errorf("Narrative = %q", comparison.Narrative)
	}
}

func TestCompareCaptures_FocusAsset(t *testing.T) {
	manager := compareFixture()

	comparison, err := manager.CompareCaptures("first", "second", "road")
	if err != nil {
		t.Fatalf("CompareCaptures() error = %v", err)
	}
	if len(comparison.Differences) != 1 {
		t.Fatalf("differences = %d, want 1", len(comparison.Differences))
	}
	if comparison.Differences[0].AssetID != "road" {
		t.Errorf("focused asset = %q, want road", comparison.Differences[0].AssetID)
	}
}

func TestCompareCaptures_FocusAssetUnknownToBothSides(t *testing.T) {
	manager := compareFixture()

	comparison, err := manager.CompareCaptures("first", "second", "helipad")
	if err != nil {
		t.Fatalf("CompareCaptures() error = %v", err)
	}
	if len(comparison.Differences) != 0 {
		t.Errorf("differences = %v, want none", comparison.Differences)
	}
	if comparison.Narrative != "No measurable differences detected." {
		t.Errorf("Narrative = %q", comparison.Narrative)
	}
}

func TestCompareCaptures_NoAssets(t *testing.T) {
	manager := NewManagerWith(
		testCapture("empty_one", "Test", day(2024, time.January, 1)),
		testCapture("empty_two", "Test", day(2024, time.February, 1)),
	)

	comparison, err := manager.CompareCaptures("empty_one", "empty_two", "")
	if err != nil {
		t.Fatalf("CompareCaptures() error = %v", err)
	}
	if comparison.Narrative != "No measurable differences detected." {
		t.Errorf("Narrative = %q", comparison.Narrative)
	}
}

func TestCompareCaptures_UnknownCapture(t *testing.T) {
	manager := compareFixture()

	_, err := manager.CompareCaptures("first", "ghost", "")
	if !droneerrors.Is(err, droneerrors.ErrNotFound) {
		t.Fatalf("CompareCaptures() error = %v, want not-found", err)
	}
	if err.Error() != "NOT_FOUND: Capture ghost is not registered" {
		t.Errorf("error = %q", err.Error())
	}

	_, err = manager.CompareCaptures("ghost", "second", "")
	if !droneerrors.Is(err, droneerrors.ErrNotFound) {
		t.Fatalf("CompareCaptures() error = %v, want not-found", err)
	}
}

func TestCompareCaptures_CarriesCaptureCopies(t *testing.T) {
	manager := compareFixture()

	comparison, err := manager.CompareCaptures("first", "second", "")
	if err != nil {
		t.Fatalf("CompareCaptures() error = %v", err)
	}
	if comparison.Base.ID != "first" || comparison.Target.ID != "second" {
		t.Errorf("captures = %q -> %q", comparison.Base.ID, comparison.Target.ID)
	}

	comparison.Target.Assets[0].Annotations = append(comparison.Target.Assets[0].Annotations, "scribble")
	capture, _ := manager.GetCapture("second")
	if len(capture.Assets[0].Annotations) != 0 {
		t.Error("mutating a comparison capture leaked into manager state")
	}
}
