package classify

import (
	"math"
	"testing"
)

func labelsEqual(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestClassify_Heuristics(t *testing.T) {
	classifier := New()

	tests := []struct {
		name       string
		vector     []float64
		labels     []string
		confidence float64
	}{
		{
			name:       "bright flat vector stacks building and road",
			vector:     []float64{0.7, 0.72, 0.71},
			labels:     []string{"building", "road"},
			confidence: 0.81,
		},
		{
			name:       "dim flat vector is a road",
			vector:     []float64{0.1, 0.15, 0.11},
			labels:     []string{"road"},
			confidence: 0.22,
		},
		{
			name:       "mid flat vector stacks road and field",
			vector:     []float64{0.4, 0.45, 0.5},
			labels:     []string{"road", "field"},
			confidence: 0.55,
		},
		{
			name:       "high spread vector is trees",
			vector:     []float64{0.0, 1.0, 0.0, 1.0},
			labels:     []string{"trees"},
			confidence: 0.6,
		},
		{
			name:       "nothing matching falls back to water",
			vector:     []float64{0.55, 0.75, 0.2, 0.85},
			labels:     []string{"water"},
			confidence: 0.6875,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := classifier.Classify(map[string][]float64{"asset": tt.vector})
			if len(results) != 1 {
				t.Fatalf("results = %d, want 1", len(results))
			}
			if !labelsEqual(results[0].Labels, tt.labels) {
				t.Errorf("Labels = %v, want %v", results[0].Labels, tt.labels)
			}
			if math.Abs(results[0].Confidence-tt.confidence) > 1e-9 {
				t.Errorf("Confidence = %v, want %v", results[0].Confidence, tt.confidence)
			}
		})
	}
}

func TestClassify_ConfidenceCapped(t *testing.T) {
	classifier := New()

	results := classifier.Classify(map[string][]float64{"asset": {0.95, 0.96, 0.97}})
	if results[0].Confidence != 0.99 {
		t.Errorf("Confidence = %v, want capped at 0.99", results[0].Confidence)
	}
}

func TestClassify_SkipsEmptyVectors(t *testing.T) {
	classifier := New()

	results := classifier.Classify(map[string][]float64{
		"asset_empty": {},
		"asset_full":  {0.1, 0.1},
	})
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].AssetID != "asset_full" {
		t.Errorf("AssetID = %q", results[0].AssetID)
	}
}

func TestClassify_OrderedByAssetID(t *testing.T) {
	classifier := New()

	results := classifier.Classify(DemoVectors())
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	want := []string{"asset_001", "asset_002", "asset_003"}
	for i, id := range want {
		if results[i].AssetID != id {
			t.Errorf("results[%d].AssetID = %q, want %q", i, results[i].AssetID, id)
		}
	}
	if !labelsEqual(results[0].Labels, []string{"building", "road"}) {
		t.Errorf("asset_001 labels = %v", results[0].Labels)
	}
	if !labelsEqual(results[1].Labels, []string{"road"}) {
		t.Errorf("asset_002 labels = %v", results[1].Labels)
	}
	if !labelsEqual(results[2].Labels, []string{"road", "field"}) {
		t.Errorf("asset_003 labels = %v", results[2].Labels)
	}
}

func TestLabels_ReturnsDetachedCopy(t *testing.T) {
	classifier := New()

	labels := classifier.Labels()
	want := []string{"building", "road", "railway", "field", "trees", "water"}
	if !labelsEqual(labels, want) {
		t.Fatalf("Labels() = %v, want %v", labels, want)
	}
	labels[0] = "tampered"
	if classifier.Labels()[0] != "building" {
		t.Error("mutating the returned slice leaked into classifier state")
	}
}

func TestNew_CustomVocabulary(t *testing.T) {
	classifier := New("crops", "water")

	if !labelsEqual(classifier.Labels(), []string{"crops", "water"}) {
		t.Errorf("Labels() = %v", classifier.Labels())
	}
}
