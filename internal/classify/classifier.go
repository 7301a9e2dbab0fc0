// Package classify provides deterministic scene classification heuristics
// over engineered feature vectors. Production deployments swap the
// heuristics for a real model without changing the consuming surfaces.
package classify

import (
	"math"
	"sort"
)

// defaultLabels is the label vocabulary shown in the dashboard legend.
var defaultLabels = []string{"building", "road", "railway", "field", "trees", "water"}

// Classification summarises the labels assigned to one segmented asset.
type Classification struct {
	AssetID    string   `json:"asset_id"`
	Labels     []string `json:"labels"`
	Confidence float64  `json:"confidence"`
}

// Classifier scores named feature vectors against a fixed label set.
type Classifier struct {
	labels []string
}

// New creates a classifier. The default label vocabulary is used when none
// is supplied.
func New(labels ...string) *Classifier {
	if len(labels) == 0 {
		labels = defaultLabels
	}
	return &Classifier{labels: append([]string(nil), labels...)}
}

// Labels returns a copy of the supported label vocabulary.
func (c *Classifier) Labels() []string {
	return append([]string(nil), c.labels...)
}

// Classify scores each named vector and returns one classification per
// non-empty vector, ordered by asset id. Labels accumulate: a vector can
// match several heuristics at once, and "water" is the fallback when none
// match.
func (c *Classifier) Classify(vectors map[string][]float64) []Classification {
	ids := make([]string, 0, len(vectors))
	for id := range vectors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]Classification, 0, len(ids))
	for _, id := range ids {
		vector := vectors[id]
		if len(vector) == 0 {
			continue
		}
		mean, std := vectorStats(vector)
		var labels []string
		if mean > 0.6 {
			labels = append(labels, "building")
		}
		if std < 0.1 {
			labels = append(labels, "road")
		}
		if mean > 0.2 && mean < 0.5 {
			labels = append(labels, "field")
		}
		if std > 0.4 {
			labels = append(labels, "trees")
		}
		if len(labels) == 0 {
			labels = append(labels, "water")
		}
		results = append(results, Classification{
			AssetID:    id,
			Labels:     labels,
			Confidence: math.Min(0.99, mean+0.1),
		})
	}
	return results
}

// vectorStats returns the mean and population standard deviation.
func vectorStats(vector []float64) (float64, float64) {
	var sum float64
	for _, v := range vector {
		sum += v
	}
	mean := sum / float64(len(vector))

	var variance float64
	for _, v := range vector {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(vector))
	return mean, math.Sqrt(variance)
}

// DemoVectors returns the fixed feature vectors behind the dashboard's
// classification demo.
func DemoVectors() map[string][]float64 {
	return map[string][]float64{
		"asset_001": {0.7, 0.72, 0.71},
		"asset_002": {0.1, 0.15, 0.11},
		"asset_003": {0.4, 0.45, 0.5},
	}
}
