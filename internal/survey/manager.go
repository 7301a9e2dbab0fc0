package survey

import (
	"fmt"
	"sort"
	"sync"

	droneerrors "github.com/aboldguess/Nerfdrone/internal/errors"
)

// Manager guards a registry of survey captures. All methods are safe for
// concurrent use; returned captures and assets are detached copies of
// internal state.
type Manager struct {
	mu       sync.RWMutex
	captures map[string]*Capture
	order    []string
}

// NewManager creates a manager seeded with the fixed demo capture set.
func NewManager() *Manager {
	return NewManagerWith(DemoCaptures()...)
}

// NewManagerWith creates a manager holding exactly the given captures,
// which may be none. A repeated capture id replaces the earlier entry.
func NewManagerWith(captures ...Capture) *Manager {
	m := &Manager{captures: make(map[string]*Capture, len(captures))}
	for _, capture := range captures {
		capture := capture.clone()
		if _, exists := m.captures[capture.ID]; !exists {
			m.order = append(m.order, capture.ID)
		}
		m.captures[capture.ID] = &capture
	}
	return m
}

// ListCaptures returns all captures ordered by capture date descending.
// Captures sharing a date keep their seed order.
func (m *Manager) ListCaptures() []Capture {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked()
}

func (m *Manager) listLocked() []Capture {
	captures := make([]Capture, 0, len(m.order))
	for _, id := range m.order {
		captures = append(captures, m.captures[id].clone())
	}
	sort.SliceStable(captures, func(i, j int) bool {
		return captures[i].CapturedOn.After(captures[j].CapturedOn)
	})
	return captures
}

// GetCapture retrieves a capture by id.
func (m *Manager) GetCapture(captureID string) (Capture, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	capture, ok := m.captures[captureID]
	if !ok {
		return Capture{}, droneerrors.NewCaptureNotFound(captureID)
	}
	return capture.clone(), nil
}

// AppendAnnotation records an operator note on an asset and mirrors it into
// the capture's notes as "<asset_id>: <note>". The updated asset is returned.
func (m *Manager) AppendAnnotation(captureID, assetID, note string) (Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	capture, ok := m.captures[captureID]
	if !ok {
		return Asset{}, droneerrors.NewCaptureNotFound(captureID)
	}
	for i := range capture.Assets {
		if capture.Assets[i].ID != assetID {
			continue
		}
		capture.Assets[i].Annotations = append(capture.Assets[i].Annotations, note)
		capture.Notes = append(capture.Notes, fmt.Sprintf("%s: %s", assetID, note))
		return capture.Assets[i].clone(), nil
	}
	return Asset{}, droneerrors.NewAssetNotFound(assetID, captureID)
}

// Metrics aggregates survey insights for the dashboard.
type Metrics struct {
	TotalSurveys           int     `json:"total_surveys"`
	TotalAcres             float64 `json:"total_acres"`
	TotalFlightHours       float64 `json:"total_flight_hours"`
	TotalDataGB            float64 `json:"total_data_gb"`
	AverageAssetsPerSurvey float64 `json:"average_assets_per_survey"`
	LatestCaptureName      string  `json:"latest_capture_name"`
	LatestCaptureDate      string  `json:"latest_capture_date"`
}

// Metrics aggregates acreage, flight hours, data volume, and asset counts
// across all captures. An empty manager yields zero values.
func (m *Manager) Metrics() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	captures := m.listLocked()
	if len(captures) == 0 {
		return Metrics{}
	}

	metrics := Metrics{TotalSurveys: len(captures)}
	totalMinutes := 0.0
	totalAssets := 0
	for _, capture := range captures {
		metrics.TotalAcres += capture.Acres()
		metrics.TotalDataGB += capture.DataVolumeGB
		totalMinutes += capture.FlightTimeMinutes
		totalAssets += len(capture.Assets)
	}
	metrics.TotalFlightHours = totalMinutes / 60.0
	metrics.AverageAssetsPerSurvey = float64(totalAssets) / float64(len(captures))
	metrics.LatestCaptureName = captures[0].Name
	metrics.LatestCaptureDate = captures[0].CapturedOn.Format(dateLayout)
	return metrics
}
