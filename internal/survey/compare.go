package survey

import (
	"fmt"
	"sort"
	"strings"

	droneerrors "github.com/aboldguess/Nerfdrone/internal/errors"
)

// AssetDiff records the volume change of one asset between two captures.
// A side the asset is missing from is reported as zero volume.
type AssetDiff struct {
	AssetID      string  `json:"asset_id"`
	BaseVolume   float64 `json:"base_volume_cubic_m"`
	TargetVolume float64 `json:"target_volume_cubic_m"`
	Delta        float64 `json:"delta_volume_cubic_m"`
}

// Comparison is the derived diff between two captures. It is computed on
// demand and never stored by the manager.
type Comparison struct {
	Base        Capture
	Target      Capture
	Differences []AssetDiff
	Narrative   string
}

// CompareCaptures diffs two captures asset by asset. With an empty
// focusAsset the sorted union of both captures' asset ids is compared;
// otherwise only the focus id is considered. Ids present in neither capture
// are skipped, so a focus asset unknown to both sides yields an empty diff
// and the no-differences narrative.
func (m *Manager) CompareCaptures(baseID, targetID, focusAsset string) (Comparison, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	base, ok := m.captures[baseID]
	if !ok {
		return Comparison{}, droneerrors.NewCaptureNotFound(baseID)
	}
	target, ok := m.captures[targetID]
	if !ok {
		return Comparison{}, droneerrors.NewCaptureNotFound(targetID)
	}

	baseVolumes := volumesByID(base.Assets)
	targetVolumes := volumesByID(target.Assets)

	var relevant []string
	if focusAsset != "" {
		relevant = []string{focusAsset}
	} else {
		relevant = sortedUnion(baseVolumes, targetVolumes)
	}

	differences := make([]AssetDiff, 0, len(relevant))
	var lines []string
	for _, assetID := range relevant {
		baseVolume, inBase := baseVolumes[assetID]
		targetVolume, inTarget := targetVolumes[assetID]
		if !inBase && !inTarget {
			continue
		}
		delta := targetVolume - baseVolume
		differences = append(differences, AssetDiff{
			AssetID:      assetID,
			BaseVolume:   baseVolume,
			TargetVolume: targetVolume,
			Delta:        delta,
		})
		switch {
		case inBase && inTarget:
			lines = append(lines, fmt.Sprintf("Asset %s changed by %+.2f m³ between surveys.", assetID, delta))
		case inBase:
			lines = append(lines, fmt.Sprintf("Asset %s is no longer present in the target survey.", assetID))
		default:
			lines = append(lines, fmt.Sprintf("New asset %s detected with %.2f m³ volume.", assetID, targetVolume))
		}
	}

	narrative := "No measurable differences detected."
	if len(lines) > 0 {
		narrative = strings.Join(lines, "\n")
	}
	return Comparison{
		Base:        base.clone(),
		Target:      target.clone(),
		Differences: differences,
		Narrative:   narrative,
	}, nil
}

func volumesByID(assets []Asset) map[string]float64 {
	volumes := make(map[string]float64, len(assets))
	for _, asset := range assets {
		volumes[asset.ID] = asset.VolumeCubicM
	}
	return volumes
}

func sortedUnion(a, b map[string]float64) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for id := range a {
		seen[id] = struct{}{}
	}
	for id := range b {
		seen[id] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
