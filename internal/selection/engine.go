package selection

import (
	"math"
	"sort"
	"time"

	"s1scout/internal/scene"
)

// ScoredScene is a catalog record augmented with the derived priority
// fields computed during selection.
type ScoredScene struct {
	scene.Record

	// DualPolPriority is 1 for dual-polarization scenes, else 0.
	DualPolPriority int `json:"dual_pol_priority"`
	// ShippingLanePriority counts the priority zones containing the
	// scene center.
	ShippingLanePriority int `json:"shipping_lane_priority"`
	// CompositeRank is the 1-based position in the final ordering.
	CompositeRank int `json:"composite_rank"`
}

// DateRange is the acquisition span of the selected scenes.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CoverageStats summarizes AOI coverage over the selected scenes.
type CoverageStats struct {
	Mean float64 `json:"mean_coverage"`
	Min  float64 `json:"min_coverage"`
	Max  float64 `json:"max_coverage"`
}

// Summary aggregates the final selected set. All statistics are computed
// over the selection result, not the input catalog.
type Summary struct {
	TotalScenes     int            `json:"total_scenes"`
	DateRange       DateRange      `json:"date_range"`
	Polarizations   map[string]int `json:"polarizations"`
	OrbitDirections map[string]int `json:"orbit_directions"`
	Coverage        CoverageStats  `json:"coverage_stats"`
}

// Result is the outcome of one selection run: the ranked scenes (best
// first), a summary, and the manifest for the download stage.
type Result struct {
	Scenes   []ScoredScene         `json:"scenes"`
	Summary  Summary               `json:"summary"`
	Manifest []scene.ManifestEntry `json:"manifest"`
}

// Select runs the selection pipeline over a catalog: hard quality
// filters, priority scoring, composite ranking, per-day distribution cap,
// and the global cap. It is a pure function: the input catalog is not
// modified and concurrent callers need no coordination.
//
// Records missing an optional field (wind speed, sea state, cloud cover,
// incidence angle) are exempt from the filter referencing that field;
// missing data never rejects a scene. Duplicate scene IDs keep the first
// occurrence.
//
// An empty catalog yields an empty, non-error result. An invalid config
// yields a *ConfigError before any filtering.
func Select(catalog []scene.Record, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Keep-first dedupe: catalog uniqueness is an upstream invariant,
	// but a deterministic tie-break keeps Select reproducible anyway.
	seen := make(map[string]struct{}, len(catalog))

	// Stage 1: hard filters.
	candidates := make([]ScoredScene, 0, len(catalog))
	for i := range catalog {
		rec := &catalog[i]
		if _, dup := seen[rec.SceneID]; dup {
			continue
		}
		seen[rec.SceneID] = struct{}{}

		if !passesHardFilters(rec, &cfg) {
			continue
		}
		candidates = append(candidates, ScoredScene{Record: *rec})
	}

	// Stage 2: scoring.
	for i := range candidates {
		if candidates[i].IsDualPol() {
			candidates[i].DualPolPriority = 1
		}
		candidates[i].ShippingLanePriority = zoneHits(&candidates[i].Record, cfg.PriorityZones)
	}

	// Stage 3: composite ranking with a deterministic tie-break.
	sort.SliceStable(candidates, func(a, b int) bool {
		sa, sb := &candidates[a], &candidates[b]
		if sa.ShippingLanePriority != sb.ShippingLanePriority {
			return sa.ShippingLanePriority > sb.ShippingLanePriority
		}
		if cfg.PreferDualPol && sa.DualPolPriority != sb.DualPolPriority {
			return sa.DualPolPriority > sb.DualPolPriority
		}
		if cfg.PreferRecent && !sa.AcquisitionDate.Equal(sb.AcquisitionDate) {
			return sa.AcquisitionDate.After(sb.AcquisitionDate)
		}
		return sa.SceneID < sb.SceneID
	})

	// Stage 4: temporal distribution cap, dropping the lowest-ranked
	// excess per calendar day while preserving rank order.
	perDay := make(map[string]int)
	selected := candidates[:0]
	for i := range candidates {
		day := candidates[i].Day()
		if perDay[day] >= cfg.MaxScenesPerDay {
			continue
		}
		perDay[day]++
		selected = append(selected, candidates[i])
	}

	// Stage 5: global cap.
	if len(selected) > cfg.MaxScenes {
		selected = selected[:cfg.MaxScenes]
	}

	for i := range selected {
		selected[i].CompositeRank = i + 1
	}

	result := &Result{
		Scenes:   selected,
		Summary:  summarize(selected),
		Manifest: buildManifest(selected),
	}
	return result, nil
}

// passesHardFilters applies the stage-1 threshold filters. A filter only
// rejects when its field is present and out of bound.
func passesHardFilters(rec *scene.Record, cfg *Config) bool {
	if rec.WindSpeed != nil && *rec.WindSpeed > cfg.WindSpeedMax {
		return false
	}
	if rec.SeaState != nil && *rec.SeaState > cfg.SeaStateMax {
		return false
	}
	if rec.CloudCover != nil && *rec.CloudCover > cfg.CloudCoverMax {
		return false
	}
	if rec.IncidenceAngle != nil {
		angle := *rec.IncidenceAngle
		if angle < cfg.MinIncidenceAngle || angle > cfg.MaxIncidenceAngle {
			return false
		}
	}
	if rec.AOICoverage < cfg.MinCoverage {
		return false
	}
	return true
}

// zoneHits counts the priority zones whose planar degree distance from
// the scene center is within the zone radius.
func zoneHits(rec *scene.Record, zones []Zone) int {
	hits := 0
	for _, z := range zones {
		dLat := rec.CenterLat - z.Lat
		dLon := rec.CenterLon - z.Lon
		if math.Sqrt(dLat*dLat+dLon*dLon) <= z.Radius {
			hits++
		}
	}
	return hits
}

func summarize(selected []ScoredScene) Summary {
	s := Summary{
		TotalScenes:     len(selected),
		Polarizations:   make(map[string]int),
		OrbitDirections: make(map[string]int),
	}
	if len(selected) == 0 {
		return s
	}

	var coverageSum float64
	s.Coverage.Min = math.Inf(1)
	s.Coverage.Max = math.Inf(-1)
	s.DateRange.Start = selected[0].AcquisitionDate
	s.DateRange.End = selected[0].AcquisitionDate

	for i := range selected {
		rec := &selected[i].Record

		s.Polarizations[rec.Polarization]++
		s.OrbitDirections[rec.OrbitDirection]++

		coverageSum += rec.AOICoverage
		s.Coverage.Min = math.Min(s.Coverage.Min, rec.AOICoverage)
		s.Coverage.Max = math.Max(s.Coverage.Max, rec.AOICoverage)

		if rec.AcquisitionDate.Before(s.DateRange.Start) {
			s.DateRange.Start = rec.AcquisitionDate
		}
		if rec.AcquisitionDate.After(s.DateRange.End) {
			s.DateRange.End = rec.AcquisitionDate
		}
	}
	s.Coverage.Mean = coverageSum / float64(len(selected))
	return s
}

func buildManifest(selected []ScoredScene) []scene.ManifestEntry {
	manifest := make([]scene.ManifestEntry, 0, len(selected))
	for i := range selected {
		rec := &selected[i].Record
		manifest = append(manifest, scene.ManifestEntry{
			SceneID:     rec.SceneID,
			DownloadURL: rec.DownloadURL,
			FileSize:    rec.FileSize,
		})
	}
	return manifest
}
