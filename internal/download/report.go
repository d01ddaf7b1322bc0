package download

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

// ReportSummary aggregates the outcomes of a download run.
type ReportSummary struct {
	TotalScenes      int     `json:"total_scenes"`
	Successful       int     `json:"successful"`
	Failed           int     `json:"failed"`
	Skipped          int     `json:"skipped"`
	SuccessRate      float64 `json:"success_rate"`
	TotalBytes       int64   `json:"total_bytes"`
	TotalSize        string  `json:"total_size"`
	TotalTimeSeconds float64 `json:"total_time_seconds"`
	AverageSpeedMbps float64 `json:"average_speed_mbps"`
}

// Report is the full record of a download run, suitable for JSON
// serialization and for the reports API.
type Report struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Summary     ReportSummary `json:"summary"`
	Results     []Result      `json:"results"`
	Failed      []string      `json:"failed_scenes,omitempty"`
}

// BuildReport aggregates per-scene results into a run report. Results
// are ordered by scene ID for deterministic output.
func BuildReport(runID string, results []Result, elapsed time.Duration) *Report {
	sorted := make([]Result, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SceneID < sorted[j].SceneID
	})

	summary := ReportSummary{
		TotalScenes:      len(sorted),
		TotalTimeSeconds: elapsed.Seconds(),
	}

	var failed []string
	for _, res := range sorted {
		if res.Success {
			summary.Successful++
			if res.Skipped {
				summary.Skipped++
			} else {
				summary.TotalBytes += res.FileSize
			}
		} else {
			summary.Failed++
			failed = append(failed, res.SceneID)
		}
	}

	if summary.TotalScenes > 0 {
		summary.SuccessRate = float64(summary.Successful) / float64(summary.TotalScenes)
	}
	summary.TotalSize = humanize.Bytes(uint64(summary.TotalBytes))
	if elapsed > 0 && summary.TotalBytes > 0 {
		summary.AverageSpeedMbps = float64(summary.TotalBytes) * 8 / 1e6 / elapsed.Seconds()
	}

	return &Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
		Results:     sorted,
		Failed:      failed,
	}
}

// WriteReport serializes the report as indented JSON at path.
func WriteReport(report *Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a report previously written by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &report, nil
}
