package download

import (
	"path/filepath"
	"testing"
	"time"
)

func TestBuildReportAggregation(t *testing.T) {
	results := []Result{
		{SceneID: "C", Success: true, FileSize: 100},
		{SceneID: "A", Success: true, Skipped: true, FileSize: 50},
		{SceneID: "B", Error: "connection reset"},
	}

	report := BuildReport("run-x", results, 2*time.Second)

	if report.RunID != "run-x" {
		t.Errorf("run ID = %q", report.RunID)
	}

	s := report.Summary
	if s.TotalScenes != 3 || s.Successful != 2 || s.Failed != 1 || s.Skipped != 1 {
		t.Fatalf("summary = %+v", s)
	}
	// Skipped scenes contribute no transferred bytes.
	if s.TotalBytes != 100 {
		t.Errorf("total bytes = %d, want 100", s.TotalBytes)
	}
	if s.SuccessRate < 0.66 || s.SuccessRate > 0.67 {
		t.Errorf("success rate = %v, want ~2/3", s.SuccessRate)
	}
	if s.AverageSpeedMbps != 100*8/1e6/2 {
		t.Errorf("speed = %v Mbps", s.AverageSpeedMbps)
	}

	// Results come back sorted by scene ID regardless of arrival order.
	var ids []string
	for _, r := range report.Results {
		ids = append(ids, r.SceneID)
	}
	want := []string{"A", "B", "C"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("result order = %v, want %v", ids, want)
		}
	}

	if len(report.Failed) != 1 || report.Failed[0] != "B" {
		t.Errorf("failed list = %v", report.Failed)
	}
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport("run-empty", nil, time.Second)
	if report.Summary.TotalScenes != 0 || report.Summary.SuccessRate != 0 {
		t.Errorf("summary = %+v", report.Summary)
	}
}

func TestReportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	report := BuildReport("run-rt", []Result{
		{SceneID: "A", Success: true, FileSize: 10, Attempts: 1},
	}, time.Second)

	if err := WriteReport(report, path); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	got, err := ReadReport(path)
	if err != nil {
		t.Fatalf("ReadReport() error = %v", err)
	}
	if got.RunID != report.RunID || len(got.Results) != 1 {
		t.Errorf("round trip = %+v", got)
	}
	if got.Results[0].SceneID != "A" || !got.Results[0].Success {
		t.Errorf("result = %+v", got.Results[0])
	}
}
