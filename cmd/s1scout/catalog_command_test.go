package main

import (
	"testing"
	"time"
)

func TestParseDateRange(t *testing.T) {
	start, end, err := parseDateRange("2026-06-01", "2026-06-08")
	if err != nil {
		t.Fatalf("parseDateRange() error = %v", err)
	}
	if start.Format("2006-01-02") != "2026-06-01" {
		t.Errorf("start = %v", start)
	}
	// End is inclusive: the window runs to the end of the day.
	if end.Before(time.Date(2026, 6, 8, 23, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v, want end of 2026-06-08", end)
	}
}

func TestParseDateRangeDefaults(t *testing.T) {
	start, end, err := parseDateRange("", "")
	if err != nil {
		t.Fatalf("parseDateRange() error = %v", err)
	}
	if window := end.Sub(start); window < 6*24*time.Hour || window > 8*24*time.Hour {
		t.Errorf("default window = %v, want ~7 days", window)
	}
}

func TestParseDateRangeErrors(t *testing.T) {
	if _, _, err := parseDateRange("June 1st", ""); err == nil {
		t.Error("bad start date should fail")
	}
	if _, _, err := parseDateRange("2026-06-10", "2026-06-01"); err == nil {
		t.Error("inverted range should fail")
	}
}
