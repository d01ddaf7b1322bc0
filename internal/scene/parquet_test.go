package scene

import (
	"path/filepath"
	"testing"
	"time"
)

func TestParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.parquet")

	wind := 9.5
	records := []Record{
		{
			SceneID:         "S1A_IW_GRDH_1SDV_20260615T060000",
			Platform:        "Sentinel-1A",
			BeamMode:        "IW",
			ProcessingLevel: "GRD_HD",
			AcquisitionDate: time.Date(2026, 6, 15, 6, 0, 0, 0, time.UTC),
			Polarization:    "VV+VH",
			OrbitDirection:  OrbitAscending,
			WindSpeed:       &wind,
			CenterLat:       53.35,
			CenterLon:       -6.26,
			AOICoverage:     0.87,
			DownloadURL:     "https://example.com/a.zip",
			FileSize:        1 << 30,
		},
		{
			// Minimal record: all optional quality columns nil.
			SceneID:         "S1B_IW_GRDH_1SSV_20260616T060000",
			AcquisitionDate: time.Date(2026, 6, 16, 6, 0, 0, 0, time.UTC),
			Polarization:    "VV",
			OrbitDirection:  OrbitDescending,
		},
	}

	if err := WriteParquet(path, records); err != nil {
		t.Fatalf("WriteParquet() error = %v", err)
	}

	got, err := ReadParquet(path)
	if err != nil {
		t.Fatalf("ReadParquet() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("read %d records, want 2", len(got))
	}

	first := got[0]
	if first.SceneID != records[0].SceneID {
		t.Errorf("SceneID = %q", first.SceneID)
	}
	if !first.AcquisitionDate.Equal(records[0].AcquisitionDate) {
		t.Errorf("AcquisitionDate = %v, want %v", first.AcquisitionDate, records[0].AcquisitionDate)
	}
	if first.WindSpeed == nil || *first.WindSpeed != wind {
		t.Errorf("WindSpeed = %v, want %v", first.WindSpeed, wind)
	}
	if first.FileSize != 1<<30 {
		t.Errorf("FileSize = %d", first.FileSize)
	}

	second := got[1]
	if second.WindSpeed != nil || second.SeaState != nil || second.CloudCover != nil || second.IncidenceAngle != nil {
		t.Error("nil optional columns must read back as nil, not zero")
	}
}

func TestReadParquetMissingFile(t *testing.T) {
	if _, err := ReadParquet(filepath.Join(t.TempDir(), "nope.parquet")); err == nil {
		t.Error("ReadParquet() on a missing file should fail")
	}
}
