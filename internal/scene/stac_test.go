package scene

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestSplitPolarization(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"VV+VH", []string{"VV", "VH"}},
		{"VV", []string{"VV"}},
		{"hh+hv", []string{"HH", "HV"}},
		{"VV, VH", []string{"VV", "VH"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if got := SplitPolarization(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitPolarization(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestToSTACItem(t *testing.T) {
	angle := 32.0
	rec := &Record{
		SceneID:         "S1A_TEST",
		Platform:        "Sentinel-1A",
		BeamMode:        "IW",
		ProcessingLevel: "GRD_HD",
		AcquisitionDate: time.Date(2026, 6, 15, 6, 0, 0, 0, time.UTC),
		Polarization:    "VV+VH",
		OrbitDirection:  OrbitAscending,
		IncidenceAngle:  &angle,
		CenterLat:       53.35,
		CenterLon:       -6.26,
		AOICoverage:     0.9,
		DownloadURL:     "https://example.com/a.zip",
	}

	item := ToSTACItem(rec, "sentinel-1-irish-waters")

	if item.Id != "S1A_TEST" || item.Collection != "sentinel-1-irish-waters" {
		t.Errorf("item identity = %s/%s", item.Id, item.Collection)
	}
	if item.Properties["constellation"] != "sentinel-1" {
		t.Errorf("constellation = %v", item.Properties["constellation"])
	}
	if item.Properties["sar:instrument_mode"] != "IW" {
		t.Errorf("sar:instrument_mode = %v", item.Properties["sar:instrument_mode"])
	}
	pols, _ := item.Properties["sar:polarizations"].([]string)
	if !reflect.DeepEqual(pols, []string{"VV", "VH"}) {
		t.Errorf("sar:polarizations = %v", item.Properties["sar:polarizations"])
	}
	if item.Properties["sat:orbit_state"] != "ascending" {
		t.Errorf("sat:orbit_state = %v", item.Properties["sat:orbit_state"])
	}
	if item.Properties["view:incidence_angle"] != angle {
		t.Errorf("view:incidence_angle = %v", item.Properties["view:incidence_angle"])
	}

	asset, ok := item.Assets["data"]
	if !ok || asset.Href != rec.DownloadURL {
		t.Errorf("data asset = %+v", asset)
	}
}

func TestWriteSTAC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	records := []Record{
		{SceneID: "A", AcquisitionDate: time.Now().UTC(), Polarization: "VV"},
		{SceneID: "B", AcquisitionDate: time.Now().UTC(), Polarization: "VV+VH"},
	}

	if err := WriteSTAC(path, "test-collection", records); err != nil {
		t.Fatalf("WriteSTAC() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			Id string `json:"id"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if decoded.Type != "FeatureCollection" {
		t.Errorf("type = %q", decoded.Type)
	}
	if len(decoded.Features) != 2 || decoded.Features[0].Id != "A" {
		t.Errorf("features = %+v", decoded.Features)
	}
}
