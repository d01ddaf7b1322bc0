package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	// Run from a temp dir so no local s1scout.toml interferes.
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}

	if cfg.Region.Name != "Irish Waters" {
		t.Errorf("region name = %q", cfg.Region.Name)
	}
	wantBBox := []float64{-11, 51, -5, 56}
	for i := range wantBBox {
		if cfg.Region.BBox[i] != wantBBox[i] {
			t.Fatalf("bbox = %v, want %v", cfg.Region.BBox, wantBBox)
		}
	}

	if len(cfg.Zones) != 3 {
		t.Fatalf("zones = %d, want 3 (Dublin Bay, Cork Harbour, Irish Sea)", len(cfg.Zones))
	}
	if cfg.Zones[0].Name != "Dublin Bay" || cfg.Zones[0].Radius != 0.5 {
		t.Errorf("first zone = %+v", cfg.Zones[0])
	}

	if cfg.Selection.MaxScenes != 50 || cfg.Selection.MaxScenesPerDay != 2 {
		t.Errorf("selection caps = %d/%d", cfg.Selection.MaxScenes, cfg.Selection.MaxScenesPerDay)
	}
	if cfg.Selection.MinCoverage != 0.8 || cfg.Selection.WindSpeedMax != 15 {
		t.Errorf("selection thresholds = %+v", cfg.Selection)
	}

	if cfg.Download.MaxWorkers != 3 || cfg.Download.RetryAttempts != 3 {
		t.Errorf("download tuning = %+v", cfg.Download)
	}
	if cfg.Download.RetryDelay.Std() != 30*time.Second {
		t.Errorf("retry delay = %v, want 30s", cfg.Download.RetryDelay)
	}
	if cfg.Download.FileTimeout.Std() != time.Hour {
		t.Errorf("file timeout = %v, want 1h", cfg.Download.FileTimeout)
	}

	if cfg.ASF.BaseURL != "https://api.daac.asf.alaska.edu" {
		t.Errorf("ASF base URL = %q", cfg.ASF.BaseURL)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[region]
name = "Test Waters"
bbox = [-2.0, 50.0, 0.0, 52.0]

[catalog]
dataset = "SENTINEL-1"
max_results = 25

[selection]
max_scenes = 10
min_coverage = 0.5
wind_speed_max = 12.0
sea_state_max = 3.0
cloud_cover_max = 0.2
min_incidence_angle = 20.0
max_incidence_angle = 45.0
max_scenes_per_day = 1

[download]
max_workers = 2
retry_attempts = 1
retry_delay = "5s"
file_timeout = "10m"

[server]
bind = "127.0.0.1:9999"
read_timeout = "5s"
write_timeout = "5s"

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Region.Name != "Test Waters" || cfg.Selection.MaxScenes != 10 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Download.FileTimeout.Std() != 10*time.Minute {
		t.Errorf("file timeout = %v", cfg.Download.FileTimeout)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("logging format = %q", cfg.Logging.Format)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("EARTHDATA_TOKEN", "test-token")
	t.Setenv("ASF_BASE_URL", "https://asf.example.com")
	t.Setenv("ASF_TIMEOUT", "45s")

	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Earthdata.Token != "test-token" {
		t.Errorf("token = %q", cfg.Earthdata.Token)
	}
	if cfg.ASF.BaseURL != "https://asf.example.com" {
		t.Errorf("ASF base URL = %q", cfg.ASF.BaseURL)
	}
	if cfg.ASF.Timeout != 45*time.Second {
		t.Errorf("ASF timeout = %v", cfg.ASF.Timeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("explicit missing path should fail")
	}
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		t.Helper()
		orig, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(t.TempDir()); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { os.Chdir(orig) })
		t.Setenv("HOME", t.TempDir())

		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"bad bbox length", func(c *Config) { c.Region.BBox = []float64{1, 2, 3} }, "bbox"},
		{"inverted bbox", func(c *Config) { c.Region.BBox = []float64{-5, 51, -11, 56} }, "west"},
		{"zone radius", func(c *Config) { c.Zones[0].Radius = -1 }, "radius"},
		{"max results", func(c *Config) { c.Catalog.MaxResults = 0 }, "max_results"},
		{"max scenes", func(c *Config) { c.Selection.MaxScenes = 0 }, "max_scenes"},
		{"incidence range", func(c *Config) { c.Selection.MinIncidenceAngle = 60 }, "incidence"},
		{"workers", func(c *Config) { c.Download.MaxWorkers = 0 }, "max_workers"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q missing %q", err, tt.wantSub)
			}
		})
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s1scout.toml")

	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample() error = %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("sample config does not load: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Error("WriteSample() should refuse to overwrite")
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90s")); err != nil {
		t.Fatal(err)
	}
	if d.Std() != 90*time.Second {
		t.Errorf("duration = %v, want 90s", d)
	}

	out, err := d.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "1m30s" {
		t.Errorf("text = %q", out)
	}

	if err := d.UnmarshalText([]byte("whenever")); err == nil {
		t.Error("non-duration text should fail")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := strings.Replace(sampleConfig, `retry_delay = "30s"`, `retry_delay = "whenever"`, 1)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() = nil, want error")
	}
	if !strings.Contains(err.Error(), "duration") {
		t.Errorf("error %q does not mention the duration", err)
	}
}
