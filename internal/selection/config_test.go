package selection

import "testing"

func TestConfigValidate(t *testing.T) {
	valid := testConfig()
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "zero max scenes",
			mutate:    func(c *Config) { c.MaxScenes = 0 },
			wantField: "max_scenes",
		},
		{
			name:      "negative max scenes",
			mutate:    func(c *Config) { c.MaxScenes = -3 },
			wantField: "max_scenes",
		},
		{
			name:      "zero per-day cap",
			mutate:    func(c *Config) { c.MaxScenesPerDay = 0 },
			wantField: "max_scenes_per_day",
		},
		{
			name:      "coverage above one",
			mutate:    func(c *Config) { c.MinCoverage = 1.2 },
			wantField: "min_coverage",
		},
		{
			name:      "negative coverage",
			mutate:    func(c *Config) { c.MinCoverage = -0.1 },
			wantField: "min_coverage",
		},
		{
			name:      "cloud cover above one",
			mutate:    func(c *Config) { c.CloudCoverMax = 1.5 },
			wantField: "cloud_cover_max",
		},
		{
			name:      "inverted incidence range",
			mutate:    func(c *Config) { c.MinIncidenceAngle = 50 },
			wantField: "incidence_angle",
		},
		{
			name: "zone with zero radius",
			mutate: func(c *Config) {
				c.PriorityZones = []Zone{{Name: "bad", Lat: 53, Lon: -6, Radius: 0}}
			},
			wantField: "priority_zones",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("Validate() error type = %T, want *ConfigError", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("ConfigError field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}
