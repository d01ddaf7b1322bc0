// Package config provides configuration management for the s1scout toolkit.
//
// The bulk of the configuration (region of interest, priority zones,
// selection defaults, download tuning) lives in a TOML file. Earthdata
// credentials and upstream endpoint overrides come from environment
// variables so they never end up in a checked-in file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Config holds the complete toolkit configuration.
type Config struct {
	Region    Region    `toml:"region"`
	Zones     []Zone    `toml:"priority_zones"`
	Catalog   Catalog   `toml:"catalog"`
	Selection Selection `toml:"selection"`
	Download  Download  `toml:"download"`
	Server    Server    `toml:"server"`
	Logging   Logging   `toml:"logging"`

	// Earthdata is populated from the environment, never from TOML.
	Earthdata Earthdata `toml:"-"`
	// ASF is populated from the environment with sensible defaults.
	ASF ASF `toml:"-"`
}

// Region describes the area of interest.
type Region struct {
	Name        string `toml:"name"`
	CountryCode string `toml:"country_code"`
	Timezone    string `toml:"timezone"`
	// BBox is [west, south, east, north] in WGS84 decimal degrees.
	BBox      []float64 `toml:"bbox"`
	InputCRS  string    `toml:"input_crs"`
	OutputCRS string    `toml:"output_crs"`
}

// Zone is a named circular priority area, radius in decimal degrees.
type Zone struct {
	Name   string  `toml:"name"`
	Lat    float64 `toml:"lat"`
	Lon    float64 `toml:"lon"`
	Radius float64 `toml:"radius"`
}

// Catalog contains scene discovery settings.
type Catalog struct {
	Dataset          string   `toml:"dataset"`
	BeamModes        []string `toml:"beam_modes"`
	Polarizations    []string `toml:"polarizations"`
	ProcessingLevels []string `toml:"processing_levels"`
	MaxResults       int      `toml:"max_results"`
}

// Selection contains the default scene-selection tunables. Command-line
// flags may override individual values per run.
type Selection struct {
	MaxScenes         int     `toml:"max_scenes"`
	MinCoverage       float64 `toml:"min_coverage"`
	WindSpeedMax      float64 `toml:"wind_speed_max"`
	SeaStateMax       float64 `toml:"sea_state_max"`
	CloudCoverMax     float64 `toml:"cloud_cover_max"`
	MinIncidenceAngle float64 `toml:"min_incidence_angle"`
	MaxIncidenceAngle float64 `toml:"max_incidence_angle"`
	PreferDualPol     bool    `toml:"prefer_dual_pol"`
	PreferRecent      bool    `toml:"prefer_recent"`
	MaxScenesPerDay   int     `toml:"max_scenes_per_day"`
}

// Download contains downloader tuning.
type Download struct {
	MaxWorkers     int      `toml:"max_workers"`
	RetryAttempts  int      `toml:"retry_attempts"`
	RetryDelay     Duration `toml:"retry_delay"`
	FileTimeout    Duration `toml:"file_timeout"`
	VerifySizes    bool     `toml:"verify_sizes"`
	OrganizeByDate bool     `toml:"organize_by_date"`
}

// Server contains report-server settings.
type Server struct {
	Bind         string   `toml:"bind"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Duration is a time.Duration that decodes from TOML strings like
// "30s" or "1h". go-toml resolves string values through
// encoding.TextUnmarshaler.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Std returns the value as a plain time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Logging contains logging settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Earthdata carries NASA Earthdata Login credentials for authenticated
// downloads from ASF.
type Earthdata struct {
	Token    string `env:"EARTHDATA_TOKEN"`
	Username string `env:"EARTHDATA_USERNAME"`
	Password string `env:"EARTHDATA_PASSWORD"`
}

// ASF contains upstream search API settings.
type ASF struct {
	BaseURL string        `env:"ASF_BASE_URL" envDefault:"https://api.daac.asf.alaska.edu"`
	Timeout time.Duration `env:"ASF_TIMEOUT" envDefault:"30s"`
}

// Load reads the TOML config at path, applies environment variables, and
// validates the result. If path is empty the default search locations are
// tried; if no file exists the embedded defaults are used.
func Load(path string) (*Config, error) {
	raw := sampleConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		raw = string(data)
	} else if found, ok := defaultConfigPath(); ok {
		data, err := os.ReadFile(found)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", found, err)
		}
		raw = string(data)
	}

	cfg := &Config{}
	if err := toml.Unmarshal([]byte(raw), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := env.Parse(&cfg.Earthdata); err != nil {
		return nil, fmt.Errorf("parse Earthdata environment: %w", err)
	}
	if err := env.Parse(&cfg.ASF); err != nil {
		return nil, fmt.Errorf("parse ASF environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// WriteSample writes the embedded sample configuration to path. It refuses
// to overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("inspect %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func defaultConfigPath() (string, bool) {
	candidates := []string{"s1scout.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "s1scout", "config.toml"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if len(c.Region.BBox) != 4 {
		return fmt.Errorf("region bbox must have 4 values [west, south, east, north], got %d", len(c.Region.BBox))
	}
	if c.Region.BBox[0] >= c.Region.BBox[2] {
		return fmt.Errorf("region bbox west (%v) must be < east (%v)", c.Region.BBox[0], c.Region.BBox[2])
	}
	if c.Region.BBox[1] >= c.Region.BBox[3] {
		return fmt.Errorf("region bbox south (%v) must be < north (%v)", c.Region.BBox[1], c.Region.BBox[3])
	}

	for _, z := range c.Zones {
		if z.Name == "" {
			return fmt.Errorf("priority zone is missing a name")
		}
		if z.Radius <= 0 {
			return fmt.Errorf("priority zone %q radius must be positive, got %v", z.Name, z.Radius)
		}
	}

	if c.Catalog.MaxResults < 1 {
		return fmt.Errorf("catalog max_results must be at least 1, got %d", c.Catalog.MaxResults)
	}

	if c.Selection.MaxScenes < 1 {
		return fmt.Errorf("selection max_scenes must be at least 1, got %d", c.Selection.MaxScenes)
	}
	if c.Selection.MaxScenesPerDay < 1 {
		return fmt.Errorf("selection max_scenes_per_day must be at least 1, got %d", c.Selection.MaxScenesPerDay)
	}
	if c.Selection.MinCoverage < 0 || c.Selection.MinCoverage > 1 {
		return fmt.Errorf("selection min_coverage must be in [0, 1], got %v", c.Selection.MinCoverage)
	}
	if c.Selection.MinIncidenceAngle >= c.Selection.MaxIncidenceAngle {
		return fmt.Errorf("selection min_incidence_angle (%v) must be < max_incidence_angle (%v)",
			c.Selection.MinIncidenceAngle, c.Selection.MaxIncidenceAngle)
	}

	if c.Download.MaxWorkers < 1 {
		return fmt.Errorf("download max_workers must be at least 1, got %d", c.Download.MaxWorkers)
	}
	if c.Download.RetryAttempts < 1 {
		return fmt.Errorf("download retry_attempts must be at least 1, got %d", c.Download.RetryAttempts)
	}
	if c.Download.FileTimeout <= 0 {
		return fmt.Errorf("download file_timeout must be positive, got %s", c.Download.FileTimeout)
	}

	if c.Server.Bind == "" {
		return fmt.Errorf("server bind address is required")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive, got %s", c.Server.WriteTimeout)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format %q, must be one of: json, text", c.Logging.Format)
	}

	return nil
}
