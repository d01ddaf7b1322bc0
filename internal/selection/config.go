// Package selection implements the scene selection and prioritization
// engine: an ordered pipeline of quality filters, priority scoring,
// composite ranking, and temporal/global caps over a scene catalog.
package selection

import (
	"fmt"

	appconfig "s1scout/internal/config"
)

// Zone is a named circular priority area. Radius is in decimal degrees;
// containment uses planar degree distance (see Config.PriorityZones).
type Zone struct {
	Name   string
	Lat    float64
	Lon    float64
	Radius float64
}

// Config is the immutable configuration for one selection run. Construct
// it once, validate it, and pass it explicitly; the engine holds no
// process-wide state.
type Config struct {
	// AOI is the area of interest bbox [west, south, east, north].
	AOI []float64

	MaxScenes   int
	MinCoverage float64

	WindSpeedMax  float64
	SeaStateMax   float64
	CloudCoverMax float64

	MinIncidenceAngle float64
	MaxIncidenceAngle float64

	PreferDualPol bool
	PreferRecent  bool

	MaxScenesPerDay int

	// PriorityZones are scored with planar degree distance, not
	// great-circle distance. For small regional AOIs the error is
	// negligible; callers needing geodesic accuracy must reproject
	// before building the catalog.
	PriorityZones []Zone
}

// ConfigError reports an invalid selection configuration. Selection fails
// fast with this error before any filtering runs.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid selection config: %s %s", e.Field, e.Reason)
}

// Validate checks the configuration, returning a *ConfigError describing
// the first problem found.
func (c *Config) Validate() error {
	if c.MaxScenes <= 0 {
		return &ConfigError{Field: "max_scenes", Reason: fmt.Sprintf("must be positive, got %d", c.MaxScenes)}
	}
	if c.MaxScenesPerDay <= 0 {
		return &ConfigError{Field: "max_scenes_per_day", Reason: fmt.Sprintf("must be positive, got %d", c.MaxScenesPerDay)}
	}
	if c.MinCoverage < 0 || c.MinCoverage > 1 {
		return &ConfigError{Field: "min_coverage", Reason: fmt.Sprintf("must be in [0, 1], got %v", c.MinCoverage)}
	}
	if c.CloudCoverMax < 0 || c.CloudCoverMax > 1 {
		return &ConfigError{Field: "cloud_cover_max", Reason: fmt.Sprintf("must be in [0, 1], got %v", c.CloudCoverMax)}
	}
	if c.MinIncidenceAngle >= c.MaxIncidenceAngle {
		return &ConfigError{
			Field:  "incidence_angle",
			Reason: fmt.Sprintf("min (%v) must be < max (%v)", c.MinIncidenceAngle, c.MaxIncidenceAngle),
		}
	}
	for _, z := range c.PriorityZones {
		if z.Radius <= 0 {
			return &ConfigError{
				Field:  "priority_zones",
				Reason: fmt.Sprintf("zone %q radius must be positive, got %v", z.Name, z.Radius),
			}
		}
	}
	return nil
}

// FromAppConfig builds a selection Config from the toolkit configuration.
// Individual values are typically overridden by command-line flags before
// the run.
func FromAppConfig(cfg *appconfig.Config) Config {
	zones := make([]Zone, 0, len(cfg.Zones))
	for _, z := range cfg.Zones {
		zones = append(zones, Zone{Name: z.Name, Lat: z.Lat, Lon: z.Lon, Radius: z.Radius})
	}

	return Config{
		AOI:               append([]float64(nil), cfg.Region.BBox...),
		MaxScenes:         cfg.Selection.MaxScenes,
		MinCoverage:       cfg.Selection.MinCoverage,
		WindSpeedMax:      cfg.Selection.WindSpeedMax,
		SeaStateMax:       cfg.Selection.SeaStateMax,
		CloudCoverMax:     cfg.Selection.CloudCoverMax,
		MinIncidenceAngle: cfg.Selection.MinIncidenceAngle,
		MaxIncidenceAngle: cfg.Selection.MaxIncidenceAngle,
		PreferDualPol:     cfg.Selection.PreferDualPol,
		PreferRecent:      cfg.Selection.PreferRecent,
		MaxScenesPerDay:   cfg.Selection.MaxScenesPerDay,
		PriorityZones:     zones,
	}
}
