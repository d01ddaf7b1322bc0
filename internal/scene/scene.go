// Package scene defines the scene catalog data model and its on-disk
// formats: parquet catalogs, CSV manifests, and STAC exports.
package scene

import "time"

// Orbit directions as reported by ASF.
const (
	OrbitAscending  = "ASCENDING"
	OrbitDescending = "DESCENDING"
)

// Record is one satellite pass over the area of interest. Optional
// quality attributes are pointers: a nil value means the measurement was
// not available for the scene, which is distinct from zero.
type Record struct {
	SceneID         string    `json:"scene_id"`
	SceneName       string    `json:"scene_name,omitempty"`
	Platform        string    `json:"platform,omitempty"`
	BeamMode        string    `json:"beam_mode,omitempty"`
	ProcessingLevel string    `json:"processing_level,omitempty"`
	AcquisitionDate time.Time `json:"acquisition_date"`
	Polarization    string    `json:"polarization"`
	OrbitDirection  string    `json:"orbit_direction"`

	IncidenceAngle *float64 `json:"incidence_angle,omitempty"`
	WindSpeed      *float64 `json:"wind_speed,omitempty"`      // m/s
	SeaState       *float64 `json:"sea_state,omitempty"`       // Beaufort 0-12
	CloudCover     *float64 `json:"cloud_cover,omitempty"`     // fraction 0-1

	CenterLat   float64 `json:"center_lat"`
	CenterLon   float64 `json:"center_lon"`
	AOICoverage float64 `json:"aoi_coverage"` // fraction 0-1

	DownloadURL string `json:"download_url"`
	FileName    string `json:"file_name,omitempty"`
	FileSize    int64  `json:"file_size"` // bytes
	MD5Sum      string `json:"md5sum,omitempty"`
}

// IsDualPol reports whether the scene carries both polarization channels
// (e.g., "VV+VH").
func (r *Record) IsDualPol() bool {
	for _, c := range r.Polarization {
		if c == '+' {
			return true
		}
	}
	return false
}

// Day returns the UTC calendar day of the acquisition, used for temporal
// distribution caps.
func (r *Record) Day() string {
	return r.AcquisitionDate.UTC().Format("2006-01-02")
}
