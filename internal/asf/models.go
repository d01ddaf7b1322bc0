package asf

import (
	"encoding/json"
	"strconv"
	"strings"

	"s1scout/pkg/geojson"
)

// GeoJSONResponse represents ASF's GeoJSON FeatureCollection response.
type GeoJSONResponse struct {
	Type     string    `json:"type"` // "FeatureCollection"
	Features []Feature `json:"features"`

	// Pagination metadata (not always provided by ASF)
	TotalCount *int `json:"total,omitempty"`
}

// Feature represents a single ASF search result feature.
type Feature struct {
	Type       string            `json:"type"` // "Feature"
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties Properties        `json:"properties"`
}

// Properties contains ASF-specific metadata for a granule.
type Properties struct {
	// Basic metadata
	SceneName  string `json:"sceneName"`
	FileID     string `json:"fileID"`
	Platform   string `json:"platform"`
	Instrument string `json:"instrument"`

	// SAR-specific parameters
	BeamMode     string `json:"beamMode"`
	BeamModeType string `json:"beamModeType"`
	Polarization string `json:"polarization"`

	// Orbital parameters
	FlightDirection string `json:"flightDirection"`
	LookDirection   string `json:"lookDirection"`
	FrameNumber     *int   `json:"frameNumber"`
	AbsoluteOrbit   *int   `json:"absoluteOrbit"`
	RelativeOrbit   *int   `json:"relativeOrbit"`
	PathNumber      *int   `json:"pathNumber"`

	// Processing information
	ProcessingLevel string `json:"processingLevel"`
	ProcessingType  string `json:"processingType"`
	ProcessingDate  string `json:"processingDate"`

	// Temporal information
	StartTime string `json:"startTime"`
	StopTime  string `json:"stopTime"`

	// Spatial coordinates
	CenterLat *float64 `json:"centerLat"`
	CenterLon *float64 `json:"centerLon"`

	// Geometric parameters
	OffNadirAngle  *float64 `json:"offNadirAngle"`
	IncidenceAngle *float64 `json:"incidenceAngle"`

	// File information
	URL       string          `json:"url"`
	FileName  string          `json:"fileName"`
	FileSize  *int64          `json:"fileSize"`
	Bytes     json.RawMessage `json:"bytes"` // int64 or string depending on ASF response
	MD5Sum    string          `json:"md5sum"`
	Browse    []string        `json:"browse"`
	Thumbnail string          `json:"thumbnail"`

	GroupID string `json:"groupID"`
}

// SizeBytes returns the best available file size for the granule. ASF
// reports sizes under both fileSize and bytes, the latter sometimes as a
// quoted string.
func (p *Properties) SizeBytes() int64 {
	if p.FileSize != nil && *p.FileSize > 0 {
		return *p.FileSize
	}
	if len(p.Bytes) == 0 {
		return 0
	}
	var n int64
	if err := json.Unmarshal(p.Bytes, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(p.Bytes, &s); err == nil {
		if parsed, parseErr := strconv.ParseInt(strings.TrimSpace(s), 10, 64); parseErr == nil {
			return parsed
		}
	}
	return 0
}
