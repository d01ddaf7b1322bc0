package scene

import (
	"fmt"
	"strings"
	"time"

	"s1scout/internal/asf"
	"s1scout/pkg/geojson"
)

// ASF time formats observed in their API responses.
// ASF uses formats like "2023-06-15T14:00:00.000000" or "2023-06-15T14:00:00Z".
var asfTimeFormats = []string{
	"2006-01-02T15:04:05.000000",    // ASF format with microseconds
	"2006-01-02T15:04:05.999999999", // With nanoseconds
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z", // UTC without offset
	"2006-01-02T15:04:05",  // Without timezone
}

// ParseASFTime parses an ASF timestamp string into a UTC time.Time.
func ParseASFTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time string")
	}

	s = strings.TrimSpace(s)

	var lastErr error
	for _, format := range asfTimeFormats {
		t, err := time.Parse(format, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}

	return time.Time{}, fmt.Errorf("failed to parse ASF time %q: %w", s, lastErr)
}

// FromASFFeature converts an ASF search feature into a catalog Record.
// aoiBBox is [west, south, east, north]; it is used to compute the
// scene's AOI coverage fraction from the footprint geometry.
func FromASFFeature(feature *asf.Feature, aoiBBox []float64) (*Record, error) {
	if feature == nil {
		return nil, fmt.Errorf("feature is nil")
	}

	props := feature.Properties

	// fileID is the primary identifier; fall back to sceneName
	sceneID := props.FileID
	if sceneID == "" {
		sceneID = props.SceneName
	}
	if sceneID == "" {
		return nil, fmt.Errorf("feature has no fileID or sceneName")
	}

	if props.StartTime == "" {
		return nil, fmt.Errorf("feature %s has no startTime", sceneID)
	}
	acquired, err := ParseASFTime(props.StartTime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start time: %w", err)
	}

	rec := &Record{
		SceneID:         sceneID,
		SceneName:       props.SceneName,
		Platform:        props.Platform,
		BeamMode:        beamMode(&props),
		ProcessingLevel: props.ProcessingLevel,
		AcquisitionDate: acquired,
		Polarization:    strings.ToUpper(strings.TrimSpace(props.Polarization)),
		OrbitDirection:  strings.ToUpper(strings.TrimSpace(props.FlightDirection)),
		DownloadURL:     props.URL,
		FileName:        props.FileName,
		FileSize:        props.SizeBytes(),
		MD5Sum:          props.MD5Sum,
	}

	if props.IncidenceAngle != nil {
		v := *props.IncidenceAngle
		rec.IncidenceAngle = &v
	}

	if props.CenterLat != nil {
		rec.CenterLat = *props.CenterLat
	}
	if props.CenterLon != nil {
		rec.CenterLon = *props.CenterLon
	}

	if feature.Geometry != nil {
		footprint, bboxErr := geojson.ComputeBBox(feature.Geometry)
		if bboxErr == nil {
			if coverage, covErr := geojson.BBoxIntersectionFraction(footprint, aoiBBox); covErr == nil {
				rec.AOICoverage = coverage
			}
			// Fill center coordinates from the footprint when ASF omits them
			if props.CenterLat == nil {
				rec.CenterLat = (footprint[1] + footprint[3]) / 2
			}
			if props.CenterLon == nil {
				rec.CenterLon = (footprint[0] + footprint[2]) / 2
			}
		}
	}

	return rec, nil
}

// beamMode prefers beamModeType (e.g., "IW") which ASF reports more
// consistently than beamMode.
func beamMode(props *asf.Properties) string {
	if props.BeamModeType != "" {
		return props.BeamModeType
	}
	return props.BeamMode
}
