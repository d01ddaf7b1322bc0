package download

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"time"

	"s1scout/internal/scene"
)

// Sentinel-1 granule names embed the acquisition start time, e.g.
// S1A_IW_GRDH_1SDV_20240115T061233_20240115T061258_052123_064D3B_8A01.
var sceneTimestampRe = regexp.MustCompile(`(\d{8})T\d{6}`)

// AcquisitionDayFromSceneID extracts the UTC acquisition day embedded in
// a Sentinel-1 scene identifier.
func AcquisitionDayFromSceneID(sceneID string) (time.Time, error) {
	match := sceneTimestampRe.FindStringSubmatch(sceneID)
	if match == nil {
		return time.Time{}, fmt.Errorf("no timestamp in scene ID %q", sceneID)
	}
	day, err := time.Parse("20060102", match[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp in scene ID %q: %w", sceneID, err)
	}
	return day.UTC(), nil
}

// fileNameFor derives the local file name for a manifest entry,
// preferring the URL path and falling back to the scene ID.
func fileNameFor(entry scene.ManifestEntry) string {
	if u, err := url.Parse(entry.DownloadURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "." && base != "/" {
			return base
		}
	}
	return entry.SceneID + ".zip"
}
