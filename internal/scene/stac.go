package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/planetlabs/go-stac"

	"s1scout/pkg/geojson"
)

// stacVersion is the STAC spec version stamped on exported items.
const stacVersion = "1.0.0"

// ItemCollection is a GeoJSON FeatureCollection of STAC items, the shape
// expected by STAC-aware catalog browsers.
type ItemCollection struct {
	Type     string       `json:"type"`
	Features []*stac.Item `json:"features"`
}

// ToSTACItem converts a catalog record into a STAC item with SAR,
// satellite, and view extension properties.
func ToSTACItem(r *Record, collectionID string) *stac.Item {
	item := &stac.Item{
		Version:    stacVersion,
		Id:         r.SceneID,
		Collection: collectionID,
		Properties: make(map[string]any),
		Assets:     make(map[string]*stac.Asset),
		Links:      make([]*stac.Link, 0),
	}

	item.Properties["datetime"] = r.AcquisitionDate.UTC()

	if r.Platform != "" {
		item.Properties["platform"] = strings.ToLower(r.Platform)
		if strings.HasPrefix(strings.ToLower(r.Platform), "sentinel-1") {
			item.Properties["constellation"] = "sentinel-1"
			item.Properties["sar:frequency_band"] = "C"
		}
	}

	if r.BeamMode != "" {
		item.Properties["sar:instrument_mode"] = r.BeamMode
	}

	if pols := SplitPolarization(r.Polarization); len(pols) > 0 {
		item.Properties["sar:polarizations"] = pols
	}

	if r.ProcessingLevel != "" {
		item.Properties["sar:product_type"] = r.ProcessingLevel
	}

	if r.OrbitDirection != "" {
		item.Properties["sat:orbit_state"] = strings.ToLower(r.OrbitDirection)
	}

	if r.IncidenceAngle != nil {
		item.Properties["view:incidence_angle"] = *r.IncidenceAngle
	}

	if r.WindSpeed != nil {
		item.Properties["s1scout:wind_speed"] = *r.WindSpeed
	}
	if r.SeaState != nil {
		item.Properties["s1scout:sea_state"] = *r.SeaState
	}
	item.Properties["s1scout:aoi_coverage"] = r.AOICoverage

	// Footprints are not persisted in the parquet catalog; export the
	// center point so the items remain mappable.
	point := geojson.Geometry{
		Type:        "Point",
		Coordinates: json.RawMessage(fmt.Sprintf("[%g,%g]", r.CenterLon, r.CenterLat)),
	}
	item.Geometry = &point
	item.Bbox = []float64{r.CenterLon, r.CenterLat, r.CenterLon, r.CenterLat}

	if r.DownloadURL != "" {
		item.Assets["data"] = &stac.Asset{
			Href:  r.DownloadURL,
			Title: "Product Data",
			Type:  "application/zip",
			Roles: []string{"data"},
		}
	}

	return item
}

// WriteSTAC exports records as a STAC ItemCollection JSON file.
func WriteSTAC(path, collectionID string, records []Record) error {
	collection := ItemCollection{
		Type:     "FeatureCollection",
		Features: make([]*stac.Item, 0, len(records)),
	}
	for i := range records {
		collection.Features = append(collection.Features, ToSTACItem(&records[i], collectionID))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create STAC export %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(collection); err != nil {
		return fmt.Errorf("encode STAC export: %w", err)
	}
	return nil
}

// SplitPolarization splits a polarization string like "VV+VH" into its
// channels ["VV", "VH"].
func SplitPolarization(pol string) []string {
	parts := strings.FieldsFunc(pol, func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	})

	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, strings.ToUpper(p))
		}
	}
	return result
}
