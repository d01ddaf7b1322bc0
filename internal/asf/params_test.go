package asf

import (
	"net/url"
	"testing"
	"time"
)

func TestToURLValues(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 8, 23, 59, 59, 0, time.UTC)

	params := SearchParams{
		Dataset:         []string{"SENTINEL-1"},
		IntersectsWith:  "POLYGON((-11 51,-5 51,-5 56,-11 56,-11 51))",
		Start:           &start,
		End:             &end,
		BeamMode:        []string{"IW"},
		Polarization:    []string{"VV+VH", "VV"},
		FlightDirection: "ASCENDING",
		ProcessingLevel: []string{"GRD_HD", "SLC"},
		MaxResults:      100,
	}

	values := params.ToURLValues()

	tests := []struct {
		key  string
		want string
	}{
		{"dataset", "SENTINEL-1"},
		{"intersectsWith", "POLYGON((-11 51,-5 51,-5 56,-11 56,-11 51))"},
		{"start", "2026-06-01T00:00:00Z"},
		{"end", "2026-06-08T23:59:59Z"},
		{"beamMode", "IW"},
		{"flightDirection", "ASCENDING"},
		{"processingLevel", "GRD_HD,SLC"},
		{"maxResults", "100"},
		{"output", "geojson"},
	}
	for _, tt := range tests {
		if got := values.Get(tt.key); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
	}

	if pols := values["polarization"]; len(pols) != 2 {
		t.Errorf("polarization values = %v, want 2 entries", pols)
	}
}

func TestToURLValuesDefaults(t *testing.T) {
	values := (&SearchParams{}).ToURLValues()

	if got := values.Get("output"); got != "geojson" {
		t.Errorf("default output = %q, want geojson", got)
	}
	if values.Has("maxResults") {
		t.Error("zero maxResults should be omitted")
	}
	if values.Has("start") || values.Has("end") {
		t.Error("nil time bounds should be omitted")
	}
}

func TestToQueryStringRoundTrips(t *testing.T) {
	params := SearchParams{
		GranuleList: []string{"S1A_A", "S1B_B"},
		Output:      "geojson",
	}

	parsed, err := url.ParseQuery(params.ToQueryString())
	if err != nil {
		t.Fatalf("query string does not parse: %v", err)
	}
	if got := parsed.Get("granule_list"); got != "S1A_A,S1B_B" {
		t.Errorf("granule_list = %q", got)
	}
}
