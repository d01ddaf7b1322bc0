package scene

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Conditions holds per-scene sea/weather measurements from an external
// source (met model or buoy network export). All values are optional:
// an empty cell leaves the corresponding record field nil.
type Conditions struct {
	WindSpeed  *float64
	SeaState   *float64
	CloudCover *float64
}

// ReadConditions parses a conditions CSV keyed by scene_id. Recognized
// columns: scene_id (required), wind_speed, sea_state, cloud_cover.
// Unknown columns are ignored.
func ReadConditions(path string) (map[string]Conditions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open conditions %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read conditions header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	idCol, ok := col["scene_id"]
	if !ok {
		return nil, fmt.Errorf("conditions %s is missing column %q", path, "scene_id")
	}

	parseCell := func(row []string, name string) (*float64, error) {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return nil, nil
		}
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", name, cell, err)
		}
		return &v, nil
	}

	conditions := make(map[string]Conditions)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read conditions row: %w", err)
		}

		sceneID := strings.TrimSpace(row[idCol])
		if sceneID == "" {
			continue
		}

		var c Conditions
		if c.WindSpeed, err = parseCell(row, "wind_speed"); err != nil {
			return nil, fmt.Errorf("scene %s: %w", sceneID, err)
		}
		if c.SeaState, err = parseCell(row, "sea_state"); err != nil {
			return nil, fmt.Errorf("scene %s: %w", sceneID, err)
		}
		if c.CloudCover, err = parseCell(row, "cloud_cover"); err != nil {
			return nil, fmt.Errorf("scene %s: %w", sceneID, err)
		}
		conditions[sceneID] = c
	}

	return conditions, nil
}

// MergeConditions attaches conditions to matching records in place and
// returns the number of records that received at least one value.
// Records without a conditions row are left untouched: missing data must
// stay missing so selection filters can exempt them.
func MergeConditions(records []Record, conditions map[string]Conditions) int {
	matched := 0
	for i := range records {
		c, ok := conditions[records[i].SceneID]
		if !ok {
			continue
		}
		if c.WindSpeed != nil {
			records[i].WindSpeed = c.WindSpeed
		}
		if c.SeaState != nil {
			records[i].SeaState = c.SeaState
		}
		if c.CloudCover != nil {
			records[i].CloudCover = c.CloudCover
		}
		if c.WindSpeed != nil || c.SeaState != nil || c.CloudCover != nil {
			matched++
		}
	}
	return matched
}
