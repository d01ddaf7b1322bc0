package scene

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConditionsCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conditions.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadConditions(t *testing.T) {
	path := writeConditionsCSV(t, `scene_id,wind_speed,sea_state,cloud_cover
S1A_001,12.5,3,0.2
S1A_002,,4,
S1A_003,8,,
`)

	conditions, err := ReadConditions(path)
	if err != nil {
		t.Fatalf("ReadConditions() error = %v", err)
	}
	if len(conditions) != 3 {
		t.Fatalf("read %d rows, want 3", len(conditions))
	}

	c1 := conditions["S1A_001"]
	if c1.WindSpeed == nil || *c1.WindSpeed != 12.5 {
		t.Errorf("S1A_001 wind = %v, want 12.5", c1.WindSpeed)
	}
	if c1.SeaState == nil || *c1.SeaState != 3 {
		t.Errorf("S1A_001 sea state = %v, want 3", c1.SeaState)
	}

	c2 := conditions["S1A_002"]
	if c2.WindSpeed != nil {
		t.Error("empty wind cell should stay nil")
	}
	if c2.SeaState == nil || *c2.SeaState != 4 {
		t.Errorf("S1A_002 sea state = %v, want 4", c2.SeaState)
	}
	if c2.CloudCover != nil {
		t.Error("empty cloud cell should stay nil")
	}
}

func TestReadConditionsCaseInsensitiveHeader(t *testing.T) {
	path := writeConditionsCSV(t, "Scene_ID,Wind_Speed\nS1A_001,9\n")

	conditions, err := ReadConditions(path)
	if err != nil {
		t.Fatalf("ReadConditions() error = %v", err)
	}
	if c := conditions["S1A_001"]; c.WindSpeed == nil || *c.WindSpeed != 9 {
		t.Errorf("wind = %v, want 9", c.WindSpeed)
	}
}

func TestReadConditionsErrors(t *testing.T) {
	noID := writeConditionsCSV(t, "wind_speed\n10\n")
	if _, err := ReadConditions(noID); err == nil {
		t.Error("missing scene_id column should fail")
	}

	badValue := writeConditionsCSV(t, "scene_id,wind_speed\nS1A_001,gusty\n")
	if _, err := ReadConditions(badValue); err == nil {
		t.Error("non-numeric wind_speed should fail")
	}
}

func TestMergeConditions(t *testing.T) {
	records := []Record{
		{SceneID: "A", AcquisitionDate: time.Now()},
		{SceneID: "B", AcquisitionDate: time.Now()},
		{SceneID: "C", AcquisitionDate: time.Now()},
	}

	wind := 11.0
	sea := 2.0
	conditions := map[string]Conditions{
		"A": {WindSpeed: &wind, SeaState: &sea},
		"C": {},
		"Z": {WindSpeed: &wind}, // no matching record
	}

	matched := MergeConditions(records, conditions)
	if matched != 1 {
		t.Errorf("matched = %d, want 1", matched)
	}

	if records[0].WindSpeed == nil || *records[0].WindSpeed != wind {
		t.Errorf("record A wind = %v, want %v", records[0].WindSpeed, wind)
	}
	if records[1].WindSpeed != nil || records[1].SeaState != nil {
		t.Error("record B without a conditions row must stay untouched")
	}
	if records[2].WindSpeed != nil {
		t.Error("record C with an all-empty row must stay untouched")
	}
}
