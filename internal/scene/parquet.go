package scene

import (
	"fmt"
	"time"

	"github.com/parquet-go/parquet-go"
)

// catalogRow is the flat parquet schema for a catalog record. Optional
// quality columns are nullable so downstream filters can distinguish
// "not measured" from zero.
type catalogRow struct {
	SceneID         string   `parquet:"scene_id"`
	SceneName       string   `parquet:"scene_name"`
	Platform        string   `parquet:"platform"`
	BeamMode        string   `parquet:"beam_mode"`
	ProcessingLevel string   `parquet:"processing_level"`
	AcquisitionMs   int64    `parquet:"acquisition_date,timestamp"`
	Polarization    string   `parquet:"polarization"`
	OrbitDirection  string   `parquet:"orbit_direction"`
	IncidenceAngle  *float64 `parquet:"incidence_angle,optional"`
	WindSpeed       *float64 `parquet:"wind_speed,optional"`
	SeaState        *float64 `parquet:"sea_state,optional"`
	CloudCover      *float64 `parquet:"cloud_cover,optional"`
	CenterLat       float64  `parquet:"center_lat"`
	CenterLon       float64  `parquet:"center_lon"`
	AOICoverage     float64  `parquet:"aoi_coverage"`
	DownloadURL     string   `parquet:"download_url"`
	FileName        string   `parquet:"file_name"`
	FileSize        int64    `parquet:"file_size"`
	MD5Sum          string   `parquet:"md5sum"`
}

func toRow(r *Record) catalogRow {
	return catalogRow{
		SceneID:         r.SceneID,
		SceneName:       r.SceneName,
		Platform:        r.Platform,
		BeamMode:        r.BeamMode,
		ProcessingLevel: r.ProcessingLevel,
		AcquisitionMs:   r.AcquisitionDate.UTC().UnixMilli(),
		Polarization:    r.Polarization,
		OrbitDirection:  r.OrbitDirection,
		IncidenceAngle:  r.IncidenceAngle,
		WindSpeed:       r.WindSpeed,
		SeaState:        r.SeaState,
		CloudCover:      r.CloudCover,
		CenterLat:       r.CenterLat,
		CenterLon:       r.CenterLon,
		AOICoverage:     r.AOICoverage,
		DownloadURL:     r.DownloadURL,
		FileName:        r.FileName,
		FileSize:        r.FileSize,
		MD5Sum:          r.MD5Sum,
	}
}

func fromRow(row catalogRow) Record {
	return Record{
		SceneID:         row.SceneID,
		SceneName:       row.SceneName,
		Platform:        row.Platform,
		BeamMode:        row.BeamMode,
		ProcessingLevel: row.ProcessingLevel,
		AcquisitionDate: time.UnixMilli(row.AcquisitionMs).UTC(),
		Polarization:    row.Polarization,
		OrbitDirection:  row.OrbitDirection,
		IncidenceAngle:  row.IncidenceAngle,
		WindSpeed:       row.WindSpeed,
		SeaState:        row.SeaState,
		CloudCover:      row.CloudCover,
		CenterLat:       row.CenterLat,
		CenterLon:       row.CenterLon,
		AOICoverage:     row.AOICoverage,
		DownloadURL:     row.DownloadURL,
		FileName:        row.FileName,
		FileSize:        row.FileSize,
		MD5Sum:          row.MD5Sum,
	}
}

// WriteParquet writes records to a parquet catalog file at path.
func WriteParquet(path string, records []Record) error {
	rows := make([]catalogRow, len(records))
	for i := range records {
		rows[i] = toRow(&records[i])
	}

	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("write parquet catalog %s: %w", path, err)
	}
	return nil
}

// ReadParquet reads a parquet catalog file written by WriteParquet (or
// by the upstream catalog generator, which shares the schema).
func ReadParquet(path string) ([]Record, error) {
	rows, err := parquet.ReadFile[catalogRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet catalog %s: %w", path, err)
	}

	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = fromRow(row)
	}
	return records, nil
}
