package scene

import "path/filepath"

// Workspace locates the artifacts a pipeline run reads and writes under
// a single data directory. Every stage agrees on these names so the
// stages can run as separate invocations.
type Workspace struct {
	Dir string
}

// CatalogPath is the Parquet scene catalog written by the catalog stage.
func (w Workspace) CatalogPath() string {
	return filepath.Join(w.Dir, "scene_catalog.parquet")
}

// SelectedPath is the JSON list of scored, selected scenes.
func (w Workspace) SelectedPath() string {
	return filepath.Join(w.Dir, "selected_scenes.json")
}

// SummaryPath is the selection summary JSON.
func (w Workspace) SummaryPath() string {
	return filepath.Join(w.Dir, "selection_summary.json")
}

// ManifestPath is the download manifest CSV.
func (w Workspace) ManifestPath() string {
	return filepath.Join(w.Dir, "download_manifest.csv")
}

// STACPath is the STAC item collection for the selected scenes.
func (w Workspace) STACPath() string {
	return filepath.Join(w.Dir, "selected_scenes_stac.json")
}

// ReportPath is the download run report JSON.
func (w Workspace) ReportPath() string {
	return filepath.Join(w.Dir, "download_report.json")
}

// JournalPath is the SQLite download journal.
func (w Workspace) JournalPath() string {
	return filepath.Join(w.Dir, "downloads.db")
}

// DownloadDir is where scene archives are stored.
func (w Workspace) DownloadDir() string {
	return filepath.Join(w.Dir, "scenes")
}

// LockPath is the advisory lock taken by the download stage.
func (w Workspace) LockPath() string {
	return filepath.Join(w.Dir, "s1scout.lock")
}
