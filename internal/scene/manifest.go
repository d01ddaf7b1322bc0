package scene

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ManifestEntry is one line of the download manifest handed to the
// download stage.
type ManifestEntry struct {
	SceneID     string `json:"scene_id"`
	DownloadURL string `json:"download_url"`
	FileSize    int64  `json:"file_size"`
}

var manifestHeader = []string{"scene_id", "download_url", "file_size"}

// WriteManifest writes manifest entries as CSV to path, preserving order.
func WriteManifest(path string, entries []ManifestEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(manifestHeader); err != nil {
		return fmt.Errorf("write manifest header: %w", err)
	}
	for _, e := range entries {
		row := []string{e.SceneID, e.DownloadURL, strconv.FormatInt(e.FileSize, 10)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write manifest row for %s: %w", e.SceneID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush manifest: %w", err)
	}
	return nil
}

// ReadManifest reads a CSV download manifest written by WriteManifest.
func ReadManifest(path string) ([]ManifestEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read manifest header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range manifestHeader {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("manifest %s is missing column %q", path, required)
		}
	}

	var entries []ManifestEntry
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read manifest row: %w", err)
		}

		size, err := strconv.ParseInt(row[col["file_size"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid file_size %q for scene %s: %w",
				row[col["file_size"]], row[col["scene_id"]], err)
		}

		entries = append(entries, ManifestEntry{
			SceneID:     row[col["scene_id"]],
			DownloadURL: row[col["download_url"]],
			FileSize:    size,
		})
	}

	return entries, nil
}
