package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.csv")

	entries := []ManifestEntry{
		{SceneID: "S1A_003", DownloadURL: "https://example.com/3.zip", FileSize: 30},
		{SceneID: "S1A_001", DownloadURL: "https://example.com/1.zip", FileSize: 10},
		{SceneID: "S1A_002", DownloadURL: "https://example.com/2.zip", FileSize: 20},
	}

	if err := WriteManifest(path, entries); err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}

	got, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}

	if len(got) != len(entries) {
		t.Fatalf("read %d entries, want %d", len(got), len(entries))
	}
	// Order is part of the contract: manifest rows are in rank order.
	for i := range entries {
		if got[i] != entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}
}

func TestManifestHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.csv")
	if err := WriteManifest(path, nil); err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	first := strings.SplitN(string(data), "\n", 2)[0]
	if first != "scene_id,download_url,file_size" {
		t.Errorf("header = %q", first)
	}
}

func TestReadManifestRejectsBadFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.csv")
	content := "scene_id,download_url,file_size\nS1A_001,https://example.com/1.zip,notanumber\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadManifest(path); err == nil {
		t.Error("ReadManifest() should fail on a non-numeric file_size")
	}
}
