package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"s1scout/internal/download"
	"s1scout/internal/scene"
)

// Handlers serves the artifacts of a pipeline run from its data
// directory. The service is read-only: it never triggers searches,
// selection, or downloads.
type Handlers struct {
	ws     scene.Workspace
	logger *slog.Logger
}

// NewHandlers creates handlers over the given workspace.
func NewHandlers(ws scene.Workspace, logger *slog.Logger) *Handlers {
	return &Handlers{ws: ws, logger: logger}
}

// Health reports service liveness.
// GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Summary returns the selection summary for the latest run.
// GET /api/summary
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	h.serveJSONFile(w, h.ws.SummaryPath(), "no selection summary available; run the select stage first")
}

// Scenes returns the scored, selected scenes for the latest run.
// GET /api/scenes
func (h *Handlers) Scenes(w http.ResponseWriter, r *http.Request) {
	h.serveJSONFile(w, h.ws.SelectedPath(), "no selected scenes available; run the select stage first")
}

// Catalog returns the full scene catalog read back from Parquet.
// GET /api/catalog
func (h *Handlers) Catalog(w http.ResponseWriter, r *http.Request) {
	records, err := scene.ReadParquet(h.ws.CatalogPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			WriteNotFound(w, "no scene catalog available; run the catalog stage first")
			return
		}
		h.logger.Error("failed to read scene catalog",
			slog.String("path", h.ws.CatalogPath()),
			slog.String("error", err.Error()),
		)
		WriteInternalError(w, "failed to read scene catalog")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"count":  len(records),
		"scenes": records,
	})
}

// Manifest returns the download manifest entries.
// GET /api/manifest
func (h *Handlers) Manifest(w http.ResponseWriter, r *http.Request) {
	entries, err := scene.ReadManifest(h.ws.ManifestPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			WriteNotFound(w, "no download manifest available; run the select stage first")
			return
		}
		h.logger.Error("failed to read manifest",
			slog.String("path", h.ws.ManifestPath()),
			slog.String("error", err.Error()),
		)
		WriteInternalError(w, "failed to read download manifest")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"count":   len(entries),
		"entries": entries,
	})
}

// Report returns the latest download run report.
// GET /api/report
func (h *Handlers) Report(w http.ResponseWriter, r *http.Request) {
	report, err := download.ReadReport(h.ws.ReportPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			WriteNotFound(w, "no download report available; run the download stage first")
			return
		}
		h.logger.Error("failed to read download report",
			slog.String("path", h.ws.ReportPath()),
			slog.String("error", err.Error()),
		)
		WriteInternalError(w, "failed to read download report")
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// STAC returns the selected scenes as a STAC item collection.
// GET /api/stac
func (h *Handlers) STAC(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(h.ws.STACPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			WriteNotFound(w, "no STAC items available; run the select stage first")
			return
		}
		h.logger.Error("failed to read STAC items",
			slog.String("path", h.ws.STACPath()),
			slog.String("error", err.Error()),
		)
		WriteInternalError(w, "failed to read STAC items")
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// serveJSONFile streams a previously written JSON artifact, returning
// 404 when the stage that produces it has not run.
func (h *Handlers) serveJSONFile(w http.ResponseWriter, path, missingMsg string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			WriteNotFound(w, missingMsg)
			return
		}
		h.logger.Error("failed to read artifact",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		WriteInternalError(w, fmt.Sprintf("failed to read %s", path))
		return
	}

	if !json.Valid(data) {
		h.logger.Error("artifact is not valid JSON", slog.String("path", path))
		WriteInternalError(w, "artifact is corrupted")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
