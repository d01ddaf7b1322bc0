package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"s1scout/internal/scene"
	"s1scout/internal/selection"
)

func newSelectCommand(ctx *commandContext) *cobra.Command {
	var maxScenes int
	var minCoverage float64
	var maxPerDay int

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Rank the cataloged scenes and build the download manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			ws, err := ctx.workspace()
			if err != nil {
				return err
			}
			logger := ctx.log()

			catalog, err := scene.ReadParquet(ws.CatalogPath())
			if err != nil {
				return err
			}

			selCfg := selection.FromAppConfig(cfg)
			if cmd.Flags().Changed("max-scenes") {
				selCfg.MaxScenes = maxScenes
			}
			if cmd.Flags().Changed("min-coverage") {
				selCfg.MinCoverage = minCoverage
			}
			if cmd.Flags().Changed("max-per-day") {
				selCfg.MaxScenesPerDay = maxPerDay
			}

			result, err := selection.Select(catalog, selCfg)
			if err != nil {
				return err
			}

			if err := writeJSON(ws.SelectedPath(), result.Scenes); err != nil {
				return err
			}
			if err := writeJSON(ws.SummaryPath(), result.Summary); err != nil {
				return err
			}
			if err := scene.WriteManifest(ws.ManifestPath(), result.Manifest); err != nil {
				return err
			}

			selected := make([]scene.Record, len(result.Scenes))
			for i := range result.Scenes {
				selected[i] = result.Scenes[i].Record
			}
			if err := scene.WriteSTAC(ws.STACPath(), "sentinel-1-irish-waters", selected); err != nil {
				return err
			}

			logger.Info("selection complete",
				slog.Int("catalog", len(catalog)),
				slog.Int("selected", len(result.Scenes)),
				slog.String("manifest", ws.ManifestPath()),
			)

			fmt.Fprintln(cmd.OutOrStdout(), renderSelectionTable(result.Scenes))
			fmt.Fprintf(cmd.OutOrStdout(), "Selected %d of %d scenes\n", len(result.Scenes), len(catalog))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxScenes, "max-scenes", 0, "Override the configured global scene cap")
	cmd.Flags().Float64Var(&minCoverage, "min-coverage", 0, "Override the configured minimum AOI coverage")
	cmd.Flags().IntVar(&maxPerDay, "max-per-day", 0, "Override the configured per-day scene cap")

	return cmd
}

func renderSelectionTable(scenes []selection.ScoredScene) string {
	headers := []string{"Rank", "Scene", "Date", "Pol", "Orbit", "Coverage", "Zones"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight}

	rows := make([][]string, 0, len(scenes))
	for i := range scenes {
		s := &scenes[i]
		rows = append(rows, []string{
			strconv.Itoa(s.CompositeRank),
			s.SceneID,
			s.AcquisitionDate.UTC().Format("2006-01-02 15:04"),
			s.Polarization,
			s.OrbitDirection,
			fmt.Sprintf("%.0f%%", s.AOICoverage*100),
			strconv.Itoa(s.ShippingLanePriority),
		})
	}

	return renderTable(headers, rows, aligns)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
