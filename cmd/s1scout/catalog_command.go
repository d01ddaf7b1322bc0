package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"s1scout/internal/asf"
	"s1scout/internal/scene"
	"s1scout/pkg/geojson"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var startFlag string
	var endFlag string
	var conditionsFlag string
	var flightDirectionFlag string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Query ASF for Sentinel-1 scenes over the configured region",
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

			start, end, err := parseDateRange(startFlag, endFlag)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			aoi, err := geojson.NewPolygonFromBBox(cfg.Region.BBox)
			if err != nil {
				return fmt.Errorf("build AOI polygon: %w", err)
			}
			wkt, err := geojson.ToWKT(aoi)
			if err != nil {
				return fmt.Errorf("build AOI WKT: %w", err)
			}

			params := asf.SearchParams{
				Dataset:         []string{cfg.Catalog.Dataset},
				IntersectsWith:  wkt,
				Start:           &start,
				End:             &end,
				BeamMode:        cfg.Catalog.BeamModes,
				Polarization:    cfg.Catalog.Polarizations,
				ProcessingLevel: cfg.Catalog.ProcessingLevels,
				FlightDirection: flightDirectionFlag,
				MaxResults:      cfg.Catalog.MaxResults,
			}

			client := asf.NewClient(cfg.ASF.BaseURL, cfg.ASF.Timeout).WithLogger(logger)

			logger.Info("searching ASF catalog",
				slog.String("region", cfg.Region.Name),
				slog.Time("start", start),
				slog.Time("end", end),
			)

			resp, err := client.Search(runCtx, params)
			if err != nil {
				return fmt.Errorf("search ASF: %w", err)
			}

			records := make([]scene.Record, 0, len(resp.Features))
			for i := range resp.Features {
				rec, err := scene.FromASFFeature(&resp.Features[i], cfg.Region.BBox)
				if err != nil {
					logger.Warn("skipping untranslatable feature",
						slog.String("error", err.Error()),
					)
					continue
				}
				records = append(records, *rec)
			}

			if conditionsFlag != "" {
				conditions, err := scene.ReadConditions(conditionsFlag)
				if err != nil {
					return fmt.Errorf("read conditions: %w", err)
				}
				merged := scene.MergeConditions(records, conditions)
				logger.Info("merged sea conditions",
					slog.Int("matched", merged),
					slog.Int("scenes", len(records)),
				)
			}

			if err := scene.WriteParquet(ws.CatalogPath(), records); err != nil {
				return err
			}

			logger.Info("wrote scene catalog",
				slog.String("path", ws.CatalogPath()),
				slog.Int("scenes", len(records)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Cataloged %d scenes to %s\n", len(records), ws.CatalogPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "Start date YYYY-MM-DD (default 7 days ago)")
	cmd.Flags().StringVar(&endFlag, "end", "", "End date YYYY-MM-DD inclusive (default today)")
	cmd.Flags().StringVar(&conditionsFlag, "conditions", "", "CSV of per-scene sea conditions to merge")
	cmd.Flags().StringVar(&flightDirectionFlag, "flight-direction", "", "Restrict to ASCENDING or DESCENDING passes")

	return cmd
}

// parseDateRange resolves the catalog window. The end date is inclusive:
// it extends to the end of that UTC day.
func parseDateRange(startFlag, endFlag string) (time.Time, time.Time, error) {
	now := time.Now().UTC()

	end := now
	if endFlag != "" {
		day, err := time.Parse("2006-01-02", endFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end date %q: %w", endFlag, err)
		}
		end = day.Add(24*time.Hour - time.Second)
	}

	start := end.AddDate(0, 0, -7)
	if startFlag != "" {
		day, err := time.Parse("2006-01-02", startFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --start date %q: %w", startFlag, err)
		}
		start = day
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date %s is not before end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return start, end, nil
}
