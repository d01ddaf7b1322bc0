package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"s1scout/internal/asf"
	"s1scout/internal/download"
	"s1scout/internal/scene"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var noResume bool

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the scenes in the manifest",
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

			entries, err := scene.ReadManifest(ws.ManifestPath())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Manifest is empty; nothing to download")
				return nil
			}

			// One downloader per data dir at a time.
			lock := flock.New(ws.LockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock %s: %w", ws.LockPath(), err)
			}
			if !locked {
				return fmt.Errorf("another download is already running against %s", ws.Dir)
			}
			defer lock.Unlock()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			journal, err := download.OpenJournal(ws.JournalPath())
			if err != nil {
				return err
			}
			defer journal.Close()

			client := asf.NewClient(cfg.ASF.BaseURL, cfg.ASF.Timeout).
				WithLogger(logger).
				WithToken(cfg.Earthdata.Token)

			manager := download.NewManager(client, download.Options{
				OutputDir:      ws.DownloadDir(),
				MaxWorkers:     cfg.Download.MaxWorkers,
				RetryAttempts:  cfg.Download.RetryAttempts,
				RetryDelay:     cfg.Download.RetryDelay.Std(),
				FileTimeout:    cfg.Download.FileTimeout.Std(),
				VerifySizes:    cfg.Download.VerifySizes,
				OrganizeByDate: cfg.Download.OrganizeByDate,
				Resume:         !noResume,
			}, journal, logger)

			bar := progressbar.NewOptions(len(entries),
				progressbar.OptionSetDescription("downloading"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			manager.OnResult(func(download.Result) {
				bar.Add(1)
			})

			runID := uuid.NewString()
			logger.Info("starting download run",
				slog.String("run_id", runID),
				slog.Int("scenes", len(entries)),
				slog.Int("workers", cfg.Download.MaxWorkers),
			)

			report, runErr := manager.Run(runCtx, runID, entries)
			bar.Finish()

			if report != nil {
				if err := download.WriteReport(report, ws.ReportPath()); err != nil {
					return err
				}
				printReportSummary(cmd, report)
			}
			if runErr != nil {
				return fmt.Errorf("download run interrupted: %w", runErr)
			}
			if report.Summary.Failed > 0 {
				return fmt.Errorf("%d of %d scenes failed to download", report.Summary.Failed, report.Summary.TotalScenes)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noResume, "no-resume", false, "Refetch scenes even when already downloaded")
	return cmd
}

func printReportSummary(cmd *cobra.Command, report *download.Report) {
	s := report.Summary
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s: %d succeeded (%d skipped), %d failed of %d scenes\n",
		report.RunID, s.Successful, s.Skipped, s.Failed, s.TotalScenes)
	fmt.Fprintf(out, "Transferred %s in %.1fs (%.1f Mbps)\n",
		humanize.Bytes(uint64(s.TotalBytes)), s.TotalTimeSeconds, s.AverageSpeedMbps)
	for _, sceneID := range report.Failed {
		fmt.Fprintf(out, "  failed: %s\n", sceneID)
	}
}
