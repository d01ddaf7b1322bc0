// Package download fetches selected scenes with a bounded worker pool.
// Each scene is independently retried and failures are isolated: one
// scene failing never aborts the others. Outcomes are journaled to
// SQLite so interrupted runs can resume.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"s1scout/internal/scene"
)

// journalWriteTimeout bounds each journal write; the busy_timeout
// pragma retries locked writes well within it.
const journalWriteTimeout = 10 * time.Second

// Fetcher retrieves the content behind a download URL. It is an
// interface so tests can substitute a fake for the ASF client.
type Fetcher interface {
	Fetch(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error)
}

// Options tunes a download run.
type Options struct {
	OutputDir      string
	MaxWorkers     int
	RetryAttempts  int
	RetryDelay     time.Duration
	FileTimeout    time.Duration
	VerifySizes    bool
	OrganizeByDate bool
	Resume         bool
}

// Result is the outcome of one scene download.
type Result struct {
	SceneID      string        `json:"scene_id"`
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
	FilePath     string        `json:"file_path,omitempty"`
	FileSize     int64         `json:"file_size"`
	Elapsed      time.Duration `json:"download_time"`
	Attempts     int           `json:"attempts"`
	Skipped      bool          `json:"skipped,omitempty"`
	SizeMismatch bool          `json:"size_mismatch,omitempty"`
}

// Manager coordinates concurrent scene downloads.
type Manager struct {
	fetcher Fetcher
	opts    Options
	journal *Journal
	logger  *slog.Logger

	// onResult, when set, is invoked from worker goroutines as each
	// scene completes. Used by the CLI for progress reporting.
	onResult func(Result)
}

// NewManager creates a download manager. journal may be nil to disable
// journaling.
func NewManager(fetcher Fetcher, opts Options, journal *Journal, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 1
	}
	if opts.RetryAttempts < 1 {
		opts.RetryAttempts = 1
	}
	return &Manager{
		fetcher: fetcher,
		opts:    opts,
		journal: journal,
		logger:  logger,
	}
}

// OnResult registers a completion callback. The callback must be safe to
// call from multiple goroutines.
func (m *Manager) OnResult(fn func(Result)) {
	m.onResult = fn
}

// Run downloads all manifest entries and returns a report aggregated by
// scene ID. The report is always produced, even under partial failure;
// when the context is canceled the remaining entries are recorded as
// canceled and ctx.Err() is returned alongside the report.
func (m *Manager) Run(ctx context.Context, runID string, entries []scene.ManifestEntry) (*Report, error) {
	start := time.Now()

	if err := os.MkdirAll(m.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var mu sync.Mutex
	results := make([]Result, 0, len(entries))

	record := func(res Result) {
		if m.journal != nil {
			// Detached from the run context so canceled runs still
			// journal their outcomes, but bounded so a busy database
			// cannot stall shutdown.
			jctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
			defer cancel()
			if err := m.journal.Record(jctx, runID, res); err != nil {
				m.logger.Warn("failed to journal download outcome",
					slog.String("scene_id", res.SceneID),
					slog.String("error", err.Error()),
				)
			}
		}
		mu.Lock()
		results = append(results, res)
		mu.Unlock()
		if m.onResult != nil {
			m.onResult(res)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.MaxWorkers)

	for _, entry := range entries {
		entry := entry
		g.Go(func() error {
			if gctx.Err() != nil {
				record(Result{SceneID: entry.SceneID, Error: "canceled before start"})
				return nil
			}
			record(m.downloadOne(gctx, entry))
			// Failures are isolated; never propagate to the group.
			return nil
		})
	}

	_ = g.Wait()

	report := BuildReport(runID, results, time.Since(start))
	return report, ctx.Err()
}

// downloadOne fetches a single scene with bounded retries and a fixed
// delay between attempts.
func (m *Manager) downloadOne(ctx context.Context, entry scene.ManifestEntry) Result {
	start := time.Now()
	res := Result{SceneID: entry.SceneID}

	target, err := m.targetPath(entry)
	if err != nil {
		res.Error = err.Error()
		res.Elapsed = time.Since(start)
		return res
	}

	if m.opts.Resume {
		if done, path := m.alreadyDownloaded(ctx, entry, target); done {
			m.logger.Debug("scene already downloaded, skipping",
				slog.String("scene_id", entry.SceneID),
			)
			res.Success = true
			res.Skipped = true
			res.FilePath = path
			if info, statErr := os.Stat(path); statErr == nil {
				res.FileSize = info.Size()
			}
			res.Elapsed = time.Since(start)
			return res
		}
	}

	var lastErr error
	for attempt := 1; attempt <= m.opts.RetryAttempts; attempt++ {
		res.Attempts = attempt

		written, err := m.fetchToFile(ctx, entry.DownloadURL, target)
		if err == nil {
			res.Success = true
			res.FilePath = target
			res.FileSize = written
			res.Elapsed = time.Since(start)

			if m.opts.VerifySizes && entry.FileSize > 0 && written != entry.FileSize {
				// Integrity mismatch is a warning, not a failure.
				res.SizeMismatch = true
				m.logger.Warn("downloaded size differs from manifest",
					slog.String("scene_id", entry.SceneID),
					slog.Int64("expected", entry.FileSize),
					slog.Int64("actual", written),
				)
			}
			return res
		}

		lastErr = err
		m.logger.Warn("download attempt failed",
			slog.String("scene_id", entry.SceneID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)

		if attempt == m.opts.RetryAttempts {
			break
		}
		select {
		case <-time.After(m.opts.RetryDelay):
		case <-ctx.Done():
			res.Error = ctx.Err().Error()
			res.Elapsed = time.Since(start)
			return res
		}
	}

	res.Error = lastErr.Error()
	res.Elapsed = time.Since(start)
	return res
}

// fetchToFile streams the URL into target via a temp file so partial
// downloads never masquerade as complete ones.
func (m *Manager) fetchToFile(ctx context.Context, downloadURL, target string) (int64, error) {
	fetchCtx := ctx
	if m.opts.FileTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, m.opts.FileTimeout)
		defer cancel()
	}

	body, _, err := m.fetcher.Fetch(fetchCtx, downloadURL)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	tmp := target + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", tmp, err)
	}

	written, err := io.Copy(f, body)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("write %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("finalize %s: %w", target, err)
	}
	return written, nil
}

// targetPath resolves the destination file for a manifest entry,
// creating date subdirectories when organize-by-date is enabled.
func (m *Manager) targetPath(entry scene.ManifestEntry) (string, error) {
	dir := m.opts.OutputDir

	if m.opts.OrganizeByDate {
		day, err := AcquisitionDayFromSceneID(entry.SceneID)
		if err != nil {
			m.logger.Warn("cannot parse acquisition date from scene ID, using flat layout",
				slog.String("scene_id", entry.SceneID),
				slog.String("error", err.Error()),
			)
		} else {
			dir = filepath.Join(dir, day.Format("2006"), day.Format("01"), day.Format("02"))
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create scene dir: %w", err)
	}

	return filepath.Join(dir, fileNameFor(entry)), nil
}

// alreadyDownloaded reports whether the scene is already complete, via
// the journal or an existing file at the target path.
func (m *Manager) alreadyDownloaded(ctx context.Context, entry scene.ManifestEntry, target string) (bool, string) {
	if m.journal != nil {
		if done, path, err := m.journal.Completed(ctx, entry.SceneID); err == nil && done {
			if _, statErr := os.Stat(path); statErr == nil {
				return true, path
			}
		}
	}
	if _, err := os.Stat(target); err == nil {
		return true, target
	} else if !errors.Is(err, os.ErrNotExist) {
		m.logger.Warn("cannot stat existing file",
			slog.String("path", target),
			slog.String("error", err.Error()),
		)
	}
	return false, ""
}
