package refresher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smallbiznis/custoscarbon/internal/clock"
	"github.com/smallbiznis/custoscarbon/internal/config"
	"github.com/smallbiznis/custoscarbon/internal/factor/loader"
	"github.com/smallbiznis/custoscarbon/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config  Config
	Aliases config.Aliases
	Clock   clock.Clock
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// Refresher replaces the canonical dataset file with a fresh copy of the upstream data.
// It never talks to a running API process; the API picks the file up on its next start.
type Refresher struct {
	cfg     Config
	aliases config.FieldAliases
	fetcher *fetcher
	clock   clock.Clock
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Report describes the outcome of one run.
type Report struct {
	StartedAt   time.Time
	Items       int
	DatasetPath string
	BackupPath  string
}

func New(p Params) *Refresher {
	cfg := p.Config.withDefaults()
	return &Refresher{
		cfg:     cfg,
		aliases: p.Aliases.Upstream,
		fetcher: newFetcher(cfg.APIURL, cfg.Timeout),
		clock:   p.Clock,
		log:     p.Log.Named("refresher"),
		metrics: p.Metrics,
	}
}

// Run fetches, normalizes, backs up, writes and logs. Every run appends exactly one
// line to the log file. A failure after the backup leaves the previous dataset in place.
func (r *Refresher) Run(ctx context.Context) (Report, error) {
	report := Report{
		StartedAt:   r.clock.Now(),
		DatasetPath: r.cfg.DatasetPath,
	}

	err := r.run(ctx, &report)
	if err != nil {
		r.metrics.RecordRefresh(metrics.ResultFailed, 0)
		r.log.Error("dataset refresh failed", zap.String("url", r.cfg.APIURL), zap.Error(err))
		r.writeLog(fmt.Sprintf("update failed: %v", err))
		return report, err
	}

	r.metrics.RecordRefresh(metrics.ResultSuccess, report.Items)
	r.log.Info("dataset refreshed",
		zap.Int("items", report.Items),
		zap.String("path", report.DatasetPath),
		zap.String("backup", report.BackupPath),
	)
	r.writeLog(fmt.Sprintf("update succeeded, %d items", report.Items))
	return report, nil
}

func (r *Refresher) run(ctx context.Context, report *Report) error {
	if err := os.MkdirAll(filepath.Dir(r.cfg.DatasetPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	body, err := r.fetcher.fetch(ctx)
	if err != nil {
		return err
	}

	entries, err := loader.NormalizeUpstream(body, r.aliases)
	if err != nil {
		return fmt.Errorf("normalize dataset: %w", err)
	}
	r.log.Debug("upstream dataset normalized", zap.Int("items", len(entries)))

	backup := r.cfg.backupPath(report.StartedAt)
	copied, err := backupFile(r.cfg.DatasetPath, backup)
	if err != nil {
		return fmt.Errorf("backup dataset: %w", err)
	}
	if copied {
		report.BackupPath = backup
	}

	if err := writeDataset(r.cfg.DatasetPath, entries); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	report.Items = len(entries)
	return nil
}

func (r *Refresher) writeLog(msg string) {
	line := fmt.Sprintf("[%s] %s", r.clock.Now().Format(logLayout), msg)
	if err := appendLog(r.cfg.LogPath, line); err != nil {
		r.log.Error("failed to append refresh log", zap.String("path", r.cfg.LogPath), zap.Error(err))
	}
}

// Config returns the settings the refresher runs with.
func (r *Refresher) Config() Config {
	return r.cfg
}
