package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smallbiznis/custoscarbon/internal/refresher"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var refreshFlags struct {
	url      string
	dataDir  string
	timeout  time.Duration
	schedule string
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Update the factor dataset from the upstream API",
	Long: `Fetch the upstream dataset, back up the current file, write the normalized
dataset and append one line to the update log. With --schedule the refresh runs on a
cron schedule until interrupted.`,
	RunE: runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	var r *refresher.Refresher
	app := fx.New(append(baseOptions(),
		fx.NopLogger,
		refresher.Module,
		fx.Decorate(applyRefreshFlags),
		fx.Populate(&r),
	)...)
	if err := app.Err(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	if schedule := r.Config().Schedule; schedule != "" {
		return r.RunScheduled(ctx, schedule)
	}

	report, err := r.Run(ctx)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "updated %s with %d items\n", report.DatasetPath, report.Items)
	if report.BackupPath != "" {
		fmt.Fprintf(out, "previous dataset saved as %s\n", report.BackupPath)
	}
	return nil
}

func applyRefreshFlags(cfg refresher.Config) refresher.Config {
	if refreshFlags.dataDir != "" {
		cfg = cfg.WithDataDir(refreshFlags.dataDir)
	}
	if refreshFlags.url != "" {
		cfg.APIURL = refreshFlags.url
	}
	if refreshFlags.timeout > 0 {
		cfg.Timeout = refreshFlags.timeout
	}
	if refreshFlags.schedule != "" {
		cfg.Schedule = refreshFlags.schedule
	}
	return cfg
}

func init() {
	refreshCmd.Flags().StringVar(&refreshFlags.url, "url", "", "Upstream dataset URL (default from REFRESH_API_URL)")
	refreshCmd.Flags().StringVar(&refreshFlags.dataDir, "data-dir", "", "Directory holding the dataset, backups and update log")
	refreshCmd.Flags().DurationVar(&refreshFlags.timeout, "timeout", 0, "Fetch timeout (default 15s)")
	refreshCmd.Flags().StringVar(&refreshFlags.schedule, "schedule", "", "Cron schedule, e.g. \"0 3 * * *\"; runs once when empty")

	rootCmd.AddCommand(refreshCmd)
}
