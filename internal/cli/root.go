package cli

import (
	"github.com/smallbiznis/custoscarbon/internal/clock"
	"github.com/smallbiznis/custoscarbon/internal/config"
	"github.com/smallbiznis/custoscarbon/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "custoscarbon",
	Short: "Carbon emission calculator backend",
	Long: `custoscarbon serves emission factors, calculates emissions from usage and keeps
a history of every calculation. The refresh command updates the factor dataset from
the upstream open-data API.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
}

// baseOptions wires configuration, logging and the clock shared by every command.
func baseOptions() []fx.Option {
	return []fx.Option{
		config.Module,
		observability.Module,
		clock.Module,
		fx.Decorate(applyVerbose),
	}
}

func applyVerbose(cfg observability.Config) observability.Config {
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg
}

func zapEventLogger(log *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: log.Named("fx")}
}
