package cli

import (
	"github.com/smallbiznis/custoscarbon/internal/calculation"
	"github.com/smallbiznis/custoscarbon/internal/factor"
	"github.com/smallbiznis/custoscarbon/internal/record"
	"github.com/smallbiznis/custoscarbon/internal/server"
	"github.com/smallbiznis/custoscarbon/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Load the factor dataset once, make sure the records table exists and serve the
API until interrupted. A refreshed dataset is picked up on the next start.`,
	Run: func(cmd *cobra.Command, args []string) {
		newServeApp().Run()
	},
}

func newServeApp() *fx.App {
	opts := append(baseOptions(),
		fx.WithLogger(zapEventLogger),
		db.Module,
		factor.Module,
		record.Module,
		calculation.Module,
		server.Module,
	)
	return fx.New(opts...)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
