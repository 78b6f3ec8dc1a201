package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/smallbiznis/custoscarbon/internal/record"
	recorddomain "github.com/smallbiznis/custoscarbon/internal/record/domain"
	"github.com/smallbiznis/custoscarbon/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var recordsLimit int

var recordsCmd = &cobra.Command{
	Use:     "records",
	Aliases: []string{"r", "record"},
	Short:   "Inspect stored calculations",
}

var recordsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the most recent calculations",
	RunE:    runRecordsList,
}

func runRecordsList(cmd *cobra.Command, args []string) error {
	var svc recorddomain.Service
	app := fx.New(append(baseOptions(),
		fx.NopLogger,
		db.Module,
		record.Module,
		fx.Populate(&svc),
	)...)

	ctx := cmd.Context()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	records, err := svc.ListRecent(ctx, recordsLimit)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No records found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tNAME\tUSAGE\tFACTOR\tEMISSION\tUNIT\tCREATED AT")
	fmt.Fprintln(w, "--\t----\t-----\t------\t--------\t----\t----------")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%g\t%g\t%g\t%s\t%s\n",
			r.ID,
			r.Name,
			r.Usage,
			r.Factor,
			r.Emission,
			r.Unit,
			r.CreatedAt.Format(time.RFC3339),
		)
	}
	return nil
}

func init() {
	recordsListCmd.Flags().IntVarP(&recordsLimit, "limit", "n", recorddomain.DefaultListLimit, "Maximum number of records to show")

	rootCmd.AddCommand(recordsCmd)
	recordsCmd.AddCommand(recordsListCmd)
}
