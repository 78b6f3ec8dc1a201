package cli

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/smallbiznis/custoscarbon/internal/factor"
	factordomain "github.com/smallbiznis/custoscarbon/internal/factor/domain"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var factorsCmd = &cobra.Command{
	Use:     "factors",
	Aliases: []string{"f", "factor"},
	Short:   "Inspect emission factors",
}

var factorsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the factors the API would load",
	RunE:    runFactorsList,
}

func runFactorsList(cmd *cobra.Command, args []string) error {
	var store factordomain.Store
	app := fx.New(append(baseOptions(),
		fx.NopLogger,
		factor.Module,
		fx.Populate(&store),
	)...)
	if err := app.Err(); err != nil {
		return err
	}

	table := store.GetAll()
	out := cmd.OutOrStdout()
	if len(table) == 0 {
		fmt.Fprintln(out, "No factors loaded.")
		return nil
	}

	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	slices.Sort(names)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "NAME\tUNIT\tFACTOR")
	fmt.Fprintln(w, "----\t----\t------")
	for _, name := range names {
		v := table[name]
		fmt.Fprintf(w, "%s\t%s\t%g\n", name, v.Unit, v.Factor)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(factorsCmd)
	factorsCmd.AddCommand(factorsListCmd)
}
