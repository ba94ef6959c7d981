package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vk/benchgridgo/internal/app"
)

var planCmd = &cobra.Command{
	Use:   "plan SPEC...",
	Short: "Resolve a specification and print the runs without writing anything",
	Long: `Resolve the given specification files and list every run directory the
gen command would create, plus the batch layout for distributed jobs.

Examples:
  benchgridgo plan runscript.hcl`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.New(os.Stdout)
		return a.Plan(cmd.Context(), app.Options{Specs: args})
	},
}

func init() {
	RootCmd.AddCommand(planCmd)
}
