package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vk/benchgridgo/internal/app"
)

var genSkip bool

var genCmd = &cobra.Command{
	Use:   "gen SPEC...",
	Short: "Resolve a specification and write the benchmark tree",
	Long: `Resolve the given specification files (or directories containing .hcl
files) and materialize the run directories, start scripts, and launchers
under the configured output directory.

Examples:
  benchgridgo gen runscript.hcl
  benchgridgo gen --skip runscript.hcl`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.New(os.Stdout)
		return a.Generate(cmd.Context(), app.Options{Specs: args, Skip: genSkip})
	},
}

func init() {
	genCmd.Flags().BoolVar(&genSkip, "skip", false, "Leave runs with a .finished marker untouched")
	RootCmd.AddCommand(genCmd)
}
