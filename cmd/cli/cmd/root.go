package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vk/benchgridgo/internal/app"
	"github.com/vk/benchgridgo/internal/ctxlog"
)

var (
	logLevel  string
	logFormat string
)

// RootCmd is the top-level CLI command.
var RootCmd = &cobra.Command{
	Use:   "benchgridgo",
	Short: "benchgridgo - generate benchmark run trees from a declarative specification",
	Long: `benchgridgo resolves a declarative benchmark specification into a
reproducible tree of run directories and start scripts, for sequential
execution on one machine or batch submission to a cluster.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(logFormat)
		if format != "text" && format != "json" {
			return &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
		}
		switch strings.ToLower(logLevel) {
		case "debug", "info", "warn", "error":
		default:
			return &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
		}
		logger := app.NewLogger(strings.ToLower(logLevel), format, os.Stderr)
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
}

// ExitError is an error carrying a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}
