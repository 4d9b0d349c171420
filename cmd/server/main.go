package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootCmd is the base command of the outlook binary
var rootCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Drift-adjusted 10-year equity return projections",
	Long: `outlook regresses forward index returns on the aggregate investor stock
allocation and adds the recent annualized drift of the index to the fitted
estimate. It serves the projections over gRPC or computes them once from the
command line.

Examples:
  outlook serve
  outlook project usa
  outlook project europe --remote localhost:8080 --token dev-token
  outlook unemployment`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger configures the global zerolog logger
// format "console" writes human readable lines, anything else JSON
func setupLogger(level, format string) error {
	if level == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if strings.EqualFold(format, "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &log.Logger

	return nil
}
