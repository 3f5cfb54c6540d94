package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "countdown [duration] [title]",
	Short: "Terminal countdown timer",
	Long: `countdown runs a timer in the terminal and notifies you when time is over.

The duration is a compact string of hours, minutes and seconds, for example
25m, 1h30m or 90s. Each unit may appear at most once. Once the time is up the
clock keeps counting into overtime, shown with a leading minus sign.

Examples:
  # Twenty-five minutes labelled "Focus"
  countdown 25m Focus

  # Line mode for scripts, quitting once time is over
  countdown 90s --plain --exit

  # Ask for a duration interactively
  countdown`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCountdown,
}

// ExecuteContext runs the root command with ctx, which is cancelled on SIGINT
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.countdown/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().String("format", "text", "output format: text, json, yaml")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	rootCmd.Flags().BoolVar(&runFlags.plain, "plain", false, "print the remaining time line by line instead of the full-screen UI")
	rootCmd.Flags().BoolVar(&runFlags.exit, "exit", false, "quit once time is over and hooks have run")
	rootCmd.Flags().BoolVar(&runFlags.noNotify, "no-notify", false, "do not run timeout notifications")
	rootCmd.Flags().BoolVar(&runFlags.noHistory, "no-history", false, "do not record this session")
	rootCmd.Flags().StringVar(&runFlags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	rootCmd.Flags().BoolVar(&runFlags.altScreen, "alt-screen", false, "use the terminal's alternate screen")
}
