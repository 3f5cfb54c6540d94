package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/countdown/internal/config"
	"github.com/felixgeelhaar/countdown/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that notifications, config and history work",
	Long: `Run diagnostics for everything a countdown relies on.

Checks include:
  • Desktop notifier program (notify-send, osascript or powershell)
  • Configuration file
  • History database
  • Configured hooks

Examples:
  countdown doctor
  countdown doctor --format json
`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	manager := newDoctor(cc, runtime.GOOS)
	report := manager.Check(cmd.Context())

	formatter, err := cc.Formatter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := formatter.Format(report); err != nil {
		return err
	}

	if report.Status == health.StatusUnhealthy {
		return fmt.Errorf("doctor found problems")
	}
	return nil
}

// newDoctor registers the checks. A config that fails to load still gets
// notifier and history checks against the defaults.
func newDoctor(cc *CommandContext, goos string) *health.Manager {
	cfg, path, loadErr := cc.LoadConfig()
	if loadErr != nil {
		cfg = config.Default()
	}

	manager := health.NewManager()
	manager.AddChecker(health.NewConfigChecker(path, func() error { return loadErr }))
	manager.AddChecker(health.NewNotifierChecker(goos))
	manager.AddChecker(health.NewHistoryChecker(config.ExpandPath(cfg.History.Path), cfg.History.Enabled))
	manager.AddChecker(health.NewHooksChecker(cfg.HookConfigs()))
	return manager
}
