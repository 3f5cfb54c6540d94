package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/countdown/internal/config"
	"github.com/felixgeelhaar/countdown/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded countdown sessions",
	Long: `List finished countdowns from the history database, newest first,
followed by totals across every recorded session.`,
	Example: `  countdown history
  countdown history --limit 5 --format json`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "number of sessions to show (default from history.limit, 0 shows all)")

	rootCmd.AddCommand(historyCmd)
}

// historyResult is the output of `countdown history`
type historyResult struct {
	Sessions []store.Session `json:"sessions" yaml:"sessions"`
	Stats    store.Stats     `json:"stats" yaml:"stats"`
}

// WriteText implements ux.TextWriter
func (r historyResult) WriteText(w io.Writer) error {
	if len(r.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tTITLE\tDURATION\tELAPSED\tRESULT")
	for _, s := range r.Sessions {
		result := "stopped"
		if s.TimedOut {
			result = "time over"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.Title,
			s.Input,
			seconds(s.ElapsedSeconds),
			result,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d sessions, %d ran out, %s in total\n",
		r.Stats.Sessions, r.Stats.TimedOut, seconds(r.Stats.ElapsedSeconds))
	return err
}

func seconds(n int64) time.Duration {
	return time.Duration(n) * time.Second
}

func runHistory(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	cfg, _, err := cc.LoadConfig()
	if err != nil {
		return err
	}

	limit := cfg.History.Limit
	if cmd.Flags().Changed("limit") {
		limit = historyLimit
	}

	st, err := store.Open(config.ExpandPath(cfg.History.Path))
	if err != nil {
		return err
	}
	defer st.Close()

	result, err := loadHistory(cmd.Context(), st, limit)
	if err != nil {
		return err
	}

	formatter, err := cc.Formatter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return formatter.Format(result)
}

func loadHistory(ctx context.Context, st store.Store, limit int) (historyResult, error) {
	sessions, err := st.ListSessions(ctx, limit)
	if err != nil {
		return historyResult{}, err
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		return historyResult{}, err
	}

	if sessions == nil {
		sessions = []store.Session{}
	}
	return historyResult{Sessions: sessions, Stats: stats}, nil
}
