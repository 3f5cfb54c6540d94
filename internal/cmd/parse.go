package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/countdown/internal/countdown"
	"github.com/felixgeelhaar/countdown/internal/duration"
)

var parseCmd = &cobra.Command{
	Use:   "parse <duration>",
	Short: "Validate a duration string",
	Long: `Parse a duration string and print its components without starting a timer.

A duration is a sequence of number and unit pairs with units h, m and s, each
used at most once, for example 1h30m, 45m or 1h5s.`,
	Example: `  countdown parse 1h30m
  countdown parse 90s --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

// parseResult is what `countdown parse` reports for a valid duration
type parseResult struct {
	Input        string `json:"input" yaml:"input"`
	Hours        int    `json:"hours" yaml:"hours"`
	Minutes      int    `json:"minutes" yaml:"minutes"`
	Seconds      int    `json:"seconds" yaml:"seconds"`
	TotalSeconds int64  `json:"total_seconds" yaml:"total_seconds"`
	Canonical    string `json:"canonical" yaml:"canonical"`
	Summary      string `json:"summary" yaml:"summary"`
}

func newParseResult(input string) (parseResult, error) {
	d, err := duration.Parse(input)
	if err != nil {
		return parseResult{}, err
	}

	state, err := countdown.New(d)
	if err != nil {
		return parseResult{}, err
	}

	return parseResult{
		Input:        input,
		Hours:        d.Hours(),
		Minutes:      d.Minutes(),
		Seconds:      d.Seconds(),
		TotalSeconds: d.TotalSeconds(),
		Canonical:    d.String(),
		Summary:      state.Summary(),
	}, nil
}

// WriteText implements ux.TextWriter
func (r parseResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Input:     %s\nCanonical: %s\nHours:     %d\nMinutes:   %d\nSeconds:   %d\nTotal:     %d seconds\n%s\n",
		r.Input, r.Canonical, r.Hours, r.Minutes, r.Seconds, r.TotalSeconds, r.Summary)
	return err
}

func runParse(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	result, err := newParseResult(args[0])
	if err != nil {
		return err
	}

	formatter, err := cc.Formatter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return formatter.Format(result)
}
