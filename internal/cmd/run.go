package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/countdown/internal/config"
	"github.com/felixgeelhaar/countdown/internal/duration"
	"github.com/felixgeelhaar/countdown/internal/errors"
	"github.com/felixgeelhaar/countdown/internal/hooks"
	"github.com/felixgeelhaar/countdown/internal/metrics"
	"github.com/felixgeelhaar/countdown/internal/session"
	"github.com/felixgeelhaar/countdown/internal/store"
	"github.com/felixgeelhaar/countdown/internal/telemetry"
	"github.com/felixgeelhaar/countdown/internal/tui"
	"github.com/felixgeelhaar/countdown/internal/version"
)

var runFlags struct {
	plain       bool
	exit        bool
	noNotify    bool
	noHistory   bool
	metricsAddr string
	altScreen   bool
}

// Replaced in tests
var (
	promptForCountdown = tui.PromptForCountdown
	shouldPrompt       = tui.ShouldPrompt
	isInteractive      = tui.IsInteractive
)

// countdownRequest is a parsed duration plus its label
type countdownRequest struct {
	Input    string
	Duration duration.Duration
	Title    string
}

// resolveCountdown turns the positional arguments into a request. With no
// arguments it falls back to the interactive prompt when one is possible.
func resolveCountdown(args []string, defaultTitle string) (countdownRequest, error) {
	if defaultTitle == "" {
		defaultTitle = session.DefaultTitle
	}

	if len(args) == 0 {
		if !shouldPrompt() {
			return countdownRequest{}, fmt.Errorf("missing argument: duration (e.g. countdown 25m)")
		}
		in, err := promptForCountdown(defaultTitle)
		if err != nil {
			return countdownRequest{}, err
		}
		return countdownRequest{Input: in.Input, Duration: in.Duration, Title: in.Title}, nil
	}

	input := strings.TrimSpace(args[0])
	d, err := duration.Parse(input)
	if err != nil {
		return countdownRequest{}, err
	}

	title := defaultTitle
	if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
		title = strings.TrimSpace(args[1])
	}
	return countdownRequest{Input: input, Duration: d, Title: title}, nil
}

func runCountdown(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	cfg, _, err := cc.LoadConfig()
	if err != nil {
		return err
	}

	plain := runFlags.plain || !isInteractive()

	logger, closer, err := cc.NewLogger(cfg, !plain)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := cmd.Context()

	var m *metrics.Metrics
	if addr := firstNonEmpty(runFlags.metricsAddr, cfg.Metrics.Addr); addr != "" {
		serveCtx, stopServing := context.WithCancel(ctx)
		defer stopServing()

		var promReg *prometheus.Registry
		promReg, m = metrics.NewRegistry()
		go func() {
			if err := metrics.Serve(serveCtx, addr, promReg); err != nil {
				logger.WithError(err).Warn("metrics server stopped", "addr", addr)
			}
		}()
		logger.Info("serving metrics", "addr", addr)
	}

	req, err := resolveCountdown(args, cfg.UI.DefaultTitle)
	if err != nil {
		if te, ok := errors.As(err); ok {
			m.RecordParseError(string(te.Code))
		}
		logger.WithError(err).Debug("invalid countdown request")
		return err
	}

	tcfg := cfg.Telemetry
	tcfg.ServiceVersion = version.Version
	shutdown, err := telemetry.InitProvider(ctx, tcfg)
	if err != nil {
		logger.WithError(err).Warn("tracing disabled")
		shutdown = func(context.Context) error { return nil }
	}
	defer func() {
		if err := shutdown(detach(ctx)); err != nil {
			logger.WithError(err).Warn("failed to flush traces")
		}
	}()

	ctx, span := telemetry.StartCommandSpan(ctx, "run")
	defer span.End()

	registry, err := hooks.NewDefaultRegistry(cfg.HookConfigs())
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	var st store.Store
	if cfg.History.Enabled && !runFlags.noHistory {
		sqlite, err := store.Open(config.ExpandPath(cfg.History.Path))
		if err != nil {
			logger.WithError(err).Warn("history disabled for this session")
		} else {
			st = sqlite
			defer sqlite.Close()
		}
	}

	sess, err := session.New(req.Duration, session.Options{
		Title:   req.Title,
		Input:   req.Input,
		Hooks:   registry,
		Metrics: m,
		Logger:  logger,
		Store:   st,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	opts := tui.Options{
		Notify:        !runFlags.noNotify,
		ExitOnTimeout: runFlags.exit || cfg.UI.ExitOnTimeout,
		NoColor:       cc.NoColor || cfg.UI.NoColor,
		AltScreen:     runFlags.altScreen || cfg.UI.AltScreen,
	}

	err = runSession(ctx, sess, cmd.OutOrStdout(), plain, opts)
	if err != nil {
		telemetry.RecordError(span, err)
	} else {
		telemetry.RecordSuccess(span)
	}
	return err
}

// runSession starts s, drives it until the user quits, then finishes it.
// Finishing runs even after ctx is cancelled or a start hook fails, so the
// session span ends and the history is written.
func runSession(ctx context.Context, s *session.Session, out io.Writer, plain bool, opts tui.Options) error {
	if err := s.Start(ctx); err != nil {
		return stderrors.Join(err, s.Finish(detach(ctx)))
	}

	var runErr error
	if plain {
		runErr = runPlain(ctx, s, out, opts)
	} else {
		runErr = tui.Run(ctx, s, opts)
	}

	finishErr := s.Finish(detach(ctx))
	if runErr != nil {
		return runErr
	}
	return finishErr
}

// runPlain prints the remaining time once per tick. It returns nil once
// time is over when ExitOnTimeout is set, and ctx.Err() when cancelled.
func runPlain(ctx context.Context, s *session.Session, out io.Writer, opts tui.Options) error {
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second
	}

	snap := s.Snapshot()
	fmt.Fprintf(out, "%s: %s\n", s.Title(), snap.Remaining)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		fired := s.Tick()
		snap = s.Snapshot()
		fmt.Fprintln(out, snap.Remaining)
		if !fired {
			continue
		}

		fmt.Fprintf(out, "Time is over! %s\n", snap.Summary)
		if opts.Notify {
			for _, r := range s.Notify(ctx) {
				if !r.Success {
					fmt.Fprintf(out, "notification %s failed: %s\n", r.HookName, r.Error)
				}
			}
		}
		if opts.ExitOnTimeout {
			return nil
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
