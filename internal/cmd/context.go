package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/countdown/internal/config"
	"github.com/felixgeelhaar/countdown/internal/log"
	"github.com/felixgeelhaar/countdown/internal/ux"
	"github.com/felixgeelhaar/countdown/internal/version"
)

// CommandContext holds the persistent flags shared by every command.
// Commands build one in RunE instead of reading package globals.
type CommandContext struct {
	ConfigPath string
	LogLevel   string
	Format     string
	NoColor    bool
}

// NewCommandContext extracts command context from cobra.Command flags.
//
//	func runCommand(cmd *cobra.Command, args []string) error {
//		cc, err := NewCommandContext(cmd)
//		if err != nil {
//			return err
//		}
//		// Use cc.Format, cc.NoColor, etc.
//	}
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		ConfigPath: configPath,
		LogLevel:   logLevel,
		Format:     format,
		NoColor:    noColor,
	}, nil
}

// LoadConfig reads the config named by --config, or the default one.
// It returns the path that was read.
func (cc *CommandContext) LoadConfig() (*config.Config, string, error) {
	if cc.ConfigPath == "" {
		return config.Load()
	}
	path := config.ExpandPath(cc.ConfigPath)
	cfg, err := config.LoadFrom(path)
	return cfg, path, err
}

// Formatter returns the output formatter selected by --format
func (cc *CommandContext) Formatter(w io.Writer) (ux.Formatter, error) {
	return ux.NewFormatter(cc.Format, &ux.FormatterOptions{Writer: w, NoColor: cc.NoColor})
}

// NewLogger builds the process logger. When toFile is set the records go
// to the configured log file, since the countdown screen owns the terminal.
// The returned closer is never nil.
func (cc *CommandContext) NewLogger(cfg *config.Config, toFile bool) (*log.Logger, io.Closer, error) {
	level := cfg.Logging.Level
	if cc.LogLevel != "" {
		level = cc.LogLevel
	}

	logCfg := log.DefaultConfig()
	logCfg.Level = log.ParseLevel(level)
	logCfg.Format = log.ParseFormat(cfg.Logging.Format)
	logCfg.ServiceVersion = version.Version

	var closer io.Closer = nopCloser{}
	if toFile && cfg.Logging.File != "" {
		out, c, err := log.OpenFileOutput(config.ExpandPath(cfg.Logging.File))
		if err != nil {
			return nil, nil, err
		}
		logCfg.Output = out
		closer = c
	}

	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// detach keeps ctx's values but drops its cancellation, so shutdown work
// still runs after Ctrl+C.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
