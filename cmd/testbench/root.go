package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/testbench"
	"github.com/aretw0/testbench/internal/logging"
	"github.com/aretw0/testbench/internal/stand"
	"github.com/aretw0/testbench/pkg/ports"
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "testbench",
		Short: "testbench drives a bench of test instruments",
		Long: `testbench composes instruments into a static tree, activates them from a
YAML configuration and runs cascading initialize, connect and disconnect
operations over the tree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags (available to all commands)
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "testbench.yaml", "Bench configuration file")
	pf.StringVar(&opts.logLevel, "log-level", "info", "Log level (trace|debug|info|warning|error|fatal)")
	pf.StringVar(&opts.logFormat, "log-format", logging.FormatText, "Log format (text|json)")

	cmd.AddCommand(
		newValidateCmd(opts),
		newRunCmd(opts),
		newGraphCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// session is an initialized demo stand.
type session struct {
	stand  *stand.Stand
	bench  *testbench.Bench
	stats  *logging.Stats
	logger *slog.Logger
}

// newSession builds the logger and composes the stand. Callers defer
// printStats right away so the summary also covers failed cascades.
func (o *options) newSession(cmd *cobra.Command, extra ...testbench.Option) (*session, error) {
	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	if o.logFormat != logging.FormatText && o.logFormat != logging.FormatJSON {
		return nil, fmt.Errorf("unknown log format %q: must be text or json", o.logFormat)
	}

	stats := logging.NewStats(logging.NewHandler(cmd.ErrOrStderr(), level, o.logFormat))
	logger := slog.New(stats)

	s := stand.New()
	bench := testbench.New(s, append([]testbench.Option{testbench.WithLogger(logger)}, extra...)...)
	return &session{stand: s, bench: bench, stats: stats, logger: logger}, nil
}

// load reads the configuration file and runs the initialize cascade.
func (s *session) load(path string) error {
	if err := s.bench.Load(path); err != nil {
		return fmt.Errorf("initialize failed: %w", err)
	}
	return nil
}

// initialize runs the initialize cascade with an already parsed tree.
func (s *session) initialize(tree ports.ConfigTree) error {
	if err := s.bench.Initialize(tree); err != nil {
		return fmt.Errorf("initialize failed: %w", err)
	}
	return nil
}

// connect runs the connect cascade, undoing partial connections on failure.
func (s *session) connect() error {
	if err := s.bench.Connect(); err != nil {
		if derr := s.bench.Disconnect(); derr != nil {
			s.logger.Error("disconnect after failed connect", "error", derr)
		}
		return fmt.Errorf("connect failed: %w", err)
	}
	return nil
}

// printStats writes the log summary to stderr, next to the logs it counts.
func (s *session) printStats(cmd *cobra.Command) {
	fmt.Fprintf(cmd.ErrOrStderr(), "log: %d fatal, %d error, %d warning\n",
		s.stats.Count(logging.LevelFatal),
		s.stats.Count(slog.LevelError),
		s.stats.Count(slog.LevelWarn),
	)
}
