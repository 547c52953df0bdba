package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/testbench"
	httpAdapter "github.com/aretw0/testbench/pkg/adapters/http"
	"github.com/aretw0/testbench/pkg/adapters/redis"
	"github.com/aretw0/testbench/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	port        string
	interval    time.Duration
	redisAddr   string
	redisPrefix string
}

func newServeCmd(opts *options) *cobra.Command {
	so := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Measure continuously and serve the readings over HTTP",
		Long: `Initializes and connects the bench, then takes a measurement round every
interval. Readings are served as JSON (/nodes, /parameters) and Prometheus
metrics (/metrics), and optionally published to Redis. SIGINT or SIGTERM
stops the server and disconnects the bench.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, so)
		},
	}
	cmd.Flags().StringVarP(&so.port, "port", "p", "8080", "Port to listen on")
	cmd.Flags().DurationVar(&so.interval, "interval", time.Second, "Time between measurement rounds")
	cmd.Flags().StringVar(&so.redisAddr, "redis-addr", "", "Redis address for parameter events (disabled when empty)")
	cmd.Flags().StringVar(&so.redisPrefix, "redis-prefix", "testbench:", "Redis channel and key prefix")
	return cmd
}

func runServe(cmd *cobra.Command, opts *options, so *serveOptions) error {
	if so.interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", so.interval)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	exp, err := observability.NewExporter(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	s, err := opts.newSession(cmd, testbench.WithHooks(exp.Hooks()))
	if err != nil {
		return err
	}
	defer s.printStats(cmd)
	st := s.stand

	snap := httpAdapter.NewSnapshot()
	observability.WatchBounded(exp, st.Voltage)
	observability.WatchBounded(exp, st.Current)
	exp.WatchCounter(st.Errors)
	httpAdapter.WatchBounded(snap, st.Voltage)
	httpAdapter.WatchBounded(snap, st.Current)
	snap.WatchCounter(st.Errors)

	if so.redisAddr != "" {
		pub := redis.New(so.redisAddr, "", 0, redis.WithPrefix(so.redisPrefix), redis.WithLogger(s.logger))
		defer pub.Close()
		redis.WatchBounded(pub, st.Voltage)
		redis.WatchBounded(pub, st.Current)
		pub.WatchCounter(st.Errors)
	}

	if err := s.load(opts.configPath); err != nil {
		return err
	}
	exp.RecordNodes(st)
	snap.RecordNodes(st)

	if err := s.connect(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    ":" + so.port,
		Handler: httpAdapter.NewHandler(snap, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", srv.Addr, "config", opts.configPath)
		serverErrors <- srv.ListenAndServe()
	}()

	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		poll(ctx, s, so.interval)
	}()

	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server error: %w", err)
		}
		stop()
	case <-ctx.Done():
		s.logger.Info("shutdown requested")
	}
	<-pollDone

	// Give outstanding requests a deadline for completion.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("graceful shutdown did not complete", "error", err)
		_ = srv.Close()
	}

	if err := s.bench.Disconnect(); err != nil {
		return errors.Join(runErr, fmt.Errorf("disconnect failed: %w", err))
	}
	return runErr
}

// poll takes a measurement round immediately and then every interval until
// ctx is done. It is the only goroutine touching the bench while serving.
func poll(ctx context.Context, s *session, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := s.stand.Measure(); err != nil {
			s.logger.Warn("measurement round failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
