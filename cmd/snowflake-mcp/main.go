package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/malbeclabs/snowflake-mcp/config"
	"github.com/malbeclabs/snowflake-mcp/internal/metrics"
	"github.com/malbeclabs/snowflake-mcp/internal/server"
	"github.com/malbeclabs/snowflake-mcp/internal/snowflake"
)

var (
	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	applicationName       = "snowflake-mcp"
	defaultListenAddr     = "0.0.0.0:8010"
	defaultShutdownPeriod = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	transportFlag := flag.String("transport", server.TransportStdio, "MCP transport (stdio, http)")
	listenAddrFlag := flag.String("listen-addr", defaultListenAddr, "HTTP server listen address, used with --transport=http")
	metricsAddrFlag := flag.String("metrics-addr", "", "Address to listen on for prometheus metrics (disabled when empty)")
	configFlag := flag.String("config", "", "Path to a YAML file with Snowflake connection options")
	accountFlag := flag.String("account", "", "Snowflake account identifier (overrides "+config.EnvAccount+")")
	userFlag := flag.String("user", "", "Snowflake user (overrides "+config.EnvUser+")")
	allowedTokensFlag := flag.StringSlice("allowed-tokens", nil, "Bearer tokens accepted by the HTTP transport (or "+config.EnvAllowedTokens+" env var)")
	shutdownTimeoutFlag := flag.Duration("shutdown-timeout", defaultShutdownPeriod, "HTTP server graceful shutdown timeout")
	flag.Parse()

	// A missing .env file is not an error.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Stdout carries the stdio transport.
	log := newLogger(*verboseFlag)

	opts, err := config.LoadOptions(*configFlag, config.OSLookup)
	if err != nil {
		return fmt.Errorf("failed to load connection options: %w", err)
	}

	var metricsServerErrCh = make(chan error, 1)
	if *metricsAddrFlag != "" {
		metrics.BuildInfo.WithLabelValues(version, commit, date).Set(1)
		go func() {
			listener, err := net.Listen("tcp", *metricsAddrFlag)
			if err != nil {
				log.Error("failed to start prometheus metrics server listener", "error", err)
				metricsServerErrCh <- err
				return
			}
			log.Info("prometheus metrics server listening", "address", listener.Addr().String())
			http.Handle("/metrics", promhttp.Handler())
			if err := http.Serve(listener, nil); err != nil {
				log.Error("failed to start prometheus metrics server", "error", err)
				metricsServerErrCh <- err
				return
			}
		}()
	}

	clock := clockwork.NewRealClock()
	executor, err := snowflake.NewExecutor(snowflake.ExecutorConfig{
		Logger:    log,
		Connector: snowflake.NewConnector(applicationName),
		Clock:     clock,
		Credentials: config.Credentials{
			Account: *accountFlag,
			User:    *userFlag,
		},
		Options: opts,
		Lookup:  config.OSLookup,
	})
	if err != nil {
		return fmt.Errorf("failed to create executor: %w", err)
	}
	if _, err := executor.Credentials(); err != nil {
		// Tools report the missing credentials on each call.
		log.Warn("snowflake credentials incomplete", "error", err)
	}

	allowedTokens := *allowedTokensFlag
	if len(allowedTokens) == 0 {
		allowedTokens = config.AllowedTokens(config.OSLookup)
	}

	server, err := server.New(server.Config{
		Logger:          log,
		Executor:        executor,
		Clock:           clock,
		Version:         version,
		Transport:       *transportFlag,
		ListenAddr:      *listenAddrFlag,
		ShutdownTimeout: *shutdownTimeoutFlag,
		AllowedTokens:   allowedTokens,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverErrCh:
		return err
	case err := <-metricsServerErrCh:
		return err
	}
}

func newLogger(verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(formatRFC3339Millis(a.Value.Time()))
			}
			if s, ok := a.Value.Any().(string); ok && s == "" {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func formatRFC3339Millis(t time.Time) string {
	t = t.UTC()
	base := t.Format("2006-01-02T15:04:05")
	ms := t.Nanosecond() / 1_000_000
	return fmt.Sprintf("%s.%03dZ", base, ms)
}
