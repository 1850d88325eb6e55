// Package main provides the cybersaga binary entry point.
// CyberSaga is an interactive cybersecurity training program that generates
// personalized scenarios, decision points, and knowledge assessments.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	// Register LLM providers via init()
	_ "github.com/aabdullah27/cybersaga/llm/providers"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aabdullah27/cybersaga/agent"
	"github.com/aabdullah27/cybersaga/certificate"
	"github.com/aabdullah27/cybersaga/config"
	"github.com/aabdullah27/cybersaga/llm"
	"github.com/aabdullah27/cybersaga/model"
	"github.com/aabdullah27/cybersaga/profile"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "cybersaga"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath  string
		userID      string
		logLevel    string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "cybersaga",
		Short: "Interactive cybersecurity training",
		Long: `CyberSaga is an interactive cybersecurity training program.

It generates personalized security scenarios with in-narrative decision
points, surfaces learning moments as you play, closes each scenario with a
knowledge assessment, and tracks your skill growth per security domain.

Content generation degrades gracefully: when no model endpoint is
reachable, built-in scenarios keep the session going.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, userID, logLevel, metricsAddr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVarP(&userID, "user", "u", "", "User id for profile tracking (default: $USER)")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090; disabled when empty)")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func run(configPath, userID, logLevel, metricsAddr string) error {
	// Configure logging. Session text goes to stdout, logs stay on stderr.
	level := slog.LevelWarn
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if userID == "" {
		userID = os.Getenv("USER")
	}
	if userID == "" {
		userID = "learner"
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, cleanup, err := buildProfileStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	registry := buildRegistry(cfg)
	metrics := llm.NewMetrics(prometheus.DefaultRegisterer)
	if metricsAddr != "" {
		_, stopMetrics, err := serveMetrics(metricsAddr, prometheus.DefaultGatherer, logger)
		if err != nil {
			return err
		}
		defer stopMetrics()
	}
	client := llm.NewClient(registry,
		llm.WithLogger(logger),
		llm.WithMetrics(metrics),
		llm.WithHTTPClient(httpClientFor(cfg)),
	)

	ag := agent.New(agent.NewLLMBackend(client, agent.WithBackendLogger(logger)),
		agent.WithLogger(logger))

	session := NewSession(ag, store, certificate.NewRenderer(cfg.Certificate.FontPath), cfg,
		os.Stdin, os.Stdout, logger)

	printBanner()
	return session.Run(ctx, userID)
}

func printBanner() {
	fmt.Println("╔═══════════════════════════════════════════════╗")
	fmt.Println("║             CyberSaga v" + Version + "                  ║")
	fmt.Println("║      Interactive Security Training            ║")
	fmt.Println("╚═══════════════════════════════════════════════╝")
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		// Layered defaults: user config, then project config. First launch
		// materializes a default user config file so there is something to
		// edit; failure to write it is not fatal.
		loader := config.NewLoader(slog.Default())
		if err := loader.EnsureUserConfig(); err != nil {
			slog.Warn("Failed to create default user config", "error", err)
		}
		return loader.Load()
	}
	return config.LoadFromFile(configPath)
}

func buildRegistry(cfg *config.Config) *model.Registry {
	registry := model.NewDefaultRegistry()
	if cfg.Model.Default != "" {
		registry.SetDefault(cfg.Model.Default)
	}
	if cfg.Model.Endpoint != "" {
		if ep := registry.GetEndpoint(cfg.Model.Default); ep != nil {
			ep.URL = cfg.Model.Endpoint
			registry.SetEndpoint(cfg.Model.Default, ep)
		}
	}
	return registry
}

// metricsHandler mounts the Prometheus scrape endpoint at /metrics.
func metricsHandler(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return mux
}

// serveMetrics exposes the gatherer over HTTP for the lifetime of the
// session. It returns the bound address and a stop function that shuts the
// listener down.
func serveMetrics(addr string, g prometheus.Gatherer, logger *slog.Logger) (string, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("metrics listener on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: metricsHandler(g)}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server stopped", "error", err)
		}
	}()
	logger.Info("Serving Prometheus metrics", "addr", ln.Addr().String())

	return ln.Addr().String(), func() { _ = srv.Close() }, nil
}

func httpClientFor(cfg *config.Config) *http.Client {
	timeout := cfg.Model.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	return &http.Client{Timeout: timeout}
}

// buildProfileStore constructs the configured profile backend. The returned
// cleanup closes the NATS connection for the nats backend and is a no-op
// otherwise.
func buildProfileStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (profile.Store, func(), error) {
	switch cfg.Profiles.Backend {
	case "nats":
		logger.Info("Connecting to NATS", "url", cfg.NATS.URL)
		nc, err := nats.Connect(cfg.NATS.URL,
			nats.Name(appName),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
		)
		if err != nil {
			return nil, nil, wrapNATSError(err, cfg.NATS.URL)
		}
		js, err := jetstream.New(nc)
		if err != nil {
			nc.Close()
			return nil, nil, fmt.Errorf("create JetStream context: %w", err)
		}
		store, err := profile.NewNATSStore(ctx, js)
		if err != nil {
			nc.Close()
			return nil, nil, err
		}
		return store, nc.Close, nil
	default:
		store, err := profile.NewFileStore(cfg.Profiles.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("create profile store: %w", err)
		}
		return store, func() {}, nil
	}
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

To start NATS:
  docker compose up -d nats

Or switch profiles.backend to "file" in your config.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}
