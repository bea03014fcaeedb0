package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/pipeline"
	"git.home.luguber.info/inful/sitegen/internal/preview"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"sitegen.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output string `short:"o" help:"Override the live output directory"`
		Dev    bool   `help:"Development mode: build into staging only, never touch the live directory"`
	} `cmd:"" help:"Build and publish the site"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new site project"`

	Preview struct {
		MetricsAddr string `help:"Serve Prometheus metrics on this address (e.g. :9090)"`
	} `cmd:"" help:"Development build with rebuild on source changes"`
}

func main() {
	ctx := kong.Parse(&CLI)

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(CLI.Verbose),
	})))

	switch ctx.Command() {
	case "build":
		if err := runBuild(); err != nil {
			slog.Error("Build failed", logfields.Error(err))
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", logfields.Error(err))
			os.Exit(1)
		}
		fmt.Println("Initialized site project")
	case "preview":
		if err := runPreview(); err != nil {
			slog.Error("Preview failed", logfields.Error(err))
			os.Exit(1)
		}
	}
}

// parseLogLevel resolves the log level from the verbose flag and the
// SITEGEN_LOG_LEVEL environment variable (flag wins).
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(os.Getenv("SITEGEN_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runBuild() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if CLI.Build.Output != "" {
		cfg.Paths.Output = CLI.Build.Output
	}
	if CLI.Build.Dev {
		cfg.Build.Mode = config.ModeDevelopment
	}

	slog.Info("Starting site build",
		logfields.Output(cfg.Paths.Output),
		"mode", cfg.Build.Mode)

	coordinator := pipeline.NewCoordinator(cfg)
	outcome, err := coordinator.Run()
	if err != nil {
		return err
	}

	for _, warning := range outcome.Warnings {
		slog.Warn(warning)
	}
	slog.Info("Build complete",
		logfields.Output(outcome.SitePath),
		"warnings", len(outcome.Warnings))
	fmt.Println("Site built:", outcome.SitePath)
	return nil
}

func runPreview() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Build.Mode = config.ModeDevelopment

	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if CLI.Preview.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(reg))
		srv := &http.Server{Addr: CLI.Preview.MetricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", logfields.Error(err))
			}
		}()
		defer srv.Shutdown(context.Background())
		slog.Info("Serving metrics", "addr", CLI.Preview.MetricsAddr)
	}

	// Each development build leaves its staging tree in place as the
	// preview output; drop the previous one before rebuilding.
	lastStaging := ""
	rebuild := func() error {
		if lastStaging != "" {
			_ = os.RemoveAll(lastStaging)
			lastStaging = ""
		}
		coordinator := pipeline.NewCoordinator(cfg, pipeline.WithRecorder(recorder))
		outcome, err := coordinator.Run()
		if err != nil {
			return err
		}
		lastStaging = outcome.SitePath
		for _, warning := range outcome.Warnings {
			slog.Warn(warning)
		}
		fmt.Println("Preview built:", outcome.SitePath)
		return nil
	}

	watcher := preview.NewWatcher([]string{
		cfg.Paths.Templates,
		cfg.Paths.Pages,
		cfg.Paths.Images,
		cfg.Paths.Styles,
	}, rebuild)

	err = watcher.Run(sigctx)

	if lastStaging != "" {
		_ = os.RemoveAll(lastStaging)
	}
	return err
}
