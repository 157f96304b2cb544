package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mark3labs/quizr/internal/bank"
	"github.com/mark3labs/quizr/internal/config"
	"github.com/mark3labs/quizr/internal/logger"
	"github.com/mark3labs/quizr/internal/nats"
	"github.com/mark3labs/quizr/internal/tracing"
)

// app holds the services a command needs: config, logging, tracing and the
// question bank on its embedded NATS server.
type app struct {
	cfg    *config.Config
	bus    *nats.Bus
	store  *bank.Store
	tracer *tracing.Provider
	traces io.Closer
}

// openApp loads the configuration and opens the question bank. Interactive
// commands own the terminal, so their spans go to a file in the data
// directory instead of stderr.
func openApp(ctx context.Context, interactive bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logger: %w", err)
	}

	a := &app{cfg: cfg}

	traceCfg := tracing.Config{Exporter: cfg.TraceExporter, Writer: os.Stderr}
	if interactive && cfg.TraceExporter == tracing.ExporterStdout {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(cfg.DataDir, "traces.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace file: %w", err)
		}
		traceCfg.Writer = f
		a.traces = f
	}
	a.tracer, err = tracing.NewProvider(traceCfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	a.bus, err = nats.Open(ctx, filepath.Join(cfg.DataDir, "nats"))
	if err != nil {
		a.Close()
		return nil, err
	}
	logger.Debug("question bank opened in %s", cfg.DataDir)

	a.store = bank.NewStore(a.bus.JS, a.bus.Stream,
		bank.WithDuplicateThreshold(cfg.DuplicateThreshold),
		bank.WithDuplicateCache(bank.NewDuplicateCache(bank.DefaultCacheTTL)),
	)
	return a, nil
}

// Close flushes spans and stops the embedded server.
func (a *app) Close() {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Warn("tracer shutdown: %v", err)
		}
	}
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			logger.Warn("NATS shutdown: %v", err)
		}
	}
	if a.traces != nil {
		_ = a.traces.Close()
	}
}
