// Package main is the entry point for the enginemon condition-monitoring
// agent. It loads configuration, wires the fault predictor and metrics,
// and runs the monitoring engine until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ysmai/enginemon/internal/config"
	"github.com/ysmai/enginemon/internal/engine"
	"github.com/ysmai/enginemon/internal/hostinfo"
	"github.com/ysmai/enginemon/internal/metrics"
)

var (
	// version is set at build time via -ldflags.
	version = "dev"

	configPath   = flag.String("config", "", "Path to configuration file (default: auto-discover)")
	tickInterval = flag.Duration("interval", 0, "Override tick interval (e.g. 1500ms)")
	initialTemp  = flag.Float64("initial-temp", 0, "Override initial temperature (°F)")
	driftRate    = flag.Float64("drift-rate", 0, "Override degradation drift rate (°F/s)")
	logLevel     = flag.String("log-level", "", "Override log level (debug, info, warn, error)")
	showVersion  = flag.Bool("version", false, "Show version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("enginemon %s\n", version)
		os.Exit(0)
	}

	cli := config.CLIOverrides{
		TickInterval: *tickInterval,
		InitialTemp:  *initialTemp,
		DriftRate:    *driftRate,
		LogLevel:     *logLevel,
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadLayered(cli, embeddedConfig, *configPath)
	} else {
		cfg, err = config.LoadLayered(cli, embeddedConfig)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	logger.Info("Starting enginemon", zap.String("version", version))

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle OS signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))
		cancel()
	}()

	runMonitor(ctx, cfg, logger)
	logger.Info("Monitor stopped")
}

// runMonitor wires the engine and its collaborators and blocks until the
// context is cancelled.
func runMonitor(ctx context.Context, cfg *config.Config, logger *zap.Logger) {
	logHostInfo(ctx, logger)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
		go serveMetrics(cfg.Metrics.Listen, logger)
	}

	eng, err := engine.New(cfg, nil, m, logger)
	if err != nil {
		logger.Fatal("Failed to initialize engine", zap.Error(err))
	}

	logger.Info("Monitor running",
		zap.Duration("tick_interval", cfg.Simulation.TickInterval.Duration),
		zap.Float64("initial_temp", cfg.Simulation.InitialTemp),
		zap.Float64("drift_rate", cfg.Simulation.DriftRate),
		zap.Bool("ml_enabled", cfg.ML.Enabled))

	eng.Run(ctx)
}

// logHostInfo identifies the host once at startup. Best-effort.
func logHostInfo(ctx context.Context, logger *zap.Logger) {
	infoCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	info, err := hostinfo.Collect(infoCtx)
	if err != nil {
		logger.Debug("Host info not available", zap.Error(err))
		return
	}
	logger.Info("Host identified",
		zap.String("hostname", info.Hostname),
		zap.String("platform", info.Platform),
		zap.String("platform_version", info.PlatformVersion),
		zap.Uint64("uptime_seconds", info.UptimeSeconds))
}

// serveMetrics exposes the Prometheus endpoint.
func serveMetrics(listen string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("Metrics endpoint listening", zap.String("addr", listen))
	if err := http.ListenAndServe(listen, mux); err != nil {
		logger.Error("Metrics endpoint failed", zap.Error(err))
	}
}

// initLogger creates a zap logger based on the configuration.
// It outputs to both console (human-readable) and optionally a JSON log file.
func initLogger(cfg *config.Config) *zap.Logger {
	var level zapcore.Level
	switch cfg.Logging.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Console output (human-readable)
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	cores := []zapcore.Core{consoleCore}

	// File output (structured JSON, if configured)
	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if err == nil {
			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(file),
				level,
			)
			cores = append(cores, fileCore)
		}
	}

	return zap.New(zapcore.NewTee(cores...))
}
