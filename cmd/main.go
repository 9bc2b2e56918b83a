package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gridironlab/leaguemetrics/internal/adapters/conductfeed"
	"github.com/gridironlab/leaguemetrics/internal/adapters/league"
	"github.com/gridironlab/leaguemetrics/internal/adapters/render"
	"github.com/gridironlab/leaguemetrics/internal/app"
	"github.com/gridironlab/leaguemetrics/internal/config"
	"github.com/gridironlab/leaguemetrics/internal/domain/conduct"
	"github.com/gridironlab/leaguemetrics/pkg/logger"
	"github.com/gridironlab/leaguemetrics/pkg/metrics"
)

// Metrics endpoint server timeouts.
const (
	metricsReadTimeout       = 5 * time.Second
	metricsReadHeaderTimeout = 2 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Optionally expose run metrics while the report generates.
	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, log)
	}

	severity, err := conductfeed.LoadSeverityTable(cfg.SeverityPath)
	if err != nil {
		log.Error(ctx, "conduct severity table unavailable", logger.Error(err))
		os.Exit(1)
	}
	incidents, err := conductfeed.LoadIncidents(cfg.IncidentsPath)
	if err != nil {
		log.Error(ctx, "conduct incident list unavailable", logger.Error(err))
		os.Exit(1)
	}
	index := conduct.NewIndex(ctx, severity, incidents, conduct.WithLogger(log.Named("conduct")))
	metrics.UpdateConductRecords(index.Len())
	log.Info(ctx, "conduct records loaded", logger.Int("records", index.Len()))

	source, err := league.NewFileSource(ctx, cfg.FixturePath)
	if err != nil {
		log.Error(ctx, "league data unavailable", logger.Error(err))
		os.Exit(1)
	}

	svc := app.New(source,
		app.WithConductIndex(index),
		app.WithEvalWorkers(cfg.EvalWorkers),
		app.WithBenchTolerance(cfg.BenchTolerance),
		app.WithAllowIncomplete(cfg.AllowIncomplete),
		app.WithLogger(log),
	)

	report, err := svc.Run(ctx, cfg.ChosenWeek)
	if err != nil {
		log.Error(ctx, "report run failed", logger.Error(err))
		os.Exit(1)
	}

	renderer := render.NewXLSX(cfg.OutputDir)
	path, err := renderer.Render(ctx, report)
	if err != nil {
		log.Error(ctx, "report rendering failed", logger.Error(err))
		os.Exit(1)
	}

	log.Info(ctx, "report generated",
		logger.String("league", report.LeagueName),
		logger.Int("week", report.Week),
		logger.String("path", path),
	)
}

// serveMetrics exposes the Prometheus registry for the duration of the run.
func serveMetrics(ctx context.Context, addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       metricsReadTimeout,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	log.Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Warn(ctx, "metrics server stopped", logger.Error(err))
	}
}
