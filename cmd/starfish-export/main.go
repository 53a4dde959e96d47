// Command starfish-export runs one unattended export of gradebook data to
// the two Starfish flat files (assessments.txt and scores.txt).
//
// The data source is a snapshot file: a JSON extract of terms, sites,
// enrollments and gradebooks. Scheduling is external; run this from cron or
// the institution's job runner.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/LongsightGroup/sakai-starfish-export/internal/config"
	"github.com/LongsightGroup/sakai-starfish-export/internal/export"
	"github.com/LongsightGroup/sakai-starfish-export/internal/infrastructure"
	"github.com/LongsightGroup/sakai-starfish-export/internal/sakai"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	snapshotPath := flag.String("snapshot", "", "path to the JSON data snapshot (required)")
	outDir := flag.String("out", "", "output directory, overrides config")
	terms := flag.String("terms", "", "comma-separated term codes, overrides config")
	flag.Parse()

	if *snapshotPath == "" {
		slog.Error("missing required -snapshot flag")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.Export.OutputDir = *outDir
	}
	if *terms != "" {
		cfg.Export.Terms = strings.Split(*terms, ",")
	}

	logger, closeLogs, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer closeLogs()

	tracer, shutdownTracing, err := infrastructure.InitializeTracing(cfg.Tracing)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("trace shutdown failed", "error", err)
		}
	}()

	snapshot, err := sakai.LoadSnapshot(*snapshotPath)
	if err != nil {
		logger.Error("failed to load snapshot", "error", err)
		os.Exit(1)
	}

	var limiter *rate.Limiter
	if cfg.Export.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Export.RequestsPerSecond), 1)
	}

	var reports export.ReportWriter
	if cfg.Report.Enabled {
		switch cfg.Report.Format {
		case "xlsx":
			reports = export.NewXLSXReportWriter(filepath.Join(cfg.Report.OutputDir, "site_grades.xlsx"))
		default:
			reports = export.NewCSVReportWriter(cfg.Report.OutputDir)
		}
	}

	runner := export.NewRunner(
		export.NewTermResolver(cfg.Export.Terms, snapshot, logger),
		export.NewSiteSelector(snapshot, logger),
		export.NewAggregator(snapshot, snapshot, export.AggregatorOptions{
			Limiter:      limiter,
			BuildReports: cfg.Report.Enabled,
			Logger:       logger,
		}),
		export.NewSink(cfg.Export.OutputDir, logger),
		export.RunnerOptions{
			Reports:     reports,
			Metrics:     export.NewMetrics(prometheus.DefaultRegisterer),
			Logger:      logger,
			Tracer:      tracer,
			Workers:     cfg.Export.Workers,
			SiteTimeout: cfg.Export.SiteTimeout,
		},
	)

	if err := runner.Run(context.Background()); err != nil {
		logger.Error("export run failed", "error", err)
		os.Exit(1)
	}
}
