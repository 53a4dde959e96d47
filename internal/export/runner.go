package export

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/LongsightGroup/sakai-starfish-export/internal/sakai"
)

// Runner orchestrates one export run: resolve terms, select sites, aggregate
// each site, accumulate records in the sink, and flush the two artifacts.
//
// A failed site does not fail the run; the records it emitted before failing
// are committed anyway, matching the long-standing behavior of this export.
// Only sink I/O and serialization errors (and term resolution, without which
// there is nothing to export) end the run in a failed state.
type Runner struct {
	resolver    *TermResolver
	selector    *SiteSelector
	aggregator  *Aggregator
	sink        *Sink
	reports     ReportWriter
	metrics     *Metrics
	logger      *slog.Logger
	tracer      trace.Tracer
	workers     int
	siteTimeout time.Duration
}

// RunnerOptions are the optional orchestrator collaborators.
type RunnerOptions struct {
	// Reports persists the wide per-site reports. Nil leaves them
	// unwritten even when the aggregator computes them.
	Reports ReportWriter

	Metrics *Metrics
	Logger  *slog.Logger
	Tracer  trace.Tracer

	// Workers bounds concurrent site aggregation. Values below 2 keep the
	// run strictly sequential. Results always merge back in site order.
	Workers int

	// SiteTimeout caps one site's aggregation. Zero means no cap.
	SiteTimeout time.Duration
}

// NewRunner wires an orchestrator from its collaborators.
func NewRunner(resolver *TermResolver, selector *SiteSelector, aggregator *Aggregator, sink *Sink, opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("starfish-export")
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		resolver:    resolver,
		selector:    selector,
		aggregator:  aggregator,
		sink:        sink,
		reports:     opts.Reports,
		metrics:     opts.Metrics,
		logger:      logger,
		tracer:      tracer,
		workers:     workers,
		siteTimeout: opts.SiteTimeout,
	}
}

// Run executes one full export. The returned error, if any, is fatal; the
// scheduler owns any retry.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := r.logger.With(slog.String("run_id", runID))

	ctx, span := r.tracer.Start(ctx, "export.run", trace.WithAttributes(attribute.String("run_id", runID)))
	defer span.End()

	logger.Info("starfish export started")
	started := time.Now()

	// Stale artifacts go first so a failed run is detectable by absence.
	if err := r.sink.RemoveStale(); err != nil {
		logger.Error("failed to remove stale output", slog.String("error", err.Error()))
		return err
	}

	terms, err := r.resolver.Resolve(ctx)
	if err != nil {
		logger.Error("term resolution failed", slog.String("error", err.Error()))
		return err
	}

	for _, term := range terms {
		r.runTerm(ctx, term, logger)
	}

	if r.reports != nil {
		if err := r.reports.Flush(); err != nil {
			logger.Error("failed to flush site reports", slog.String("error", err.Error()))
		}
	}

	if err := r.sink.Flush(); err != nil {
		logger.Error("output flush failed", slog.String("error", err.Error()))
		return err
	}

	logger.Info("starfish export ended",
		slog.Int("terms", len(terms)),
		slog.Duration("elapsed", time.Since(started)))
	return nil
}

func (r *Runner) runTerm(ctx context.Context, term string, logger *slog.Logger) {
	ctx, span := r.tracer.Start(ctx, "export.term", trace.WithAttributes(attribute.String("term", term)))
	defer span.End()

	sites, err := r.selector.Select(ctx, term)
	if err != nil {
		// A term whose directory lookup fails contributes nothing; the
		// run carries on with the remaining terms.
		logger.Error("site selection failed",
			slog.String("term", term),
			slog.String("error", err.Error()))
		return
	}

	for _, result := range r.processSites(ctx, sites) {
		r.commit(result, logger)
	}
}

// processSites aggregates the term's sites, sequentially or on a bounded
// worker pool. Either way the returned results are in site order, so the
// accumulated sequences are identical to a sequential run.
func (r *Runner) processSites(ctx context.Context, sites []sakai.CourseSite) []SiteResult {
	results := make([]SiteResult, len(sites))

	if r.workers < 2 {
		for i, site := range sites {
			results[i] = r.processSite(ctx, site)
		}
		return results
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, site := range sites {
		g.Go(func() error {
			results[i] = r.processSite(ctx, site)
			return nil
		})
	}
	// Workers never return errors; per-site failures live in the results.
	_ = g.Wait()
	return results
}

func (r *Runner) processSite(ctx context.Context, site sakai.CourseSite) SiteResult {
	ctx, span := r.tracer.Start(ctx, "export.site", trace.WithAttributes(attribute.String("site_id", site.ID)))
	defer span.End()

	if r.siteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.siteTimeout)
		defer cancel()
	}
	return r.aggregator.ProcessSite(ctx, site)
}

// commit folds one site result into the run state.
func (r *Runner) commit(result SiteResult, logger *slog.Logger) {
	r.metrics.observe(result)

	switch result.Outcome {
	case OutcomeProcessed:
		r.sink.Append(result.Export)
		logger.Info("site processed",
			slog.String("site_id", result.Site.ID),
			slog.Int("assessments", len(result.Export.Assessments)),
			slog.Int("scores", len(result.Export.Scores)))
		if r.reports != nil && result.Export.Report != nil {
			if err := r.reports.WriteSite(result.Export.Report); err != nil {
				logger.Error("failed to write site report",
					slog.String("site_id", result.Site.ID),
					slog.String("error", err.Error()))
			}
		}
	case OutcomeSkipped:
		logger.Info("site skipped",
			slog.String("site_id", result.Site.ID),
			slog.String("reason", string(result.Reason)))
	case OutcomeFailed:
		// Partial records stay committed. Historical behavior: a site
		// failing mid-aggregation leaves its earlier rows in the output.
		r.sink.Append(result.Export)
		logger.Error("site processing failed",
			slog.String("site_id", result.Site.ID),
			slog.Int("partial_assessments", len(result.Export.Assessments)),
			slog.Int("partial_scores", len(result.Export.Scores)),
			slog.String("error", result.Err.Error()))
	}
}
