package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/soltixdb/sfb/internal/analytics/engine"
	"github.com/soltixdb/sfb/internal/events"
	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/observability"
	"github.com/soltixdb/sfb/internal/processing"
	"github.com/soltixdb/sfb/internal/utils"
)

const (
	modeSingle = "single"
	modeMulti  = "multi"
	codeOK     = "OK"
)

// StatisticsService generates statistical packages under a request timeout
type StatisticsService struct {
	logger    *logging.Logger
	processor *processing.Processor
	events    *events.Publisher
	metrics   *observability.Metrics
	timeout   time.Duration
}

// NewStatisticsService creates a new StatisticsService. publisher and metrics may be nil.
func NewStatisticsService(
	logger *logging.Logger,
	processor *processing.Processor,
	publisher *events.Publisher,
	metrics *observability.Metrics,
	timeout time.Duration,
) *StatisticsService {
	if logger == nil {
		logger = logging.Global()
	}
	if timeout <= 0 {
		timeout = utils.DefaultRequestTimeout
	}
	return &StatisticsService{
		logger:    logger,
		processor: processor,
		events:    publisher,
		metrics:   metrics,
		timeout:   timeout,
	}
}

// GenerateRequest is a single-dataset generation request
type GenerateRequest struct {
	Dataset   string
	Period    string
	Records   []processing.RawRecord
	RequestID string
	User      string
}

// GenerateResult is the package of one dataset plus what extraction did
type GenerateResult struct {
	Package     *engine.Package
	Report      *processing.Report
	GeneratedAt time.Time
	Elapsed     time.Duration
}

// MultiGenerateRequest is a multi-dataset generation request
type MultiGenerateRequest struct {
	Period    string
	Datasets  []processing.NamedRecords
	RequestID string
	User      string
}

// MultiGenerateResult holds the packages of every dataset and their correlations
type MultiGenerateResult struct {
	Result      *processing.MultiResult
	GeneratedAt time.Time
	Elapsed     time.Duration
}

// Generate builds the package of one dataset
func (s *StatisticsService) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	ctx, span := observability.Tracer().Start(ctx, "sfb.generate", trace.WithAttributes(
		attribute.String("sfb.dataset", req.Dataset),
		attribute.String("sfb.period", req.Period),
		attribute.Int("sfb.records", len(req.Records)),
	))
	defer span.End()

	type single struct {
		pkg    *engine.Package
		report *processing.Report
	}
	out, err := runWithTimeout(ctx, s.timeout, func(ctx context.Context) (single, error) {
		pkg, report, err := s.processor.Generate(ctx, req.Dataset, req.Records)
		return single{pkg: pkg, report: report}, err
	})
	elapsed := time.Since(start)

	if err != nil {
		se := s.fail(ctx, span, modeSingle, err, elapsed, "dataset", req.Dataset)
		return nil, se
	}

	s.metrics.ObserveGeneration(modeSingle, codeOK, elapsed)
	s.metrics.ObserveDataset(out.report.ValuesAnalyzed, out.report.RecordsDropped, len(out.pkg.Outliers))
	span.SetAttributes(
		attribute.Int("sfb.values", out.report.ValuesAnalyzed),
		attribute.Int("sfb.outliers", len(out.pkg.Outliers)),
		attribute.String("sfb.distribution", string(out.pkg.DistributionType)),
	)

	result := &GenerateResult{
		Package:     out.pkg,
		Report:      out.report,
		GeneratedAt: time.Now().UTC(),
		Elapsed:     elapsed,
	}
	s.publish(ctx, req.RequestID, req.Dataset, req.Period, req.User, out.pkg, result.GeneratedAt)

	return result, nil
}

// GenerateMulti builds packages for several datasets and correlates them
func (s *StatisticsService) GenerateMulti(ctx context.Context, req *MultiGenerateRequest) (*MultiGenerateResult, error) {
	start := time.Now()

	ctx, span := observability.Tracer().Start(ctx, "sfb.generate_multi", trace.WithAttributes(
		attribute.String("sfb.period", req.Period),
		attribute.Int("sfb.datasets", len(req.Datasets)),
	))
	defer span.End()

	result, err := runWithTimeout(ctx, s.timeout, func(ctx context.Context) (*processing.MultiResult, error) {
		return s.processor.GenerateMulti(ctx, req.Datasets)
	})
	elapsed := time.Since(start)

	if err != nil {
		return nil, s.fail(ctx, span, modeMulti, err, elapsed, "datasets", len(req.Datasets))
	}

	s.metrics.ObserveGeneration(modeMulti, codeOK, elapsed)
	for _, dp := range result.Packages {
		s.metrics.ObserveDataset(dp.Report.ValuesAnalyzed, dp.Report.RecordsDropped, len(dp.Package.Outliers))
	}
	span.SetAttributes(attribute.Int("sfb.correlation_pairs", result.CrossCorrelations.Len()))

	generatedAt := time.Now().UTC()
	for _, dp := range result.Packages {
		s.publish(ctx, req.RequestID, dp.Name, req.Period, req.User, dp.Package, generatedAt)
	}

	return &MultiGenerateResult{
		Result:      result,
		GeneratedAt: generatedAt,
		Elapsed:     elapsed,
	}, nil
}

// fail converts err, records it on metrics and span, and logs it at a level
// matching its code
func (s *StatisticsService) fail(ctx context.Context, span trace.Span, mode string, err error, elapsed time.Duration, fields ...interface{}) *ServiceError {
	se := FromError(err)
	s.metrics.ObserveGeneration(mode, se.Code, elapsed)

	span.RecordError(err)
	span.SetStatus(codes.Error, se.Code)

	fields = append(fields, "code", se.Code, "error", err, "elapsed_ms", elapsed.Milliseconds())
	log := s.logger.WithContext(ctx)
	switch se.Code {
	case CodeComputation:
		var pe *panicError
		if errors.As(err, &pe) {
			fields = append(fields, "stack", string(pe.stack))
		}
		log.Error("Statistical package generation failed", fields...)
	case CodeTimeout:
		log.Warn("Statistical package generation timed out", append(fields, "timeout", s.timeout.String())...)
	default:
		log.Info("Statistical package request rejected", fields...)
	}

	return se
}

func (s *StatisticsService) publish(ctx context.Context, requestID, dataset, period, user string, pkg *engine.Package, at time.Time) {
	if !s.events.Enabled() {
		return
	}
	ev := events.NewPackageEvent(requestID, dataset, period, user, pkg, at)
	if err := s.events.Publish(ctx, ev); err != nil {
		s.metrics.IncEvent("error")
		return
	}
	s.metrics.IncEvent("ok")
}
