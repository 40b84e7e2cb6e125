package processing

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/soltixdb/sfb/internal/analytics"
	"github.com/soltixdb/sfb/internal/analytics/correlation"
	"github.com/soltixdb/sfb/internal/analytics/engine"
	"github.com/soltixdb/sfb/internal/logging"
)

// MaxDatasetNameLength bounds dataset names
const MaxDatasetNameLength = 128

// Processor orchestrates masking, extraction, validation and analysis
type Processor struct {
	engine *engine.Engine
	masker *Masker
	logger *logging.Logger
}

// NewProcessor creates a new Processor instance. masker may be nil.
func NewProcessor(eng *engine.Engine, masker *Masker, logger *logging.Logger) *Processor {
	if logger == nil {
		logger = logging.Global()
	}
	return &Processor{
		engine: eng,
		masker: masker,
		logger: logger,
	}
}

// ValidateDatasetName rejects empty, overlong or control-character names
func ValidateDatasetName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: dataset name is empty", analytics.ErrInvalidDataset)
	}
	if len(name) > MaxDatasetNameLength {
		return fmt.Errorf("%w: dataset name exceeds %d characters", analytics.ErrInvalidDataset, MaxDatasetNameLength)
	}
	if strings.ContainsFunc(name, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return fmt.Errorf("%w: dataset name contains control characters", analytics.ErrInvalidDataset)
	}
	return nil
}

// Generate produces the statistical package of a single dataset.
// Its correlations field is always nil.
func (p *Processor) Generate(ctx context.Context, dataset string, records []RawRecord) (*engine.Package, *Report, error) {
	if err := ValidateDatasetName(dataset); err != nil {
		return nil, nil, err
	}
	ctx = logging.WithDataset(ctx, dataset)

	sample, report := p.prepare(ctx, dataset, records)

	pkg, err := p.engine.Analyze(ctx, sample)
	if err != nil {
		return nil, report, err
	}

	logging.FromContext(ctx).WithContext(ctx).Info("Generated statistical package",
		"values", sample.Len(),
		"dropped", report.RecordsDropped,
		"outliers", len(pkg.Outliers),
		"distribution", pkg.DistributionType,
	)

	return pkg, report, nil
}

// GenerateMulti processes datasets in order; the first failing dataset aborts the
// call. Correlations are computed across all validated samples.
func (p *Processor) GenerateMulti(ctx context.Context, datasets []NamedRecords) (*MultiResult, error) {
	seen := make(map[string]struct{}, len(datasets))
	result := &MultiResult{Packages: make([]DatasetPackage, 0, len(datasets))}
	samples := make([]analytics.Sample, 0, len(datasets))

	for _, ds := range datasets {
		if _, dup := seen[ds.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate dataset %q", analytics.ErrInvalidDataset, ds.Name)
		}
		seen[ds.Name] = struct{}{}

		if err := ValidateDatasetName(ds.Name); err != nil {
			return nil, err
		}
		dsCtx := logging.WithDataset(ctx, ds.Name)

		sample, report := p.prepare(dsCtx, ds.Name, ds.Records)
		pkg, err := p.engine.Analyze(dsCtx, sample)
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", ds.Name, err)
		}

		result.Packages = append(result.Packages, DatasetPackage{Name: ds.Name, Package: pkg, Report: report})
		samples = append(samples, sample)
	}

	series := lo.Map(result.Packages, func(dp DatasetPackage, i int) correlation.Series {
		return correlation.Series{Name: dp.Name, Values: samples[i].Values}
	})
	result.CrossCorrelations = p.engine.Correlate(series)

	logging.FromContext(ctx).WithContext(ctx).Info("Generated multi-dataset packages",
		"datasets", len(result.Packages),
		"pairs", result.CrossCorrelations.Len(),
	)

	return result, nil
}

func (p *Processor) prepare(ctx context.Context, dataset string, records []RawRecord) (analytics.Sample, *Report) {
	if p.masker.Enabled() {
		records = p.masker.Apply(records)
	}
	sample, dropped := p.Extract(ctx, dataset, records)
	return sample, &Report{
		Dataset:         dataset,
		RecordsReceived: len(records),
		RecordsDropped:  dropped,
		ValuesAnalyzed:  sample.Len(),
	}
}
