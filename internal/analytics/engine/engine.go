// Package engine combines the statistical packages into a single analysis of a
// validated sample.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/soltixdb/sfb/internal/analytics"
	"github.com/soltixdb/sfb/internal/analytics/anomaly"
	"github.com/soltixdb/sfb/internal/analytics/correlation"
	"github.com/soltixdb/sfb/internal/analytics/descriptive"
	"github.com/soltixdb/sfb/internal/analytics/forecast"
	"github.com/soltixdb/sfb/internal/analytics/normality"
	"github.com/soltixdb/sfb/internal/config"
	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/utils"
)

// Package is the complete statistical result for one dataset.
// It is built once and not modified after Analyze returns.
type Package struct {
	Statistics           *descriptive.Statistics `json:"statistics"`
	Trends               *forecast.Trend         `json:"trends"`
	Correlations         *correlation.Matrix     `json:"correlations"`
	Outliers             []anomaly.Outlier       `json:"outliers"`
	DistributionType     normality.Label         `json:"distribution_type"`
	NormalityTestPValue  float64                 `json:"normality_test_p_value"`
	IsNormalDistribution bool                    `json:"is_normal_distribution"`
}

// Engine is stateless apart from its thresholds; one value can be shared
// by concurrent callers.
type Engine struct {
	OutlierThreshold float64
	ExtremeThreshold float64
	NormalityAlpha   float64
	MinSamples       int

	logger *logging.Logger
}

// New creates an engine with default thresholds
func New(logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Global()
	}
	return &Engine{
		OutlierThreshold: utils.DefaultOutlierThreshold,
		ExtremeThreshold: utils.DefaultExtremeThreshold,
		NormalityAlpha:   utils.NormalityAlpha,
		MinSamples:       utils.MinSamples,
		logger:           logger,
	}
}

// NewFromConfig creates an engine with configured thresholds
func NewFromConfig(cfg config.AnalyticsConfig, logger *logging.Logger) *Engine {
	e := New(logger)
	e.OutlierThreshold = cfg.OutlierThreshold
	e.ExtremeThreshold = cfg.ExtremeThreshold
	e.NormalityAlpha = cfg.NormalityAlpha
	e.MinSamples = cfg.MinSamples
	return e
}

// Analyze validates the sample and computes its statistical package.
// Correlations are left nil; they only exist across datasets.
func (e *Engine) Analyze(ctx context.Context, sample analytics.Sample) (*Package, error) {
	if err := sample.Validate(e.MinSamples); err != nil {
		return nil, err
	}

	stats, err := descriptive.Compute(sample.Values)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trend, err := forecast.Analyze(sample.Values)
	if err != nil {
		return nil, err
	}

	outliers := anomaly.NewZScoreDetector(anomaly.DetectorConfig{
		Threshold:        e.OutlierThreshold,
		ExtremeThreshold: e.ExtremeThreshold,
	}).Detect(sample)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	norm, err := normality.ShapiroWilk(sample.Values, e.NormalityAlpha)
	if err != nil {
		if errors.Is(err, analytics.ErrComputation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: normality test: %v", analytics.ErrComputation, err)
	}

	label, err := normality.Classify(sample.Values, norm.PValue, e.NormalityAlpha)
	if err != nil {
		logging.FromContext(ctx).WithContext(ctx).Warn("Distribution classification failed",
			"error", err,
			"count", sample.Len(),
		)
		label = normality.LabelUnknown
	}

	return &Package{
		Statistics:           stats,
		Trends:               trend,
		Correlations:         nil,
		Outliers:             outliers,
		DistributionType:     label,
		NormalityTestPValue:  norm.PValue,
		IsNormalDistribution: norm.IsNormal,
	}, nil
}

// Correlate computes pairwise correlations across validated samples in order.
func (e *Engine) Correlate(series []correlation.Series) *correlation.Matrix {
	return correlation.Compute(series)
}
