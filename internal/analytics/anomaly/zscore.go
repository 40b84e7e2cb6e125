package anomaly

import (
	"math"

	"github.com/soltixdb/sfb/internal/analytics"
)

// ZScoreDetector detects outliers using the standard score.
// z = (x - mean) / s, where s is the sample (n-1) standard deviation of the whole sample.
type ZScoreDetector struct {
	config DetectorConfig
}

// NewZScoreDetector creates a detector with the given thresholds
func NewZScoreDetector(config DetectorConfig) *ZScoreDetector {
	return &ZScoreDetector{config: config}
}

// Name returns the algorithm name
func (z *ZScoreDetector) Name() string {
	return "zscore"
}

// Detect returns outliers in ascending index order. A sample with zero spread
// has no outliers. The result is never nil.
func (z *ZScoreDetector) Detect(sample analytics.Sample) []Outlier {
	results := make([]Outlier, 0)
	if sample.Len() == 0 {
		return results
	}

	mean, stdDev := CalculateMeanStdDev(sample.Values)
	if stdDev == 0 {
		return results
	}

	for i, v := range sample.Values {
		zScore := CalculateZScore(v, mean, stdDev)
		absZ := math.Abs(zScore)
		if absZ <= z.config.Threshold {
			continue
		}

		results = append(results, Outlier{
			Index:     i,
			Value:     v,
			ZScore:    zScore,
			IsExtreme: absZ > z.config.ExtremeThreshold,
			Timestamp: sample.TimestampAt(i),
		})
	}

	return results
}

// CalculateZScore calculates Z-Score for a single value given mean and stdDev
func CalculateZScore(value, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	return (value - mean) / stdDev
}

// CalculateMeanStdDev returns the mean and sample standard deviation of values
func CalculateMeanStdDev(values []float64) (mean, stdDev float64) {
	return analytics.Mean(values), analytics.SampleStdDev(values)
}
