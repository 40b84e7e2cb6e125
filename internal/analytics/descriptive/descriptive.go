// Package descriptive computes summary statistics of a validated sample.
package descriptive

import (
	"fmt"
	"math"
	"slices"

	"github.com/montanaflynn/stats"

	"github.com/soltixdb/sfb/internal/analytics"
)

// Statistics is the descriptive summary of one sample
type Statistics struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	IQR      float64 `json:"iqr"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// Compute returns the descriptive statistics of values.
// Variance and standard deviation use the n-1 denominator; kurtosis is excess kurtosis.
// values must hold at least three finite numbers.
func Compute(values []float64) (*Statistics, error) {
	if len(values) < analyticsMinSamples {
		return nil, fmt.Errorf("%w: need at least %d values, got %d",
			analytics.ErrInsufficientData, analyticsMinSamples, len(values))
	}

	data := stats.Float64Data(values)

	mean, err := stats.Mean(data)
	if err != nil {
		return nil, fmt.Errorf("%w: mean: %v", analytics.ErrComputation, err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, fmt.Errorf("%w: median: %v", analytics.ErrComputation, err)
	}
	minV, err := stats.Min(data)
	if err != nil {
		return nil, fmt.Errorf("%w: min: %v", analytics.ErrComputation, err)
	}
	maxV, err := stats.Max(data)
	if err != nil {
		return nil, fmt.Errorf("%w: max: %v", analytics.ErrComputation, err)
	}
	variance, err := stats.SampleVariance(data)
	if err != nil {
		return nil, fmt.Errorf("%w: variance: %v", analytics.ErrComputation, err)
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	q1 := Percentile(sorted, 0.25)
	q3 := Percentile(sorted, 0.75)

	skew, kurt := Shape(values)

	result := &Statistics{
		Count:    len(values),
		Mean:     mean,
		Median:   median,
		Min:      minV,
		Max:      maxV,
		StdDev:   math.Sqrt(variance),
		Variance: variance,
		Q1:       q1,
		Q3:       q3,
		IQR:      q3 - q1,
		Skewness: skew,
		Kurtosis: kurt,
	}

	if !analytics.Finite(result.Mean, result.Median, result.Min, result.Max, result.StdDev,
		result.Variance, result.Q1, result.Q3, result.IQR, result.Skewness, result.Kurtosis) {
		return nil, fmt.Errorf("%w: non-finite descriptive statistic", analytics.ErrComputation)
	}

	return result, nil
}

const analyticsMinSamples = 3

// Percentile returns the p-th quantile (0..1) of an ascending slice using linear
// interpolation between the order statistics at h = (n-1)p.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Shape returns the bias-adjusted skewness (G1) and excess kurtosis (G2).
// A zero-variance sample has skewness and kurtosis 0. With exactly three values the
// kurtosis adjustment is undefined and the moment estimate m4/m2^2 - 3 is returned.
func Shape(values []float64) (skewness, kurtosis float64) {
	n := float64(len(values))
	if len(values) < 3 {
		return 0, 0
	}

	mean := analytics.Mean(values)
	var m2, m3, m4 float64
	for _, v := range values {
		d := v - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	m2 /= n
	m3 /= n
	m4 /= n

	if m2 == 0 {
		return 0, 0
	}

	g1 := m3 / math.Pow(m2, 1.5)
	g2 := m4/(m2*m2) - 3

	skewness = math.Sqrt(n*(n-1)) / (n - 2) * g1

	if len(values) == 3 {
		return skewness, g2
	}
	kurtosis = (n - 1) / ((n - 2) * (n - 3)) * ((n+1)*g2 + 6)
	return skewness, kurtosis
}
