// Package analytics provides the common sample type, validation and error values
// shared by the statistical packages (descriptive, anomaly, forecast, normality,
// correlation) and the engine that combines them.
package analytics

import (
	"errors"
	"fmt"
	"math"

	"github.com/soltixdb/sfb/internal/utils"
)

// Sentinel errors. Callers match them with errors.Is; the wrapped message carries
// the human-readable reason.
var (
	ErrEmptyData        = errors.New("no valid numeric data")
	ErrInsufficientData = errors.New("insufficient data")
	ErrNonFiniteData    = errors.New("data contains NaN or infinite values")
	ErrComputation      = errors.New("statistical computation failed")
	ErrInvalidDataset   = errors.New("invalid dataset")
)

// Sample is an ordered sequence of values with optional, index-aligned timestamps.
type Sample struct {
	Values     []float64
	Timestamps []*string
}

// NewSample builds a Sample from values with no timestamps.
func NewSample(values []float64) Sample {
	return Sample{
		Values:     values,
		Timestamps: make([]*string, len(values)),
	}
}

// Len returns the number of values
func (s Sample) Len() int {
	return len(s.Values)
}

// TimestampAt returns the timestamp at index i, or nil when absent.
func (s Sample) TimestampAt(i int) *string {
	if i < 0 || i >= len(s.Timestamps) {
		return nil
	}
	return s.Timestamps[i]
}

// Append adds a value and its timestamp, keeping both sequences aligned.
func (s *Sample) Append(value float64, ts *string) {
	s.Values = append(s.Values, value)
	s.Timestamps = append(s.Timestamps, ts)
}

// Validate checks the preconditions every statistic relies on.
func (s Sample) Validate(minSamples int) error {
	if len(s.Values) != len(s.Timestamps) {
		return fmt.Errorf("%w: %d values but %d timestamps", ErrComputation, len(s.Values), len(s.Timestamps))
	}
	if len(s.Values) == 0 {
		return fmt.Errorf("%w: dataset is empty after extraction", ErrEmptyData)
	}
	if len(s.Values) < minSamples {
		return fmt.Errorf("%w: need at least %d data points, got %d", ErrInsufficientData, minSamples, len(s.Values))
	}
	if i, ok := utils.AllFinite(s.Values); !ok {
		return fmt.Errorf("%w: value at index %d is %v", ErrNonFiniteData, i, s.Values[i])
	}
	return nil
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStdDev returns the n-1 standard deviation, 0 when fewer than two values.
func SampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// Finite reports whether every argument is a finite number.
func Finite(values ...float64) bool {
	_, ok := utils.AllFinite(values)
	return ok
}
