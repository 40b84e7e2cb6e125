package forecast

import (
	"fmt"

	"github.com/soltixdb/sfb/internal/analytics"
	"github.com/soltixdb/sfb/internal/utils"
)

// Analyze computes the trend of a validated sample
func Analyze(values []float64) (*Trend, error) {
	fit, err := FitLinear(values)
	if err != nil {
		return nil, err
	}

	forecastNext := fit.Predict(float64(len(values)))
	if !analytics.Finite(forecastNext) {
		return nil, fmt.Errorf("%w: non-finite forecast", analytics.ErrComputation)
	}

	return &Trend{
		DayOverDayPct:       DayOverDay(values),
		MonthOverMonthPct:   MonthOverMonth(values, utils.MonthWindow),
		RegressionSlope:     fit.Slope,
		RegressionIntercept: fit.Intercept,
		RSquared:            fit.RSquared,
		ForecastNextPeriod:  forecastNext,
		TrendDirection:      ClassifyDirection(fit.Slope, analytics.Mean(values)),
	}, nil
}

// DayOverDay returns the percent change from the second-to-last to the last value,
// or nil when there are fewer than two values or the previous value is zero.
func DayOverDay(values []float64) *float64 {
	n := len(values)
	if n < 2 {
		return nil
	}
	return percentChange(values[n-2], values[n-1])
}

// MonthOverMonth compares the mean of the last window values with the mean of the
// window before it. It returns nil unless there are at least two full windows and the
// earlier mean is nonzero.
func MonthOverMonth(values []float64, window int) *float64 {
	n := len(values)
	if window <= 0 || n < 2*window {
		return nil
	}
	recent := analytics.Mean(values[n-window:])
	previous := analytics.Mean(values[n-2*window : n-window])
	return percentChange(previous, recent)
}

func percentChange(previous, current float64) *float64 {
	if previous == 0 {
		return nil
	}
	pct := (current - previous) / previous * 100
	if !analytics.Finite(pct) {
		return nil
	}
	return &pct
}
