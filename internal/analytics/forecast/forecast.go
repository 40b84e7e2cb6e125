// Package forecast fits a linear trend over the sample index and derives
// period-over-period changes, a one-step forecast and a trend direction.
package forecast

import (
	"math"

	"github.com/soltixdb/sfb/internal/utils"
)

// Direction is the qualitative trend label
type Direction string

const (
	DirectionUpward   Direction = "upward"
	DirectionDownward Direction = "downward"
	DirectionStable   Direction = "stable"
)

// Trend is the trend analysis of one sample
type Trend struct {
	DayOverDayPct       *float64  `json:"day_over_day_pct"`
	MonthOverMonthPct   *float64  `json:"month_over_month_pct"`
	RegressionSlope     float64   `json:"regression_slope"`
	RegressionIntercept float64   `json:"regression_intercept"`
	RSquared            float64   `json:"r_squared"`
	ForecastNextPeriod  float64   `json:"forecast_next_period"`
	TrendDirection      Direction `json:"trend_direction"`
}

// ClassifyDirection labels a slope relative to the sample mean.
// The comparison is |slope| < ratio*mean with no special case for mean <= 0,
// so a series with a non-positive mean is never stable unless the slope is below it.
func ClassifyDirection(slope, mean float64) Direction {
	if math.Abs(slope) < utils.StableSlopeRatio*mean {
		return DirectionStable
	}
	if slope > 0 {
		return DirectionUpward
	}
	return DirectionDownward
}
