package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_ArithmeticSeries(t *testing.T) {
	data := generateLinearData(10, 1, 1) // 1..10

	trend, err := Analyze(data)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, trend.RegressionSlope, 1e-9)
	assert.InDelta(t, 1.0, trend.RegressionIntercept, 1e-9)
	assert.InDelta(t, 1.0, trend.RSquared, 1e-12)
	assert.InDelta(t, 11.0, trend.ForecastNextPeriod, 1e-9)
	assert.Equal(t, DirectionUpward, trend.TrendDirection)

	require.NotNil(t, trend.DayOverDayPct)
	assert.InDelta(t, 100.0/9.0, *trend.DayOverDayPct, 1e-9)
	assert.Nil(t, trend.MonthOverMonthPct)
}

func TestAnalyze_Downward(t *testing.T) {
	trend, err := Analyze(generateLinearData(20, -3, 100))
	require.NoError(t, err)
	assert.Equal(t, DirectionDownward, trend.TrendDirection)
}

func TestAnalyze_Stable(t *testing.T) {
	trend, err := Analyze([]float64{100, 100.1, 99.9, 100, 100.05, 99.95})
	require.NoError(t, err)
	assert.Equal(t, DirectionStable, trend.TrendDirection)
}

func TestClassifyDirection_NonPositiveMean(t *testing.T) {
	// Threshold 0.01*mean is negative, so no slope is ever stable.
	assert.Equal(t, DirectionUpward, ClassifyDirection(0.0001, -50))
	assert.Equal(t, DirectionDownward, ClassifyDirection(0, 0))
	assert.Equal(t, DirectionStable, ClassifyDirection(0.5, 100))
}

func TestDayOverDay(t *testing.T) {
	assert.Nil(t, DayOverDay([]float64{5}))
	assert.Nil(t, DayOverDay([]float64{1, 0, 5}))

	pct := DayOverDay([]float64{1, 4, 5})
	require.NotNil(t, pct)
	assert.InDelta(t, 25.0, *pct, 1e-12)
}

func TestMonthOverMonth(t *testing.T) {
	assert.Nil(t, MonthOverMonth(constantData(59, 1), 30))

	data := append(constantData(30, 10), constantData(30, 15)...)
	pct := MonthOverMonth(data, 30)
	require.NotNil(t, pct)
	assert.InDelta(t, 50.0, *pct, 1e-12)

	zeroPrev := append(constantData(30, 0), constantData(30, 15)...)
	assert.Nil(t, MonthOverMonth(zeroPrev, 30))
}

func TestMonthOverMonth_UsesTrailingWindows(t *testing.T) {
	data := append(constantData(10, 1000), generateLinearData(60, 0, 20)...)
	data = append(data[:40], constantData(30, 30)...)

	pct := MonthOverMonth(data, 30)
	require.NotNil(t, pct)
	assert.InDelta(t, 50.0, *pct, 1e-12)
}
