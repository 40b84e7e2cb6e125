package forecast

import (
	"fmt"

	"github.com/soltixdb/sfb/internal/analytics"
)

// LinearFit is an ordinary least squares fit of value on index 0..n-1
type LinearFit struct {
	Slope     float64
	Intercept float64
	RSquared  float64
	Fitted    []float64
	N         int
}

// Predict evaluates the fitted line at index x
func (f *LinearFit) Predict(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// FitLinear fits y = intercept + slope*x over x = 0..n-1 using the closed-form sums.
// R² is 1 - SSres/SStot; a constant series that the line reproduces exactly has R² = 1.
func FitLinear(values []float64) (*LinearFit, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("%w: linear regression needs at least 2 points, have %d",
			analytics.ErrInsufficientData, len(values))
	}

	n := float64(len(values))

	// Calculate sums for linear regression
	sumX := 0.0
	sumY := 0.0
	sumXY := 0.0
	sumX2 := 0.0

	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return nil, fmt.Errorf("%w: cannot calculate regression: all x values are the same", analytics.ErrComputation)
	}

	slope := (n*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	fitted := make([]float64, len(values))
	ssRes := 0.0
	ssTot := 0.0
	for i, y := range values {
		fitted[i] = intercept + slope*float64(i)
		res := y - fitted[i]
		ssRes += res * res
		dev := y - meanY
		ssTot += dev * dev
	}

	rSquared := 1.0
	if ssTot != 0 {
		rSquared = 1 - ssRes/ssTot
	} else if ssRes != 0 {
		rSquared = 0
	}

	if !analytics.Finite(slope, intercept, rSquared) {
		return nil, fmt.Errorf("%w: non-finite regression coefficients", analytics.ErrComputation)
	}

	return &LinearFit{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  rSquared,
		Fitted:    fitted,
		N:         len(values),
	}, nil
}
