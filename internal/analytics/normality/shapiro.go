// Package normality tests a sample for normality and labels its distribution shape.
package normality

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/soltixdb/sfb/internal/analytics"
)

// Result is the outcome of a normality test
type Result struct {
	W        float64
	PValue   float64
	IsNormal bool
}

// Royston's polynomial approximations (Applied Statistics algorithm R94).
var (
	swC1    = []float64{0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2    = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3    = []float64{0.5440, -0.39978, 0.025054, -6.714e-4}
	swC4    = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5    = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6    = []float64{-0.4803, -0.082676, 0.0030302}
	swGamma = []float64{-2.273, 0.459}
)

const (
	swPi6  = 1.909859 // 6/pi
	swStqr = 1.047198 // pi/3
)

// ShapiroWilk runs the Shapiro-Wilk test at significance level alpha.
// Fewer than three values yield p = 1 and IsNormal = false. A sample with zero
// range yields W = 1 and p = 1.
func ShapiroWilk(values []float64, alpha float64) (Result, error) {
	n := len(values)
	if n < 3 {
		return Result{W: 1, PValue: 1, IsNormal: false}, nil
	}

	x := slices.Clone(values)
	slices.Sort(x)

	if x[n-1]-x[0] == 0 {
		return Result{W: 1, PValue: 1, IsNormal: 1 > alpha}, nil
	}

	a, err := swCoefficients(n)
	if err != nil {
		return Result{}, err
	}

	mean := analytics.Mean(x)
	ss := 0.0
	for _, v := range x {
		d := v - mean
		ss += d * d
	}

	num := 0.0
	sumA2 := 0.0
	for i, ai := range a {
		num += ai * (x[n-1-i] - x[i])
		sumA2 += ai * ai
	}
	w := num * num / (2 * sumA2 * ss)
	if w > 1 {
		w = 1
	}

	p := swPValue(w, n)
	if !analytics.Finite(w, p) {
		return Result{}, fmt.Errorf("%w: shapiro-wilk produced W=%v p=%v", analytics.ErrComputation, w, p)
	}

	return Result{W: w, PValue: p, IsNormal: p > alpha}, nil
}

// swCoefficients returns the first n/2 antisymmetric weights.
func swCoefficients(n int) ([]float64, error) {
	half := n / 2
	a := make([]float64, half)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a, nil
	}

	an25 := float64(n) + 0.25
	m := make([]float64, half)
	summ2 := 0.0
	for i := range m {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / an25)
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(float64(n))

	a1 := poly(swC1, rsn) - m[0]/ssumm2
	start := 1
	var fac float64
	if n > 5 {
		start = 2
		a2 := -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
	} else {
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	if fac == 0 || math.IsNaN(fac) {
		return nil, fmt.Errorf("%w: invalid shapiro-wilk normalization for n=%d", analytics.ErrComputation, n)
	}
	a[0] = a1
	for i := start; i < half; i++ {
		a[i] = -m[i] / fac
	}
	return a, nil
}

func swPValue(w float64, n int) float64 {
	if n == 3 {
		p := swPi6 * (math.Asin(math.Sqrt(w)) - swStqr)
		return clamp01(p)
	}
	if w >= 1 {
		return 1
	}

	y := math.Log(1 - w)
	fn := float64(n)
	var mu, sigma float64
	if n <= 11 {
		gamma := poly(swGamma, fn)
		if y >= gamma {
			return 0
		}
		y = -math.Log(gamma - y)
		mu = poly(swC3, fn)
		sigma = math.Exp(poly(swC4, fn))
	} else {
		ln := math.Log(fn)
		mu = poly(swC5, ln)
		sigma = math.Exp(poly(swC6, ln))
	}

	return clamp01(distuv.UnitNormal.Survival((y - mu) / sigma))
}

// poly evaluates c[0] + c[1]x + c[2]x^2 + ...
func poly(c []float64, x float64) float64 {
	result := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		result = result*x + c[i]
	}
	return result
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
