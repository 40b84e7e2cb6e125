// Package correlation computes pairwise Pearson and Spearman correlations
// between named series.
package correlation

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/soltixdb/sfb/internal/utils"
)

// Series is a named sequence of values
type Series struct {
	Name   string
	Values []float64
}

// Coefficient is one correlation measure with its significance
type Coefficient struct {
	Coefficient   float64 `json:"coefficient"`
	PValue        float64 `json:"p_value"`
	IsSignificant bool    `json:"is_significant"`
}

// PairResult holds both measures for one pair of series
type PairResult struct {
	Pearson  Coefficient `json:"pearson"`
	Spearman Coefficient `json:"spearman"`
}

// Pair is a keyed PairResult
type Pair struct {
	Key    string
	Result PairResult
}

// Matrix is the set of pairwise results in first-seen pair order.
// It marshals to a JSON object whose keys keep that order.
type Matrix struct {
	Pairs []Pair
}

// Len returns the number of pairs
func (m *Matrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Pairs)
}

// Get returns the result for key
func (m *Matrix) Get(key string) (PairResult, bool) {
	if m == nil {
		return PairResult{}, false
	}
	for _, p := range m.Pairs {
		if p.Key == key {
			return p.Result, true
		}
	}
	return PairResult{}, false
}

// Keys returns the pair keys in order
func (m *Matrix) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.Pairs))
	for i, p := range m.Pairs {
		keys[i] = p.Key
	}
	return keys
}

// MarshalJSON writes the pairs as an ordered JSON object
func (m Matrix) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range m.Pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.Result)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// PairKey names the pair (a, b)
func PairKey(a, b string) string {
	return fmt.Sprintf("%s_vs_%s", a, b)
}

// Compute correlates every unordered pair of series once, in input order.
// Each pair is truncated to the shorter series. Fewer than two series yield an empty matrix.
func Compute(series []Series) *Matrix {
	m := &Matrix{Pairs: make([]Pair, 0)}
	if len(series) < 2 {
		return m
	}

	for i := 0; i < len(series); i++ {
		for j := i + 1; j < len(series); j++ {
			a, b := truncate(series[i].Values, series[j].Values)
			m.Pairs = append(m.Pairs, Pair{
				Key: PairKey(series[i].Name, series[j].Name),
				Result: PairResult{
					Pearson:  Pearson(a, b),
					Spearman: Spearman(a, b),
				},
			})
		}
	}
	return m
}

// Pearson returns the product-moment correlation of equal-length x and y.
// A constant input has coefficient 0 and p-value 1.
func Pearson(x, y []float64) Coefficient {
	n := len(x)
	if n < 2 || n != len(y) || isConstant(x) || isConstant(y) {
		return Coefficient{Coefficient: 0, PValue: 1}
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return Coefficient{Coefficient: 0, PValue: 1}
	}
	r = math.Max(-1, math.Min(1, r))
	p := PValue(r, n)
	return Coefficient{Coefficient: r, PValue: p, IsSignificant: p < utils.CorrelationAlpha}
}

// Spearman returns the rank correlation of equal-length x and y, with tied
// values given their average rank.
func Spearman(x, y []float64) Coefficient {
	if len(x) != len(y) {
		return Coefficient{Coefficient: 0, PValue: 1}
	}
	return Pearson(Rank(x), Rank(y))
}

// PValue is the two-sided p-value of correlation r over n pairs, from Student's t
// with n-2 degrees of freedom.
func PValue(r float64, n int) float64 {
	if n <= 2 {
		return 1
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))
	return math.Max(0, math.Min(1, p))
}

// Rank returns 1-based ranks with ties averaged
func Rank(values []float64) []float64 {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

func truncate(a, b []float64) ([]float64, []float64) {
	n := min(len(a), len(b))
	return a[:n], b[:n]
}

func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
