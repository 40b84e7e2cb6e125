package correlation

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_PerfectCorrelation(t *testing.T) {
	m := Compute([]Series{
		{Name: "A", Values: []float64{1, 2, 3, 4, 5}},
		{Name: "B", Values: []float64{2, 4, 6, 8, 10}},
	})

	require.Equal(t, 1, m.Len())
	res, ok := m.Get("A_vs_B")
	require.True(t, ok)

	assert.InDelta(t, 1.0, res.Pearson.Coefficient, 1e-12)
	assert.Less(t, res.Pearson.PValue, 1e-6)
	assert.True(t, res.Pearson.IsSignificant)
	assert.InDelta(t, 1.0, res.Spearman.Coefficient, 1e-12)
	assert.True(t, res.Spearman.IsSignificant)
}

func TestCompute_FewerThanTwoSeries(t *testing.T) {
	assert.Equal(t, 0, Compute(nil).Len())
	assert.Equal(t, 0, Compute([]Series{{Name: "A", Values: []float64{1, 2, 3}}}).Len())
}

func TestCompute_PairOrderAndTruncation(t *testing.T) {
	m := Compute([]Series{
		{Name: "z", Values: []float64{1, 2, 3, 4, 5, 6}},
		{Name: "a", Values: []float64{5, 4, 3, 2, 1}},
		{Name: "m", Values: []float64{1, 3, 2, 5, 4}},
	})

	assert.Equal(t, []string{"z_vs_a", "z_vs_m", "a_vs_m"}, m.Keys())

	res, ok := m.Get("z_vs_a")
	require.True(t, ok)
	assert.InDelta(t, -1.0, res.Pearson.Coefficient, 1e-12)
}

func TestCompute_MarshalKeepsOrder(t *testing.T) {
	m := Compute([]Series{
		{Name: "z", Values: []float64{1, 2, 3}},
		{Name: "a", Values: []float64{3, 1, 2}},
		{Name: "b", Values: []float64{1, 1, 2}},
	})

	data, err := json.Marshal(m)
	require.NoError(t, err)

	s := string(data)
	iZA := strings.Index(s, `"z_vs_a"`)
	iZB := strings.Index(s, `"z_vs_b"`)
	iAB := strings.Index(s, `"a_vs_b"`)
	assert.True(t, iZA >= 0 && iZA < iZB && iZB < iAB, s)

	var decoded map[string]PairResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 3)
}

func TestPearson_ConstantSeries(t *testing.T) {
	c := Pearson([]float64{1, 1, 1, 1}, []float64{1, 2, 3, 4})
	assert.Equal(t, 0.0, c.Coefficient)
	assert.Equal(t, 1.0, c.PValue)
	assert.False(t, c.IsSignificant)
}

func TestPearson_KnownValue(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	y := []float64{2, 1, 4, 3, 7, 8, 6, 9, 10, 12}

	c := Pearson(x, y)
	assert.Greater(t, c.Coefficient, 0.9)
	assert.Less(t, c.PValue, 0.001)
	assert.True(t, c.IsSignificant)
}

func TestSpearman_Monotonic(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 4, 9, 16, 100}

	c := Spearman(x, y)
	assert.InDelta(t, 1.0, c.Coefficient, 1e-12)
	assert.Less(t, Pearson(x, y).Coefficient, 1.0)
}

func TestPValue(t *testing.T) {
	assert.Equal(t, 1.0, PValue(0.9, 2))
	assert.Equal(t, 0.0, PValue(1, 10))
	assert.InDelta(t, 1.0, PValue(0, 10), 1e-12)

	// r = 0.5, n = 12: t = 0.5*sqrt(10/0.75) = 1.8257, two-sided p ~ 0.0978
	assert.InDelta(t, 0.0978, PValue(0.5, 12), 5e-4)
}

func TestRank_Ties(t *testing.T) {
	assert.Equal(t, []float64{1, 2.5, 2.5, 4}, Rank([]float64{10, 20, 20, 30}))
	assert.Equal(t, []float64{3, 1, 2}, Rank([]float64{9, 1, 5}))
}
