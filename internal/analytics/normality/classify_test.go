package normality

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_NormalWhenPValueHigh(t *testing.T) {
	label, err := Classify([]float64{1, 2, 3, 4, 5}, 0.5, 0.05)
	require.NoError(t, err)
	assert.Equal(t, LabelNormal, label)
}

func TestClassify_RightSkewed(t *testing.T) {
	label, err := Classify([]float64{1, 1, 1, 1, 1, 1, 1, 1, 2, 20}, 0.001, 0.05)
	require.NoError(t, err)
	assert.Equal(t, LabelRightSkewed, label)
}

func TestClassify_LeftSkewed(t *testing.T) {
	label, err := Classify([]float64{20, 20, 20, 20, 20, 20, 20, 20, 19, 1}, 0.001, 0.05)
	require.NoError(t, err)
	assert.Equal(t, LabelLeftSkewed, label)
}

func TestClassify_UnknownOnNaN(t *testing.T) {
	label, err := Classify([]float64{1, 2, 3}, math.NaN(), 0.05)
	assert.Error(t, err)
	assert.Equal(t, LabelUnknown, label)
}

func TestClassifyShape_RuleOrder(t *testing.T) {
	tests := []struct {
		name  string
		skew  float64
		kurt  float64
		label Label
	}{
		{"approximately normal", 0.2, -0.3, LabelApproximatelyNormal},
		{"right skewed beats heavy tails", 1.5, 10, LabelRightSkewed},
		{"left skewed", -1.2, 0, LabelLeftSkewed},
		{"heavy tailed", 0.7, 4, LabelHeavyTailed},
		{"light tailed", 0.1, -1.3, LabelLightTailed},
		{"non normal", 0.8, 1, LabelNonNormal},
		{"boundary skew is not right skewed", 1, 0, LabelNonNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.label, ClassifyShape(tt.skew, tt.kurt))
		})
	}
}
