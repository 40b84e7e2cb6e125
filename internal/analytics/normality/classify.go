package normality

import (
	"fmt"
	"math"

	"github.com/soltixdb/sfb/internal/analytics/descriptive"
)

// Label names the shape of a distribution
type Label string

const (
	LabelNormal              Label = "normal"
	LabelApproximatelyNormal Label = "approximately_normal"
	LabelRightSkewed         Label = "right_skewed"
	LabelLeftSkewed          Label = "left_skewed"
	LabelHeavyTailed         Label = "heavy_tailed"
	LabelLightTailed         Label = "light_tailed"
	LabelNonNormal           Label = "non_normal"
	LabelUnknown             Label = "unknown"
)

// Classify labels the distribution of values given its normality p-value.
// Rules are applied in order and the first match wins. Any failure (including a
// panic) degrades to LabelUnknown; the error is returned for logging only.
func Classify(values []float64, pValue, alpha float64) (label Label, err error) {
	defer func() {
		if r := recover(); r != nil {
			label = LabelUnknown
			err = fmt.Errorf("classification panicked: %v", r)
		}
	}()

	if math.IsNaN(pValue) {
		return LabelUnknown, fmt.Errorf("normality p-value is NaN")
	}
	if pValue > alpha {
		return LabelNormal, nil
	}

	skew, kurt := descriptive.Shape(values)
	if math.IsNaN(skew) || math.IsNaN(kurt) {
		return LabelUnknown, fmt.Errorf("non-finite shape statistics")
	}
	return ClassifyShape(skew, kurt), nil
}

// ClassifyShape applies the skewness/excess-kurtosis rules for non-normal samples.
func ClassifyShape(skew, kurt float64) Label {
	switch {
	case math.Abs(skew) < 0.5 && math.Abs(kurt) < 0.5:
		return LabelApproximatelyNormal
	case skew > 1:
		return LabelRightSkewed
	case skew < -1:
		return LabelLeftSkewed
	case kurt > 3:
		return LabelHeavyTailed
	case kurt < -1:
		return LabelLightTailed
	default:
		return LabelNonNormal
	}
}
