// Package anomaly flags outlying points of a sample by their standard score.
package anomaly

import "github.com/soltixdb/sfb/internal/utils"

// Outlier is a single flagged point
type Outlier struct {
	Index     int     `json:"index"`
	Value     float64 `json:"value"`
	ZScore    float64 `json:"z_score"`
	IsExtreme bool    `json:"is_extreme"`
	Timestamp *string `json:"timestamp"`
}

// DetectorConfig holds configuration for outlier detection
type DetectorConfig struct {
	// Threshold is the |z| above which a point is reported
	Threshold float64

	// ExtremeThreshold is the |z| above which a reported point is marked extreme
	ExtremeThreshold float64
}

// DefaultConfig returns default detector configuration
func DefaultConfig() DetectorConfig {
	return DetectorConfig{
		Threshold:        utils.DefaultOutlierThreshold,
		ExtremeThreshold: utils.DefaultExtremeThreshold,
	}
}
