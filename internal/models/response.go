package models

import (
	"time"

	"github.com/soltixdb/sfb/internal/analytics/correlation"
	"github.com/soltixdb/sfb/internal/analytics/engine"
	"github.com/soltixdb/sfb/internal/processing"
)

// Metadata describes how a response was produced
type Metadata struct {
	RequestID           string                 `json:"request_id"`
	DataPointsProcessed int                    `json:"data_points_processed"`
	RecordsDropped      int                    `json:"records_dropped"`
	OutliersDetected    int                    `json:"outliers_detected"`
	User                string                 `json:"user"`
	Filters             map[string]interface{} `json:"filters,omitempty"`
}

// GenerateResponse is the result of POST /v1/generate
type GenerateResponse struct {
	Dataset            string          `json:"dataset"`
	Period             string          `json:"period"`
	GeneratedAt        time.Time       `json:"generated_at"`
	ProcessingTimeMs   float64         `json:"processing_time_ms"`
	StatisticalPackage *engine.Package `json:"statistical_package"`
	Metadata           Metadata        `json:"metadata"`
}

// MultiGenerateResponse is the result of POST /v1/generate/multi
type MultiGenerateResponse struct {
	Period              string                     `json:"period"`
	GeneratedAt         time.Time                  `json:"generated_at"`
	ProcessingTimeMs    float64                    `json:"processing_time_ms"`
	StatisticalPackages processing.OrderedPackages `json:"statistical_packages"`
	Correlations        *correlation.Matrix        `json:"correlations"`
	Metadata            MultiMetadata              `json:"metadata"`
}

// MultiMetadata describes a multi-dataset response
type MultiMetadata struct {
	RequestID           string                 `json:"request_id"`
	Datasets            []string               `json:"datasets"`
	DataPointsProcessed int                    `json:"data_points_processed"`
	RecordsDropped      int                    `json:"records_dropped"`
	OutliersDetected    int                    `json:"outliers_detected"`
	User                string                 `json:"user"`
	Filters             map[string]interface{} `json:"filters,omitempty"`
}

// HealthResponse is the result of GET /v1/health
type HealthResponse struct {
	Status      string    `json:"status"`
	Service     string    `json:"service"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
	Timestamp   time.Time `json:"timestamp"`
}

// RootResponse is the result of GET /
type RootResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
	Health  string `json:"health"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
