package models

import (
	"github.com/soltixdb/sfb/internal/processing"
)

// GenerateRequest is the body of POST /v1/generate
type GenerateRequest struct {
	Dataset string                 `json:"dataset" validate:"required,max=128"`
	Period  string                 `json:"period" validate:"required,max=64"`
	Filters map[string]interface{} `json:"filters,omitempty"`
	Data    []processing.RawRecord `json:"data" validate:"required,min=1"`
}

// MultiGenerateRequest is the body of POST /v1/generate/multi. Datasets keep the
// order in which they appear in the request body.
type MultiGenerateRequest struct {
	Period   string                    `json:"period" validate:"required,max=64"`
	Filters  map[string]interface{}    `json:"filters,omitempty"`
	Datasets []processing.NamedRecords `json:"datasets" validate:"required,min=1"`
}
