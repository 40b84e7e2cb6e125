// Package processing turns raw request records into statistical packages:
// masking, extraction, validation and orchestration of the engine for one or
// many datasets.
package processing

import (
	"bytes"

	"github.com/goccy/go-json"

	"github.com/soltixdb/sfb/internal/analytics/correlation"
	"github.com/soltixdb/sfb/internal/analytics/engine"
)

// RawRecord is one decoded JSON element of a request's data array.
// A map is read for "value" and "timestamp"; anything else is the value itself.
type RawRecord = interface{}

// NamedRecords is one dataset of a multi-dataset request
type NamedRecords struct {
	Name    string
	Records []RawRecord
}

// Report describes what extraction did with a dataset's records
type Report struct {
	Dataset         string `json:"dataset"`
	RecordsReceived int    `json:"records_received"`
	RecordsDropped  int    `json:"records_dropped"`
	ValuesAnalyzed  int    `json:"values_analyzed"`
}

// DatasetPackage pairs a dataset name with its package
type DatasetPackage struct {
	Name    string
	Package *engine.Package
	Report  *Report
}

// MultiResult holds the packages of a multi-dataset call, in request order,
// and the correlations across them.
type MultiResult struct {
	Packages          []DatasetPackage
	CrossCorrelations *correlation.Matrix
}

// Get returns the package for a dataset name
func (r *MultiResult) Get(name string) (*engine.Package, bool) {
	for _, p := range r.Packages {
		if p.Name == name {
			return p.Package, true
		}
	}
	return nil, false
}

// Names returns dataset names in request order
func (r *MultiResult) Names() []string {
	names := make([]string, len(r.Packages))
	for i, p := range r.Packages {
		names[i] = p.Name
	}
	return names
}

// OrderedPackages marshals dataset packages as a JSON object keyed by name in request order
type OrderedPackages []DatasetPackage

// MarshalJSON writes {"name": package, ...} preserving order
func (o OrderedPackages) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.Package)
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
