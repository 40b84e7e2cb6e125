package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ToFloat64 converts a decoded JSON value to float64.
// Returns the converted value and true if successful, or 0 and false if conversion fails.
// Supports every Go numeric kind, json.Number, bool and numeric strings. Strings are
// trimmed before parsing; "NaN" and "Inf" parse so that callers can reject them later.
func ToFloat64(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}

	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case []interface{}, map[string]interface{}:
		return 0, false
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IsFinite reports whether f is neither NaN nor ±Inf.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// AllFinite reports whether every value is finite, returning the first offending index otherwise.
func AllFinite(values []float64) (int, bool) {
	for i, v := range values {
		if !IsFinite(v) {
			return i, false
		}
	}
	return -1, true
}

// ToOptionalString renders a timestamp-like value as a string.
// nil, empty and unrenderable values become nil.
func ToOptionalString(v interface{}) *string {
	if v == nil {
		return nil
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return nil
	}
	return &s
}
