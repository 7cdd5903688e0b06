package event

import (
	"fmt"
	"math"
	"time"
)

// toFloat64 converts various numeric types to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// toInt converts various numeric types to int. Fractional and out of range
// values are rejected.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	}
	f, ok := toFloat64(v)
	if !ok || f != math.Trunc(f) || f < math.MinInt || f >= -math.MinInt {
		return 0, false
	}
	return int(f), true
}

// toInt64 converts various numeric types to int64. Fractional and out of
// range values are rejected.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	f, ok := toFloat64(v)
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= -math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// parseString extracts a string from an any value.
func parseString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}

// parseMap extracts a map[string]any from an any value. Maps keyed by
// interface values, as produced by CBOR decoding, are converted; non-string
// keys are dropped.
func parseMap(value any) (map[string]any, bool) {
	switch m := value.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		converted := make(map[string]any, len(m))
		for key, val := range m {
			if keyString, ok := key.(string); ok {
				converted[keyString] = val
			}
		}
		return converted, true
	default:
		return nil, false
	}
}

// parseTime extracts a time.Time from a millisecond timestamp value.
func parseTime(value any) (time.Time, bool) {
	millis, ok := toInt64(value)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}
