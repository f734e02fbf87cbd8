package standings

import (
	"math"
	"strconv"
	"strings"
)

// The upstream payload is decoded into plain maps and slices. The helpers
// below are total: every input yields a value, invalid ones fall back to the
// documented default.

func asMap(raw any) map[string]any {
	obj, _ := raw.(map[string]any)
	return obj
}

func asList(raw any) ([]any, bool) {
	list, ok := raw.([]any)
	return list, ok
}

func toInt(raw any) (int64, bool) {
	switch typed := raw.(type) {
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return 0, false
		}
		return int64(typed), true
	case float32:
		return toInt(float64(typed))
	case int:
		return int64(typed), true
	case int64:
		return typed, true
	case bool:
		if typed {
			return 1, true
		}
		return 0, true
	case string:
		v, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

func toFloat(raw any) (float64, bool) {
	var v float64
	switch typed := raw.(type) {
	case float64:
		v = typed
	case float32:
		v = float64(typed)
	case int:
		v = float64(typed)
	case int64:
		v = float64(typed)
	case bool:
		if typed {
			v = 1
		}
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		v = parsed
	default:
		return 0, false
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func intOr(raw any, fallback int64) int64 {
	if v, ok := toInt(raw); ok {
		return v
	}
	return fallback
}

func nullableInt(raw any) *int {
	v, ok := toInt(raw)
	if !ok {
		return nil
	}
	return ptr(int(v))
}

func nullableInt64(raw any) *int64 {
	v, ok := toInt(raw)
	if !ok {
		return nil
	}
	return ptr(v)
}

func floatOr(raw any, fallback float64) float64 {
	if v, ok := toFloat(raw); ok {
		return v
	}
	return fallback
}

func nullableFloat(raw any) *float64 {
	v, ok := toFloat(raw)
	if !ok {
		return nil
	}
	return ptr(v)
}

func textOr(raw any, fallback string) string {
	if v, ok := raw.(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func nullableText(raw any) *string {
	if v, ok := raw.(string); ok && strings.TrimSpace(v) != "" {
		return ptr(v)
	}
	return nil
}

// truthy follows loose JSON truthiness: null, false, zero, "" and empty
// containers are false.
func truthy(raw any) bool {
	switch typed := raw.(type) {
	case nil:
		return false
	case bool:
		return typed
	case float64:
		return typed != 0
	case float32:
		return typed != 0
	case int:
		return typed != 0
	case int64:
		return typed != 0
	case string:
		return typed != ""
	case []any:
		return len(typed) > 0
	case map[string]any:
		return len(typed) > 0
	default:
		return true
	}
}

// firstTruthy returns the first truthy value among keys, or nil.
func firstTruthy(src map[string]any, keys ...string) any {
	for _, key := range keys {
		if v := src[key]; truthy(v) {
			return v
		}
	}
	return nil
}
