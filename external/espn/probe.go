package espn

import (
	"strconv"
	"strings"
)

// Loose-map accessors for the schemaless site feeds. Every getter tolerates
// missing keys and mismatched types.

func getMap(v any, key string) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	child, ok := m[key].(map[string]any)
	if !ok {
		return nil
	}
	return child
}

func getSlice(v any, key string) []any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	items, ok := m[key].([]any)
	if !ok {
		return nil
	}
	return items
}

func getString(v any, key string) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	switch value := m[key].(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return ""
	}
}

func getFloat(v any, key string) float64 {
	m, ok := v.(map[string]any)
	if !ok {
		return 0
	}
	switch value := m[key].(type) {
	case float64:
		return value
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func getInt(v any, key string) int {
	return int(getFloat(v, key))
}
