package controller

import (
	"strings"

	"github.com/spf13/cast"
)

// num reads a numeric field, defaulting to 0 when absent or unparsable.
func num(m map[string]any, key string) float64 {
	return cast.ToFloat64(m[key])
}

// str reads a string field, defaulting to "" when absent.
func str(m map[string]any, key string) string {
	return cast.ToString(m[key])
}

// truthy coerces loose flag values: false, nil, 0, "", "0" and "false"
// are false; everything else is true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		s := strings.TrimSpace(strings.ToLower(t))
		return s != "" && s != "0" && s != "false"
	case map[string]any, []any:
		return true
	default:
		f, err := cast.ToFloat64E(t)
		if err != nil {
			return true
		}
		return f != 0
	}
}

func has(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}
