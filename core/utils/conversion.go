package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Int converts a loosely typed value (JSON number, form string, CLI flag) to int.
// ok is false when val is nil, not numeric, a non-integral float, or out of int range.
func Int(val any) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case uint:
		return int(v), true
	case uint64:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint32:
		return int(v), true
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, false
		}
		return int(v), true
	case float32:
		return Int(float64(v))
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		return i, err == nil
	case []byte:
		return Int(string(v))
	default:
		return 0, false
	}
}

// String converts val to a string. ok is false for nil.
func String(val any) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

// Bool converts val to bool. Numbers are true when 1; strings when "1" or "true".
func Bool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "1" || s == "true"
	case []byte:
		return Bool(string(v))
	default:
		i, ok := Int(v)
		return ok && i == 1
	}
}
