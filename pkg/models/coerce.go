package models

import (
	"math"
	"strconv"
	"strings"
)

// The feed is loose about scalar types: numeric ids arrive as strings or
// numbers depending on the endpoint, booleans sometimes as 0/1. These
// helpers normalize decoded JSON scalars without panicking on surprises.

// CoerceString renders a scalar JSON value as a trimmed string.
func CoerceString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// CoerceInt parses a scalar JSON value as an int, returning 0 on anything
// that is not a whole number.
func CoerceInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return 0
}

// CoerceBool interprets JSON booleans plus the feed's occasional 0/1 and
// "true"/"false" string encodings.
func CoerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "1"
	}
	return false
}
