package utils

import (
	"strconv"
	"strings"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// EnsureBool coerces common truthy/falsy representations into a bool.
// Accepted forms: JSON booleans, 0/1 numbers, and strings like "true",
// "yes", "y", "1" (case-insensitive). A JSON null coerces to false.
// The second return value reports whether the input was recognized.
func EnsureBool(v interface{}) (bool, bool) {
	switch val := v.(type) {
	case nil:
		return false, true
	case bool:
		return val, true
	case float64:
		if val == 1 {
			return true, true
		}
		if val == 0 {
			return false, true
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "yes", "y", "1":
			return true, true
		case "false", "f", "no", "n", "0":
			return false, true
		}
	}
	return false, false
}
