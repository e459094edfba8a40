package mcpserver

import (
	"fmt"
	"math"
)

// stringArg returns args[key] as a string, or "" when absent.
func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return s, nil
}

// requiredString is stringArg for arguments that must be non-empty.
func requiredString(args map[string]any, key string) (string, error) {
	s, err := stringArg(args, key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return s, nil
}

// intArg returns args[key] as a whole number. JSON numbers arrive as
// float64; fractional values are rejected.
func intArg(args map[string]any, key string) (int, bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false, fmt.Errorf("%s must be a number", key)
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false, fmt.Errorf("%s must be a whole number", key)
	}
	return int(f), true, nil
}
