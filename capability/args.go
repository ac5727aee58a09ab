package capability

// Argument extraction helpers for tool implementations. Model-supplied JSON
// decodes numbers as float64 regardless of the declared schema type.

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func floatArg(args map[string]any, key string) (float64, bool) {
	v, ok := args[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func intArg(args map[string]any, key string) (int64, bool) {
	f, ok := floatArg(args, key)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}
