package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Document converts command output into the canonical JSON value space the
// query engines operate on: map[string]any, []any, float64, int, string,
// bool and nil. A string that holds encoded JSON is decoded first; any other
// string is returned as-is.
func Document(v any) (any, error) {
	if s, ok := v.(string); ok {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return s, nil
		}
		var out any
		if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
			return s, nil
		}
		return out, nil
	}
	return Canonical(v)
}

// Canonical rewrites structured Go values into the JSON value space. Plain
// map[string]any / []any trees are walked in place of a JSON round trip; any
// other concrete type falls back to marshalling.
func Canonical(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool, float64, int:
		return t, nil
	case int8:
		return int(t), nil
	case int16:
		return int(t), nil
	case int32:
		return int(t), nil
	case int64:
		return int(t), nil
	case uint:
		return int(t), nil
	case uint8:
		return int(t), nil
	case uint16:
		return int(t), nil
	case uint32:
		return int(t), nil
	case float32:
		return float64(t), nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			c, err := Canonical(e)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			c, err := Canonical(e)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %T: %w", v, err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding %T: %w", v, err)
	}
	return out, nil
}

// Decode interprets s as encoded JSON. The second return is false, and s is
// returned unchanged, when s is not valid JSON.
func Decode(s string) (any, bool) {
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return s, false
	}
	return out, true
}
