package render

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/template"
)

// Funcs returns the allow-listed template functions. A fresh map is returned
// on every call.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"tojson":    toJSON,
		"fromjson":  fromJSON,
		"dict":      dict,
		"list":      list,
		"append":    appendList,
		"first":     first,
		"last":      last,
		"keys":      keys,
		"default":   defaultValue,
		"coalesce":  coalesce,
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"trim":      strings.TrimSpace,
		"replace":   replace,
		"split":     strings.Split,
		"join":      join,
		"hasPrefix": strings.HasPrefix,
		"contains":  strings.Contains,
		"toInt":     toInt,
		"toString":  toString,
	}
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func fromJSON(s string) (any, error) {
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	out := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		out[k] = pairs[i+1]
	}
	return out, nil
}

func list(items ...any) []any {
	return append([]any{}, items...)
}

func appendList(l any, items ...any) ([]any, error) {
	switch t := l.(type) {
	case nil:
		return append([]any{}, items...), nil
	case []any:
		out := make([]any, 0, len(t)+len(items))
		out = append(out, t...)
		return append(out, items...), nil
	}
	return nil, fmt.Errorf("append: %T is not a list", l)
}

func first(v any) any {
	switch l := v.(type) {
	case []any:
		if len(l) > 0 {
			return l[0]
		}
	case []string:
		if len(l) > 0 {
			return l[0]
		}
	}
	return nil
}

func last(v any) any {
	switch l := v.(type) {
	case []any:
		if len(l) > 0 {
			return l[len(l)-1]
		}
	case []string:
		if len(l) > 0 {
			return l[len(l)-1]
		}
	}
	return nil
}

func keys(v any) []any {
	m, ok := v.(map[string]any)
	if !ok {
		return []any{}
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]any, len(names))
	for i, k := range names {
		out[i] = k
	}
	return out
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case bool:
		return !t
	}
	return false
}

// defaultValue follows the pipeline convention: {{ .x | default "none" }}.
func defaultValue(def, v any) any {
	if isEmpty(v) {
		return def
	}
	return v
}

func coalesce(values ...any) any {
	for _, v := range values {
		if !isEmpty(v) {
			return v
		}
	}
	return nil
}

// replace follows the pipeline convention: {{ .x | replace "VLAN" "Vlan" }}.
func replace(old, new, s string) string {
	return strings.ReplaceAll(s, old, new)
}

func join(sep string, v any) (string, error) {
	switch t := v.(type) {
	case []string:
		return strings.Join(t, sep), nil
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = toString(e)
		}
		return strings.Join(parts, sep), nil
	}
	return "", fmt.Errorf("join: %T is not a list", v)
}

func toInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case float64:
		return int(math.Round(t)), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("toInt: cannot convert %T", v)
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
