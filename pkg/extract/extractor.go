// Package extract pulls field values out of parsed command output according
// to a field map and assembles them into a per-device aggregate.
package extract

import (
	"github.com/newtron-network/netonboard/pkg/fieldmap"
	"github.com/newtron-network/netonboard/pkg/query"
	"github.com/newtron-network/netonboard/pkg/render"
)

// Extract evaluates one field-map command against that command's output.
//
// The jpath template is rendered with vars and evaluated; when a
// post-processor is configured it is rendered with the extracted value bound
// to obj and its output replaces the value. A final value that holds encoded
// JSON is decoded, then the result is reshaped according to the command's
// iterable type. pre is the value before post-processing.
//
// A render or query failure returns "" for both values together with the
// error; callers treat it as an empty field, not a device failure.
func Extract(output any, cmd *fieldmap.Command, vars render.Vars) (pre, post any, err error) {
	jpath, err := render.Render(cmd.JPath, vars)
	if err != nil {
		return "", "", err
	}
	extracted, err := query.Evaluate(output, cmd.Language, jpath)
	if err != nil {
		return "", "", err
	}

	final := extracted
	if cmd.PostProcessor != "" {
		rendered, err := render.Render(cmd.PostProcessor, vars.WithObj(extracted))
		if err != nil {
			return "", "", err
		}
		final = rendered
	}
	if s, ok := final.(string); ok {
		final, _ = query.Decode(s)
	}
	return extracted, Shape(final, cmd.IterableType), nil
}

// Shape applies the empty and singleton rules to a list result:
//   - an empty list becomes {} for dict and "" for str
//   - a one-element list holding a mapping is unwrapped only for dict
//   - any other one-element list is unwrapped
//
// Non-list values are returned unchanged.
func Shape(v any, iterable fieldmap.IterableType) any {
	list, ok := v.([]any)
	if !ok {
		return v
	}
	switch len(list) {
	case 0:
		switch iterable {
		case fieldmap.IterableDict:
			return map[string]any{}
		case fieldmap.IterableStr:
			return ""
		}
	case 1:
		if m, isMap := list[0].(map[string]any); isMap {
			if iterable == fieldmap.IterableDict {
				return m
			}
			return v
		}
		return list[0]
	}
	return v
}
