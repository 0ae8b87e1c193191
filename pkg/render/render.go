// Package render renders field-map templates (path queries and
// post-processors) in a restricted namespace.
//
// Templates use Go text/template syntax. Only the variables handed to Render
// are visible, referencing any other variable is an error, and the function
// set is fixed to Funcs. Values placed in Vars are plain JSON values, so
// templates have no methods to call into the host process.
package render

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	"github.com/newtron-network/netonboard/pkg/util"
)

// Names of the variables a template may reference.
const (
	VarObj          = "obj"
	VarOriginalHost = "original_host"
	VarCurrentKey   = "current_key"
)

// Vars is the template namespace for one render call.
type Vars map[string]any

// HostVars returns the namespace used for flat fields: obj and
// original_host both carry the host name.
func HostVars(host string) Vars {
	return Vars{VarObj: host, VarOriginalHost: host}
}

// WithKey returns a copy of v with current_key bound.
func (v Vars) WithKey(key any) Vars {
	out := v.clone()
	out[VarCurrentKey] = key
	return out
}

// WithObj returns a copy of v with obj rebound to value, as post-processors
// see the extracted value under obj. A query with no result binds obj as "";
// text/template would otherwise print a nil value as "<no value>".
func (v Vars) WithObj(value any) Vars {
	out := v.clone()
	if value == nil {
		value = ""
	}
	out[VarObj] = value
	return out
}

func (v Vars) clone() Vars {
	out := make(Vars, len(v)+1)
	for k, e := range v {
		out[k] = e
	}
	return out
}

// Error is returned when a template fails to parse or execute.
type Error struct {
	Template string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rendering %q: %v", e.Template, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{util.ErrRenderFailed, e.Err}
}

var parsed sync.Map // template text -> *template.Template

func parse(text string) (*template.Template, error) {
	if t, ok := parsed.Load(text); ok {
		return t.(*template.Template), nil
	}
	t, err := template.New("fieldmap").
		Option("missingkey=error").
		Funcs(Funcs()).
		Parse(text)
	if err != nil {
		return nil, &Error{Template: text, Err: err}
	}
	parsed.Store(text, t)
	return t, nil
}

// Check parses text without executing it.
func Check(text string) error {
	_, err := parse(text)
	return err
}

// Render executes text against vars.
func Render(text string, vars Vars) (string, error) {
	t, err := parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, map[string]any(vars)); err != nil {
		return "", &Error{Template: text, Err: err}
	}
	return buf.String(), nil
}
