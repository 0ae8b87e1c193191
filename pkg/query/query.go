// Package query evaluates path-query expressions against parsed command
// output. Two dialects are supported: jq (the default) and JSONPath.
package query

import (
	"errors"
	"fmt"
	"sync"

	"github.com/itchyny/gojq"
	"github.com/ohler55/ojg/jp"

	"github.com/newtron-network/netonboard/pkg/util"
)

// Language selects the query dialect of an expression.
type Language string

const (
	// JQ expressions are evaluated with gojq. A query producing a single
	// output yields that output; several outputs yield a list.
	JQ Language = "jq"
	// JSONPath expressions are evaluated with ojg and always yield the list
	// of matches.
	JSONPath Language = "jsonpath"
)

// Valid reports whether l names a supported dialect. The empty language is
// valid and means JQ.
func (l Language) Valid() bool {
	switch l {
	case "", JQ, JSONPath:
		return true
	}
	return false
}

// Error reports a query that could not be compiled or did not fit the shape
// of the document it ran against.
type Error struct {
	Language Language
	Expr     string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s query %q: %v", e.Language, e.Expr, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{util.ErrQueryFailed, e.Err}
}

// jqFunctions extends jq with helpers field maps need to correlate the
// output of different commands.
var jqFunctions = []gojq.CompilerOption{
	// canonical_ifname expands abbreviated interface names so rows from
	// "show interfaces switchport" (Gi0/1) can be matched against keys taken
	// from "show interfaces" (GigabitEthernet0/1).
	gojq.WithFunction("canonical_ifname", 0, 0, func(v any, _ []any) any {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("canonical_ifname: %T is not a string", v)
		}
		return util.CanonicalInterfaceName(s)
	}),
}

// compiled caches parsed programs by dialect and expression. Entries are
// immutable once stored.
var compiled sync.Map

type cacheKey struct {
	lang Language
	expr string
}

// Compile parses expr without running it so field maps can be checked when
// they are loaded.
func Compile(lang Language, expr string) error {
	_, err := program(lang, expr)
	return err
}

func program(lang Language, expr string) (any, error) {
	if lang == "" {
		lang = JQ
	}
	key := cacheKey{lang, expr}
	if p, ok := compiled.Load(key); ok {
		return p, nil
	}

	var p any
	switch lang {
	case JQ:
		q, err := gojq.Parse(expr)
		if err != nil {
			return nil, &Error{Language: lang, Expr: expr, Err: err}
		}
		code, err := gojq.Compile(q, jqFunctions...)
		if err != nil {
			return nil, &Error{Language: lang, Expr: expr, Err: err}
		}
		p = code
	case JSONPath:
		x, err := jp.ParseString(expr)
		if err != nil {
			return nil, &Error{Language: lang, Expr: expr, Err: err}
		}
		p = x
	default:
		return nil, &Error{Language: lang, Expr: expr, Err: errors.New("unknown query language")}
	}
	compiled.Store(key, p)
	return p, nil
}

// Evaluate runs expr against doc. doc may be a JSON-encoded string or an
// already structured value.
func Evaluate(doc any, lang Language, expr string) (any, error) {
	if lang == "" {
		lang = JQ
	}
	p, err := program(lang, expr)
	if err != nil {
		return nil, err
	}
	data, err := Document(doc)
	if err != nil {
		return nil, &Error{Language: lang, Expr: expr, Err: err}
	}

	switch prog := p.(type) {
	case *gojq.Code:
		return runJQ(prog, data, expr)
	case jp.Expr:
		matches := prog.Get(data)
		if matches == nil {
			matches = []any{}
		}
		return matches, nil
	}
	return nil, &Error{Language: lang, Expr: expr, Err: errors.New("unknown compiled program")}
}

func runJQ(code *gojq.Code, data any, expr string) (any, error) {
	var out []any
	iter := code.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return nil, &Error{Language: JQ, Expr: expr, Err: err}
		}
		out = append(out, v)
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0], nil
	}
	return out, nil
}
