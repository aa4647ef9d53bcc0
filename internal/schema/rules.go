// Package schema checks untrusted JSON documents against declarative rules
// and reports every field that does not conform, not just the first.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
)

// Rule checks one value found at path and reports each violation.
type Rule interface {
	Check(path string, value any, report func(dnderr.FieldViolation))
}

// Field is a named entry of an object rule.
type Field struct {
	Name     string
	Rule     Rule
	Optional bool
}

// Required declares a field that must be present.
func Required(name string, rule Rule) Field {
	return Field{Name: name, Rule: rule}
}

// Optional declares a field that may be missing. A present field must still
// satisfy its rule.
func Optional(name string, rule Rule) Field {
	return Field{Name: name, Rule: rule, Optional: true}
}

// Run applies rule to value and returns every violation found.
func Run(rule Rule, value any) []dnderr.FieldViolation {
	var out []dnderr.FieldViolation
	rule.Check("", value, func(v dnderr.FieldViolation) {
		out = append(out, v)
	})
	return out
}

type objectRule struct {
	fields []Field
}

// Object matches a JSON object with the given fields. Keys not named are
// ignored.
func Object(fields ...Field) Rule {
	return objectRule{fields: fields}
}

func (r objectRule) Check(path string, value any, report func(dnderr.FieldViolation)) {
	obj, ok := value.(map[string]any)
	if !ok {
		report(dnderr.FieldViolation{Path: rootPath(path), Expected: "object", Actual: describe(value)})
		return
	}
	for _, f := range r.fields {
		child := join(path, f.Name)
		v, present := obj[f.Name]
		if !present {
			if !f.Optional {
				report(dnderr.FieldViolation{Path: child, Expected: "required field"})
			}
			continue
		}
		f.Rule.Check(child, v, report)
	}
}

type listRule struct {
	elem Rule
}

// List matches a JSON array whose every element satisfies elem.
func List(elem Rule) Rule {
	return listRule{elem: elem}
}

func (r listRule) Check(path string, value any, report func(dnderr.FieldViolation)) {
	items, ok := value.([]any)
	if !ok {
		report(dnderr.FieldViolation{Path: rootPath(path), Expected: "array", Actual: describe(value)})
		return
	}
	for i, item := range items {
		r.elem.Check(fmt.Sprintf("%s[%d]", path, i), item, report)
	}
}

type stringRule struct{}

// String matches any JSON string.
func String() Rule {
	return stringRule{}
}

func (stringRule) Check(path string, value any, report func(dnderr.FieldViolation)) {
	if _, ok := value.(string); !ok {
		report(dnderr.FieldViolation{Path: rootPath(path), Expected: "string", Actual: describe(value)})
	}
}

type enumRule struct {
	values []string
}

// OneOf matches a JSON string drawn from values.
func OneOf(values ...string) Rule {
	return enumRule{values: values}
}

func (r enumRule) Check(path string, value any, report func(dnderr.FieldViolation)) {
	s, ok := value.(string)
	if !ok || !slices.Contains(r.values, s) {
		report(dnderr.FieldViolation{
			Path:     rootPath(path),
			Expected: "one of " + quoteAll(r.values),
			Actual:   describe(value),
		})
	}
}

type intRule struct {
	min, max int
	bounded  bool
}

// IntAtLeast matches an integral JSON number no smaller than min.
func IntAtLeast(min int) Rule {
	return intRule{min: min}
}

// IntBetween matches an integral JSON number in [min, max].
func IntBetween(min, max int) Rule {
	return intRule{min: min, max: max, bounded: true}
}

func (r intRule) Check(path string, value any, report func(dnderr.FieldViolation)) {
	n, ok := AsInt(value)
	switch {
	case !ok:
		report(dnderr.FieldViolation{Path: rootPath(path), Expected: "integer", Actual: describe(value)})
	case n < r.min:
		report(dnderr.FieldViolation{Path: rootPath(path), Expected: r.bounds(), Actual: n})
	case r.bounded && n > r.max:
		report(dnderr.FieldViolation{Path: rootPath(path), Expected: r.bounds(), Actual: n})
	}
}

func (r intRule) bounds() string {
	if r.bounded {
		return fmt.Sprintf("integer in [%d, %d]", r.min, r.max)
	}
	return fmt.Sprintf("integer >= %d", r.min)
}

// AsInt converts a decoded JSON number to int. Fractional values, values out
// of int range and non-numbers are rejected.
func AsInt(value any) (int, bool) {
	switch n := value.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func rootPath(path string) string {
	if path == "" {
		return "$"
	}
	return path
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// describe keeps reported values readable: containers are named by kind.
func describe(value any) any {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return value
}
