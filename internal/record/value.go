package record

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// =============================================================================
// FIELD RESOLUTION
// A resolved field is classified into one of four shapes and every accessor
// pattern-matches on that shape instead of duck-typing the raw value. All
// accessors are total: missing or malformed input resolves to a default,
// never to an error.
// =============================================================================

// Kind identifies the resolved shape of a raw field value.
type Kind int

const (
	// KindAbsent covers nil, NaN and empty sentinels.
	KindAbsent Kind = iota
	// KindScalar is a plain string-convertible value.
	KindScalar
	// KindList is a sequence of arbitrary elements.
	KindList
	// KindLabel is an object carrying label/name/id keys.
	KindLabel
)

// Value is the tagged variant produced by Classify.
type Value struct {
	Kind  Kind
	Str   string
	ID    string
	List  []any
	Label Record
}

// Classify resolves a raw field value into its Value shape. Falsy scalars
// (numeric zero, false) classify as absent, like null and NaN; a textual
// "0" is a real value and stays scalar.
func Classify(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{Kind: KindAbsent}
	case bool:
		if !t {
			return Value{Kind: KindAbsent}
		}
		return Value{Kind: KindScalar, Str: "true"}
	case float64:
		if math.IsNaN(t) || t == 0 {
			return Value{Kind: KindAbsent}
		}
		return Value{Kind: KindScalar, Str: scalarString(t)}
	case int:
		if t == 0 {
			return Value{Kind: KindAbsent}
		}
		return Value{Kind: KindScalar, Str: strconv.Itoa(t)}
	case []any:
		return Value{Kind: KindList, List: t}
	case map[string]any:
		return Value{Kind: KindLabel, Label: t, Str: labelOf(t), ID: scalarString(t["id"])}
	default:
		s := scalarString(v)
		if s == "" {
			return Value{Kind: KindAbsent}
		}
		return Value{Kind: KindScalar, Str: s}
	}
}

// String resolves the first candidate field that classifies as a scalar.
// Nested objects, sequences and absent fields resolve to empty. Never
// returns an error.
func String(rec Record, keys ...string) string {
	for _, key := range keys {
		if v := Classify(rec[key]); v.Kind == KindScalar {
			return v.Str
		}
	}
	return ""
}

// Bool resolves a flag field. Absent, null and unrecognized values resolve
// to false.
func Bool(rec Record, key string) bool {
	switch t := rec[key].(type) {
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case string:
		return strings.EqualFold(t, "true") || t == "1"
	default:
		return false
	}
}

// Int resolves a count field, accepting numeric or numeric-string input.
func Int(rec Record, key string, def int) int {
	switch t := rec[key].(type) {
	case float64:
		if math.IsNaN(t) {
			return def
		}
		return int(t)
	case int:
		return t
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return int(n)
		}
		return def
	default:
		return def
	}
}

// List normalizes a field to a plain sequence. A sequence wrapped in a
// size-1 container is unwrapped; absent, null or empty input yields def.
func List(v any, def []any) []any {
	c := Classify(v)
	if c.Kind != KindList || len(c.List) == 0 {
		return def
	}
	if len(c.List) == 1 {
		if inner, ok := c.List[0].([]any); ok {
			if len(inner) == 0 {
				return def
			}
			return inner
		}
	}
	return c.List
}

// FieldList resolves rec[key] as a list with an empty default.
func FieldList(rec Record, key string) []any {
	return List(rec[key], nil)
}

// Label resolves a nested label object to its display string: label if
// present, else name, else a best-effort string form of the whole value.
func Label(v any) string {
	switch c := Classify(v); c.Kind {
	case KindAbsent:
		return ""
	case KindList:
		return fmt.Sprintf("%v", c.List)
	default:
		return c.Str
	}
}

// FirstLabel resolves a single-object-or-list field to a display label,
// using the first element when the field is a list.
func FirstLabel(v any) string {
	if c := Classify(v); c.Kind == KindList {
		if len(c.List) == 0 {
			return ""
		}
		return Label(c.List[0])
	}
	return Label(v)
}

// JoinLabels produces one display string from a list of label objects,
// joining each element's resolved label with ", ". Non-object elements are
// stringified directly. Non-list input resolves as a single label.
func JoinLabels(v any) string {
	c := Classify(v)
	if c.Kind != KindList {
		if c.Kind == KindAbsent {
			return ""
		}
		return c.Str
	}
	parts := make([]string, 0, len(c.List))
	for _, item := range c.List {
		if obj, ok := item.(map[string]any); ok {
			parts = append(parts, labelOf(obj))
		} else {
			parts = append(parts, scalarString(item))
		}
	}
	return strings.Join(parts, ", ")
}

// SortedKeys returns the map's keys in ascending order. Year-keyed
// expansions iterate in this order so row production stays deterministic.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func labelOf(obj map[string]any) string {
	if s := scalarString(obj["label"]); s != "" {
		return s
	}
	if s := scalarString(obj["name"]); s != "" {
		return s
	}
	return fmt.Sprintf("%v", obj)
}

// scalarString renders a scalar as its canonical string form. JSON numbers
// arrive as float64; integral values render without a fractional part so
// identifiers like SIREN survive the round-trip.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if math.IsNaN(t) {
			return ""
		}
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
