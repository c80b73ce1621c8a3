package record

import (
	"math"
	"reflect"
	"testing"
)

func TestResolver_Unit_String(t *testing.T) {
	rec := Record{
		"socialName": "Acme",
		"empty":      "",
		"num":        float64(42),
		"nested":     map[string]any{"label": "X"},
		"seq":        []any{"a"},
	}

	if got := String(rec, "socialName"); got != "Acme" {
		t.Errorf("String(socialName) = %q", got)
	}
	if got := String(rec, "missing"); got != "" {
		t.Errorf("String(missing) = %q, want empty", got)
	}
	if got := String(rec, "empty", "socialName"); got != "Acme" {
		t.Errorf("fallback chain = %q, want Acme", got)
	}
	if got := String(rec, "num"); got != "42" {
		t.Errorf("String(num) = %q, want 42", got)
	}
	// Structured values never resolve as scalars.
	if got := String(rec, "nested"); got != "" {
		t.Errorf("String(nested) = %q, want empty", got)
	}
	if got := String(rec, "seq"); got != "" {
		t.Errorf("String(seq) = %q, want empty", got)
	}
}

func TestResolver_Unit_StringFalsyScalarsAreMissing(t *testing.T) {
	rec := Record{
		"zero":     float64(0),
		"flag":     false,
		"textZero": "0",
		"backup":   "Acme",
	}

	// Numeric zero and false count as missing and fall through the chain.
	if got := String(rec, "zero", "backup"); got != "Acme" {
		t.Errorf("String(zero, backup) = %q, want Acme", got)
	}
	if got := String(rec, "flag"); got != "" {
		t.Errorf("String(flag) = %q, want empty", got)
	}
	// A textual zero is a real value and survives.
	if got := String(rec, "textZero"); got != "0" {
		t.Errorf("String(textZero) = %q, want 0", got)
	}
}

func TestResolver_Unit_List(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want []any
	}{
		{"nil", nil, nil},
		{"empty", []any{}, nil},
		{"plain", []any{"a", "b"}, []any{"a", "b"}},
		{"wrapped", []any{[]any{"a", "b"}}, []any{"a", "b"}},
		{"wrapped empty", []any{[]any{}}, nil},
		{"scalar", "x", nil},
		{"single scalar element", []any{"x"}, []any{"x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := List(tc.in, nil)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("List(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestResolver_Unit_Label(t *testing.T) {
	if got := Label(map[string]any{"label": "Paris"}); got != "Paris" {
		t.Errorf("Label = %q", got)
	}
	if got := Label(map[string]any{"name": "Jane"}); got != "Jane" {
		t.Errorf("Label name fallback = %q", got)
	}
	if got := Label("plain"); got != "plain" {
		t.Errorf("Label scalar = %q", got)
	}
	if got := Label(nil); got != "" {
		t.Errorf("Label(nil) = %q", got)
	}
}

func TestResolver_Unit_FirstLabel(t *testing.T) {
	if got := FirstLabel([]any{map[string]any{"label": "75"}, map[string]any{"label": "92"}}); got != "75" {
		t.Errorf("FirstLabel list = %q", got)
	}
	if got := FirstLabel(map[string]any{"label": "FR"}); got != "FR" {
		t.Errorf("FirstLabel object = %q", got)
	}
	if got := FirstLabel([]any{}); got != "" {
		t.Errorf("FirstLabel empty list = %q", got)
	}
}

func TestResolver_Unit_JoinLabels(t *testing.T) {
	in := []any{
		map[string]any{"label": "Agro"},
		map[string]any{"name": "Retail"},
		"Energy",
	}
	if got := JoinLabels(in); got != "Agro, Retail, Energy" {
		t.Errorf("JoinLabels = %q", got)
	}
	if got := JoinLabels(nil); got != "" {
		t.Errorf("JoinLabels(nil) = %q", got)
	}
	if got := JoinLabels("solo"); got != "solo" {
		t.Errorf("JoinLabels scalar = %q", got)
	}
}

func TestResolver_Unit_ScalarString(t *testing.T) {
	if got := scalarString(math.NaN()); got != "" {
		t.Errorf("scalarString(NaN) = %q, want empty", got)
	}
	if got := scalarString(float64(123456789)); got != "123456789" {
		t.Errorf("scalarString integral float = %q", got)
	}
	if got := scalarString(1.5); got != "1.5" {
		t.Errorf("scalarString fraction = %q", got)
	}
}

func TestResolver_Unit_Classify(t *testing.T) {
	if v := Classify(nil); v.Kind != KindAbsent {
		t.Errorf("Classify(nil).Kind = %v", v.Kind)
	}
	if v := Classify("x"); v.Kind != KindScalar || v.Str != "x" {
		t.Errorf("Classify scalar = %+v", v)
	}
	if v := Classify([]any{1.0}); v.Kind != KindList {
		t.Errorf("Classify list = %+v", v)
	}
	v := Classify(map[string]any{"label": "L", "id": "7"})
	if v.Kind != KindLabel || v.Str != "L" || v.ID != "7" {
		t.Errorf("Classify label = %+v", v)
	}

	// Falsy scalars classify as absent; truthy ones stay scalar.
	for _, falsy := range []any{float64(0), 0, false, math.NaN(), ""} {
		if v := Classify(falsy); v.Kind != KindAbsent {
			t.Errorf("Classify(%v).Kind = %v, want KindAbsent", falsy, v.Kind)
		}
	}
	if v := Classify(true); v.Kind != KindScalar || v.Str != "true" {
		t.Errorf("Classify(true) = %+v", v)
	}
	if v := Classify(float64(7)); v.Kind != KindScalar || v.Str != "7" {
		t.Errorf("Classify(7) = %+v", v)
	}
}
