package pipeline

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/kbukum/pipelayer/errors"
	"github.com/kbukum/pipelayer/manifest"
)

func TestClassify_Nil(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"untyped nil", nil},
		{"nil Func", Func(nil)},
		{"nil func literal type", (func(any, Context) (any, error))(nil)},
		{"nil pipeline", (*Pipeline)(nil)},
		{"nil switch", (*Switch)(nil)},
		{"nil filter pointer", (*upperFilter)(nil)},
		{"zero Step", Step{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Classify(tc.value)
			if !errors.IsCode(err, errors.ErrCodeInvalidStep) {
				t.Errorf("expected INVALID_STEP, got %v", err)
			}
		})
	}
}

func TestClassify_Kinds(t *testing.T) {
	inner := MustNew("Inner", FnA)
	sw := MustNewSwitch(FnA, Cases{1: FnB})

	tests := []struct {
		name     string
		value    any
		wantName string
		wantKind manifest.Kind
	}{
		{"named func", FnA, "FnA", manifest.KindFunction},
		{"Func", Func(FnB), "FnB", manifest.KindFunction},
		{"typed func", addTen, "addTen", manifest.KindFunction},
		{"filter", &upperFilter{}, "upperFilter", manifest.KindFilter},
		{"named filter", &upperFilter{Base: NewBase("Shout")}, "Shout", manifest.KindFilter},
		{"filter type", reflect.TypeOf(upperFilter{}), "upperFilter", manifest.KindFilter},
		{"filter pointer type", reflect.TypeOf(&upperFilter{}), "upperFilter", manifest.KindFilter},
		{"pipeline", inner, "Inner", manifest.KindPipeline},
		{"switch", sw, "Switch", manifest.KindSwitch},
		{"step", FunctionStep("custom", FnA), "custom", manifest.KindFunction},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Classify(tc.value)
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if s.Name() != tc.wantName {
				t.Errorf("expected name %q, got %q", tc.wantName, s.Name())
			}
			if s.Kind() != tc.wantKind {
				t.Errorf("expected kind %s, got %s", tc.wantKind, s.Kind())
			}
		})
	}
}

func TestClassify_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		detail string
	}{
		{"one argument", func(d any) any { return d }, "arity"},
		{"three arguments", func(d any, c Context, x int) any { return d }, "arity"},
		{"variadic", func(d any, c ...Context) any { return d }, "arity"},
		{"wrong context", func(d any, c string) any { return d }, "type"},
		{"no result", func(d any, c Context) {}, "type"},
		{"non-error second result", func(d any, c Context) (any, int) { return d, 0 }, "type"},
		{"integer", 42, "type"},
		{"string", "step", "type"},
		{"struct value", upperFilter{}, "type"},
		{"non-filter type", reflect.TypeOf(42), "type"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Classify(tc.value)
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != errors.ErrCodeInvalidStep {
				t.Fatalf("expected INVALID_STEP, got %v", err)
			}
			if _, ok := appErr.Details[tc.detail]; !ok {
				t.Errorf("expected detail %q, got %v", tc.detail, appErr.Details)
			}
		})
	}
}

func TestClassify_Arity(t *testing.T) {
	_, err := Classify(func(d any) any { return d })
	appErr, _ := errors.AsAppError(err)
	if appErr == nil || appErr.Details["arity"] != 1 {
		t.Fatalf("expected arity 1 in details, got %v", err)
	}
}

func TestClassify_Sealed(t *testing.T) {
	tests := []struct {
		name  string
		value any
		base  string
	}{
		{"embedded pipeline pointer", &derivedPipeline{Pipeline: MustNew("P", FnA)}, "Pipeline"},
		{"embedded switch", &derivedSwitch{}, "Switch"},
		{"embedded switch type", reflect.TypeOf(derivedSwitch{}), "Switch"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Classify(tc.value)
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != errors.ErrCodeSealedType {
				t.Fatalf("expected SEALED_TYPE, got %v", err)
			}
			if appErr.Details["base"] != tc.base {
				t.Errorf("expected base %s, got %v", tc.base, appErr.Details["base"])
			}
		})
	}
}

func TestClassify_Idempotent(t *testing.T) {
	lambda := func(d any, c Context) (any, error) { return d, nil }
	filter := &upperFilter{}
	for _, v := range []any{FnA, addTen, lambda, filter, reflect.TypeOf(upperFilter{}), MustNew("P", FnA)} {
		first, err := Classify(v)
		if err != nil {
			t.Fatalf("Classify(%T): %v", v, err)
		}
		second, _ := Classify(v)
		if first.Name() != second.Name() || first.Kind() != second.Kind() {
			t.Errorf("expected stable classification for %T: (%s, %s) then (%s, %s)",
				v, first.Name(), first.Kind(), second.Name(), second.Kind())
		}
	}
}

func TestClassify_AnonymousName(t *testing.T) {
	s, err := Classify(func(d any, c Context) (any, error) { return d, nil })
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(s.Name(), "[") || !strings.HasSuffix(s.Name(), "]") {
		t.Errorf("expected bracketed name, got %q", s.Name())
	}
	if !strings.Contains(s.Name(), "func(d any, c Context)") {
		t.Errorf("expected source text in name, got %q", s.Name())
	}
}

func TestClassify_MethodValueName(t *testing.T) {
	f := &upperFilter{}
	if got := FunctionStep("", f.upper).Name(); got != "upper" {
		t.Errorf("expected method name upper, got %q", got)
	}
}

func TestClassify_ReflectedFunc(t *testing.T) {
	s := MustClassify(addTen)
	out, err := s.run(5, Background())
	if err != nil {
		t.Fatal(err)
	}
	if out != 15 {
		t.Errorf("expected 15, got %v", out)
	}

	_, err = s.run("five", Background())
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for mismatched data, got %v", err)
	}
	_, err = s.run(nil, Background())
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for nil data, got %v", err)
	}
}

func TestClassify_ReflectedFuncWithError(t *testing.T) {
	boom := fmt.Errorf("boom")
	describe := func(n int, ctx context.Context) (string, error) {
		if n < 0 {
			return "", boom
		}
		return fmt.Sprintf("n=%d", n), nil
	}
	s := MustClassify(describe)

	out, err := s.run(3, Background())
	if err != nil || out != "n=3" {
		t.Errorf("expected n=3, got %v, %v", out, err)
	}
	if _, err := s.run(-1, Background()); err != boom {
		t.Errorf("expected the step's own error, got %v", err)
	}
}

func TestClassify_InterfaceData(t *testing.T) {
	s := MustClassify(func(d fmt.Stringer, c Context) string {
		if d == nil {
			return "<nil>"
		}
		return d.String()
	})
	out, err := s.run(nil, Background())
	if err != nil || out != "<nil>" {
		t.Errorf("expected nil interface argument, got %v, %v", out, err)
	}
}

func TestLiteralText(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`	p := MustNew("P", func(d any, c Context) (any, error) { return d, nil })`, `func(d any, c Context) (any, error) { return d, nil }`},
		{`	f := func(d interface{}, c Context) interface{} { return d }`, `func(d interface{}, c Context) interface{} { return d }`},
		{`	fn := func(d any, c Context) (any, error) {`, `func(d any, c Context) (any, error) {`},
		{`	m := map[string]any{"a": func(d any, c Context) any { return map[string]int{"x": 1} }}`, `func(d any, c Context) any { return map[string]int{"x": 1} }`},
	}
	for _, tc := range tests {
		if got := literalText(tc.src); got != tc.want {
			t.Errorf("literalText(%q) = %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestShortName(t *testing.T) {
	tests := map[string]string{
		"github.com/kbukum/pipelayer/pipeline.FnA":      "FnA",
		"main.(*HelloFilter).createResponse":            "createResponse",
		"github.com/acme/steps.Map[...]":                "Map",
		"github.com/kbukum/pipelayer/cmd/pipelayer.run": "run",
	}
	for in, want := range tests {
		if got := shortName(in); got != want {
			t.Errorf("shortName(%q) = %q, want %q", in, got, want)
		}
	}
}
