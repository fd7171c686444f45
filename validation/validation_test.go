package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/pipelayer/errors"
)

func TestValidatorRequired(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"present", "John", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New().Required("name", tt.value)
			if v.HasErrors() != tt.wantErr {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tt.wantErr)
			}
		})
	}
}

func TestValidatorOptionalUUID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"empty", "", false},
		{"valid", uuid.New().String(), false},
		{"invalid", "bad-uuid", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New().OptionalUUID("request_id", tt.value)
			if v.HasErrors() != tt.wantErr {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tt.wantErr)
			}
		})
	}
}

func TestValidatorMaxLength(t *testing.T) {
	if New().MaxLength("name", "short", 10).HasErrors() {
		t.Error("expected no error within limit")
	}
	v := New().MaxLength("name", "this is far too long", 10)
	if !v.HasErrors() {
		t.Fatal("expected error over limit")
	}
	if v.Errors()[0].Message != "must be 10 characters or less" {
		t.Errorf("unexpected message %q", v.Errors()[0].Message)
	}
}

func TestValidatorOneOf(t *testing.T) {
	formats := []string{"json", "yaml", "dot"}
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"", false},
		{"xml", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := New().OneOf("format", tt.value, formats)
			if v.HasErrors() != tt.wantErr {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tt.wantErr)
			}
		})
	}
}

func TestValidatorCustom(t *testing.T) {
	if New().Custom(true, "field", "custom error").HasErrors() {
		t.Error("expected no error for true condition")
	}
	v := New().Custom(false, "field", "custom error")
	if len(v.Errors()) != 1 || v.Errors()[0].Message != "custom error" {
		t.Errorf("unexpected errors %v", v.Errors())
	}
}

func TestValidatorValidate(t *testing.T) {
	if appErr := New().Required("name", "John").Validate(); appErr != nil {
		t.Errorf("expected nil for valid input, got %v", appErr)
	}

	appErr := New().Required("name", "").Required("email", "").Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("Code = %s, want %s", appErr.Code, errors.ErrCodeInvalidInput)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected two field errors in details, got %v", appErr.Details)
	}
	if !strings.Contains(appErr.Message, "name") || !strings.Contains(appErr.Message, "email") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
}

func TestValidatorErr_NilWhenClean(t *testing.T) {
	if err := New().Required("name", "x").Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
	if err := New().Required("name", "").Err(); err == nil {
		t.Error("expected error")
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	result := v.Required("name", "John").MaxLength("name", "John", 100).OneOf("format", "json", []string{"json"})
	if result != v {
		t.Error("expected chaining to return same validator")
	}
	if v.HasErrors() {
		t.Error("expected no errors for valid chained validation")
	}
}

type tracing struct {
	Endpoint   string  `mapstructure:"endpoint" validate:"required"`
	SampleRate float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

type settings struct {
	Name    string  `mapstructure:"name" validate:"required"`
	Format  string  `json:"format" validate:"oneof=json yaml dot"`
	Tracing tracing `mapstructure:"tracing"`
}

func TestStructValidateValid(t *testing.T) {
	s := settings{Name: "svc", Format: "json", Tracing: tracing{Endpoint: "localhost:4318", SampleRate: 0.5}}
	if err := Validate(s); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidate_FieldPaths(t *testing.T) {
	s := settings{Format: "xml", Tracing: tracing{SampleRate: 2}}
	err := Validate(s)
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	fields := appErr.Details["fields"].([]FieldError)
	got := make(map[string]string, len(fields))
	for _, f := range fields {
		got[f.Field] = f.Message
	}
	want := map[string]string{
		"name":                "is required",
		"format":              "must be one of: json yaml dot",
		"tracing.endpoint":    "is required",
		"tracing.sample_rate": "must be at most 1",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %q: message = %q, want %q", field, got[field], msg)
		}
	}
}

func TestStructValidate_UntaggedFieldSnakeCase(t *testing.T) {
	type input struct {
		RequestName string `validate:"required"`
	}
	err := Validate(input{})
	if err == nil || !strings.Contains(err.Error(), "request_name: is required") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestStructValidateMaxMin(t *testing.T) {
	type input struct {
		Code string `json:"code" validate:"required,min=3,max=10"`
	}

	if err := Validate(input{Code: "abc"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	if err := Validate(input{Code: "ab"}); err == nil {
		t.Error("expected error for code too short")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Name":       "name",
		"SampleRate": "sample_rate",
		"already":    "already",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
