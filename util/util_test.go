package util

import "testing"

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "Pipeline"); got != "Pipeline" {
		t.Errorf("expected 'Pipeline', got %q", got)
	}
	if got := Coalesce("Outer", "Pipeline"); got != "Outer" {
		t.Errorf("expected 'Outer', got %q", got)
	}
	if got := Coalesce[int](); got != 0 {
		t.Errorf("expected zero value, got %d", got)
	}
}

func TestContains(t *testing.T) {
	if !Contains([]string{"json", "yaml"}, "yaml") {
		t.Error("expected yaml to be found")
	}
	if Contains([]string{"json"}, "dot") {
		t.Error("expected dot not to be found")
	}
}
