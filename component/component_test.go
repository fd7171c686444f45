package component

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	events   *[]string
}

func (m *mockComponent) Name() string { return m.name }

func (m *mockComponent) Start(ctx context.Context) error {
	*m.events = append(*m.events, "start:"+m.name)
	return m.startErr
}

func (m *mockComponent) Stop(ctx context.Context) error {
	*m.events = append(*m.events, "stop:"+m.name)
	return m.stopErr
}

func TestRegisterDuplicate(t *testing.T) {
	var events []string
	r := NewRegistry(nil)
	if err := r.Register(&mockComponent{name: "server", events: &events}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&mockComponent{name: "server", events: &events}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	var events []string
	r := NewRegistry(nil)
	c := &mockComponent{name: "server", events: &events}
	_ = r.Register(c)

	if got := r.Get("server"); got != c {
		t.Errorf("Get returned %v", got)
	}
	if got := r.Get("missing"); got != nil {
		t.Errorf("expected nil for unknown component, got %v", got)
	}
}

func TestStartStopOrder(t *testing.T) {
	var events []string
	r := NewRegistry(nil)
	for _, name := range []string{"tracer", "meter", "server"} {
		_ = r.Register(&mockComponent{name: name, events: &events})
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	want := "start:tracer start:meter start:server stop:server stop:meter stop:tracer"
	if got := strings.Join(events, " "); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
	if names := strings.Join(r.Names(), ","); names != "tracer,meter,server" {
		t.Errorf("Names() = %q", names)
	}
}

func TestStartAllError(t *testing.T) {
	var events []string
	boom := errors.New("bind failed")
	r := NewRegistry(nil)
	_ = r.Register(&mockComponent{name: "tracer", events: &events})
	_ = r.Register(&mockComponent{name: "server", startErr: boom, events: &events})
	_ = r.Register(&mockComponent{name: "late", events: &events})

	err := r.StartAll(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected the start error to be wrapped, got %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	want := "start:tracer start:server stop:tracer"
	if got := strings.Join(events, " "); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	var events []string
	e1, e2 := errors.New("flush failed"), errors.New("close failed")
	r := NewRegistry(nil)
	_ = r.Register(&mockComponent{name: "a", stopErr: e1, events: &events})
	_ = r.Register(&mockComponent{name: "b", stopErr: e2, events: &events})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("expected both stop errors, got %v", err)
	}
	if len(events) != 4 {
		t.Errorf("expected every component to be stopped, got %v", events)
	}

	if err := r.StopAll(context.Background()); err != nil {
		t.Errorf("second StopAll should be a no-op, got %v", err)
	}
}

func TestStarted(t *testing.T) {
	stopped := false
	r := NewRegistry(nil)
	if err := r.Started(Stopper("tracer", func(context.Context) error {
		stopped = true
		return nil
	})); err != nil {
		t.Fatalf("Started failed: %v", err)
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if !stopped {
		t.Error("expected the stopper to run")
	}
}

func TestFuncNilHooks(t *testing.T) {
	f := Func{ID: "noop"}
	if err := f.Start(context.Background()); err != nil {
		t.Errorf("Start: %v", err)
	}
	if err := f.Stop(context.Background()); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if f.Name() != "noop" {
		t.Errorf("Name() = %q", f.Name())
	}
}
