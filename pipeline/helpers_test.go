package pipeline

import (
	"strings"
	"time"
)

func FnA(data any, _ Context) (any, error) { return data.(int) + 1, nil }

func FnB(data any, _ Context) (any, error) { return data.(int) * 2, nil }

func addTen(n int, _ Context) int { return n + 10 }

// upperFilter upper-cases strings and counts how often its body ran.
type upperFilter struct {
	Base
	runs int
}

func (f *upperFilter) Run(data any, ctx Context) (any, error) {
	return RaiseEvents(f, f.upper)(data, ctx)
}

func (f *upperFilter) upper(data any, _ Context) (any, error) {
	f.runs++
	return strings.ToUpper(data.(string)), nil
}

// lazyFilter never overrides Run.
type lazyFilter struct {
	Base
}

type derivedPipeline struct {
	*Pipeline
}

type derivedSwitch struct {
	Switch
	Base
}

// recorder returns steps that log their name when they run.
type recorder struct {
	ran []string
}

func (r *recorder) step(name string) Func {
	return func(data any, _ Context) (any, error) {
		r.ran = append(r.ran, name)
		return data, nil
	}
}

// exitOnStart makes f ask to exit as soon as it starts, replacing the data.
func exitOnStart(f Filter, data any) {
	f.Events().Start.Subscribe(func(_ Filter, args *EventArgs) {
		args.Action = ActionExit
		args.Data = data
	})
}

// tickingClock advances one second per call.
func tickingClock() func() time.Time {
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}
