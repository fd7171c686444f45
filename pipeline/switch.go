package pipeline

import (
	"fmt"
	"reflect"
	"time"

	"github.com/kbukum/pipelayer/errors"
	"github.com/kbukum/pipelayer/manifest"
)

type defaultLabel struct{}

// Default is the case label used when no other label matches.
var Default any = defaultLabel{}

// defaultEntryName names the placeholder entry recorded when nothing
// matched and there is no Default case.
const defaultEntryName = "Default"

const defaultSwitchName = "Switch"

// Cases maps labels to case steps. Values are anything Classify accepts.
type Cases map[any]any

// Switch evaluates an expression step and runs the single case whose label
// equals the result.
type Switch struct {
	name       string
	expression Step
	cases      map[any]Step
	clock      func() time.Time

	manifest *manifest.Entry
}

// SwitchOption configures a Switch.
type SwitchOption func(*Switch)

// WithSwitchName overrides the default "Switch" name.
func WithSwitchName(name string) SwitchOption {
	return func(s *Switch) {
		if name != "" {
			s.name = name
		}
	}
}

// NewSwitch classifies the expression and every case.
func NewSwitch(expression any, cases Cases, opts ...SwitchOption) (*Switch, error) {
	expr, err := Classify(expression)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return nil, appErr.WithDetail("expression", true)
		}
		return nil, err
	}

	s := &Switch{
		name:       defaultSwitchName,
		expression: expr,
		cases:      make(map[any]Step, len(cases)),
		clock:      time.Now,
	}
	for label, v := range cases {
		step, err := Classify(v)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				return nil, appErr.WithDetail("label", fmt.Sprint(label))
			}
			return nil, err
		}
		s.cases[label] = step
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MustNewSwitch is like NewSwitch but panics on error.
func MustNewSwitch(expression any, cases Cases, opts ...SwitchOption) *Switch {
	s, err := NewSwitch(expression, cases, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Switch) Name() string { return s.name }

// Manifest returns the trace of the most recent standalone Run.
func (s *Switch) Manifest() *manifest.Entry { return s.manifest }

// Run evaluates the switch on its own, outside any pipeline.
func (s *Switch) Run(data any, ctx Context) (any, error) {
	if ctx == nil {
		ctx = Background()
	}
	r := newRunner(s.clock)
	root := manifest.Open(s.name, manifest.KindSwitch, r.now())
	s.manifest = root

	out, err := s.execute(data, ctx, r, root, 0)
	if err != nil {
		return nil, err
	}
	root.Close(r.now())
	return out, nil
}

func (s *Switch) execute(data any, ctx Context, r *runner, entry *manifest.Entry, depth int) (any, error) {
	label, err := r.evaluate(s.expression, data, ctx)
	if err != nil {
		return nil, err
	}

	c, ok := s.match(label)
	if !ok {
		placeholder := manifest.Open(defaultEntryName, manifest.KindFunction, r.now())
		ev := StepEvent{RunID: r.id, Pipeline: s.name, Entry: placeholder, Depth: depth + 1}
		r.started(ctx, ev)
		placeholder.Close(r.now())
		entry.Append(placeholder)
		r.finished(ctx, ev, nil)
		return data, nil
	}
	return r.step(c, data, ctx, entry, s.name, depth+1)
}

// match finds the case for label, falling back to the Default case.
// Labels whose dynamic type is not comparable never match.
func (s *Switch) match(label any) (Step, bool) {
	if label == nil || reflect.ValueOf(label).Comparable() {
		if c, ok := s.cases[label]; ok {
			return c, true
		}
	}
	c, ok := s.cases[Default]
	return c, ok
}
