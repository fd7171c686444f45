package pipeline

import (
	"time"

	"github.com/kbukum/pipelayer/errors"
	"github.com/kbukum/pipelayer/manifest"
)

// RunState is the lifecycle state of a Pipeline.
type RunState int

const (
	Idle RunState = iota
	Running
	Complete
)

func (s RunState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Complete:
		return "Complete"
	}
	return "Unknown"
}

const defaultPipelineName = "Pipeline"

// Pipeline runs an ordered list of steps, feeding each step's output to the
// next and recording a manifest of the run. A Pipeline must not be run
// from several goroutines at once.
type Pipeline struct {
	name      string
	steps     []Step
	observers []Observer
	clock     func() time.Time

	state    RunState
	runID    string
	manifest *manifest.Entry
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithObserver registers observers notified for every step of a run,
// including the steps of nested pipelines and switches.
func WithObserver(obs ...Observer) Option {
	return func(p *Pipeline) { p.observers = append(p.observers, obs...) }
}

// WithClock replaces time.Now for manifest timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.clock = now
		}
	}
}

// New classifies steps and returns a Pipeline. An empty name defaults to
// "Pipeline".
func New(name string, steps ...any) (*Pipeline, error) {
	return NewWithOptions(name, steps)
}

// MustNew is like New but panics on error.
func MustNew(name string, steps ...any) *Pipeline {
	p, err := New(name, steps...)
	if err != nil {
		panic(err)
	}
	return p
}

// NewWithOptions is New with options.
func NewWithOptions(name string, steps []any, opts ...Option) (*Pipeline, error) {
	if name == "" {
		name = defaultPipelineName
	}
	p := &Pipeline{name: name, clock: time.Now, steps: make([]Step, 0, len(steps))}
	for i, v := range steps {
		s, err := Classify(v)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				return nil, appErr.WithDetail("index", i)
			}
			return nil, err
		}
		p.steps = append(p.steps, s)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Pipeline) Name() string { return p.name }

// Steps returns the resolved steps.
func (p *Pipeline) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

func (p *Pipeline) State() RunState { return p.state }

// RunID identifies the most recent Run in observer events, or "" before
// the first one.
func (p *Pipeline) RunID() string { return p.runID }

// Manifest returns the trace of the most recent Run, or nil before the
// first one. After a failed run the failing entry and the root are left
// unclosed.
func (p *Pipeline) Manifest() *manifest.Entry { return p.manifest }

// Run feeds data through the steps and returns the last step's output.
// A nil ctx is replaced by Background. Errors from steps are returned as
// they were produced and stop the run.
func (p *Pipeline) Run(data any, ctx Context) (any, error) {
	if ctx == nil {
		ctx = Background()
	}
	p.state = Running
	defer func() { p.state = Complete }()

	r := newRunner(p.clock)
	p.runID = r.id
	defer r.push(p.observers)()

	root := manifest.Open(p.name, manifest.KindPipeline, r.now())
	p.manifest = root

	ev := StepEvent{RunID: r.id, Pipeline: p.name, Entry: root}
	r.started(ctx, ev)
	out, err := p.runSteps(data, ctx, r, root, 0)
	if err != nil {
		r.finished(ctx, ev, err)
		return nil, err
	}
	root.Close(r.now())
	r.finished(ctx, ev, nil)
	return out, nil
}

// execute runs p as a step of an enclosing run, recording into entry.
func (p *Pipeline) execute(data any, ctx Context, r *runner, entry *manifest.Entry, depth int) (any, error) {
	defer r.push(p.observers)()
	return p.runSteps(data, ctx, r, entry, depth)
}

func (p *Pipeline) runSteps(data any, ctx Context, r *runner, entry *manifest.Entry, depth int) (any, error) {
	for _, s := range p.steps {
		var err error
		data, err = r.step(s, data, ctx, entry, p.name, depth+1)
		if err != nil {
			return nil, err
		}
		if r.cancelled {
			break
		}
	}
	return data, nil
}
