package pipeline

import (
	"github.com/kbukum/pipelayer/errors"
)

// Filter is a named, stateful step with lifecycle events.
type Filter interface {
	// Name may be empty, in which case the filter's type name is used.
	Name() string
	Run(data any, ctx Context) (any, error)
	Events() *Events
}

// PreProcessor is implemented by filters with a transform that runs before
// Run. A nil Func means there is none.
type PreProcessor interface {
	PreProcess() Func
}

// PostProcessor is implemented by filters with a transform that runs after
// Run. A nil Func means there is none.
type PostProcessor interface {
	PostProcess() Func
}

// Base is embedded by concrete filters. It supplies the name, the event
// lists and the optional pre/post transforms; the embedding type provides
// Run.
//
//	type Hello struct{ pipeline.Base }
//
//	func (h *Hello) Run(data any, ctx pipeline.Context) (any, error) {
//		return pipeline.RaiseEvents(h, h.greet)(data, ctx)
//	}
type Base struct {
	name   string
	pre    Func
	post   Func
	events Events
}

// FilterOption configures a Base.
type FilterOption func(*Base)

// WithPreProcess sets the transform run before the filter.
func WithPreProcess(fn Func) FilterOption {
	return func(b *Base) { b.pre = fn }
}

// WithPostProcess sets the transform run after the filter.
func WithPostProcess(fn Func) FilterOption {
	return func(b *Base) { b.post = fn }
}

// NewBase returns a Base for embedding. An empty name defers to the
// embedding type's name.
func NewBase(name string, opts ...FilterOption) Base {
	b := Base{name: name}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *Base) Name() string { return b.name }

// Run fails with a NOT_IMPLEMENTED error. Embedding types override it.
func (b *Base) Run(any, Context) (any, error) {
	name := b.name
	if name == "" {
		name = "Filter"
	}
	return nil, errors.NotImplemented(name)
}

func (b *Base) Events() *Events { return &b.events }

func (b *Base) PreProcess() Func { return b.pre }

func (b *Base) PostProcess() Func { return b.post }

// RaiseEvents decorates run so that f's Start, End and Exit handlers fire
// around it.
//
// Start handlers run first. If one of them asks to Skip or Exit, the Exit
// handlers fire and the (possibly rewritten) data is returned without
// calling run. Otherwise run is called and the End handlers see its result;
// an End handler asking to Exit fires the Exit handlers and its data is
// returned instead.
func RaiseEvents(f Filter, run Func) Func {
	return func(data any, ctx Context) (any, error) {
		events := f.Events()

		args := &EventArgs{Data: data, Context: ctx, State: StateRunning}
		events.Start.Emit(f, args)

		switch args.Action {
		case ActionSkip, ActionExit:
			if args.Action == ActionSkip {
				args.State = StateSkipping
			} else {
				args.State = StateExiting
			}
			events.Exit.Emit(f, args)
			return args.Data, nil
		}

		result, err := run(args.Data, ctx)
		if err != nil {
			return nil, err
		}

		args = &EventArgs{Data: result, Context: ctx, State: StateCompleting}
		events.End.Emit(f, args)

		if args.Action == ActionExit {
			args.State = StateExiting
			events.Exit.Emit(f, args)
			return args.Data, nil
		}
		return result, nil
	}
}
