package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/pipelayer/manifest"
)

// runner holds the state shared by every level of one top-level run: the
// run id, the clock, the active observers and the cancellation flag raised
// by a filter's Exit action.
type runner struct {
	id        string
	clock     func() time.Time
	observers []Observer
	cancelled bool
}

func newRunner(clock func() time.Time) *runner {
	if clock == nil {
		clock = time.Now
	}
	return &runner{id: uuid.NewString(), clock: clock}
}

func (r *runner) now() time.Time { return r.clock() }

func (r *runner) cancel() { r.cancelled = true }

// push adds observers for the duration of a nested run and returns the
// function restoring the previous set.
func (r *runner) push(obs []Observer) func() {
	if len(obs) == 0 {
		return func() {}
	}
	prev := r.observers
	r.observers = append(prev[:len(prev):len(prev)], obs...)
	return func() { r.observers = prev }
}

func (r *runner) started(ctx Context, ev StepEvent) {
	for _, o := range r.observers {
		o.StepStarted(ctx, ev)
	}
}

func (r *runner) finished(ctx Context, ev StepEvent, err error) {
	for i := len(r.observers) - 1; i >= 0; i-- {
		r.observers[i].StepFinished(ctx, ev, err)
	}
}

// step runs s as a child of parent. The child entry is appended to parent
// whether or not s fails; on failure it is left unclosed.
func (r *runner) step(s Step, data any, ctx Context, parent *manifest.Entry, owner string, depth int) (any, error) {
	entry := manifest.Open(s.name, s.kind, r.now())
	ev := StepEvent{RunID: r.id, Pipeline: owner, Entry: entry, Depth: depth}
	r.started(ctx, ev)

	out, err := r.invoke(s, data, ctx, entry, depth)
	if err != nil {
		parent.Append(entry)
		r.finished(ctx, ev, err)
		return nil, err
	}
	entry.Close(r.now())
	parent.Append(entry)
	r.finished(ctx, ev, nil)
	return out, nil
}

func (r *runner) invoke(s Step, data any, ctx Context, entry *manifest.Entry, depth int) (any, error) {
	switch s.kind {
	case manifest.KindPipeline:
		return s.pipeline.execute(data, ctx, r, entry, depth)
	case manifest.KindSwitch:
		return s.sw.execute(data, ctx, r, entry, depth)
	case manifest.KindFilter:
		return r.filter(s, data, ctx, entry)
	default:
		return s.run(data, ctx)
	}
}

// filter runs pre_process, the filter and post_process. While the filter
// runs, an Exit action on it cancels the whole run.
func (r *runner) filter(s Step, data any, ctx Context, entry *manifest.Entry) (any, error) {
	var err error
	if s.pre != nil {
		entry.PreProcess = manifest.Open(s.preName, manifest.KindFunction, r.now())
		if data, err = s.pre(data, ctx); err != nil {
			return nil, err
		}
		entry.PreProcess.Close(r.now())
	}

	if events := s.filter.Events(); events != nil {
		sub := events.Exit.Subscribe(func(_ Filter, args *EventArgs) {
			if args.Action == ActionExit {
				r.cancel()
			}
		})
		data, err = s.run(data, ctx)
		events.Exit.Unsubscribe(sub)
	} else {
		data, err = s.run(data, ctx)
	}
	if err != nil {
		return nil, err
	}

	if s.post != nil {
		entry.PostProcess = manifest.Open(s.postName, manifest.KindFunction, r.now())
		if data, err = s.post(data, ctx); err != nil {
			return nil, err
		}
		entry.PostProcess.Close(r.now())
	}
	return data, nil
}

// evaluate runs a switch expression. Nothing it does is recorded, and an
// Exit raised inside it does not cancel the run.
func (r *runner) evaluate(s Step, data any, ctx Context) (any, error) {
	switch s.kind {
	case manifest.KindPipeline, manifest.KindSwitch:
		detached := &runner{id: r.id, clock: r.clock}
		scratch := manifest.Open(s.name, s.kind, r.now())
		return detached.invoke(s, data, ctx, scratch, 0)
	default:
		return s.run(data, ctx)
	}
}
