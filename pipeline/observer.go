package pipeline

import "github.com/kbukum/pipelayer/manifest"

// StepEvent describes a manifest entry as it starts or finishes.
type StepEvent struct {
	// RunID identifies the top-level run the entry belongs to.
	RunID string
	// Pipeline is the name of the pipeline or switch that owns the entry.
	// For the root entry it is the pipeline's own name.
	Pipeline string
	Entry    *manifest.Entry
	// Depth is 0 for the root entry and grows by one per nesting level.
	Depth int
}

// Observer is notified as steps start and finish. StepFinished is called
// for every started entry, with the step's error if it failed; a failed
// entry is still unclosed when StepFinished sees it.
type Observer interface {
	StepStarted(ctx Context, ev StepEvent)
	StepFinished(ctx Context, ev StepEvent, err error)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Started  func(ctx Context, ev StepEvent)
	Finished func(ctx Context, ev StepEvent, err error)
}

func (o ObserverFuncs) StepStarted(ctx Context, ev StepEvent) {
	if o.Started != nil {
		o.Started(ctx, ev)
	}
}

func (o ObserverFuncs) StepFinished(ctx Context, ev StepEvent, err error) {
	if o.Finished != nil {
		o.Finished(ctx, ev, err)
	}
}
