// Package pipeline runs a value through an ordered list of steps and
// records a manifest of what ran.
//
// A step is anything Classify accepts: a plain function taking the data and
// a Context, a Filter (a named unit of work with Start, End and Exit events
// and optional pre/post transforms), a nested *Pipeline or a *Switch. Steps
// are resolved once, when the Pipeline or Switch is built.
//
// # Usage
//
//	p, err := pipeline.New("Greeting",
//	    &HelloFilter{},
//	    func(data any, ctx pipeline.Context) (any, error) { return strings.ToUpper(data.(string)), nil },
//	)
//	out, err := p.Run("world", pipeline.NewContext(ctx, settings, log))
//	text, err := manifest.Render(p.Manifest(), 4)
//
// # Events
//
// Filters opt into events by wrapping their body with RaiseEvents. A Start
// handler may set ActionSkip to bypass the body, or ActionExit to bypass it
// and stop the run. ActionExit stops every enclosing pipeline after the
// current step, however deeply the filter is nested.
//
// # Errors
//
// Classification failures carry the INVALID_STEP or SEALED_TYPE codes from
// the errors package. Errors returned by steps are passed through untouched;
// the failing entry and its ancestors stay unclosed in the manifest.
//
// # Observers
//
// WithObserver attaches instrumentation to every step of a run, nested ones
// included. See NewLoggingObserver and NewTracingObserver for the zerolog
// and OpenTelemetry flavours.
package pipeline
