package component

import "context"

// Component is a lifecycle-managed part of a running service: the HTTP
// server, a telemetry provider, anything that must be started before use
// and released on shutdown.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component. It must not block.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error
}

// Func adapts a pair of functions into a Component. A nil start or stop
// is a no-op.
type Func struct {
	ID      string
	OnStart func(ctx context.Context) error
	OnStop  func(ctx context.Context) error
}

// Name returns the component name.
func (f Func) Name() string { return f.ID }

// Start calls OnStart when set.
func (f Func) Start(ctx context.Context) error {
	if f.OnStart == nil {
		return nil
	}
	return f.OnStart(ctx)
}

// Stop calls OnStop when set.
func (f Func) Stop(ctx context.Context) error {
	if f.OnStop == nil {
		return nil
	}
	return f.OnStop(ctx)
}

// Stopper wraps a shutdown function, such as a telemetry provider's
// Shutdown, as a component with nothing to start.
func Stopper(name string, stop func(ctx context.Context) error) Component {
	return Func{ID: name, OnStop: stop}
}
