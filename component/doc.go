// Package component manages the start and stop order of the parts of a
// running pipelayer service.
//
// Components are started in registration order and stopped in reverse,
// so a telemetry provider registered before the HTTP server outlives it
// and can flush the spans of the last requests.
//
//	reg := component.NewRegistry(log)
//	reg.Started(component.Stopper("tracer", tp.Shutdown))
//	reg.Register(srv)
//	if err := reg.StartAll(ctx); err != nil { ... }
//	defer reg.StopAll(context.Background())
package component
