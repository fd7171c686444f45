// Package server exposes pipelines over HTTP using Gin, serving HTTP/1.1
// and h2c on one port.
//
// A PipelineEndpoint feeds each request body through one pipeline. Runs
// on the same endpoint are serialized, since a Pipeline must not run
// concurrently, and each run gets a Context built from the request context,
// the configured settings and a logger tagged with the request id.
//
//	srv := server.New(cfg, log)
//	ep := server.NewPipelineEndpoint(p,
//	    server.WithBinder(server.BindStruct[HelloRequest]()),
//	    server.WithSettings(settings),
//	    server.WithLogger(log),
//	)
//	srv.ApplyDefaults("pipelayer", ep)
//	ep.Register(srv.GinEngine(), "/hello")
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: X-Request-Id generation and propagation
//   - BodySizeLimit: request body size limits
//   - RequestLogger: request logging with duration tracking
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: health check aggregation
//   - /alive: liveness probe
//   - /ready: readiness probe
//   - /info: build information
//
// A PipelineEndpoint adds POST <path> and GET <path>/manifest, the latter
// rendering the latest run's manifest as json, yaml or dot.
package server
