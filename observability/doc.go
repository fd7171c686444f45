// Package observability wires OpenTelemetry tracing and metrics for
// pipeline runs.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, &cfg, log)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineRun)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, &cfg, log)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter(observability.TracerName))
//	metrics.RecordStep(ctx, "Pipeline", "FnA", "Function", "ok", duration)
//
// Health Checks:
//
//	health := observability.CheckAll(ctx, "hello-service", version.Short(), endpoint)
package observability
