package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/pipelayer/logger"
	"github.com/kbukum/pipelayer/observability"
)

// NewLoggingObserver logs every step. Successful steps are logged at debug
// level and failures at error level.
func NewLoggingObserver(log *logger.Logger) Observer {
	if log == nil {
		log = logger.Nop()
	}
	return &loggingObserver{log: log.WithComponent("pipeline")}
}

type loggingObserver struct {
	log *logger.Logger
}

func (o *loggingObserver) StepStarted(_ Context, ev StepEvent) {
	msg := "step started"
	if ev.Depth == 0 {
		msg = "pipeline run started"
	}
	o.log.Debug(msg, stepFields(ev))
}

func (o *loggingObserver) StepFinished(_ Context, ev StepEvent, err error) {
	fields := stepFields(ev)
	fields[logger.FieldDuration] = elapsed(ev).Milliseconds()

	if err != nil {
		fields[logger.FieldError] = err.Error()
		msg := "step failed"
		if ev.Depth == 0 {
			msg = "pipeline run failed"
		}
		o.log.Error(msg, fields)
		return
	}

	msg := "step completed"
	if ev.Depth == 0 {
		msg = "pipeline run completed"
	}
	o.log.Debug(msg, fields)
}

func stepFields(ev StepEvent) map[string]interface{} {
	return logger.Fields(
		logger.FieldRunID, ev.RunID,
		logger.FieldPipeline, ev.Pipeline,
		logger.FieldStep, ev.Entry.Name,
		logger.FieldStepType, string(ev.Entry.StepType),
		logger.FieldDepth, ev.Depth,
	)
}

// elapsed is the entry's recorded duration, or the time since it started
// when it was left unclosed.
func elapsed(ev StepEvent) time.Duration {
	if ev.Entry.Duration != nil {
		return *ev.Entry.Duration
	}
	return time.Since(ev.Entry.Start)
}

// NewTracingObserver records one span per manifest entry. Spans nest the
// way entries do, with the root span parented on the run's Context. A nil
// tracer uses the global provider.
func NewTracingObserver(tracer trace.Tracer) Observer {
	if tracer == nil {
		tracer = observability.Tracer(observability.TracerName)
	}
	return &tracingObserver{tracer: tracer}
}

type tracingObserver struct {
	tracer trace.Tracer
	stack  []tracedStep
}

type tracedStep struct {
	ctx  context.Context
	span trace.Span
}

func (o *tracingObserver) StepStarted(ctx Context, ev StepEvent) {
	parent := context.Context(ctx)
	if ev.Depth > 0 && len(o.stack) > 0 {
		parent = o.stack[len(o.stack)-1].ctx
	}

	name := observability.SpanPipelineStep
	if ev.Depth == 0 {
		name = observability.SpanPipelineRun
	}
	spanCtx, span := o.tracer.Start(parent, name,
		trace.WithTimestamp(ev.Entry.Start),
		trace.WithAttributes(
			attribute.String(observability.AttrRunID, ev.RunID),
			attribute.String(observability.AttrPipeline, ev.Pipeline),
			attribute.String(observability.AttrStepName, ev.Entry.Name),
			attribute.String(observability.AttrStepType, string(ev.Entry.StepType)),
			attribute.Int(observability.AttrStepDepth, ev.Depth),
		),
	)
	o.stack = append(o.stack, tracedStep{ctx: spanCtx, span: span})
}

func (o *tracingObserver) StepFinished(_ Context, _ StepEvent, err error) {
	if len(o.stack) == 0 {
		return
	}
	top := o.stack[len(o.stack)-1]
	o.stack = o.stack[:len(o.stack)-1]

	if err != nil {
		top.span.RecordError(err)
		top.span.SetStatus(codes.Error, err.Error())
	}
	top.span.End()
}

// NewMetricsObserver records run and step metrics. The root entry counts
// as a run; every other entry counts as a step.
func NewMetricsObserver(metrics *observability.Metrics) Observer {
	return &metricsObserver{metrics: metrics}
}

type metricsObserver struct {
	metrics *observability.Metrics
}

func (o *metricsObserver) StepStarted(ctx Context, ev StepEvent) {
	if ev.Depth == 0 {
		o.metrics.RecordRunStart(ctx, ev.Pipeline)
	}
}

func (o *metricsObserver) StepFinished(ctx Context, ev StepEvent, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	if ev.Depth == 0 {
		o.metrics.RecordRunEnd(ctx, ev.Pipeline, status, elapsed(ev))
		return
	}
	if err != nil {
		o.metrics.RecordError(ctx, ev.Pipeline, ev.Entry.Name)
	}
	o.metrics.RecordStep(ctx, ev.Pipeline, ev.Entry.Name, string(ev.Entry.StepType), status, elapsed(ev))
}
