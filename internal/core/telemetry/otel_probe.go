package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"todos/internal/core/port"
)

// OperationCounter is the slice of AppMetrics the probe needs. Kept as a
// local interface so core does not depend on the Prometheus wiring.
type OperationCounter interface {
	RecordTodoOperation(ctx context.Context, operation string)
	RecordDatabaseOperation(ctx context.Context, operation string, table string, success bool)
}

type OtelProbe struct {
	tracer  trace.Tracer
	metrics OperationCounter
}

func NewOtelProbe(serviceName string, metrics OperationCounter) port.Telemetry {
	return &OtelProbe{
		tracer:  otel.Tracer(serviceName),
		metrics: metrics,
	}
}

func (p *OtelProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	spanAttrs := append([]attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.String("db.entity", entity),
	}, attrs...)

	return p.tracer.Start(ctx, "repository."+entity+"."+operation, trace.WithAttributes(spanAttrs...))
}

func (p *OtelProbe) StartServiceSpan(ctx context.Context, operation string, userID int, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	spanAttrs := append([]attribute.KeyValue{
		attribute.String("service.operation", operation),
		attribute.Int("user.id", userID),
	}, attrs...)

	return p.tracer.Start(ctx, "service."+operation, trace.WithAttributes(spanAttrs...))
}

func (p *OtelProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
	span := trace.SpanFromContext(ctx)

	span.SetAttributes(
		attribute.String("db.operation", operation),
		attribute.String("db.entity", entity),
		attribute.Int64("db.duration_ms", duration.Milliseconds()),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if p.metrics != nil {
		p.metrics.RecordDatabaseOperation(ctx, operation, entity, err == nil)
	}
}

func (p *OtelProbe) RecordServiceOperation(ctx context.Context, operation string, userID int, duration time.Duration, err error) {
	span := trace.SpanFromContext(ctx)

	span.SetAttributes(
		attribute.String("service.operation", operation),
		attribute.Int("user.id", userID),
		attribute.Int64("service.duration_ms", duration.Milliseconds()),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func (p *OtelProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, userID int) {
	span := trace.SpanFromContext(ctx)

	span.AddEvent(event, trace.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("entity.id", entityID),
		attribute.Int("user.id", userID),
	))

	if p.metrics != nil && entity == "todo" {
		p.metrics.RecordTodoOperation(ctx, event)
	}
}

func (p *OtelProbe) RecordError(ctx context.Context, operation string, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("error.operation", operation))
}

// Operation measures a single repository or service call.
type Operation struct {
	probe     port.Telemetry
	ctx       context.Context
	startTime time.Time
	operation string
	entity    string
}

func StartOperation(probe port.Telemetry, ctx context.Context, operation, entity string) *Operation {
	return &Operation{
		probe:     probe,
		ctx:       ctx,
		startTime: time.Now(),
		operation: operation,
		entity:    entity,
	}
}

func (op *Operation) End(err error) {
	if op.probe != nil {
		op.probe.RecordRepositoryOperation(op.ctx, op.operation, op.entity, time.Since(op.startTime), err)
	}
}
