package neoqb

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/SebastianOsuna/neo4j-qb/internal"
)

const instrumentationName = "github.com/SebastianOsuna/neo4j-qb"

var systemAttr = attribute.String("db.system", "neo4j")

type instruments struct {
	tracer trace.Tracer

	queryDuration   metric.Float64Histogram
	queryCount      metric.Int64Counter
	queryErrors     metric.Int64Counter
	recordsReturned metric.Int64Counter
}

func newInstruments(cfg Config) *instruments {
	meter := cfg.MeterProvider.Meter(instrumentationName)
	i := &instruments{
		tracer: cfg.TracerProvider.Tracer(instrumentationName),
	}
	var err error
	i.queryDuration, err = meter.Float64Histogram(
		"db.query.duration",
		metric.WithDescription("Duration of database queries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		otel.Handle(err)
	}
	i.queryCount, err = meter.Int64Counter(
		"db.query.count",
		metric.WithDescription("Number of database queries executed"),
	)
	if err != nil {
		otel.Handle(err)
	}
	i.queryErrors, err = meter.Int64Counter(
		"db.query.errors",
		metric.WithDescription("Number of query execution errors"),
	)
	if err != nil {
		otel.Handle(err)
	}
	i.recordsReturned, err = meter.Int64Counter(
		"db.query.records",
		metric.WithDescription("Number of records returned by queries"),
	)
	if err != nil {
		otel.Handle(err)
	}
	return i
}

type querySpan struct {
	trace.Span
	operation string
	start     time.Time
}

func (i *instruments) start(ctx context.Context, cy *internal.CompiledCypher, txID string) (context.Context, *querySpan) {
	op := operationName(cy)
	attrs := []attribute.KeyValue{
		systemAttr,
		attribute.String("db.statement", cy.Cypher),
		attribute.String("db.operation", op),
		attribute.Int("db.statement.parameter_count", len(cy.Parameters)),
	}
	if txID != "" {
		attrs = append(attrs, attribute.String("neoqb.tx.id", txID))
	}
	ctx, span := i.tracer.Start(ctx, "db.query",
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	return ctx, &querySpan{Span: span, operation: op, start: time.Now()}
}

func (i *instruments) finish(ctx context.Context, span *querySpan, records int, err error) {
	attrs := []attribute.KeyValue{systemAttr, attribute.String("db.operation", span.operation)}
	i.queryDuration.Record(ctx, time.Since(span.start).Seconds(), metric.WithAttributes(attrs...))
	if err != nil {
		i.queryErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		i.queryCount.Add(ctx, 1, metric.WithAttributes(attrs...))
		if records > 0 {
			i.recordsReturned.Add(ctx, int64(records), metric.WithAttributes(attrs...))
		}
		span.SetAttributes(attribute.Int("db.query.records_returned", records))
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// operationName classifies a compiled query as SCHEMA_WRITE, WRITE or READ.
func operationName(cy *internal.CompiledCypher) string {
	upper := strings.ToUpper(cy.Cypher)
	switch {
	case strings.Contains(upper, "CREATE INDEX"), strings.Contains(upper, "DROP INDEX"),
		strings.Contains(upper, "CREATE CONSTRAINT"), strings.Contains(upper, "DROP CONSTRAINT"):
		return "SCHEMA_WRITE"
	case cy.IsWrite:
		return "WRITE"
	default:
		return "READ"
	}
}
