package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupTestTracer installs an in-memory span recorder as the global provider.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "report", "work_tracking",
		telemetry.WithAttribute(telemetry.SpanAttrView, "work-tracking"),
		telemetry.WithSpanKind(trace.SpanKindServer),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "report.work_tracking", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
	assert.Equal(t, "work-tracking", attrMap(spans[0].Attributes())[telemetry.SpanAttrView].AsString())
}

func TestSetAttributes(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "revenue_center.recalculate")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRevenueCenterID, uint(7),
		telemetry.SpanAttrRows, 3,
		42, "ignored non-string key",
		"dangling",
	)
	telemetry.SetAttribute(span, telemetry.SpanAttrPage, int64(2))
	span.End()

	attrs := attrMap(sr.Ended()[0].Attributes())
	assert.Equal(t, int64(7), attrs[telemetry.SpanAttrRevenueCenterID].AsInt64())
	assert.Equal(t, int64(3), attrs[telemetry.SpanAttrRows].AsInt64())
	assert.Equal(t, int64(2), attrs[telemetry.SpanAttrPage].AsInt64())
	assert.Len(t, attrs, 3)
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "failing")
	telemetry.RecordError(span, errors.New("query timeout"))
	span.End()

	ended := sr.Ended()[0]
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Equal(t, "query timeout", ended.Status().Description)
	require.Len(t, ended.Events(), 1)
	assert.Equal(t, "exception", ended.Events()[0].Name)
}

func TestRecordError_NilErrorKeepsStatus(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "ok")
	telemetry.RecordError(span, nil)
	span.End()

	assert.Equal(t, codes.Unset, sr.Ended()[0].Status().Code)
	assert.Empty(t, sr.Ended()[0].Events())
}

func TestSetAttributes_Decimal(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "spend")
	telemetry.SetAttributes(span, "spend", decimal.RequireFromString("215.50"))
	span.End()

	assert.Equal(t, "215.5", attrMap(sr.Ended()[0].Attributes())["spend"].AsString())
}

func TestAddEvent(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "locking")
	telemetry.AddEvent(span, "snapshot_lock_acquired", telemetry.SpanAttrCostCenterProjectID, uint(3))
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "snapshot_lock_acquired", events[0].Name)
	assert.Equal(t, int64(3), attrMap(events[0].Attributes)[telemetry.SpanAttrCostCenterProjectID].AsInt64())
}

func TestGetTraceID(t *testing.T) {
	setupTestTracer(t)

	assert.Empty(t, telemetry.GetTraceID(context.Background()))

	ctx, span := telemetry.StartSpan(context.Background(), "ids")
	defer span.End()

	assert.Len(t, telemetry.GetTraceID(ctx), 32)
	assert.Equal(t, span, telemetry.SpanFromContext(ctx))
}

func TestNestedSpansShareTrace(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, parent := telemetry.StartSpan(context.Background(), "parent")
	_, child := telemetry.StartSpan(ctx, "child")
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestNilSpanHelpers(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.SetAttributes(nil, "k", "v")
		telemetry.SetAttribute(nil, "k", "v")
		telemetry.RecordError(nil, errors.New("x"))
		telemetry.AddEvent(nil, "e")
	})
}
