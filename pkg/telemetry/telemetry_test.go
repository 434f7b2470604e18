package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInit_Disabled(t *testing.T) {
	p, err := Init(context.Background(), Config{Enabled: false, ServiceName: "test"})
	require.NoError(t, err)
	require.NotNil(t, p.Tracer())
	assert.NoError(t, p.Shutdown(context.Background()))
	assert.NoError(t, p.ForceFlush(context.Background()))
}

func TestSpans_Recorded(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	p, err := InitWithExporter(Config{ServiceName: "test", Version: "1.0.0", SampleRate: 1}, exporter)
	require.NoError(t, err)
	defer func() { _ = p.Shutdown(context.Background()) }()

	ctx, span := StartSpan(context.Background(), "Hydraulics.Calculate",
		WithAttrs(CalculationAttributes("gray", 100, 10000, 500)...))
	SetAttributes(ctx, ResultAttributes(2650, 2150)...)
	AddEvent(ctx, "cache_miss", attribute.String(AttrInputHash, "abc"))
	RecordError(ctx, errors.New("sweep point skipped"))
	SetError(ctx, errors.New("boom"))
	span.End()

	require.NoError(t, p.ForceFlush(context.Background()))
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	s := spans[0]
	assert.Equal(t, "Hydraulics.Calculate", s.Name)
	assert.Equal(t, codes.Error, s.Status.Code)
	assert.Len(t, s.Events, 3)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "gray", attrs[AttrMethod].AsString())
	assert.InDelta(t, 2650, attrs[AttrBHP].AsFloat64(), 1e-9)
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOn")
	assert.Contains(t, sampler(0).Description(), "AlwaysOff")
	assert.Contains(t, sampler(0.5).Description(), "TraceIDRatioBased")
}

func TestSweepAttributes(t *testing.T) {
	attrs := SweepAttributes("tubing", 5)
	require.Len(t, attrs, 2)
	assert.Equal(t, "tubing", attrs[0].Value.AsString())
	assert.Equal(t, int64(5), attrs[1].Value.AsInt64())
}
