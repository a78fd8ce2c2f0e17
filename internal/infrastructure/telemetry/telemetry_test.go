package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/config"
)

func TestNewTracerProviderDisabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())

	tracer := tp.Tracer("checkout")
	require.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "place-order")
	span.End()
	assert.False(t, span.SpanContext().IsValid())

	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewMeterProviderDisabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	require.NotNil(t, mp.Meter("storefront"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestStoreMetricsRecordsWithoutExporter(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	metrics, err := NewStoreMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		metrics.RecordCheckout(ctx, CheckoutOutcomeCompleted)
		metrics.RecordCheckout(ctx, CheckoutOutcomeStockConflict)
		metrics.RecordOrderAmount(ctx, decimal.RequireFromString("199.98"))
		metrics.RecordCartAdd(ctx, 3)
		metrics.RecordCartRemoval(ctx, 1)
	})
}

func TestCounterAndHistogramHelpers(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	counter, err := NewCounter(meter, "test.requests.total", "Test counter", "{request}")
	require.NoError(t, err)
	counter.Inc(context.Background(), AttrOutcome.String("ok"))
	counter.Add(context.Background(), 5)

	hist, err := NewHistogram(meter, HistogramOpts{
		Name:        "test.duration",
		Description: "Test histogram",
		Unit:        "s",
	})
	require.NoError(t, err)
	hist.Record(context.Background(), 0.25)
	hist.RecordDuration(context.Background(), 150*time.Millisecond)
}
