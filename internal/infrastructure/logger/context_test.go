package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextRoundTrip(t *testing.T) {
	base := zap.NewNop()
	ctx := WithContext(context.Background(), base)
	assert.Same(t, base, FromContext(ctx))
}

func TestFromContextMissingLogger(t *testing.T) {
	log := FromContext(context.Background())
	assert.NotNil(t, log, "should fall back to a no-op logger")
}

func TestContextIdentityHelpers(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	ctx, _ = WithRequestID(ctx, log, "req-1")
	ctx, _ = WithSessionID(ctx, log, "sess-1")
	ctx, _ = WithUserID(ctx, log, "user-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "sess-1", GetSessionID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
}

func TestGetIdentityMissing(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetSessionID(ctx))
	assert.Empty(t, GetUserID(ctx))
}

func TestTraceHelpersWithoutSpan(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))
}

func TestContextLoggerEnrichment(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, base, "req-42")
	ctx, _ = WithSessionID(ctx, FromContext(ctx), "sess-42")

	L(ctx).Info("checkout started")

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "sess-42", fields["session_id"])
}

func TestContextLoggerWithFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))

	L(ctx).With(zap.String("order_number", "ORD-1")).Info("order placed")

	assert.Len(t, logs.All(), 1)
	assert.Equal(t, "ORD-1", logs.All()[0].ContextMap()["order_number"])
}

func TestContextLoggerNilSafe(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}
	assert.NotPanics(t, func() { cl.Error("no logger attached") })
}
