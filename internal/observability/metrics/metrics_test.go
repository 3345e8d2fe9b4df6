package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("resource", "ai_request"),
		attribute.String("account_id", "456"),
		attribute.String("reason", "limit_reached"),
	)
	require.Len(t, attrs, 2)
	keys := []attribute.Key{attrs[0].Key, attrs[1].Key}
	assert.Contains(t, keys, attribute.Key("resource"))
	assert.Contains(t, keys, attribute.Key("reason"))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordQuotaDecision(ctx, "ai_request", "allowed")
		m.RecordBillingEvent(ctx, "checkout_completed")
		m.RecordCompletion(ctx, "openai", "ok")
		m.RecordRateLimitDenied(ctx, "/api/ai/assist")
	})
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{ServiceName: "quill"}, noop.NewMeterProvider())
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.RecordQuotaDecision(context.Background(), "document", "allowed")
	})
}
