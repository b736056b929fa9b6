package tracing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axalapp/claims-api-service/internal/observability/tracing"
)

func TestWrapWithSpanRecordsSpans(t *testing.T) {
	ctx, traceId, info := tracing.WithTracing(context.Background())
	require.NotEmpty(t, traceId)
	assert.Equal(t, traceId, ctx.Value(tracing.TraceIdKey))

	result, err := tracing.WrapWithSpan(ctx, "first", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, result)

	_, err = tracing.WrapWithSpan[any](ctx, "second", func() (any, error) { return nil, errors.New("boom") })
	assert.EqualError(t, err, "boom")

	require.Len(t, info.SpanDetails, 2)
	assert.Equal(t, "first", info.SpanDetails[0].Name)
	assert.Equal(t, "second", info.SpanDetails[1].Name)
}

func TestWrapWithSpanWithoutTracingInfo(t *testing.T) {
	result, err := tracing.WrapWithSpan(context.Background(), "untraced", func() (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}
