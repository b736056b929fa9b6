package tracing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type TracingContextKey string

const TracingInfoKey = TracingContextKey("requestTracingInfo")
const TraceIdKey = TracingContextKey("requestTraceId")

type SpanDetail struct {
	Name     string `json:"name"`
	Duration int64  `json:"duration"`
}

type TracingInfo struct {
	SpanDetails []SpanDetail `json:"spanDetails"`
}

func (t *TracingInfo) addSpanDetail(detail SpanDetail) {
	t.SpanDetails = append(t.SpanDetails, detail)
}

// WithTracing attaches a fresh trace id and span collector to ctx. Used by the
// http middleware and by background work such as queue messages and sweeps.
func WithTracing(ctx context.Context) (context.Context, string, *TracingInfo) {
	return WithTraceId(ctx, uuid.NewString())
}

// WithTraceId is WithTracing with a caller supplied trace id
func WithTraceId(ctx context.Context, traceId string) (context.Context, string, *TracingInfo) {
	info := &TracingInfo{}
	ctx = context.WithValue(ctx, TraceIdKey, traceId)
	ctx = context.WithValue(ctx, TracingInfoKey, info)
	return ctx, traceId, info
}

func WrapWithSpan[Result any](ctx context.Context, name string, next func() (Result, error)) (Result, error) {
	tracingInfo, ok := ctx.Value(TracingInfoKey).(*TracingInfo)
	if !ok {
		log.Ctx(ctx).Debug().Str("span", name).Msg("TracingInfo not found in the call chain")
	}

	startTime := time.Now()
	defer func() {
		if tracingInfo != nil {
			duration := time.Since(startTime).Milliseconds()
			tracingInfo.addSpanDetail(SpanDetail{Name: name, Duration: duration})
		}
	}()

	return next()
}
