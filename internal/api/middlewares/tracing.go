package middlewares

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/axalapp/claims-api-service/internal/observability/tracing"
)

const RequestIdHeader = "X-Request-Id"

// TracingMiddleware reuses a well formed X-Request-Id from the caller as the
// trace id and echoes it back
func TracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceId := r.Header.Get(RequestIdHeader)
		if _, err := uuid.Parse(traceId); err != nil {
			traceId = uuid.NewString()
		}
		ctx, _, _ := tracing.WithTraceId(r.Context(), traceId)
		w.Header().Set(RequestIdHeader, traceId)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
