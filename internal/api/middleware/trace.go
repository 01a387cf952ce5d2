package middleware

import (
	"log/slog"
	"net/http"

	"github.com/fieldcrew/maintenance-api/internal/api/shared"
	"github.com/fieldcrew/maintenance-api/internal/platform/logger"
)

// TraceIDHeader carries the request's trace ID back to the client.
const TraceIDHeader = "X-Trace-ID"

// NewTraceMiddleware adds a trace ID and a logger tagged with it to the
// request context. Apply it before any handler that logs.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			w.Header().Set(TraceIDHeader, traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
