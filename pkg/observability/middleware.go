package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// responseRecorder wraps [http.ResponseWriter] to capture the status code
// for span and access-log enrichment. Only the first status wins; later
// writes cannot rewrite it.
type responseRecorder struct {
	http.ResponseWriter

	status int
}

// WriteHeader records the status code before delegating to the wrapped writer.
func (rr *responseRecorder) WriteHeader(code int) {
	if rr.status == 0 {
		rr.status = code
	}

	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(buf []byte) (int, error) {
	if rr.status == 0 {
		rr.status = http.StatusOK
	}

	n, err := rr.ResponseWriter.Write(buf)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}

	return n, nil
}

// HTTPMiddleware wraps next with one server span per request, named
// "METHOD /path", plus a debug-level access log line. Incoming W3C
// traceparent/baggage headers are honored so spans join the caller's trace.
func HTTPMiddleware(tracer trace.Tracer, log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		start := time.Now()

		parentCtx := otel.GetTextMapPropagator().Extract(hr.Context(), propagation.HeaderCarrier(hr.Header))

		ctx, span := tracer.Start(parentCtx, hr.Method+" "+hr.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(hr.Method),
				attribute.String("http.target", hr.URL.Path),
			),
		)
		defer span.End()

		recorder := &responseRecorder{ResponseWriter: rw}
		next.ServeHTTP(recorder, hr.WithContext(ctx))

		status := recorder.status
		if status == 0 {
			// Handler wrote nothing; net/http sends 200 on return.
			status = http.StatusOK
		}

		span.SetAttributes(semconv.HTTPResponseStatusCode(status))

		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		log.DebugContext(ctx, "http request",
			"method", hr.Method,
			"path", hr.URL.Path,
			"status", status,
			"duration", time.Since(start),
		)
	})
}
