package observability_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/codearcheology/archeo/pkg/observability"
)

func TestInit_NoOpWithoutEndpoint(t *testing.T) {
	cfg := observability.DefaultConfig()

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	require.NotNil(t, providers.Tracer)
	require.NotNil(t, providers.Meter)
	require.NotNil(t, providers.Logger)
	require.NotNil(t, providers.Shutdown)

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestTracingHandler_ServiceAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, nil)
	handler := observability.NewTracingHandler(inner, "archeo", "dev", observability.ModeServe)

	logger := slog.New(handler)
	logger.Info("hello")

	out := buf.String()
	assert.Contains(t, out, `"service":"archeo"`)
	assert.Contains(t, out, `"mode":"serve"`)
	assert.Contains(t, out, `"env":"dev"`)
}

func TestTracingHandler_WithGroupKeepsServiceAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, nil)
	handler := observability.NewTracingHandler(inner, "archeo", "", observability.ModeCLI)

	logger := slog.New(handler).WithGroup("req")
	logger.Info("hello", "id", "42")

	out := buf.String()
	assert.Contains(t, out, `"service":"archeo"`)
	assert.Contains(t, out, `"req":{"id":"42"}`)
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	observability.HealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyHandler_FailingCheck(t *testing.T) {
	t.Parallel()

	failing := func(_ context.Context) error { return assert.AnError }

	rec := httptest.NewRecorder()
	observability.ReadyHandler(failing).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestReadyHandler_NoChecks(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	observability.ReadyHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHTTPMiddleware_PassesThrough(t *testing.T) {
	t.Parallel()

	tracer := nooptrace.NewTracerProvider().Tracer("test")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	next := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	observability.HTTPMiddleware(tracer, log, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestREDMetrics_RecordWithNoopMeter(t *testing.T) {
	t.Parallel()

	meter := noopmetric.NewMeterProvider().Meter("test")

	rm, err := observability.NewREDMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	rm.RecordRequest(ctx, "analyze", "ok", time.Second)
	rm.RecordRequest(ctx, "analyze", "error", time.Second)

	done := rm.TrackInflight(ctx, "analyze")
	done()
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	assert.Nil(t, observability.ParseOTLPHeaders(""))
	assert.Nil(t, observability.ParseOTLPHeaders("garbage"))
	assert.Equal(t,
		map[string]string{"a": "1", "b": "2"},
		observability.ParseOTLPHeaders(" a = 1 , b=2 "))
}

func TestNewPrometheus_ScrapeSeesRecordedInstruments(t *testing.T) {
	t.Parallel()

	handler, provider, err := observability.NewPrometheus()
	require.NoError(t, err)

	rm, err := observability.NewREDMetrics(provider.Meter("test"))
	require.NoError(t, err)
	rm.RecordRequest(context.Background(), "analyze", "ok", time.Second)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	// The meter provider is backed by the same registry the handler
	// scrapes, so instruments with data points must show up here.
	assert.Contains(t, rec.Body.String(), "archeo_")
}
