package telemetry

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"engagement-prediction-api/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestInitNone(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TelemetryConfig{TraceExporter: "none"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitUnknownExporter(t *testing.T) {
	_, err := Init(context.Background(), config.TelemetryConfig{TraceExporter: "zipkin"})
	assert.ErrorIs(t, err, ErrUnknownExporter)
}

func TestMiddlewareCreatesSpan(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := initWithWriter(context.Background(), config.TelemetryConfig{
		ServiceName:   "engagement-predictor-test",
		TraceExporter: "stdout",
	}, &buf)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware("engagement-predictor-test"))

	var spanCtx trace.SpanContext
	r.GET("/health", func(c *gin.Context) {
		spanCtx = trace.SpanFromContext(c.Request.Context()).SpanContext()
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, spanCtx.IsValid(), "expected a valid span in the request context")

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "/health")
}
