package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { tp.Shutdown(context.Background()) })
	return recorder
}

func TestEnd_RecordsError(t *testing.T) {
	recorder := useRecorder(t)

	_, span := Start(context.Background(), "SessionMetricsService.InsertSessionMetrics")
	End(span, errors.New("insert session metrics: deadlock"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "SessionMetricsService.InsertSessionMetrics", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "insert session metrics: deadlock", ended[0].Status().Description)
	require.NotEmpty(t, ended[0].Events())
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}

func TestEnd_SuccessLeavesStatusUnset(t *testing.T) {
	recorder := useRecorder(t)

	_, span := Start(context.Background(), "SessionMetricsService.WeeklyTopAttention")
	End(span, nil)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	assert.Empty(t, ended[0].Events())
}

func TestGinMiddleware_ParentsServiceSpans(t *testing.T) {
	recorder := useRecorder(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/weekly-top5-attention-span", func(c *gin.Context) {
		_, span := Start(c.Request.Context(), "SessionMetricsService.WeeklyTopAttention")
		End(span, nil)
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/weekly-top5-attention-span", nil))

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	child, root := ended[0], ended[1]
	assert.Equal(t, "GET /weekly-top5-attention-span", root.Name())
	assert.Equal(t, root.SpanContext().SpanID(), child.Parent().SpanID())
	assert.Equal(t, root.SpanContext().TraceID(), child.SpanContext().TraceID())
}
