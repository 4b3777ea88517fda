package obs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()

	l, err := NewLogger(LogConfig{Level: "loud", App: "projecteye-test"})
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zapcore.DebugLevel))
	require.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestWithTrace_AddsIDs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	tid, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	sid, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: tid, SpanID: sid, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	WithTrace(ctx, base).Info("tick started")
	WithTrace(context.Background(), base).Info("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, tid.String(), entries[0].ContextMap()["trace_id"])
	require.NotContains(t, entries[1].ContextMap(), "trace_id")
}

func TestWithTrace_ContextFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithFields(context.Background(), zap.Uint64("tick", 3))
	ctx = ContextWithFields(ctx, zap.String("project", "p1"))
	require.Equal(t, ctx, ContextWithFields(ctx))

	WithTrace(ctx, zap.New(core)).Info("tick started")

	fields := logs.All()[0].ContextMap()
	require.Equal(t, uint64(3), fields["tick"])
	require.Equal(t, "p1", fields["project"])
}

func TestSetupOTel_DisabledInstallsPropagator(t *testing.T) {
	o, err := SetupOTel(context.Background(), OTELConfig{})
	require.NoError(t, err)
	require.Nil(t, o.TracerProvider)
	require.NoError(t, o.Shutdown(context.Background()))
	require.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestWithTrace_NilLogger(t *testing.T) {
	t.Parallel()
	require.NotNil(t, WithTrace(context.Background(), nil))
}

func TestMetricsMux_Healthz(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		health func(context.Context) error
		want   int
	}{
		{"nil health", nil, http.StatusOK},
		{"healthy", func(context.Context) error { return nil }, http.StatusOK},
		{"unhealthy", func(context.Context) error { return errors.New("db down") }, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			metricsMux(tc.health).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			require.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestMetricsMux_Metrics(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	metricsMux(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}
