package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNewProvider_Disabled(t *testing.T) {
	for _, exporter := range []string{"", ExporterNone} {
		provider, err := NewProvider(Config{Exporter: exporter})
		require.NoError(t, err)
		require.False(t, provider.Enabled())

		_, span := provider.Tracer().Start(context.Background(), "test-span")
		require.False(t, span.SpanContext().IsValid(), "no-op spans carry no context")
		span.End()

		require.NoError(t, provider.Shutdown(context.Background()))
	}
}

func TestNewProvider_Stdout(t *testing.T) {
	var buf bytes.Buffer
	provider, err := NewProvider(Config{Exporter: ExporterStdout, Writer: &buf})
	require.NoError(t, err)
	require.True(t, provider.Enabled())
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	_, span := otel.Tracer("quizr/test").Start(context.Background(), "wizard.save")
	require.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
	require.Contains(t, buf.String(), `"Name": "wizard.save"`)
	require.Contains(t, buf.String(), DefaultServiceName)
}

func TestNewProvider_UnknownExporter(t *testing.T) {
	_, err := NewProvider(Config{Exporter: "jaeger"})
	require.Error(t, err)
}
