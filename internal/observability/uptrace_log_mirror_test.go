package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

func TestIsQuietRequestLog(t *testing.T) {
	t.Parallel()

	assert.True(t, isQuietRequestLog("http request", []any{"method", "GET", "path", "/healthz"}))
	assert.False(t, isQuietRequestLog("http request", []any{"path", "/v1/championships/12/standings"}))
	assert.False(t, isQuietRequestLog("standings scrape failed", []any{"path", "/healthz"}))
}

func TestLogAttributes(t *testing.T) {
	t.Parallel()

	attrs := logAttributes([]any{"championship_id", int64(12), "matched", 3, "", "anon", "dangling"})
	require.Len(t, attrs, 4)
	assert.Equal(t, "championship_id", attrs[0].Key)
	assert.Equal(t, int64(12), attrs[0].Value.AsInt64())
	assert.Equal(t, int64(3), attrs[1].Value.AsInt64())
	assert.Equal(t, "arg_2", attrs[2].Key)
	assert.Equal(t, "dangling", attrs[3].Key)
	assert.Equal(t, otellog.KindEmpty, attrs[3].Value.Kind())
}

func TestLogValue(t *testing.T) {
	t.Parallel()

	position := 3
	assert.Equal(t, int64(3), logValue(&position, 0).AsInt64())
	assert.Equal(t, "boom", logValue(errors.New("boom"), 0).AsString())
	assert.Equal(t, "1.5s", logValue(1500*time.Millisecond, 0).AsString())
	assert.Equal(t, otellog.KindEmpty, logValue((*int)(nil), 0).Kind())

	m := logValue(map[string]any{"by_name": 2, "by_order": 1}, 0)
	require.Equal(t, otellog.KindMap, m.Kind())
	items := m.AsMap()
	require.Len(t, items, 2)
	assert.Equal(t, "by_name", items[0].Key)

	s := logValue([]int64{501, 502}, 0)
	require.Equal(t, otellog.KindSlice, s.Kind())
	assert.Len(t, s.AsSlice(), 2)
}

func TestSeverityFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, otellog.SeverityDebug, severityFor(zapcore.DebugLevel))
	assert.Equal(t, otellog.SeverityWarn, severityFor(zapcore.WarnLevel))
	assert.Equal(t, otellog.SeverityError, severityFor(zapcore.ErrorLevel))
	assert.Equal(t, otellog.SeverityFatal, severityFor(zapcore.FatalLevel))
}
