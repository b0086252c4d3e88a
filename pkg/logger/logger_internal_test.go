package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestNewLogger_UnopenableSink(t *testing.T) {
	buf := &zaptest.Buffer{}
	prev := errorOutput
	errorOutput = buf
	t.Cleanup(func() { errorOutput = prev })

	sink := filepath.Join(t.TempDir(), "missing", "bookstore.log")
	log := NewLogger(Log{LogLevel: zapcore.InfoLevel, Sink: sink}, "bookstore")
	require.NotNil(t, log)

	lines := buf.Lines()
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], `logger: open sink "`+sink+`"`)
	require.Contains(t, lines[0], "no such file or directory")
}
