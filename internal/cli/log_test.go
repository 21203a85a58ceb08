package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     log.Level
		wantDebug bool
	}{
		{"debug", log.DebugLevel, true},
		{"info", log.InfoLevel, false},
		{"warn", log.WarnLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			logger.Debug("reload detail")

			if got := buf.Len() > 0; got != tt.wantDebug {
				t.Errorf("debug output written = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.done("Loaded floor.json")

	out := buf.String()
	if !strings.Contains(out, "Loaded floor.json (") {
		t.Errorf("progress output = %q, want message with elapsed time", out)
	}
	if !strings.Contains(out, "ms)") && !strings.Contains(out, "s)") {
		t.Errorf("progress output = %q, want duration suffix", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	logger := newLogger(&bytes.Buffer{}, log.InfoLevel)

	if got := loggerFromContext(withLogger(context.Background(), logger)); got != logger {
		t.Error("loggerFromContext() did not return the stored logger")
	}
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("loggerFromContext() without logger should return log.Default()")
	}
	//nolint:staticcheck // nil context is handled explicitly
	if got := loggerFromContext(nil); got != log.Default() {
		t.Error("loggerFromContext(nil) should return log.Default()")
	}
}
