package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLoggerLevel(t *testing.T) {
	logger := NewLogger("debug")
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}

	for _, lvl := range []string{"invalid", ""} {
		logger = NewLogger(lvl)
		if logger.GetLevel() != zerolog.InfoLevel {
			t.Fatalf("expected info fallback for %q, got %s", lvl, logger.GetLevel())
		}
	}
}

func TestNewLoggerToWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "WARN")
	logger.Info().Msg("hidden")
	logger.Warn().Str("strategy", "grid").Msg("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"strategy":"grid"`) {
		t.Fatalf("expected structured field in output: %s", out)
	}
}
