package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, err := New("debug", false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug level not enabled")
	}

	logger, err = New("warn", true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info must be filtered at warn level")
	}

	if _, err := New("loud", false); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		verbose  bool
		fallback string
		want     string
	}{
		{true, "error", "debug"},
		{false, "error", "error"},
		{false, "", "info"},
	}
	for _, tt := range tests {
		if got := Level(tt.verbose, tt.fallback); got != tt.want {
			t.Errorf("Level(%v, %q) = %q, want %q", tt.verbose, tt.fallback, got, tt.want)
		}
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("OrNop(nil) returned nil")
	}
}
