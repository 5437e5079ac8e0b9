package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		enable slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"warn level", "warn", slog.LevelWarn},
		{"mixed case", "ERROR", slog.LevelError},
		{"default info", "", slog.LevelInfo},
		{"unknown falls back to info", "verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.level)
			if !l.Enabled(context.Background(), tt.enable) {
				t.Errorf("New(%q) should enable level %v", tt.level, tt.enable)
			}
		})
	}
}

func TestWithCarriesAttrs(t *testing.T) {
	l := Default().With("component", "test")
	if l == nil || l.Logger == nil {
		t.Fatal("With returned nil logger")
	}
}
