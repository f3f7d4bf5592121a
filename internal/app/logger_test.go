package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/contribscope/backend/internal/config"
)

func TestNewLogger_SetsDefault(t *testing.T) {
	logger := NewLogger(config.LogConfig{Level: "info", Format: "json"})
	if logger == nil {
		t.Fatal("logger should not be nil")
	}
	if slog.Default().Handler() != logger.Handler() {
		t.Error("NewLogger should install the returned logger as slog default")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{" Error ", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: parseLevel("warn")})
	logger := slog.New(handler)

	logger.Log(context.TODO(), slog.LevelInfo, "suppressed")
	if buf.Len() != 0 {
		t.Errorf("warn level should suppress info, got %q", buf.String())
	}

	logger.Log(context.TODO(), slog.LevelWarn, "visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("warn level should pass warn records")
	}
}
