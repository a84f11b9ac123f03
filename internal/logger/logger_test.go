package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/thereayou/classroom-chat/internal/config"
)

func TestNewHonoursLevel(t *testing.T) {
	l, err := New(config.LoggerConfig{Level: "warn"}, true)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info must be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("error must be enabled at warn level")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(config.LoggerConfig{Level: "loud"}, false); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
