package logger

import (
	"context"
	"errors"
	"testing"
)

func TestLogBeforeInit(t *testing.T) {
	// Packages log during tests without any binary bootstrap having run.
	// Every helper must fall back to the default slog logger instead of
	// dereferencing the uninitialized global.
	globalLogger = nil
	ctx := context.Background()

	Info(ctx, "message", "k", "v")
	Warn(ctx, "message")
	Error(ctx, "message")
	ErrorWithErr(ctx, "failed", errors.New("boom"))
	Skip(ctx, "N/A", "invalid_ticker", "date", 20240410)
}

func TestInitThenLog(t *testing.T) {
	if err := InitWithConfig(LogConfig{Level: "DEBUG", Format: "text", DetailedLogging: true}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if globalLogger == nil {
		t.Fatal("global logger not set by init")
	}

	ctx := context.Background()
	Debug(ctx, "message")
	Skip(ctx, "TSLA", "no_price_data")
}
