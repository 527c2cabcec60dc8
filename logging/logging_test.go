package logging

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerWritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZap(zap.New(core)).WithFields(Fields{"channel": "H1:STRAIN"})

	log.Info("welch estimate", Fields{"nfft": 128, "blocks": 7})
	log.Error(errors.New("boom"), "spectrogram failed")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries=%d want=2", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["channel"] != "H1:STRAIN" || ctx["nfft"] != int64(128) {
		t.Fatalf("context=%v", ctx)
	}

	if entries[1].Level != zapcore.ErrorLevel || entries[1].ContextMap()["error"] != "boom" {
		t.Fatalf("error entry=%+v", entries[1])
	}
}

func TestLevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := NewZap(zap.New(core))

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")

	if logs.Len() != 1 {
		t.Fatalf("entries=%d want=1", logs.Len())
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
	} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q)=%v,%v want %v", in, got, err, want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNopAndOrNop(t *testing.T) {
	NewNop().Info("discarded", Fields{"k": 1})

	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
}
