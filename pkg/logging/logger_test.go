package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

// TestNew tests that New produces a JSON logger writing to the given writer.
func TestNew(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger := New(&buf)
	logger.Info().Str("component", "poller").Msg("cycle complete")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}

	if entry["component"] != "poller" {
		t.Errorf("expected component field, got %v", entry["component"])
	}
	if entry["message"] != "cycle complete" {
		t.Errorf("expected message field, got %v", entry["message"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected timestamp field")
	}
}

// TestNewJSON_NilWriter tests the nil-writer fallback.
func TestNewJSON_NilWriter(t *testing.T) {
	logger := NewJSON(nil)
	// Must not panic when writing.
	logger.Debug().Msg("noop")
}

// TestDefault tests that the default logger is usable.
func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default returned nil")
	}
}

// TestNop tests that the no-op logger is non-nil and fully disabled.
func TestNop(t *testing.T) {
	logger := Nop()
	if logger == nil {
		t.Fatal("Nop returned nil")
	}
	if logger.GetLevel() != zerolog.Disabled {
		t.Errorf("expected disabled level, got %v", logger.GetLevel())
	}
	// Must not panic when writing.
	logger.Error().Msg("discarded")
}

// TestConfigure tests level and format selection.
func TestConfigure(t *testing.T) {
	Configure("debug", "json")
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %v", zerolog.GlobalLevel())
	}

	// Unknown level falls back to info.
	Configure("nonsense", "json")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("expected info fallback, got %v", zerolog.GlobalLevel())
	}
}
