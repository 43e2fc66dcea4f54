package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_CreatesDirAndLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	log, err := NewLogger(dir, "info", false)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	// Directory should exist
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log dir missing: %v", err)
	}

	log.Info("test_message_from_logging_test")
	log.Debug("debug_should_be_filtered")
	_ = log.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "endpointkit.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "test_message_from_logging_test") {
		t.Fatalf("info entry missing: %s", b)
	}
	if strings.Contains(string(b), "debug_should_be_filtered") {
		t.Fatalf("debug entry should be filtered at info level")
	}
}

func TestNewLogger_LevelParsing(t *testing.T) {
	log, err := NewLogger(t.TempDir(), "debug", false)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if !log.Core().Enabled(-1) { // zapcore.DebugLevel
		t.Fatalf("debug level should be enabled")
	}

	log, err = NewLogger(t.TempDir(), "loud", false)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if log.Core().Enabled(-1) {
		t.Fatalf("invalid level should fall back to info")
	}
}
