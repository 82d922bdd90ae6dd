package config

import (
	"strings"
	"testing"
	"time"
)

func TestLogConfig_ExecutionDirDefaultsToUUID(t *testing.T) {
	l := LogConfig{Dir: "/var/log/cqlbulk"}
	dir, err := l.ExecutionDir("load", time.Now())
	if err != nil {
		t.Fatalf("ExecutionDir: %v", err)
	}
	if !strings.HasPrefix(dir, "/var/log/cqlbulk/") {
		t.Fatalf("ExecutionDir() = %q, want prefix /var/log/cqlbulk/", dir)
	}
	if len(dir) <= len("/var/log/cqlbulk/") {
		t.Fatalf("ExecutionDir() = %q, expected a rendered id after the prefix", dir)
	}
}

func TestLogConfig_ExecutionDirTemplate(t *testing.T) {
	l := LogConfig{Dir: "/var/log/cqlbulk", ExecutionIDTemplate: "{operation}-{timestamp}"}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	dir, err := l.ExecutionDir("unload", at)
	if err != nil {
		t.Fatalf("ExecutionDir: %v", err)
	}
	want := "/var/log/cqlbulk/unload-20260102T030405Z"
	if dir != want {
		t.Fatalf("ExecutionDir() = %q, want %q", dir, want)
	}
}
