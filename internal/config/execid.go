package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExecutionDir renders the {logRoot}/{executionId}/ directory spec §6
// defines. When l.ExecutionIDTemplate is empty, executionId is a fresh
// UUID; otherwise the template's recognized substitutions are replaced:
// {operation}, {timestamp} (UTC, in the compact basic form
// 20060102T150405Z, which has no colons) and {hostname}.
func (l LogConfig) ExecutionDir(operation string, at time.Time) (string, error) {
	id := l.ExecutionIDTemplate
	if id == "" {
		id = uuid.NewString()
	} else {
		host, err := os.Hostname()
		if err != nil {
			host = "unknown-host"
		}
		replacer := strings.NewReplacer(
			"{operation}", operation,
			"{timestamp}", at.UTC().Format("20060102T150405Z"),
			"{hostname}", host,
		)
		id = replacer.Replace(id)
	}
	if id == "" {
		return "", fmt.Errorf("config: rendered executionId is empty")
	}
	return filepath.Join(l.Dir, id), nil
}
