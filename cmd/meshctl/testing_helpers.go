package main

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/joshuapare/meshkit/internal/config"
	"github.com/joshuapare/meshkit/internal/logger"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

// resetGlobals puts the command globals back to a quiet default and shrinks
// the planner floors so the pools built by a test stay small.
func resetGlobals(t *testing.T) {
	t.Helper()

	quiet = false
	verbose = false
	jsonOut = false
	detectedMB = 4096

	cfg := config.Default()
	cfg.Planner.Floors = config.FloorsConfig{
		Points:    1000,
		XPoints:   100,
		Triangles: 2000,
		Edges:     200,
	}
	appConfig = cfg
	appLog = logger.Discard()

	t.Cleanup(func() {
		detectedMB = 0
		jsonOut = false
		appConfig = config.Default()
	})
}

// decodeJSON unmarshals command output into v.
func decodeJSON(t *testing.T, output string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}
