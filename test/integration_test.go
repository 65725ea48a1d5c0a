// ABOUTME: Integration tests for vitals CLI.
// ABOUTME: Builds the binary and runs the inject, list, migrate and fetch workflow.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	vitalsBinary := filepath.Join(projectRoot, "vitals")

	buildCmd := exec.Command("go", "build", "-o", vitalsBinary, "./cmd/vitals")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(vitalsBinary)

	// Use temp data and config directories
	dataDir := t.TempDir()
	configDir := t.TempDir()

	run := func(provider string, args ...string) (string, error) {
		cmd := exec.Command(vitalsBinary, args...)
		cmd.Dir = t.TempDir()
		cmd.Env = append(os.Environ(),
			"XDG_CONFIG_HOME="+configDir,
			"VITALS_DATA_DIR="+dataDir,
			"VITALS_BACKEND=sqlite",
			"VITALS_PROVIDER="+provider,
			"VITALS_LOG_LEVEL=error",
		)
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Mock fetch for a fixed day
	output, err := run("mock", "fetch", "--date", "2025-02-19")
	if err != nil {
		t.Fatalf("Failed to fetch: %v\n%s", err, output)
	}
	if !strings.Contains(output, "5/5 metrics") {
		t.Errorf("Expected '5/5 metrics' in output, got: %s", output)
	}

	// Validation without a store
	output, err = run("mock", "validate", "--steps", "8000", "--hrv", "45", "--rhr", "65")
	if err != nil {
		t.Fatalf("Failed to validate: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Valid") {
		t.Errorf("Expected 'Valid' in output, got: %s", output)
	}

	// Future dates fail with a hint
	output, err = run("mock", "fetch", "--date", "2999-01-01")
	if err == nil {
		t.Fatalf("Expected future fetch to fail, got: %s", output)
	}
	if !strings.Contains(output, "earlier date") {
		t.Errorf("Expected retry hint in output, got: %s", output)
	}

	// Inject seeds the store
	output, err = run("inject", "fetch")
	if err != nil {
		t.Fatalf("Failed to inject: %v\n%s", err, output)
	}

	output, err = run("live", "list", "--type", "steps")
	if err != nil {
		t.Fatalf("Failed to list: %v\n%s", err, output)
	}
	if !strings.Contains(output, "vitals.synthetic") {
		t.Errorf("Expected synthetic samples in list output, got: %s", output)
	}

	// Copy to badger and read back through the live provider
	output, err = run("live", "migrate", "--from", "sqlite", "--to", "badger")
	if err != nil {
		t.Fatalf("Failed to migrate: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Migrated 70 samples") {
		t.Errorf("Expected 'Migrated 70 samples' in output, got: %s", output)
	}

	output, err = run("live", "week")
	if err != nil {
		t.Fatalf("Failed to show week: %v\n%s", err, output)
	}
	if !strings.Contains(output, "7/7 valid days") {
		t.Errorf("Expected '7/7 valid days' in week output, got: %s", output)
	}

	// Clearing synthetic samples empties the live view
	output, err = run("live", "clear")
	if err != nil {
		t.Fatalf("Failed to clear: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Deleted 70 samples") {
		t.Errorf("Expected 'Deleted 70 samples' in output, got: %s", output)
	}
}
