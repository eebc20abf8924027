// ABOUTME: Integration tests for readiness CLI.
// ABOUTME: Tests full workflow from CLI commands.
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
	binary := filepath.Join(projectRoot, "readiness")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/readiness")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(binary)

	dataDir := t.TempDir()

	run := func(args ...string) (string, error) {
		fullArgs := append([]string{"--data-dir", dataDir, "--user", "op1"}, args...)
		cmd := exec.Command(binary, fullArgs...)
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Add biometrics
	output, err := run("add", "hrv", "48")
	if err != nil {
		t.Fatalf("Failed to add hrv: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Added hrv") {
		t.Errorf("Expected 'Added hrv' in output, got: %s", output)
	}

	output, err = run("add", "resting_heart_rate", "52")
	if err != nil {
		t.Fatalf("Failed to add resting_heart_rate: %v\n%s", err, output)
	}

	// A workout interval
	output, err = run("add", "workout", "6",
		"--start", "2026-08-28 17:00", "--end", "2026-08-28 18:00")
	if err != nil {
		t.Fatalf("Failed to add workout: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Added workout") {
		t.Errorf("Expected 'Added workout' in output, got: %s", output)
	}

	// Manual sleep
	output, err = run("sleep", "450")
	if err != nil {
		t.Fatalf("Failed to add sleep: %v\n%s", err, output)
	}
	if !strings.Contains(output, "450 min") {
		t.Errorf("Expected sleep confirmation, got: %s", output)
	}

	// Listing
	output, err = run("list")
	if err != nil {
		t.Fatalf("Failed to list: %v\n%s", err, output)
	}
	if !strings.Contains(output, "hrv") {
		t.Errorf("Expected 'hrv' in list output, got: %s", output)
	}

	// Score today
	output, err = run("score")
	if err != nil {
		t.Fatalf("Failed to score: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Readiness for") {
		t.Errorf("Expected score card in output, got: %s", output)
	}

	// Trend shows the stored result
	output, err = run("trend")
	if err != nil {
		t.Fatalf("Failed to show trend: %v\n%s", err, output)
	}
	if !strings.Contains(output, "recovery") {
		t.Errorf("Expected trend line in output, got: %s", output)
	}

	// Baseline is available after the samples
	output, err = run("baseline", "hrv")
	if err != nil {
		t.Fatalf("Failed to show baseline: %v\n%s", err, output)
	}
	if !strings.Contains(output, "median") {
		t.Errorf("Expected baseline output, got: %s", output)
	}
}
