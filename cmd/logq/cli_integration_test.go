//go:build integration

package main

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

func buildLogqBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "logq")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build logq: %v\nOutput: %s", err, output)
	}
	return binaryPath
}

// runLogq runs the binary and returns its output and exit code.
func runLogq(t *testing.T, bin string, args ...string) (string, string, int) {
	t.Helper()

	cmd := exec.Command(bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return stdout.String(), stderr.String(), 0
	case errors.As(err, &exitErr):
		return stdout.String(), stderr.String(), exitErr.ExitCode()
	default:
		t.Fatalf("failed to run logq: %v", err)
		return "", "", -1
	}
}

func TestCLIExitCodes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildLogqBinary(t)

	badConfig := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(badConfig, []byte("query:\n  max_constraints: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{"version", []string{"version"}, 0, "logq version", ""},
		{"parse ok", []string{"parse", "/Project//error"}, 0, "error axis=all", ""},
		{"parse malformed", []string{"parse", "/Task/Project"}, 1, "", "OutOfOrderOrDuplicateNode"},
		{"lint ok", []string{"lint", "--file", "testdata/valid.yaml"}, 0, "✓ 3 queries valid", ""},
		{"lint errors", []string{"lint", "--file", "testdata/invalid.yaml"}, 1, "2 error(s)", ""},
		{"bad flag", []string{"parse", "--format", "xml", "//error"}, 2, "", "unknown output format"},
		{"bad config", []string{"--config", badConfig, "parse", "//error"}, 2, "", "config error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runLogq(t, bin, tt.args...)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nstdout: %s\nstderr: %s", code, tt.wantCode, stdout, stderr)
			}
			if tt.wantOut != "" && !strings.Contains(stdout, tt.wantOut) {
				t.Errorf("stdout missing %q:\n%s", tt.wantOut, stdout)
			}
			if tt.wantErr != "" && !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantErr, stderr)
			}
		})
	}
}

func TestCLIWatchStartStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildLogqBinary(t)
	addr := freeAddr(t)

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "queries.yaml")
	copyFile(t, "testdata/valid.yaml", catalogPath)

	configPath := filepath.Join(dir, "logq.yaml")
	config := "catalog:\n  path: " + catalogPath + "\ntelemetry:\n  logging:\n    format: json\n  metrics:\n    listen_address: " + addr + "\n"
	if err := os.WriteFile(configPath, []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command(bin, "--config", configPath, "watch")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start watch: %v", err)
	}
	defer func() { _ = cmd.Process.Kill() }()

	ready := false
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + addr + "/readyz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				ready = true
				break
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !ready {
		t.Fatalf("watch never became ready\nstderr: %s", stderr.String())
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch exited with %v\nstderr: %s", err, stderr.String())
		}
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop after SIGTERM")
	}

	if !strings.Contains(stderr.String(), `"msg":"catalog watcher stopped"`) {
		t.Errorf("shutdown not logged:\nstderr: %s", stderr.String())
	}
}
