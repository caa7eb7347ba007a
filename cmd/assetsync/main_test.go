package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunCLINoArgs(t *testing.T) {
	if code := runCLI(nil); code != 1 {
		t.Errorf("runCLI() = %d, want 1", code)
	}
}

func TestRunCLIUnknownCommand(t *testing.T) {
	if code := runCLI([]string{"frobnicate"}); code != 1 {
		t.Errorf("runCLI(frobnicate) = %d, want 1", code)
	}
}

func TestRunCLIHelp(t *testing.T) {
	if code := runCLI([]string{"help"}); code != 0 {
		t.Errorf("runCLI(help) = %d, want 0", code)
	}
}

func TestRunCLIVersion(t *testing.T) {
	if code := runCLI([]string{"version"}); code != 0 {
		t.Errorf("runCLI(version) = %d, want 0", code)
	}
}

func TestRunCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
webhook:
  secret: topsecret
snipeit:
  url: https://assets.example.com
  token: api-token
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if code := runCLI([]string{"check", "--config", path}); code != 0 {
		t.Errorf("check valid config = %d, want 0", code)
	}
}

func TestRunCheckInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("webhook:\n  secret: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if code := runCLI([]string{"check", "--config", path}); code != 1 {
		t.Errorf("check invalid config = %d, want 1", code)
	}
}

func TestRunCheckMissingFile(t *testing.T) {
	if code := runCLI([]string{"check", "--config", filepath.Join(t.TempDir(), "nope.yaml")}); code != 1 {
		t.Errorf("check missing file = %d, want 1", code)
	}
}
