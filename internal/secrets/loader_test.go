package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadInlineValue(t *testing.T) {
	secret, err := Load(Source{Name: "serpapi api key", Value: "  inline-key  "})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if secret != "inline-key" {
		t.Fatalf("expected the trimmed inline value, got %q", secret)
	}
}

func TestLoadFilePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("file-key\n"), 0o600); err != nil {
		t.Fatalf("writing the key file: %s", err)
	}

	secret, err := Load(Source{Name: "gemini api key", Value: "inline-key", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if secret != "file-key" {
		t.Fatalf("expected the file value to win, got %q", secret)
	}
}

func TestLoadEnvPrecedence(t *testing.T) {
	t.Setenv("LI_SOURCER_TEST_KEY", "env-key")

	secret, err := Load(Source{Name: "api key", Value: "inline-key", Env: "LI_SOURCER_TEST_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if secret != "env-key" {
		t.Fatalf("expected the env value to win over the inline value, got %q", secret)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(Source{Name: "serpapi api key"})
	if err == nil {
		t.Fatalf("expected an error for a missing secret")
	}
	if !strings.Contains(err.Error(), "serpapi api key is not configured") {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("writing the key file: %s", err)
	}

	_, err := Load(Source{Name: "gemini api key", File: path})
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected an empty-file error, got %v", err)
	}
}
