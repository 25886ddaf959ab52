package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, DefaultAPIURL)
	}
	if cfg.PollInterval() != DefaultPollInterval {
		t.Errorf("PollInterval() = %v, want %v", cfg.PollInterval(), DefaultPollInterval)
	}
	if cfg.RequestTimeout() != DefaultRequestTimeout {
		t.Errorf("RequestTimeout() = %v, want %v", cfg.RequestTimeout(), DefaultRequestTimeout)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todoapp.toml")
	content := "api_url = \"http://example.com:9090\"\npoll_interval_seconds = 5\nrequest_timeout_seconds = 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIURL != "http://example.com:9090" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.PollInterval() != 5*time.Second {
		t.Errorf("PollInterval() = %v", cfg.PollInterval())
	}
	if cfg.RequestTimeout() != 2*time.Second {
		t.Errorf("RequestTimeout() = %v", cfg.RequestTimeout())
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TODO_API_URL", "http://override:8081")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIURL != "http://override:8081" {
		t.Errorf("APIURL = %q, want env override", cfg.APIURL)
	}
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todoapp.toml")
	if err := os.WriteFile(path, []byte("api_url = ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed TOML")
	}
}
