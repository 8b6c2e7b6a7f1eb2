package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parley.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func assertEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	yaml := `account:
  email: user@example.com
  cookie_path: ~/.config/parley/cookies.json

api:
  base_url: https://chat.example.com/api
  channel_url: wss://chat.example.com/push
  language_code: en

sync:
  max_events_per_conversation: 75
  retention: 500

state:
  path: ~/.local/state/parley/sync.bin

adapter:
  type: webhook
  url: https://hooks.example.com/parley
  headers:
    Authorization: Bearer token123
  timeout: 10s
  retries: 3

export:
  backend: s3
  path: my-bucket/chat-exports
  region: us-east-1
  endpoint: https://example.com
  s3_path_style: true
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertEqual(t, "account.email", cfg.Account.Email, "user@example.com")
	assertEqual(t, "api.base_url", cfg.API.BaseURL, "https://chat.example.com/api")
	assertEqual(t, "api.channel_url", cfg.API.ChannelURL, "wss://chat.example.com/push")
	assertEqual(t, "api.language_code", cfg.API.LanguageCode, "en")

	if cfg.Sync.MaxEventsPerConversation != 75 {
		t.Errorf("sync.max_events_per_conversation = %d, want 75", cfg.Sync.MaxEventsPerConversation)
	}
	if cfg.Sync.Retention != 500 {
		t.Errorf("sync.retention = %d, want 500", cfg.Sync.Retention)
	}

	assertEqual(t, "state.path", cfg.State.Path, "~/.local/state/parley/sync.bin")

	assertEqual(t, "adapter.type", cfg.Adapter.Type, "webhook")
	assertEqual(t, "adapter.url", cfg.Adapter.URL, "https://hooks.example.com/parley")
	if cfg.Adapter.Timeout.Duration != 10*time.Second {
		t.Errorf("adapter.timeout = %v, want 10s", cfg.Adapter.Timeout.Duration)
	}
	if cfg.Adapter.Retries == nil || *cfg.Adapter.Retries != 3 {
		t.Errorf("expected adapter.retries=3")
	}
	if cfg.Adapter.Headers["Authorization"] != "Bearer token123" {
		t.Errorf("expected Authorization header")
	}

	assertEqual(t, "export.backend", cfg.Export.Backend, "s3")
	assertEqual(t, "export.path", cfg.Export.Path, "my-bucket/chat-exports")
	assertEqual(t, "export.region", cfg.Export.Region, "us-east-1")
	if !cfg.Export.S3PathStyle {
		t.Error("expected export.s3_path_style=true")
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	path := writeTemp(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Account.Email != "" {
		t.Errorf("expected empty email, got %q", cfg.Account.Email)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/parley.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "{{invalid yaml")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_EMAIL", "expanded@example.com")

	yaml := "account:\n  email: ${TEST_EMAIL}\n"
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "account.email", cfg.Account.Email, "expanded@example.com")
}

func TestDuration_Invalid(t *testing.T) {
	path := writeTemp(t, "adapter:\n  timeout: not-a-duration\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}
