package cmd

import (
	"testing"

	"github.com/parley-im/parley/cli/config"
)

func TestReadOnlyFlags_IncludesTUI(t *testing.T) {
	flags := ReadOnlyFlags()

	hasTUI := false
	for _, f := range flags {
		if f.Names()[0] == "tui" {
			hasTUI = true
			break
		}
	}

	if !hasTUI {
		t.Error("ReadOnlyFlags should include --tui flag for explicit error handling")
	}
}

func TestCommands_Names(t *testing.T) {
	tests := []struct {
		name string
		got  string
	}{
		{"conversations", ConversationsCommand().Name},
		{"history", HistoryCommand().Name},
		{"send", SendCommand().Name},
		{"watch", WatchCommand().Name},
		{"export", ExportCommand().Name},
		{"version", VersionCommand("none").Name},
	}

	for _, tt := range tests {
		if tt.got != tt.name {
			t.Errorf("command name = %q, want %q", tt.got, tt.name)
		}
	}
}

func TestBuildAdapters_None(t *testing.T) {
	adapters, err := buildAdapters(&config.Config{})
	if err != nil {
		t.Fatalf("buildAdapters: %v", err)
	}
	if len(adapters) != 0 {
		t.Errorf("expected no adapters, got %d", len(adapters))
	}
}

func TestBuildAdapters_Webhook(t *testing.T) {
	cfg := &config.Config{}
	cfg.Adapter.Type = "webhook"
	cfg.Adapter.URL = "http://localhost:9000/hook"

	adapters, err := buildAdapters(cfg)
	if err != nil {
		t.Fatalf("buildAdapters: %v", err)
	}
	if len(adapters) != 1 {
		t.Fatalf("expected 1 adapter, got %d", len(adapters))
	}
	_ = adapters[0].Close()
}

func TestBuildAdapters_WebhookMissingURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.Adapter.Type = "webhook"

	if _, err := buildAdapters(cfg); err == nil {
		t.Error("expected error for webhook adapter without URL")
	}
}

func TestBuildAdapters_UnknownType(t *testing.T) {
	cfg := &config.Config{}
	cfg.Adapter.Type = "kafka"

	if _, err := buildAdapters(cfg); err == nil {
		t.Error("expected error for unknown adapter type")
	}
}

func TestSplitBucketPrefix(t *testing.T) {
	tests := []struct {
		path   string
		bucket string
		prefix string
	}{
		{"archive-bucket", "archive-bucket", ""},
		{"archive-bucket/chats", "archive-bucket", "chats"},
		{"archive-bucket/chats/2026", "archive-bucket", "chats/2026"},
		{"", "", ""},
	}

	for _, tt := range tests {
		bucket, prefix := splitBucketPrefix(tt.path)
		if bucket != tt.bucket || prefix != tt.prefix {
			t.Errorf("splitBucketPrefix(%q) = (%q, %q), want (%q, %q)",
				tt.path, bucket, prefix, tt.bucket, tt.prefix)
		}
	}
}
