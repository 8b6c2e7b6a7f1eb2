package config

import (
	"fmt"
	"time"
)

// Config represents a parley.yaml configuration file.
// All values are optional and act as defaults for CLI flags.
// CLI flags always override config values.
type Config struct {
	Account Account       `yaml:"account"`
	API     API           `yaml:"api"`
	Sync    Sync          `yaml:"sync"`
	State   State         `yaml:"state"`
	Adapter AdapterConfig `yaml:"adapter"`
	Export  Export        `yaml:"export"`
}

// Account identifies the signed-in account.
type Account struct {
	Email string `yaml:"email"`
	// CookiePath points at the stored authentication cookies.
	CookiePath string `yaml:"cookie_path"`
}

// API holds endpoint configuration.
type API struct {
	// BaseURL is the API request base URL.
	BaseURL string `yaml:"base_url"`
	// ChannelURL is the push channel websocket URL.
	ChannelURL string `yaml:"channel_url"`
	// LanguageCode defaults to "en".
	LanguageCode string `yaml:"language_code"`
}

// Sync holds catch-up sync defaults.
type Sync struct {
	// MaxEventsPerConversation bounds each sync page.
	MaxEventsPerConversation int32 `yaml:"max_events_per_conversation"`
	// Retention bounds each conversation's in-memory history. Zero
	// keeps everything.
	Retention int `yaml:"retention"`
}

// State holds local persistence configuration.
type State struct {
	// Path is where the sync snapshot is stored.
	Path string `yaml:"path"`
}

// AdapterConfig holds outbound notification adapter defaults.
type AdapterConfig struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// Export holds history export defaults.
type Export struct {
	// Backend selects the sink: "file" or "s3".
	Backend string `yaml:"backend"`
	// Path is the file sink root, or "bucket/prefix" for S3.
	Path string `yaml:"path"`
	// Region is the AWS region for the S3 backend.
	Region string `yaml:"region"`
	// Endpoint is a custom S3 endpoint for S3-compatible providers.
	Endpoint string `yaml:"endpoint"`
	// S3PathStyle forces path-style addressing.
	S3PathStyle bool `yaml:"s3_path_style"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}
