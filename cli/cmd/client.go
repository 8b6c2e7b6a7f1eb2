package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/parley-im/parley/adapter"
	"github.com/parley-im/parley/adapter/redis"
	"github.com/parley-im/parley/adapter/webhook"
	"github.com/parley-im/parley/channel"
	"github.com/parley-im/parley/cli/config"
	"github.com/parley-im/parley/client"
	"github.com/parley-im/parley/log"
	"github.com/parley-im/parley/statestore"
)

// loadConfig reads the config file named by --config. A missing file is
// only an error when the flag was set explicitly; the default path may
// simply not exist.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		if !c.IsSet("config") && strings.Contains(err.Error(), "not found") {
			return &config.Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// buildClient assembles a client from config. withStream controls
// whether the push channel is attached; one-shot commands skip it.
func buildClient(c *cli.Context, cfg *config.Config, withStream bool) (*client.Client, error) {
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url is required (set it in %s)", c.String("config"))
	}

	clientCfg := client.Config{
		Transport:                client.NewHTTPTransport(cfg.API.BaseURL, nil),
		Email:                    cfg.Account.Email,
		LanguageCode:             cfg.API.LanguageCode,
		MaxEventsPerConversation: cfg.Sync.MaxEventsPerConversation,
		Retention:                cfg.Sync.Retention,
	}

	logger := log.Nop()
	if c.Bool("verbose") {
		logger = log.NewLogger("cli")
	}
	clientCfg.Logger = logger

	if cfg.State.Path != "" {
		clientCfg.Store = statestore.NewStore(cfg.State.Path)
	}

	if withStream {
		if cfg.API.ChannelURL == "" {
			return nil, fmt.Errorf("api.channel_url is required for live commands")
		}
		clientCfg.Stream = channel.NewWSStream(channel.WSConfig{
			URL:    cfg.API.ChannelURL,
			Logger: logger,
		})
	}

	return client.New(clientCfg), nil
}

// buildAdapters constructs the configured outbound adapters. An empty
// adapter type yields none.
func buildAdapters(cfg *config.Config) ([]adapter.Adapter, error) {
	ac := cfg.Adapter
	switch ac.Type {
	case "":
		return nil, nil
	case "webhook":
		retries := webhook.DefaultRetries
		if ac.Retries != nil {
			retries = *ac.Retries
		}
		a, err := webhook.New(webhook.Config{
			URL:     ac.URL,
			Headers: ac.Headers,
			Timeout: ac.Timeout.Duration,
			Retries: retries,
		})
		if err != nil {
			return nil, err
		}
		return []adapter.Adapter{a}, nil
	case "redis":
		retries := redis.DefaultRetries
		if ac.Retries != nil {
			retries = *ac.Retries
		}
		a, err := redis.New(redis.Config{
			URL:     ac.URL,
			Channel: ac.Channel,
			Timeout: ac.Timeout.Duration,
			Retries: retries,
		})
		if err != nil {
			return nil, err
		}
		return []adapter.Adapter{a}, nil
	default:
		return nil, fmt.Errorf("unknown adapter type %q (must be webhook or redis)", ac.Type)
	}
}
