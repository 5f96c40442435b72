// Package config loads Argus settings via koanf with layered sources:
// built-in defaults, then an optional config.yaml, then ARGUS_* environment
// variables (highest priority).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/argus/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "ARGUS_CONFIG"

// EnvPrefix namespaces Argus environment variables. Nesting uses a double
// underscore: ARGUS_WEBHOOK__URL → webhook.url.
const EnvPrefix = "ARGUS_"

// Config is the full runtime configuration.
type Config struct {
	Log      LogConfig      `koanf:"log"`
	Feed     FeedConfig     `koanf:"feed"`
	Cache    CacheConfig    `koanf:"cache"`
	Redis    RedisConfig    `koanf:"redis"`
	Backoff  BackoffConfig  `koanf:"backoff"`
	Webhook  WebhookConfig  `koanf:"webhook"`
	Matches  EndpointConfig `koanf:"live_matches"`
	Draw     EndpointConfig `koanf:"live_draw"`
	Shutdown time.Duration  `koanf:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

type FeedConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
}

// CacheConfig selects the snapshot cache provider.
type CacheConfig struct {
	Provider string `koanf:"provider"` // redis | memory | noop
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type BackoffConfig struct {
	Factor         float64 `koanf:"factor"`
	MaxMultiplier  float64 `koanf:"max_multiplier"`
	ResetOnSuccess bool    `koanf:"reset_on_success"`
}

type WebhookConfig struct {
	Enabled        bool          `koanf:"enabled"`
	URL            string        `koanf:"url"`
	Secret         string        `koanf:"secret"`
	BatchSize      int           `koanf:"batch_size"`
	FlushInterval  time.Duration `koanf:"flush_interval"`
	MaxAttempts    int           `koanf:"max_attempts"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`
	RetryMaxDelay  time.Duration `koanf:"retry_max_delay"`
	Timeout        time.Duration `koanf:"timeout"`
}

// EndpointConfig overrides an endpoint module's defaults.
type EndpointConfig struct {
	PollInterval  time.Duration `koanf:"poll_interval"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`
	MonitorEvents bool          `koanf:"monitor_events"`
}

func defaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Pretty: false,
		},
		Feed: FeedConfig{
			BaseURL: "https://livefeed.atptour.com/feeds",
		},
		Cache: CacheConfig{
			Provider: "redis",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Backoff: BackoffConfig{
			Factor:         2,
			MaxMultiplier:  8,
			ResetOnSuccess: true,
		},
		Webhook: WebhookConfig{
			Enabled:        false,
			BatchSize:      10,
			FlushInterval:  5 * time.Second,
			MaxAttempts:    3,
			RetryBaseDelay: 2 * time.Second,
			RetryMaxDelay:  30 * time.Second,
			Timeout:        10 * time.Second,
		},
		Matches: EndpointConfig{
			PollInterval:  15 * time.Second,
			CacheTTL:      30 * time.Second,
			MonitorEvents: true,
		},
		Draw: EndpointConfig{
			PollInterval:  60 * time.Second,
			CacheTTL:      5 * time.Minute,
			MonitorEvents: true,
		},
		Shutdown: 10 * time.Second,
	}
}

// Load builds the configuration from defaults, file and environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Webhook.Enabled {
		if c.Webhook.URL == "" {
			return fmt.Errorf("webhook.url is required when the webhook sink is enabled")
		}
		if c.Webhook.Secret == "" {
			return fmt.Errorf("webhook.secret is required when the webhook sink is enabled")
		}
	}
	switch c.Cache.Provider {
	case "redis", "memory", "noop":
	default:
		return fmt.Errorf("unknown cache provider %q", c.Cache.Provider)
	}
	return nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envKey maps ARGUS_WEBHOOK__URL to webhook.url.
func envKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}
