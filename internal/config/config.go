package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"mockline/internal/chaos"
)

// Config models mockline.yml.
type Config struct {
	Server struct {
		Addr                   string `yaml:"addr"`
		BasePath               string `yaml:"base_path"`
		DevLogin               bool   `yaml:"dev_login"`
		AllowLegacyActorHeader bool   `yaml:"allow_legacy_actor_header"`
	} `yaml:"server"`
	Chaos struct {
		Effects        []string `yaml:"effects"`
		ErrorStatuses  []int    `yaml:"error_statuses"`
		ExtraLatencyMs int      `yaml:"extra_latency_ms"`
	} `yaml:"chaos"`
	Templates struct {
		CacheSize int `yaml:"cache_size"`
	} `yaml:"templates"`
	Log struct {
		Env   string `yaml:"env"`
		Level string `yaml:"level"`
	} `yaml:"log"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

type WebhookConfig struct {
	URL            string   `yaml:"url"`
	Events         []string `yaml:"events"`
	Secret         string   `yaml:"secret"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	Enabled        *bool    `yaml:"enabled"`
}

// IsEnabled treats a missing enabled flag as true.
func (w WebhookConfig) IsEnabled() bool {
	return w.Enabled == nil || *w.Enabled
}

// KnownEvents are the event types webhooks may subscribe to.
var KnownEvents = []string{"mock.created", "mock.updated", "mock.deleted", "settings.saved"}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create one or run without it", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns Default() if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Server.BasePath == "" || !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("config.server.base_path must start with /")
	}
	if strings.HasSuffix(c.Server.BasePath, "/") && c.Server.BasePath != "/" {
		return fmt.Errorf("config.server.base_path must not end with /")
	}
	for _, e := range c.Chaos.Effects {
		if _, err := chaos.ParseEffect(e); err != nil {
			return fmt.Errorf("config.chaos.effects: %w", err)
		}
	}
	for _, s := range c.Chaos.ErrorStatuses {
		if s < 100 || s > 599 {
			return fmt.Errorf("config.chaos.error_statuses: %d is not an HTTP status", s)
		}
	}
	if c.Chaos.ExtraLatencyMs < 0 {
		return fmt.Errorf("config.chaos.extra_latency_ms must be >= 0")
	}
	if c.Templates.CacheSize < 0 {
		return fmt.Errorf("config.templates.cache_size must be >= 0")
	}
	switch c.Log.Env {
	case "", "dev", "prod":
	default:
		return fmt.Errorf("config.log.env must be dev or prod")
	}
	for i, hook := range c.Webhooks {
		if strings.TrimSpace(hook.URL) == "" {
			return fmt.Errorf("config.webhooks[%d].url is required", i)
		}
		u, err := url.Parse(hook.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config.webhooks[%d].url must be an absolute http(s) url", i)
		}
		if hook.TimeoutSeconds < 0 {
			return fmt.Errorf("config.webhooks[%d].timeout_seconds must be >= 0", i)
		}
		for _, ev := range hook.Events {
			if ev == "*" {
				continue
			}
			if !knownEvent(ev) {
				return fmt.Errorf("config.webhooks[%d] subscribes to unknown event %s", i, ev)
			}
		}
	}
	return nil
}

// knownEvent accepts an exact event type or a "kind.*" pattern matching at
// least one of them.
func knownEvent(ev string) bool {
	prefix, wildcard := strings.CutSuffix(ev, "*")
	for _, k := range KnownEvents {
		if k == ev || (wildcard && strings.HasSuffix(prefix, ".") && strings.HasPrefix(k, prefix)) {
			return true
		}
	}
	return false
}

// ChaosConfig converts the chaos section for chaos.NewPolicy.
func (c *Config) ChaosConfig() chaos.Config {
	out := chaos.Config{
		ErrorStatuses: append([]int(nil), c.Chaos.ErrorStatuses...),
		ExtraLatency:  time.Duration(c.Chaos.ExtraLatencyMs) * time.Millisecond,
	}
	for _, e := range c.Chaos.Effects {
		if eff, err := chaos.ParseEffect(e); err == nil {
			out.Effects = append(out.Effects, eff)
		}
	}
	return out
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "mockline.yml")
}

// Default returns the default Config struct.
func Default() *Config {
	cfg, err := decode([]byte(defaultTemplate))
	if err != nil {
		panic(err)
	}
	return cfg
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// FromYAML parses and validates config from raw YAML bytes. Unset fields
// keep their defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg, err := decode([]byte(defaultTemplate))
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

func decode(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	return &cfg, nil
}

const defaultTemplate = `server:
  addr: 127.0.0.1:8080
  base_path: /api
  dev_login: false
  allow_legacy_actor_header: false

chaos:
  effects: [status, partial, latency]
  error_statuses: [400, 401, 403, 404, 500, 502, 503]
  extra_latency_ms: 2000

templates:
  cache_size: 256

log:
  env: dev
  level: info
`
