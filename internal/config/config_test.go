package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mockline/internal/chaos"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "/api", cfg.Server.BasePath)
	assert.Equal(t, 256, cfg.Templates.CacheSize)

	cc := cfg.ChaosConfig()
	assert.Equal(t, chaos.AllEffects, cc.Effects)
	assert.Equal(t, chaos.DefaultErrorStatuses, cc.ErrorStatuses)
	assert.Equal(t, 2*time.Second, cc.ExtraLatency)
}

func TestFromYAMLKeepsDefaults(t *testing.T) {
	cfg, err := FromYAML([]byte("chaos:\n  effects: [status]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"status"}, cfg.Chaos.Effects)
	assert.Equal(t, "/api", cfg.Server.BasePath)
	assert.Equal(t, 2000, cfg.Chaos.ExtraLatencyMs)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"effect":      "chaos:\n  effects: [explode]\n",
		"status":      "chaos:\n  error_statuses: [42]\n",
		"base path":   "server:\n  base_path: api\n",
		"cache":       "templates:\n  cache_size: -1\n",
		"log env":     "log:\n  env: staging\n",
		"hook url":    "webhooks:\n  - url: ftp://example.com\n",
		"hook event":  "webhooks:\n  - url: http://example.com\n    events: [task.done]\n",
		"bad yaml":    "server: [",
		"hook no url": "webhooks:\n  - events: ['*']\n",
	}
	for name, doc := range cases {
		_, err := FromYAML([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestWebhookEnabledDefault(t *testing.T) {
	cfg, err := FromYAML([]byte("webhooks:\n  - url: http://example.com/h\n    events: ['*']\n  - url: http://example.com/off\n    enabled: false\n"))
	require.NoError(t, err)
	require.Len(t, cfg.Webhooks, 2)
	assert.True(t, cfg.Webhooks[0].IsEnabled())
	assert.False(t, cfg.Webhooks[1].IsEnabled())
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOptional(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "mockline.yml"), []byte("templates:\n  cache_size: 0\n"), 0o644))
	cfg, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Templates.CacheSize)
}

func TestWebhookEventPatterns(t *testing.T) {
	for _, ev := range []string{"*", "mock.created", "mock.*", "settings.*"} {
		cfg := Default()
		cfg.Webhooks = []WebhookConfig{{URL: "http://hooks.test/in", Events: []string{ev}}}
		assert.NoError(t, cfg.Validate(), ev)
	}
	for _, ev := range []string{"task.*", "mock.", "mock*", "settings.deleted"} {
		cfg := Default()
		cfg.Webhooks = []WebhookConfig{{URL: "http://hooks.test/in", Events: []string{ev}}}
		assert.Error(t, cfg.Validate(), ev)
	}
}
