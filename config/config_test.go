package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, 2*time.Second, cfg.RenderWait)
	assert.Equal(t, 2*time.Second, cfg.PageDelay)
	assert.Equal(t, 10*time.Second, cfg.WaitTimeout)
	assert.Equal(t, 3, cfg.MaxWorkers)
	assert.Equal(t, 3, cfg.DefaultMaxPages)
	assert.Equal(t, "products", cfg.RedisStream)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PAGE_DELAY_SECONDS", "5")
	t.Setenv("MAX_WORKERS", "2")
	t.Setenv("SITE_CONFIG_PATH", "/etc/scraper/sites.json")

	cfg := LoadConfig()

	assert.Equal(t, 5*time.Second, cfg.PageDelay)
	assert.Equal(t, 2, cfg.MaxWorkers)
	assert.Equal(t, "/etc/scraper/sites.json", cfg.SiteConfigPath)
}

func TestValidate(t *testing.T) {
	cfg := LoadConfig()
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.MaxWorkers = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.MaxWorkers = 100
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.DefaultMaxPages = 11
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.WaitTimeout = 0
	assert.Error(t, bad.Validate())
}
