package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Site selector configuration
	SiteConfigPath string

	// Rendering configuration
	ChromeDBAddr       string
	RenderWait         time.Duration
	WaitTimeout        time.Duration
	RenderCacheEntries int

	// Crawl configuration
	PageDelay       time.Duration
	MaxWorkers      int
	DefaultMaxPages int
	FetchBlockTime  time.Duration

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	redisStreamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	renderWait, _ := strconv.Atoi(getEnv("RENDER_WAIT_SECONDS", "2"))
	waitTimeout, _ := strconv.Atoi(getEnv("WAIT_TIMEOUT_SECONDS", "10"))
	pageDelay, _ := strconv.Atoi(getEnv("PAGE_DELAY_SECONDS", "2"))
	maxWorkers, _ := strconv.Atoi(getEnv("MAX_WORKERS", "3"))
	defaultMaxPages, _ := strconv.Atoi(getEnv("DEFAULT_MAX_PAGES", "3"))
	fetchBlock, _ := strconv.Atoi(getEnv("FETCH_BLOCK_SECONDS", "300"))
	renderCache, _ := strconv.Atoi(getEnv("RENDER_CACHE_ENTRIES", "64"))

	return Config{
		SiteConfigPath:       getEnv("SITE_CONFIG_PATH", ""),
		ChromeDBAddr:         getEnv("CHROMEDB_ADDR", ""),
		RenderWait:           time.Duration(renderWait) * time.Second,
		WaitTimeout:          time.Duration(waitTimeout) * time.Second,
		RenderCacheEntries:   renderCache,
		PageDelay:            time.Duration(pageDelay) * time.Second,
		MaxWorkers:           maxWorkers,
		DefaultMaxPages:      defaultMaxPages,
		FetchBlockTime:       time.Duration(fetchBlock) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "products"),
		RedisStreamCount:     redisStreamCount,
		RedisStreamMaxLength: redisStreamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		Environment:          getEnv("SCRAPER_ENVIRONMENT", "development"),
	}
}

// Validate ensures all configuration values are coherent
func (c *Config) Validate() error {
	if c.MaxWorkers < 1 || c.MaxWorkers > 8 {
		return fmt.Errorf("MAX_WORKERS must be between 1 and 8, got %d", c.MaxWorkers)
	}
	if c.DefaultMaxPages < 1 || c.DefaultMaxPages > 10 {
		return fmt.Errorf("DEFAULT_MAX_PAGES must be between 1 and 10, got %d", c.DefaultMaxPages)
	}
	if c.PageDelay < 0 {
		return fmt.Errorf("PAGE_DELAY_SECONDS cannot be negative")
	}
	if c.WaitTimeout <= 0 {
		return fmt.Errorf("WAIT_TIMEOUT_SECONDS must be positive")
	}
	if c.RenderCacheEntries < 1 {
		return fmt.Errorf("RENDER_CACHE_ENTRIES must be positive")
	}
	if c.RedisStreamCount < 1 {
		return fmt.Errorf("REDIS_STREAM_COUNT must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
