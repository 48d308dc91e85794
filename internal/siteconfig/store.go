package siteconfig

import (
	"encoding/json"
	"os"
	"sync/atomic"

	"productworker/logger"
	"productworker/pkg/errors"
)

// Store indexes site configurations by key. The table is immutable once
// built; LoadFile swaps in a whole new table, so readers never see a
// partially-updated store.
type Store struct {
	configs atomic.Pointer[map[string]SiteConfig]
	log     *logger.Logger
}

// NewStore creates a store seeded with the built-in profiles.
func NewStore() *Store {
	s := &Store{log: logger.ForComponent("siteconfig")}
	configs := builtinConfigs()
	s.configs.Store(&configs)
	return s
}

// LoadFile reads a JSON site configuration file and replaces the store
// contents with the built-in profiles overlaid by the file's entries.
// Malformed entries are skipped with a warning; only an unreadable or
// unparsable file is an error.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewConfig(path, "failed to read site config file", err)
	}

	var raw map[string]SiteConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.NewConfig(path, "failed to parse site config file", err)
	}

	configs := builtinConfigs()
	loaded := 0
	for key, cfg := range raw {
		cfg.Key = key
		cfg.normalize()
		if err := cfg.Validate(); err != nil {
			s.log.Warn().
				Str("site", key).
				Err(err).
				Msg("Skipping invalid site config entry")
			continue
		}
		configs[key] = cfg
		loaded++
	}

	s.configs.Store(&configs)
	s.log.Info().
		Int("file_entries", loaded).
		Int("total", len(configs)).
		Str("path", path).
		Msg("Site configurations loaded")
	return nil
}

// Get returns the configuration registered under key.
func (s *Store) Get(key string) (SiteConfig, bool) {
	configs := *s.configs.Load()
	cfg, ok := configs[key]
	return cfg, ok
}

// Generic returns the fallback configuration.
func (s *Store) Generic() SiteConfig {
	cfg, _ := s.Get(GenericKey)
	return cfg
}

// Keys returns all registered site keys.
func (s *Store) Keys() []string {
	configs := *s.configs.Load()
	keys := make([]string, 0, len(configs))
	for k := range configs {
		keys = append(keys, k)
	}
	return keys
}
