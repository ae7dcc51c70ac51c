package config

import "sync"

// Store holds the live configuration. The launcher reads the current
// snapshot at call time, so .env edits picked up by Reload apply to the
// next call without a restart.
type Store struct {
	mu      sync.RWMutex
	current Config
	envFile string
}

// NewStore creates a store seeded with cfg. envFile may be empty when no
// .env file is in play.
func NewStore(cfg Config, envFile string) *Store {
	return &Store{current: cfg, envFile: envFile}
}

// Current returns the latest configuration snapshot.
func (s *Store) Current() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reload re-applies the .env file (file values win) and rebuilds the
// configuration from the environment.
func (s *Store) Reload() error {
	if s.envFile != "" {
		if err := OverloadDotenv(s.envFile); err != nil {
			return err
		}
	}
	cfg := FromEnv()
	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()
	return nil
}

// Replace swaps in a configuration directly.
func (s *Store) Replace(cfg Config) {
	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()
}
