package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.TMDB.Token = "test-token"
	cfg.TMDB.Timeout = 5 * time.Second
	cfg.TMDB.UserAgent = "reel-test/1.0"
	cfg.UI.ToastDuration = 50 * time.Millisecond
	cfg.Open.Opener = "true"
	return cfg
}
