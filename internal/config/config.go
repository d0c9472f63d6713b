package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

type Config struct {
	TMDB  TMDBConfig  `mapstructure:"tmdb"`
	Cache CacheConfig `mapstructure:"cache"`
	UI    UIConfig    `mapstructure:"ui"`
	Keys  KeyConfig   `mapstructure:"keys"`
	Log   LogConfig   `mapstructure:"log"`
	Open  OpenConfig  `mapstructure:"open"`
}

// DefaultRequestTimeout applies when tmdb.timeout is unset.
const DefaultRequestTimeout = 30 * time.Second

type TMDBConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	Token        string        `mapstructure:"token"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Language     string        `mapstructure:"language"`
	IncludeAdult bool          `mapstructure:"include_adult"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// CacheConfig tunes the query store. Entries younger than StaleTime are served
// without a refetch; entries older than CacheTime are evicted.
type CacheConfig struct {
	StaleTime time.Duration `mapstructure:"stale_time"`
	CacheTime time.Duration `mapstructure:"cache_time"`
}

type UIConfig struct {
	Colors        UIColors      `mapstructure:"colors"`
	ToastDuration time.Duration `mapstructure:"toast_duration"`
	PosterSize    string        `mapstructure:"poster_size"`
	CardWidth     int           `mapstructure:"card_width"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit     string `mapstructure:"quit"`
	Search   string `mapstructure:"search"`
	Recall   string `mapstructure:"recall"`
	Open     string `mapstructure:"open"`
	Poster   string `mapstructure:"poster"`
	NextPage string `mapstructure:"next_page"`
	PrevPage string `mapstructure:"prev_page"`
	Back     string `mapstructure:"back"`
	Help     string `mapstructure:"help"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// OpenConfig controls how URLs are handed to the desktop.
type OpenConfig struct {
	Opener string `mapstructure:"opener"`
}

func defaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			Timeout:      DefaultRequestTimeout,
			UserAgent:    "reel/1.0 (https://github.com/pders01/reel)",
		},
		Cache: CacheConfig{
			StaleTime: 1 * time.Minute,
			CacheTime: 5 * time.Minute,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			ToastDuration: 4 * time.Second,
			PosterSize:    "w342",
			CardWidth:     28,
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:     "q",
				Search:   "s",
				Recall:   "f",
				Open:     "o",
				Poster:   "p",
				NextPage: "]",
				PrevPage: "[",
				Back:     "esc",
				Help:     "?",
			},
		},
		Log: LogConfig{
			Level: "off",
		},
		Open: OpenConfig{
			Opener: DefaultOpener(),
		},
	}
}

// RequestTimeout is the deadline for one TMDB request. Zero means the default.
func (t TMDBConfig) RequestTimeout() time.Duration {
	if t.Timeout <= 0 {
		return DefaultRequestTimeout
	}
	return t.Timeout
}

// DefaultOpener returns the platform command that opens a URL in the browser.
func DefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// DefaultPath returns ~/.config/reel/config.toml.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "reel", "config.toml")
}

// setDefaults registers every leaf key so that a partial config file or a
// single environment variable only overrides what it names.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("tmdb.base_url", cfg.TMDB.BaseURL)
	v.SetDefault("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)
	v.SetDefault("tmdb.token", cfg.TMDB.Token)
	v.SetDefault("tmdb.timeout", cfg.TMDB.Timeout)
	v.SetDefault("tmdb.language", cfg.TMDB.Language)
	v.SetDefault("tmdb.include_adult", cfg.TMDB.IncludeAdult)
	v.SetDefault("tmdb.user_agent", cfg.TMDB.UserAgent)

	v.SetDefault("cache.stale_time", cfg.Cache.StaleTime)
	v.SetDefault("cache.cache_time", cfg.Cache.CacheTime)

	c := cfg.UI.Colors
	v.SetDefault("ui.colors.primary", c.Primary)
	v.SetDefault("ui.colors.secondary", c.Secondary)
	v.SetDefault("ui.colors.accent", c.Accent)
	v.SetDefault("ui.colors.background", c.Background)
	v.SetDefault("ui.colors.surface", c.Surface)
	v.SetDefault("ui.colors.text", c.Text)
	v.SetDefault("ui.colors.muted", c.Muted)
	v.SetDefault("ui.colors.error", c.Error)
	v.SetDefault("ui.colors.success", c.Success)
	v.SetDefault("ui.toast_duration", cfg.UI.ToastDuration)
	v.SetDefault("ui.poster_size", cfg.UI.PosterSize)
	v.SetDefault("ui.card_width", cfg.UI.CardWidth)

	b := cfg.Keys.Bindings
	v.SetDefault("keys.modifier", cfg.Keys.Modifier)
	v.SetDefault("keys.bindings.quit", b.Quit)
	v.SetDefault("keys.bindings.search", b.Search)
	v.SetDefault("keys.bindings.recall", b.Recall)
	v.SetDefault("keys.bindings.open", b.Open)
	v.SetDefault("keys.bindings.poster", b.Poster)
	v.SetDefault("keys.bindings.next_page", b.NextPage)
	v.SetDefault("keys.bindings.prev_page", b.PrevPage)
	v.SetDefault("keys.bindings.back", b.Back)
	v.SetDefault("keys.bindings.help", b.Help)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("open.opener", cfg.Open.Opener)
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.AddConfigPath(".")
	}

	// REEL_TMDB_TOKEN, REEL_LOG_LEVEL, ...
	v.SetEnvPrefix("REEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	config.Log.File = expandPath(config.Log.File)

	return &config, nil
}

// Validate reports configuration that would make every request fail.
func (c *Config) Validate() error {
	if c.TMDB.Token == "" {
		return fmt.Errorf("tmdb.token is required (set REEL_TMDB_TOKEN or add it to %s)", DefaultPath())
	}
	if c.TMDB.BaseURL == "" {
		return fmt.Errorf("tmdb.base_url is required")
	}
	if c.TMDB.Timeout < 0 {
		return fmt.Errorf("tmdb.timeout must not be negative, got %s", c.TMDB.Timeout)
	}
	if c.Cache.CacheTime > 0 && c.Cache.StaleTime > c.Cache.CacheTime {
		return fmt.Errorf("cache.stale_time (%s) exceeds cache.cache_time (%s)", c.Cache.StaleTime, c.Cache.CacheTime)
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

// fileConfig mirrors Config with TOML tags and durations as strings so the
// generated file stays human-editable.
type fileConfig struct {
	TMDB struct {
		BaseURL      string `toml:"base_url"`
		ImageBaseURL string `toml:"image_base_url"`
		Token        string `toml:"token"`
		Timeout      string `toml:"timeout"`
		Language     string `toml:"language"`
		IncludeAdult bool   `toml:"include_adult"`
		UserAgent    string `toml:"user_agent"`
	} `toml:"tmdb"`
	Cache struct {
		StaleTime string `toml:"stale_time"`
		CacheTime string `toml:"cache_time"`
	} `toml:"cache"`
	UI struct {
		Colors        map[string]string `toml:"colors"`
		ToastDuration string            `toml:"toast_duration"`
		PosterSize    string            `toml:"poster_size"`
		CardWidth     int               `toml:"card_width"`
	} `toml:"ui"`
	Keys struct {
		Modifier string            `toml:"modifier"`
		Bindings map[string]string `toml:"bindings"`
	} `toml:"keys"`
	Log struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"log"`
	Open struct {
		Opener string `toml:"opener"`
	} `toml:"open"`
}

func toFileConfig(config *Config) fileConfig {
	var fc fileConfig
	fc.TMDB.BaseURL = config.TMDB.BaseURL
	fc.TMDB.ImageBaseURL = config.TMDB.ImageBaseURL
	fc.TMDB.Token = config.TMDB.Token
	fc.TMDB.Timeout = config.TMDB.Timeout.String()
	fc.TMDB.Language = config.TMDB.Language
	fc.TMDB.IncludeAdult = config.TMDB.IncludeAdult
	fc.TMDB.UserAgent = config.TMDB.UserAgent

	fc.Cache.StaleTime = config.Cache.StaleTime.String()
	fc.Cache.CacheTime = config.Cache.CacheTime.String()

	c := config.UI.Colors
	fc.UI.Colors = map[string]string{
		"primary":    c.Primary,
		"secondary":  c.Secondary,
		"accent":     c.Accent,
		"background": c.Background,
		"surface":    c.Surface,
		"text":       c.Text,
		"muted":      c.Muted,
		"error":      c.Error,
		"success":    c.Success,
	}
	fc.UI.ToastDuration = config.UI.ToastDuration.String()
	fc.UI.PosterSize = config.UI.PosterSize
	fc.UI.CardWidth = config.UI.CardWidth

	b := config.Keys.Bindings
	fc.Keys.Modifier = config.Keys.Modifier
	fc.Keys.Bindings = map[string]string{
		"quit":      b.Quit,
		"search":    b.Search,
		"recall":    b.Recall,
		"open":      b.Open,
		"poster":    b.Poster,
		"next_page": b.NextPage,
		"prev_page": b.PrevPage,
		"back":      b.Back,
		"help":      b.Help,
	}

	fc.Log.Level = config.Log.Level
	fc.Log.File = config.Log.File
	fc.Open.Opener = config.Open.Opener
	return fc
}

func Save(config *Config, path string) error {
	data, err := toml.Marshal(toFileConfig(config))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// The file may carry the API token.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
