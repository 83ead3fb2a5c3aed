package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ThemeConfig selects a color preset and optional per-color overrides.
type ThemeConfig struct {
	Preset        string `mapstructure:"preset"`
	Primary       string `mapstructure:"primary"`
	Secondary     string `mapstructure:"secondary"`
	Accent        string `mapstructure:"accent"`
	Muted         string `mapstructure:"muted"`
	Danger        string `mapstructure:"danger"`
	Background    string `mapstructure:"background"`
	MarkdownStyle string `mapstructure:"markdown_style"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StickersConfig holds the image generation API settings.
type StickersConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	MaxRetries int `mapstructure:"max_retries"`
}

// ExportConfig holds PDF layout widths in millimetres.
type ExportConfig struct {
	ImageWidth   float64 `mapstructure:"image_width"`
	StickerWidth float64 `mapstructure:"sticker_width"`
}

// Config holds the application configuration.
type Config struct {
	DataDir    string         `mapstructure:"data_dir"`
	Editor     string         `mapstructure:"editor"`
	ListenAddr string         `mapstructure:"listen_addr"`
	Log        LogConfig      `mapstructure:"log"`
	Theme      ThemeConfig    `mapstructure:"theme"`
	Stickers   StickersConfig `mapstructure:"stickers"`
	Export     ExportConfig   `mapstructure:"export"`
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// DefaultDataDir returns the default data directory (~/.moodiary/).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".moodiary")
	}
	return filepath.Join(home, ".moodiary")
}

// Load reads configuration from file, environment variables, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("editor", "")
	v.SetDefault("listen_addr", "127.0.0.1:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("theme.preset", "default-dark")
	v.SetDefault("theme.markdown_style", "")
	v.SetDefault("stickers.api_key", "")
	v.SetDefault("stickers.base_url", "https://api.openai.com/v1")
	v.SetDefault("stickers.model", "dall-e-3")
	v.SetDefault("stickers.timeout", "2m")
	v.SetDefault("stickers.cache_ttl", "1h")
	v.SetDefault("stickers.max_retries", 2)
	v.SetDefault("export.image_width", 100.0)
	v.SetDefault("export.sticker_width", 25.0)

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// XDG support
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "moodiary"))
		}
		v.AddConfigPath(DefaultDataDir())
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	// Environment variables: MOODIARY_DATA_DIR, MOODIARY_STICKERS_API_KEY, etc.
	v.SetEnvPrefix("MOODIARY")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	// Read config file (ignore not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && configPath != "" {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
