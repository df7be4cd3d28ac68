package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level deckhand configuration, loaded from an
// optional YAML file. Every field has a working default so a missing
// file is not an error.
type Config struct {
	DeckFile      string         `yaml:"deck_file"`
	CardCacheDir  string         `yaml:"card_cache_dir"`
	CurveCacheDir string         `yaml:"curve_cache_dir"`
	ImageCacheDir string         `yaml:"image_cache_dir"`
	Scryfall      ScryfallConfig `yaml:"scryfall"`
	Web           WebConfig      `yaml:"web"`
}

// ScryfallConfig controls the remote card database client.
type ScryfallConfig struct {
	BaseURL        string `yaml:"base_url"`
	UserAgent      string `yaml:"user_agent"`
	RequestDelayMS int    `yaml:"request_delay_ms"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// WebConfig controls the deck viewer server.
type WebConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DeckFile:      "deck.txt",
		CardCacheDir:  "scryfall_cache",
		CurveCacheDir: ".cache",
		ImageCacheDir: "image_cache",
		Scryfall: ScryfallConfig{
			BaseURL:        "https://api.scryfall.com",
			UserAgent:      "deckhand/1.0",
			RequestDelayMS: 100,
			TimeoutSeconds: 15,
		},
		Web: WebConfig{
			Addr: ":8080",
		},
	}
}

// Load reads a YAML config file, filling unset fields from Default. A
// missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config YAML: %w", err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults restores any field an explicit config left empty.
func (c *Config) fillDefaults() {
	def := Default()
	if c.DeckFile == "" {
		c.DeckFile = def.DeckFile
	}
	if c.CardCacheDir == "" {
		c.CardCacheDir = def.CardCacheDir
	}
	if c.CurveCacheDir == "" {
		c.CurveCacheDir = def.CurveCacheDir
	}
	if c.ImageCacheDir == "" {
		c.ImageCacheDir = def.ImageCacheDir
	}
	if c.Scryfall.BaseURL == "" {
		c.Scryfall.BaseURL = def.Scryfall.BaseURL
	}
	if c.Scryfall.UserAgent == "" {
		c.Scryfall.UserAgent = def.Scryfall.UserAgent
	}
	if c.Scryfall.RequestDelayMS <= 0 {
		c.Scryfall.RequestDelayMS = def.Scryfall.RequestDelayMS
	}
	if c.Scryfall.TimeoutSeconds <= 0 {
		c.Scryfall.TimeoutSeconds = def.Scryfall.TimeoutSeconds
	}
	if c.Web.Addr == "" {
		c.Web.Addr = def.Web.Addr
	}
}
