// Package config loads gemchat configuration.
//
// Settings come from ~/.gemchat/config.toml when it exists, with built-in
// defaults otherwise. The API key can always be supplied through the
// GEMINI_API_KEY environment variable, which wins over the file.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the complete gemchat configuration.
type Config struct {
	// APIKey authenticates against the generative-language API.
	APIKey string `toml:"api_key"`

	// BaseURL of the API.
	BaseURL string `toml:"base_url"`

	// StorePath is the sqlite file holding saved conversations.
	StorePath string `toml:"store_path"`

	// LogPath receives the structured log; the TUI owns the terminal.
	LogPath string `toml:"log_path"`

	Typewriter TypewriterConfig `toml:"typewriter"`
}

// TypewriterConfig sets the pacing of the word-by-word reveal.
type TypewriterConfig struct {
	// BaseDelayMs is the minimum pause between words.
	BaseDelayMs int `toml:"base_delay_ms"`

	// JitterMs bounds the random extra pause added to each word.
	JitterMs int `toml:"jitter_ms"`
}

// Dir returns the gemchat configuration directory (~/.gemchat).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gemchat"), nil
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) Config {
	return Config{
		BaseURL:   "https://generativelanguage.googleapis.com",
		StorePath: filepath.Join(dir, "conversations.db"),
		LogPath:   filepath.Join(dir, "gemchat.log"),
		Typewriter: TypewriterConfig{
			BaseDelayMs: 30,
			JitterMs:    20,
		},
	}
}

// Load reads the configuration file if present and applies the environment
// override for the API key. A missing file is not an error.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}

	cfg := Default(dir)

	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.APIKey = key
	}

	return cfg, nil
}
