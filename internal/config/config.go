package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Ultravox UltravoxConfig `toml:"ultravox"`
	DB       DBConfig       `toml:"db"`
	Sync     SyncConfig     `toml:"sync"`
	Trace    TraceConfig    `toml:"trace"`
}

type UltravoxConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

type DBConfig struct {
	Path string `toml:"path"`
}

type SyncConfig struct {
	// DefaultVoice is used when a client record has no voice configured.
	DefaultVoice string `toml:"default_voice"`
	// CorpusMaxResults is the fallback result limit for corpus queries.
	CorpusMaxResults int `toml:"corpus_max_results"`
}

type TraceConfig struct {
	Endpoint string `toml:"endpoint"`
	URLPath  string `toml:"url_path"`
	APIKey   string `toml:"api_key"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Ultravox: UltravoxConfig{
			BaseURL: "https://api.ultravox.ai",
		},
		DB: DBConfig{
			Path: defaultDBPath(),
		},
		Sync: SyncConfig{
			DefaultVoice:     "Jessica",
			CorpusMaxResults: 5,
		},
	}

	path := Path()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Secrets may come from the environment instead of the config file.
	if v := os.Getenv("ULTRAVOX_API_KEY"); v != "" {
		cfg.Ultravox.APIKey = v
	}
	if v := os.Getenv("ULTRAVOX_BASE_URL"); v != "" {
		cfg.Ultravox.BaseURL = v
	}

	return cfg, nil
}

// Path returns the location of the config file.
func Path() string {
	dir, _ := os.UserConfigDir()
	return filepath.Join(dir, "voicesync", "config.toml")
}

func defaultDBPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, ".local", "share", "voicesync", "voicesync.db")
}
