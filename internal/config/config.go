package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Providers   map[string]ProviderConfig `json:"providers"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

type BasicConfig struct {
	ServerAddress    string `json:"server_address"`
	Provider         string `json:"provider"`
	ClientSecretPath string `json:"client_secret_path"`
	TokenCachePath   string `json:"token_cache_path"`
	CallbackPort     int    `json:"callback_port"`
}

const (
	defaultClientSecretPath = "client_secret.json"
	defaultTokenCachePath   = "token.json"
	defaultCallbackPort     = 8080
	defaultProvider         = "groq"
)

// Load reads configuration from the provided path (defaults to config.json).
// A missing default config file is not an error: the service can run entirely
// from environment variables and the built-in defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return defaults(), nil
		}
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyDefaults(&cfg)

	if !filepath.IsAbs(cfg.BasicConfig.ClientSecretPath) {
		cfg.BasicConfig.ClientSecretPath = filepath.Join(filepath.Dir(absPath), cfg.BasicConfig.ClientSecretPath)
	}
	if !filepath.IsAbs(cfg.BasicConfig.TokenCachePath) {
		cfg.BasicConfig.TokenCachePath = filepath.Join(filepath.Dir(absPath), cfg.BasicConfig.TokenCachePath)
	}

	return &cfg, nil
}

// Provider returns the configuration block for the active provider.
func (c *Config) Provider(name string) ProviderConfig {
	if name == "" {
		name = c.BasicConfig.Provider
	}
	return c.Providers[name]
}

func defaults() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.BasicConfig.ClientSecretPath == "" {
		cfg.BasicConfig.ClientSecretPath = defaultClientSecretPath
	}
	if cfg.BasicConfig.TokenCachePath == "" {
		cfg.BasicConfig.TokenCachePath = defaultTokenCachePath
	}
	if cfg.BasicConfig.CallbackPort <= 0 {
		cfg.BasicConfig.CallbackPort = defaultCallbackPort
	}
	if cfg.BasicConfig.Provider == "" {
		cfg.BasicConfig.Provider = defaultProvider
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
}
