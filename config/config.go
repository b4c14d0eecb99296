package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Platform      PlatformConfig      `yaml:"platform"`
	HomeAssistant HomeAssistantConfig `yaml:"homeassistant"`
	HTTP          HTTPConfig          `yaml:"http"`
	Log           LogConfig           `yaml:"log"`
}

type PlatformConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// HomeAssistantConfig describes the hub used for direct fallback calls.
// Leaving it empty disables the fallback entirely.
type HomeAssistantConfig struct {
	BaseURL  string `yaml:"base_url"`
	CloudURL string `yaml:"cloud_url"`
	Token    string `yaml:"token"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}
