package internal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type GovernanceConfig struct {
	DriftThreshold      float64 `yaml:"drift_threshold"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MinStreamingCheck   int     `yaml:"min_streaming_check"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"`
}

type Config struct {
	Governance      GovernanceConfig          `yaml:"governance"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Debug           bool                      `yaml:"debug,omitempty"`
}

func DefaultConfig() *Config {
	params := DefaultGovernanceParams()
	return &Config{
		Governance: GovernanceConfig{
			DriftThreshold:      params.DriftThreshold,
			SimilarityThreshold: params.SimilarityThreshold,
			MinStreamingCheck:   params.MinStreamingCheck,
		},
		Providers: make(map[string]ProviderConfig),
	}
}

// GovernanceParams maps the config section onto engine parameters,
// falling back to defaults for unset fields.
func (c *Config) GovernanceParams() GovernanceParams {
	params := DefaultGovernanceParams()
	if c.Governance.DriftThreshold > 0 {
		params.DriftThreshold = c.Governance.DriftThreshold
	}
	if c.Governance.SimilarityThreshold > 0 {
		params.SimilarityThreshold = c.Governance.SimilarityThreshold
	}
	if c.Governance.MinStreamingCheck > 0 {
		params.MinStreamingCheck = c.Governance.MinStreamingCheck
	}
	return params
}

func LoadConfig(scope Scope) (*Config, error) {
	path := scope.ConfigPath()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	return &cfg, nil
}

func SaveConfig(scope Scope, cfg *Config) error {
	path := scope.ConfigPath()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
