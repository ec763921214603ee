package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/selvaganesh19/mailform/core/config"

	"github.com/selvaganesh19/mailform/app/attachments"
	"github.com/selvaganesh19/mailform/app/generator"
	"github.com/selvaganesh19/mailform/app/mailer"
)

// Config aggregates core settings with the mail assistant's own sections.
type Config struct {
	Core coreconfig.Config `yaml:",inline"`

	Generator   generator.Config   `yaml:"generator"`
	Mail        mailer.Config      `yaml:"mail"`
	Attachments attachments.Config `yaml:"attachments"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	return &cfg, nil
}
