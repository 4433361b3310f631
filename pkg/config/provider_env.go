package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvProvider overlays environment variables onto another provider's
// configuration. Variables are named PREFIX_SECTION_OPTION, for example
// AIRQ_DATA_DIR or AIRQ_SERVER_PORT.
type EnvProvider struct {
	prefix string
	base   ConfigProvider
}

// NewEnvProvider creates a provider that reads base (if non-nil) and then
// applies any matching environment variables on top
func NewEnvProvider(prefix string, base ConfigProvider) *EnvProvider {
	return &EnvProvider{
		prefix: prefix,
		base:   base,
	}
}

// LoadConfig implements ConfigProvider
func (e *EnvProvider) LoadConfig() (*ConfigData, error) {
	cfg := &ConfigData{}
	if e.base != nil {
		var err error
		cfg, err = e.base.LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(e.prefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	return cfg, nil
}
