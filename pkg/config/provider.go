package config

import (
	"time"

	"github.com/chrissnell/airquality/internal/constants"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// LoadConfig returns the complete configuration. Defaults are not applied;
	// use Load for a validated configuration.
	LoadConfig() (*ConfigData, error)
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Data      DataConfig    `yaml:"data" split_words:"true"`
	Server    ServerData    `yaml:"server" split_words:"true"`
	Dashboard DashboardData `yaml:"dashboard" split_words:"true"`
}

// DataConfig describes where the air-quality CSV files live
type DataConfig struct {
	Dir           string        `yaml:"dir" split_words:"true" validate:"required,dir"`
	Pattern       string        `yaml:"pattern,omitempty" split_words:"true" validate:"required,globpattern"`
	Watch         bool          `yaml:"watch,omitempty" split_words:"true"`
	WatchDebounce time.Duration `yaml:"watch_debounce,omitempty" split_words:"true" validate:"gte=0"`
}

// ServerData holds the HTTP listener configuration
type ServerData struct {
	ListenAddr      string        `yaml:"listen_addr,omitempty" split_words:"true"`
	Port            int           `yaml:"port,omitempty" split_words:"true" validate:"min=1,max=65535"`
	Cert            string        `yaml:"cert,omitempty" split_words:"true" validate:"required_with=Key"`
	Key             string        `yaml:"key,omitempty" split_words:"true" validate:"required_with=Cert"`
	ReadTimeout     time.Duration `yaml:"read_timeout,omitempty" split_words:"true" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout,omitempty" split_words:"true" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty" split_words:"true" validate:"gte=0"`
}

// DashboardData controls what the dashboard page shows
type DashboardData struct {
	Title               string   `yaml:"title,omitempty" split_words:"true"`
	DecompositionPeriod int      `yaml:"decomposition_period,omitempty" split_words:"true" validate:"min=2"`
	HistogramBins       int      `yaml:"histogram_bins,omitempty" split_words:"true" validate:"min=1,max=500"`
	DefaultColumns      []string `yaml:"default_columns,omitempty" split_words:"true" validate:"dive,required"`
}

// DefaultCorrelationColumns is the initial selection of the interactive correlation heatmap
var DefaultCorrelationColumns = []string{"PM2.5", "NO2", "TEMP", "PRES", "DEWP"}

// ApplyDefaults fills in every unset option
func (c *ConfigData) ApplyDefaults() {
	if c.Data.Pattern == "" {
		c.Data.Pattern = constants.DefaultFilePattern
	}
	if c.Data.WatchDebounce == 0 {
		c.Data.WatchDebounce = 2 * time.Second
	}

	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = constants.DefaultListenAddr
	}
	if c.Server.Port == 0 {
		c.Server.Port = constants.DefaultHTTPPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Dashboard.Title == "" {
		c.Dashboard.Title = "Air Quality Dashboard"
	}
	if c.Dashboard.DecompositionPeriod == 0 {
		c.Dashboard.DecompositionPeriod = constants.DefaultDecompositionPeriod
	}
	if c.Dashboard.HistogramBins == 0 {
		c.Dashboard.HistogramBins = constants.DefaultHistogramBins
	}
	if len(c.Dashboard.DefaultColumns) == 0 {
		c.Dashboard.DefaultColumns = append([]string(nil), DefaultCorrelationColumns...)
	}
}

// Load reads configuration from the provider, applies defaults and validates
// the result
func Load(provider ConfigProvider) (*ConfigData, error) {
	cfg, err := provider.LoadConfig()
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
