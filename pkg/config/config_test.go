package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestYAMLProviderLoadsAllSections(t *testing.T) {
	dataDir := t.TempDir()
	path := writeConfig(t, `
data:
  dir: `+dataDir+`
  pattern: "PRSA_*.csv"
  watch: true
  watch_debounce: 5s
server:
  port: 9090
dashboard:
  title: Wanshouxigong
  decomposition_period: 12
  default_columns: [PM2.5, CO]
`)

	cfg, err := Load(NewYAMLProvider(path))
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.Data.Dir)
	assert.Equal(t, "PRSA_*.csv", cfg.Data.Pattern)
	assert.True(t, cfg.Data.Watch)
	assert.Equal(t, 5*time.Second, cfg.Data.WatchDebounce)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.ListenAddr)
	assert.Equal(t, "Wanshouxigong", cfg.Dashboard.Title)
	assert.Equal(t, 12, cfg.Dashboard.DecompositionPeriod)
	assert.Equal(t, 30, cfg.Dashboard.HistogramBins)
	assert.Equal(t, []string{"PM2.5", "CO"}, cfg.Dashboard.DefaultColumns)
}

func TestYAMLProviderRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "data:\n  directory: /tmp\n")

	_, err := NewYAMLProvider(path).LoadConfig()
	assert.Error(t, err)
}

func TestEnvProviderOverridesFile(t *testing.T) {
	fileDir := t.TempDir()
	envDir := t.TempDir()
	path := writeConfig(t, "data:\n  dir: "+fileDir+"\nserver:\n  port: 9090\n")

	t.Setenv("AIRQ_DATA_DIR", envDir)
	t.Setenv("AIRQ_DASHBOARD_HISTOGRAM_BINS", "12")
	t.Setenv("AIRQ_DASHBOARD_DEFAULT_COLUMNS", "PM10,SO2")

	cfg, err := Load(NewEnvProvider("AIRQ", NewYAMLProvider(path)))
	require.NoError(t, err)

	assert.Equal(t, envDir, cfg.Data.Dir)
	assert.Equal(t, 9090, cfg.Server.Port, "file value survives when no env override exists")
	assert.Equal(t, 12, cfg.Dashboard.HistogramBins)
	assert.Equal(t, []string{"PM10", "SO2"}, cfg.Dashboard.DefaultColumns)
}

func TestEnvProviderWithoutFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AIRQ_DATA_DIR", dir)

	cfg, err := Load(NewEnvProvider("AIRQ", nil))
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Data.Dir)
	assert.Equal(t, "*.csv", cfg.Data.Pattern)
}

func TestValidate(t *testing.T) {
	existing := t.TempDir()

	tests := []struct {
		name    string
		mutate  func(*ConfigData)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *ConfigData) {},
		},
		{
			name:    "missing data dir",
			mutate:  func(c *ConfigData) { c.Data.Dir = "" },
			wantErr: "Data.Dir is required",
		},
		{
			name:    "data dir does not exist",
			mutate:  func(c *ConfigData) { c.Data.Dir = filepath.Join(existing, "nope") },
			wantErr: "does not exist",
		},
		{
			name:    "bad pattern",
			mutate:  func(c *ConfigData) { c.Data.Pattern = "[" },
			wantErr: "not a valid file pattern",
		},
		{
			name:    "port out of range",
			mutate:  func(c *ConfigData) { c.Server.Port = 70000 },
			wantErr: "Server.Port",
		},
		{
			name:    "period too small",
			mutate:  func(c *ConfigData) { c.Dashboard.DecompositionPeriod = 1 },
			wantErr: "Dashboard.DecompositionPeriod",
		},
		{
			name:    "cert without key",
			mutate:  func(c *ConfigData) { c.Server.Cert = "/etc/cert.pem" },
			wantErr: "Server.Key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ConfigData{Data: DataConfig{Dir: existing}}
			cfg.ApplyDefaults()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
