package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/shelfsearch/configs"
	shelferrors "github.com/Aman-CERP/shelfsearch/internal/errors"
	"github.com/Aman-CERP/shelfsearch/internal/search"
	"github.com/Aman-CERP/shelfsearch/internal/store"
)

// isolate points the user config and data dir at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("SHELFSEARCH_HOME", filepath.Join(dir, "data"))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	dir := isolate(t)
	cfg := NewConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, filepath.Join(dir, "data", "catalog.db"), cfg.Catalog.Path)
	assert.Equal(t, "sqlite", cfg.Catalog.Backend)

	assert.Equal(t, 3, cfg.Search.EscalationMinResults)
	assert.Equal(t, 0.3, cfg.Search.FuzzyThreshold)
	assert.Equal(t, 0.6, cfg.Search.WordThreshold)
	assert.Equal(t, 50, cfg.Search.MaxResults)
	assert.Equal(t, 0.8, cfg.Search.VariationWeight)
	assert.True(t, cfg.Search.PhoneticFallback)
	assert.False(t, cfg.Search.ASCIINormalization)
	assert.Equal(t, 1024, cfg.Search.VariationCacheSize)
	assert.Equal(t, 2, cfg.Search.RetryAttempts)

	assert.Equal(t, 1000, cfg.Suggestions.Capacity)
	assert.Equal(t, 5, cfg.Suggestions.Limit)
	assert.True(t, cfg.Suggestions.SeedFromHistory)

	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "60s", cfg.Telemetry.FlushInterval)

	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, "info", cfg.Server.LogLevel)

	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_MatchesEngineDefaults(t *testing.T) {
	isolate(t)
	assert.Equal(t, search.DefaultConfig(), NewConfig().EngineConfig())
}

func TestGetUserConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	assert.Equal(t, "/tmp/xdg-test/shelfsearch/config.yaml", GetUserConfigPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	assert.True(t, filepath.IsAbs(GetUserConfigPath()))
	assert.Contains(t, GetUserConfigPath(), filepath.Join(".config", "shelfsearch", "config.yaml"))
}

func TestLoad_NoFiles(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoad_UserConfigOverridesDefaults(t *testing.T) {
	isolate(t)
	writeFile(t, GetUserConfigPath(), `
search:
  escalation_min_results: 5
  phonetic_fallback: false
telemetry:
  enabled: false
`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Search.EscalationMinResults)
	assert.False(t, cfg.Search.PhoneticFallback, "explicit false must win over a true default")
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 50, cfg.Search.MaxResults, "absent keys keep defaults")
}

func TestLoad_ExplicitFileOverridesUserConfig(t *testing.T) {
	dir := isolate(t)
	writeFile(t, GetUserConfigPath(), "search:\n  max_results: 20\n  fuzzy_threshold: 0.5\n")
	explicit := filepath.Join(dir, "custom.yaml")
	writeFile(t, explicit, "search:\n  max_results: 10\ncatalog:\n  backend: bleve\n")

	cfg, err := Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.Equal(t, 0.5, cfg.Search.FuzzyThreshold)
	assert.Equal(t, store.BackendBleve, cfg.Backend())
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	dir := isolate(t)
	writeFile(t, GetUserConfigPath(), "server:\n  log_level: warn\n")
	t.Setenv("SHELFSEARCH_LOG_LEVEL", "debug")
	t.Setenv("SHELFSEARCH_ESCALATION_MIN_RESULTS", "4")
	t.Setenv("SHELFSEARCH_FUZZY_THRESHOLD", "0.45")
	t.Setenv("SHELFSEARCH_ASCII_NORMALIZATION", "true")
	t.Setenv("SHELFSEARCH_CATALOG_PATH", filepath.Join(dir, "other.db"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 4, cfg.Search.EscalationMinResults)
	assert.Equal(t, 0.45, cfg.Search.FuzzyThreshold)
	assert.True(t, cfg.Search.ASCIINormalization)
	assert.Equal(t, filepath.Join(dir, "other.db"), cfg.Catalog.Path)
}

func TestLoad_BadEnvValue(t *testing.T) {
	isolate(t)
	t.Setenv("SHELFSEARCH_MAX_RESULTS", "lots")

	_, err := Load("")
	require.Error(t, err)
	assert.Equal(t, shelferrors.ErrCodeConfigInvalid, shelferrors.GetCode(err))
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, shelferrors.ErrCodeConfigNotFound, shelferrors.GetCode(err))
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "typo.yaml")
	writeFile(t, path, "search:\n  max_resluts: 10\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, shelferrors.ErrCodeConfigInvalid, shelferrors.GetCode(err))
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "empty.yaml")
	writeFile(t, path, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Search.EscalationMinResults)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "search:\n  fuzzy_threshold: 0\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, shelferrors.ErrCodeConfigInvalid, shelferrors.GetCode(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bleve backend", func(c *Config) { c.Catalog.Backend = "bleve" }, true},
		{"unknown backend", func(c *Config) { c.Catalog.Backend = "postgres" }, false},
		{"empty catalog path", func(c *Config) { c.Catalog.Path = "" }, false},
		{"zero escalation", func(c *Config) { c.Search.EscalationMinResults = 0 }, false},
		{"threshold above cap", func(c *Config) { c.Search.FuzzyThreshold = 10.5 }, false},
		{"word threshold above one", func(c *Config) { c.Search.WordThreshold = 1.2 }, false},
		{"zero max results", func(c *Config) { c.Search.MaxResults = 0 }, false},
		{"variation weight zero", func(c *Config) { c.Search.VariationWeight = 0 }, true},
		{"negative variation weight", func(c *Config) { c.Search.VariationWeight = -0.1 }, false},
		{"negative retries", func(c *Config) { c.Search.RetryAttempts = -1 }, false},
		{"zero capacity", func(c *Config) { c.Suggestions.Capacity = 0 }, false},
		{"bad flush interval", func(c *Config) { c.Telemetry.FlushInterval = "soon" }, false},
		{"flush disabled", func(c *Config) { c.Telemetry.FlushInterval = "0" }, true},
		{"sse transport", func(c *Config) { c.Server.Transport = "sse" }, false},
		{"upper case level", func(c *Config) { c.Server.LogLevel = "WARN" }, true},
		{"bad level", func(c *Config) { c.Server.LogLevel = "trace" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestTelemetryConfig_FlushDuration(t *testing.T) {
	d, err := TelemetryConfig{FlushInterval: "90s"}.FlushDuration()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	d, err = TelemetryConfig{}.FlushDuration()
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = TelemetryConfig{FlushInterval: "-1s"}.FlushDuration()
	assert.Error(t, err)
}

func TestEngineConfig_MapsSearchSettings(t *testing.T) {
	isolate(t)
	cfg := NewConfig()
	cfg.Search.EscalationMinResults = 7
	cfg.Search.PhoneticFallback = false
	cfg.Suggestions.Capacity = 20

	ec := cfg.EngineConfig()
	assert.Equal(t, 7, ec.EscalationMinResults)
	assert.False(t, ec.Scorer.PhoneticFallback)
	assert.Equal(t, 20, ec.SuggestionCapacity)
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := NewConfig()
	cfg.Search.MaxResults = 12
	cfg.Search.PhoneticFallback = false
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_ExpandsHomeInCatalogPath(t *testing.T) {
	dir := isolate(t)
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "home.yaml")
	writeFile(t, path, "catalog:\n  path: ~/books/catalog.db\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "books", "catalog.db"), cfg.Catalog.Path)
}

func TestConfigTemplate_Loads(t *testing.T) {
	dir := isolate(t)
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "template.yaml")
	writeFile(t, path, configs.ConfigTemplate)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".shelfsearch", "catalog.db"), cfg.Catalog.Path)
	assert.Equal(t, 3, cfg.Search.EscalationMinResults)
}
