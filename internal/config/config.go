// Package config loads shelfsearch settings from defaults, the user config
// file, an optional explicit file and SHELFSEARCH_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	shelferrors "github.com/Aman-CERP/shelfsearch/internal/errors"
	"github.com/Aman-CERP/shelfsearch/internal/logging"
	"github.com/Aman-CERP/shelfsearch/internal/search"
	"github.com/Aman-CERP/shelfsearch/internal/store"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SHELFSEARCH_"

// Config is the complete shelfsearch configuration.
type Config struct {
	Version     int               `yaml:"version" json:"version"`
	Catalog     CatalogConfig     `yaml:"catalog" json:"catalog"`
	Search      SearchConfig      `yaml:"search" json:"search"`
	Suggestions SuggestionsConfig `yaml:"suggestions" json:"suggestions"`
	Telemetry   TelemetryConfig   `yaml:"telemetry" json:"telemetry"`
	Server      ServerConfig      `yaml:"server" json:"server"`
}

// CatalogConfig locates the catalog database.
type CatalogConfig struct {
	// Path is the SQLite file (default: ~/.shelfsearch/catalog.db).
	Path string `yaml:"path" json:"path"`

	// Backend is "sqlite" (default) or "bleve". Bleve keeps a lookup index
	// next to the database and answers the indexed pass from it.
	Backend string `yaml:"backend" json:"backend"`
}

// SearchConfig tunes retrieval and scoring.
type SearchConfig struct {
	// EscalationMinResults is the indexed hit count below which the whole
	// catalog is fuzzy-scanned (default: 3).
	EscalationMinResults int `yaml:"escalation_min_results" json:"escalation_min_results"`

	FuzzyThreshold  float64 `yaml:"fuzzy_threshold" json:"fuzzy_threshold"`
	WordThreshold   float64 `yaml:"word_threshold" json:"word_threshold"`
	MaxResults      int     `yaml:"max_results" json:"max_results"`
	VariationWeight float64 `yaml:"variation_weight" json:"variation_weight"`

	// PhoneticFallback lets Latin queries match Bangla fields by sound.
	PhoneticFallback bool `yaml:"phonetic_fallback" json:"phonetic_fallback"`

	// ASCIINormalization only strips ASCII punctuation. Leave off unless the
	// catalog is Latin-only.
	ASCIINormalization bool `yaml:"ascii_normalization" json:"ascii_normalization"`

	VariationCacheSize int `yaml:"variation_cache_size" json:"variation_cache_size"`

	// RetryAttempts is how often the CLI and server retry a busy catalog.
	RetryAttempts int `yaml:"retry_attempts" json:"retry_attempts"`
}

// SuggestionsConfig configures query suggestions.
type SuggestionsConfig struct {
	Capacity int `yaml:"capacity" json:"capacity"`
	Limit    int `yaml:"limit" json:"limit"`

	// SeedFromHistory refills suggestions from the query log on startup.
	SeedFromHistory bool `yaml:"seed_from_history" json:"seed_from_history"`
}

// TelemetryConfig configures local query analytics.
type TelemetryConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	FlushInterval string `yaml:"flush_interval" json:"flush_interval"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	LogLevel  string `yaml:"log_level" json:"log_level"`
}

// NewConfig returns the built-in defaults.
func NewConfig() *Config {
	engine := search.DefaultConfig()
	return &Config{
		Version: 1,
		Catalog: CatalogConfig{
			Path:    DefaultCatalogPath(),
			Backend: string(store.BackendSQLite),
		},
		Search: SearchConfig{
			EscalationMinResults: engine.EscalationMinResults,
			FuzzyThreshold:       engine.FuzzyThreshold,
			WordThreshold:        engine.Scorer.WordThreshold,
			MaxResults:           engine.MaxResults,
			VariationWeight:      engine.Scorer.VariationWeight,
			PhoneticFallback:     engine.Scorer.PhoneticFallback,
			ASCIINormalization:   false,
			VariationCacheSize:   engine.VariationCacheSize,
			RetryAttempts:        2,
		},
		Suggestions: SuggestionsConfig{
			Capacity:        search.DefaultSuggestionCapacity,
			Limit:           search.DefaultSuggestionLimit,
			SeedFromHistory: true,
		},
		Telemetry: TelemetryConfig{
			Enabled:       true,
			FlushInterval: "60s",
		},
		Server: ServerConfig{
			Transport: "stdio",
			LogLevel:  "info",
		},
	}
}

// DefaultCatalogPath returns ~/.shelfsearch/catalog.db.
func DefaultCatalogPath() string {
	return filepath.Join(logging.DefaultDataDir(), "catalog.db")
}

// GetUserConfigPath returns $XDG_CONFIG_HOME/shelfsearch/config.yaml, or
// ~/.config/shelfsearch/config.yaml when XDG_CONFIG_HOME is unset.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "shelfsearch", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "shelfsearch", "config.yaml")
	}
	return filepath.Join(home, ".config", "shelfsearch", "config.yaml")
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	_, err := os.Stat(GetUserConfigPath())
	return err == nil
}

// Load builds the configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (GetUserConfigPath), if present
//  3. explicitPath, if non-empty; it must exist
//  4. Environment variables (SHELFSEARCH_*)
func Load(explicitPath string) (*Config, error) {
	cfg := NewConfig()

	if UserConfigExists() {
		if err := cfg.loadYAML(GetUserConfigPath()); err != nil {
			return nil, err
		}
	}

	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, shelferrors.New(shelferrors.ErrCodeConfigNotFound, "config file not found", err).
				WithDetail("path", explicitPath).
				WithSuggestion("Run 'shelfsearch config init' or check the --config path")
		}
		if err := cfg.loadYAML(explicitPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.Catalog.Path = expandHome(cfg.Catalog.Path)

	if err := cfg.Validate(); err != nil {
		return nil, shelferrors.ConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// loadYAML decodes path over the current values, so keys absent from the
// file keep their earlier value and explicit false or zero values stick.
// Unknown keys are rejected.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return shelferrors.ConfigError("failed to read config file", err).WithDetail("path", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return shelferrors.ConfigError("failed to parse config file", err).WithDetail("path", path)
	}
	return nil
}

// applyEnvOverrides reads SHELFSEARCH_* variables. A malformed value is a
// config error rather than being silently ignored.
func (c *Config) applyEnvOverrides() error {
	strs := map[string]*string{
		"CATALOG_PATH":             &c.Catalog.Path,
		"CATALOG_BACKEND":          &c.Catalog.Backend,
		"TELEMETRY_FLUSH_INTERVAL": &c.Telemetry.FlushInterval,
		"TRANSPORT":                &c.Server.Transport,
		"LOG_LEVEL":                &c.Server.LogLevel,
	}
	ints := map[string]*int{
		"ESCALATION_MIN_RESULTS": &c.Search.EscalationMinResults,
		"MAX_RESULTS":            &c.Search.MaxResults,
		"RETRY_ATTEMPTS":         &c.Search.RetryAttempts,
		"SUGGESTION_LIMIT":       &c.Suggestions.Limit,
	}
	floats := map[string]*float64{
		"FUZZY_THRESHOLD":  &c.Search.FuzzyThreshold,
		"WORD_THRESHOLD":   &c.Search.WordThreshold,
		"VARIATION_WEIGHT": &c.Search.VariationWeight,
	}
	bools := map[string]*bool{
		"PHONETIC_FALLBACK":   &c.Search.PhoneticFallback,
		"ASCII_NORMALIZATION": &c.Search.ASCIINormalization,
		"TELEMETRY_ENABLED":   &c.Telemetry.Enabled,
	}

	for name, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	for name, dst := range ints {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return envError(name, v, err)
			}
			*dst = n
		}
	}
	for name, dst := range floats {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return envError(name, v, err)
			}
			*dst = f
		}
	}
	for name, dst := range bools {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return envError(name, v, err)
			}
			*dst = b
		}
	}
	return nil
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func envError(name, value string, err error) error {
	return shelferrors.ConfigError("invalid environment override", err).
		WithDetail("variable", EnvPrefix+name).
		WithDetail("value", value)
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path must not be empty")
	}
	if _, err := store.ParseBackend(c.Catalog.Backend); err != nil {
		return err
	}

	s := c.Search
	if s.EscalationMinResults < 1 {
		return fmt.Errorf("search.escalation_min_results must be at least 1, got %d", s.EscalationMinResults)
	}
	if s.FuzzyThreshold <= 0 || s.FuzzyThreshold > search.MaxScore {
		return fmt.Errorf("search.fuzzy_threshold must be in (0, %g], got %g", search.MaxScore, s.FuzzyThreshold)
	}
	if s.WordThreshold <= 0 || s.WordThreshold > 1 {
		return fmt.Errorf("search.word_threshold must be in (0, 1], got %g", s.WordThreshold)
	}
	if s.MaxResults < 1 {
		return fmt.Errorf("search.max_results must be at least 1, got %d", s.MaxResults)
	}
	if s.VariationWeight < 0 || s.VariationWeight > 1 {
		return fmt.Errorf("search.variation_weight must be between 0 and 1, got %g", s.VariationWeight)
	}
	if s.VariationCacheSize < 1 {
		return fmt.Errorf("search.variation_cache_size must be at least 1, got %d", s.VariationCacheSize)
	}
	if s.RetryAttempts < 0 {
		return fmt.Errorf("search.retry_attempts must be non-negative, got %d", s.RetryAttempts)
	}

	if c.Suggestions.Capacity < 1 {
		return fmt.Errorf("suggestions.capacity must be at least 1, got %d", c.Suggestions.Capacity)
	}
	if c.Suggestions.Limit < 1 {
		return fmt.Errorf("suggestions.limit must be at least 1, got %d", c.Suggestions.Limit)
	}

	if _, err := c.Telemetry.FlushDuration(); err != nil {
		return err
	}

	if strings.ToLower(c.Server.Transport) != "stdio" {
		return fmt.Errorf("server.transport must be 'stdio', got %s", c.Server.Transport)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}
	return nil
}

// FlushDuration parses FlushInterval. "0" disables the periodic flush.
func (t TelemetryConfig) FlushDuration() (time.Duration, error) {
	if t.FlushInterval == "" || t.FlushInterval == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(t.FlushInterval)
	if err != nil {
		return 0, fmt.Errorf("telemetry.flush_interval: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("telemetry.flush_interval must not be negative, got %s", t.FlushInterval)
	}
	return d, nil
}

// EngineConfig maps the search settings onto the engine's configuration.
func (c *Config) EngineConfig() search.Config {
	return search.Config{
		EscalationMinResults: c.Search.EscalationMinResults,
		FuzzyThreshold:       c.Search.FuzzyThreshold,
		MaxResults:           c.Search.MaxResults,
		VariationCacheSize:   c.Search.VariationCacheSize,
		ASCIINormalization:   c.Search.ASCIINormalization,
		SuggestionCapacity:   c.Suggestions.Capacity,
		Scorer: search.ScorerConfig{
			WordThreshold:    c.Search.WordThreshold,
			VariationWeight:  c.Search.VariationWeight,
			PhoneticFallback: c.Search.PhoneticFallback,
		},
	}
}

// Backend returns the parsed catalog backend. Call after Validate.
func (c *Config) Backend() store.Backend {
	b, _ := store.ParseBackend(c.Catalog.Backend)
	return b
}

// WriteYAML writes the configuration to path, creating its directory.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
