package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/internal/logging"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for service settings.
const envPrefix = "FIRECALC"

// Settings configures the HTTP service.
type Settings struct {
	Server        ServerSettings  `mapstructure:"server" yaml:"server"`
	Log           logging.Config  `mapstructure:"log" yaml:"log"`
	Metrics       MetricsSettings `mapstructure:"metrics" yaml:"metrics"`
	DefaultPreset string          `mapstructure:"default_preset" yaml:"default_preset"`
}

// ServerSettings holds listener and request handling options.
type ServerSettings struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
	// PublicURL is the base used when building share links.
	PublicURL string `mapstructure:"public_url" yaml:"public_url"`
}

// MetricsSettings toggles the Prometheus endpoint.
type MetricsSettings struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

var settingDefaults = map[string]any{
	"server.addr":             ":8080",
	"server.read_timeout":     "10s",
	"server.write_timeout":    "30s",
	"server.shutdown_timeout": "10s",
	"server.cors_origins":     []string{"*"},
	"server.public_url":       "http://localhost:8080/",
	"log.level":               "info",
	"log.format":              "json",
	"log.development":         false,
	"metrics.enabled":         true,
	"metrics.path":            "/metrics",
	"default_preset":          domain.DefaultPresetName,
}

// newViper builds a viper instance with YAML files, FIRECALC_ environment
// overrides and "." mapped to "_" so server.addr reads FIRECALC_SERVER_ADDR.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Defaults register every key, which lets Unmarshal see env-only values.
	for key, value := range settingDefaults {
		v.SetDefault(key, value)
	}
	return v
}

// LoadSettings reads the YAML file at path (optional; "" skips the file),
// merges FIRECALC_* environment overrides over the defaults and validates
// the result.
func LoadSettings(path string) (*Settings, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read settings file %q: %w", path, err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return s, nil
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() *Settings {
	s, err := LoadSettings("")
	if err != nil {
		panic(fmt.Sprintf("config: built-in defaults are invalid: %v", err))
	}
	return s
}

// Validate checks the settings for values the service cannot run with.
func (s *Settings) Validate() error {
	var errs []error
	if s.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if s.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be positive, got %s", s.Server.ReadTimeout))
	}
	if s.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must be positive, got %s", s.Server.WriteTimeout))
	}
	if s.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout cannot be negative"))
	}
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(s.Log.Format) {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", s.Log.Format))
	}
	if s.Metrics.Enabled && !strings.HasPrefix(s.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with /, got %q", s.Metrics.Path))
	}
	if _, err := domain.GetPreset(s.DefaultPreset); err != nil {
		errs = append(errs, fmt.Errorf("default_preset: %w", err))
	}
	return errors.Join(errs...)
}
