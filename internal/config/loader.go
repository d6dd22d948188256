package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/turtacn/AutoCompare-Intelligence/pkg/errors"
)

// DefaultEnvPrefix is the environment variable prefix for every setting.
const DefaultEnvPrefix = "AUTOCMP"

// Load failures. The first two carry ErrCodeConfigLoad, the last
// ErrCodeConfigInvalid.
var (
	ErrConfigFileNotFound = errors.New(errors.ErrCodeConfigLoad, "config file not found")
	ErrConfigParseError   = errors.New(errors.ErrCodeConfigLoad, "config parse error")
	ErrConfigValidation   = errors.New(errors.ErrCodeConfigInvalid, "config validation failed")
)

type loadOptions struct {
	path      string
	envPrefix string
}

// LoadOption customises Load.
type LoadOption func(*loadOptions)

// WithConfigPath reads the YAML file at path before applying env overrides.
func WithConfigPath(path string) LoadOption {
	return func(o *loadOptions) { o.path = path }
}

// WithEnvPrefix replaces the AUTOCMP environment prefix.
func WithEnvPrefix(prefix string) LoadOption {
	return func(o *loadOptions) { o.envPrefix = prefix }
}

// newViper builds a viper instance reading YAML, binding PREFIX_SECTION_FIELD
// environment variables (so "cache.addr" resolves from AUTOCMP_CACHE_ADDR),
// with every known key registered.
func newViper(prefix string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerDefaults(v)
	return v
}

// Load builds a Config from an optional YAML file plus environment
// overrides, applies defaults and validates the result. Errors wrap one of
// ErrConfigFileNotFound, ErrConfigParseError or ErrConfigValidation.
func Load(opts ...LoadOption) (*Config, error) {
	o := loadOptions{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	v := newViper(o.envPrefix)
	if o.path != "" {
		if _, err := os.Stat(o.path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, o.path)
		}
		v.SetConfigFile(o.path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigParseError, o.path, err)
		}
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from AUTOCMP_* variables alone.
func LoadFromEnv() (*Config, error) {
	return Load()
}

// MustLoad wraps Load and panics on error. Intended for main().
func MustLoad(opts ...LoadOption) *Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParseError, err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigValidation, err)
	}
	return cfg, nil
}

// Watch re-reads path whenever it changes on disk and passes each valid
// Config to onChange. Invalid revisions go to onError (when non-nil) and are
// otherwise ignored. The returned error reports a failed initial read only.
func Watch(path string, onChange func(*Config), onError func(error)) error {
	v := newViper(DefaultEnvPrefix)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfigParseError, path, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s (%s): %w", e.Name, e.Op, err))
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}
