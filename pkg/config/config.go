// Package config defines svgbundle's options and loads them from files,
// environment variables and command-line flags.
//
// Precedence, highest first: flags, SVGBUNDLE_* environment variables,
// the config file (svgbundle.toml, svgbundle.yaml or --config), defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/svgbundle/pkg/errors"
)

const (
	// AppName is used for the config file name, env prefix and cache dir.
	AppName = "svgbundle"

	// DefaultGap is the spacing between packed shapes when none is set.
	DefaultGap = 1.0

	// DefaultConcurrency bounds parallel reads at the end of a pass.
	DefaultConcurrency = 8
)

// Options configures one plugin instance.
type Options struct {
	// BundleFile is the sprite's file name, relative to the build's output
	// directory. Required.
	BundleFile string `mapstructure:"bundle_file" toml:"bundle_file" yaml:"bundle_file"`

	// BundleURL is the public URL of the sprite written into rewritten
	// references. Required.
	BundleURL string `mapstructure:"bundle_url" toml:"bundle_url" yaml:"bundle_url"`

	// Hash, when set, is appended to references as ?hash=<Hash>.
	Hash string `mapstructure:"hash" toml:"hash" yaml:"hash"`

	// Gap is the spacing between shapes. Nil means DefaultGap; zero is a
	// valid explicit value.
	Gap *float64 `mapstructure:"gap" toml:"gap,omitempty" yaml:"gap,omitempty"`

	// Minify runs each image through the optimizer before extraction.
	Minify bool `mapstructure:"minify" toml:"minify" yaml:"minify"`

	// Concurrency bounds parallel reads and extractions.
	Concurrency int `mapstructure:"concurrency" toml:"concurrency" yaml:"concurrency"`

	Cache CacheOptions `mapstructure:"cache" toml:"cache" yaml:"cache"`
}

// CacheOptions selects the optimizer cache backend.
type CacheOptions struct {
	Disabled  bool   `mapstructure:"disabled" toml:"disabled" yaml:"disabled"`
	Dir       string `mapstructure:"dir" toml:"dir" yaml:"dir"`
	RedisURL  string `mapstructure:"redis_url" toml:"redis_url" yaml:"redis_url"`
	Namespace string `mapstructure:"namespace" toml:"namespace" yaml:"namespace"`
}

// Defaults returns options with every optional field at its default.
func Defaults() Options {
	gap := DefaultGap
	return Options{
		Gap:         &gap,
		Concurrency: DefaultConcurrency,
	}
}

// SetDefaults fills unset optional fields.
func (o *Options) SetDefaults() {
	if o.Gap == nil {
		gap := DefaultGap
		o.Gap = &gap
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
}

// GapOrDefault returns Gap, or DefaultGap when unset.
func (o Options) GapOrDefault() float64 {
	if o.Gap == nil {
		return DefaultGap
	}
	return *o.Gap
}

// Validate checks the options. Errors are coded INVALID_CONFIG.
func (o Options) Validate() error {
	if err := errors.ValidateBundleFile(o.BundleFile); err != nil {
		return err
	}
	if err := errors.ValidateBundleURL(o.BundleURL); err != nil {
		return err
	}
	if o.Gap != nil {
		if err := errors.ValidateGap(*o.Gap); err != nil {
			return err
		}
	}
	if o.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency must not be negative, got %d", o.Concurrency)
	}
	return nil
}

// CacheDir returns the configured cache directory, or the XDG cache
// location (~/.cache/svgbundle) when unset.
func (o Options) CacheDir() (string, error) {
	if o.Cache.Dir != "" {
		return o.Cache.Dir, nil
	}
	return DefaultCacheDir()
}

// DefaultCacheDir returns $XDG_CACHE_HOME/svgbundle or ~/.cache/svgbundle.
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
