package config

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	svgerrors "github.com/matzehuels/svgbundle/pkg/errors"
)

// EnvPrefix prefixes environment variables, e.g. SVGBUNDLE_BUNDLE_URL or
// SVGBUNDLE_CACHE_REDIS_URL.
const EnvPrefix = "SVGBUNDLE"

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// ConfigFile is an explicit file; it must exist when set.
	ConfigFile string

	// Dir is searched for svgbundle.{toml,yaml,yml,json} when ConfigFile is
	// empty. Defaults to the current directory.
	Dir string

	// Flags maps config keys (e.g. "bundle_url") to the flags overriding
	// them. Only flags the user actually set take effect.
	Flags map[string]*pflag.Flag
}

// Load reads options and returns them with the path of the file used
// ("" when none was found). The result has defaults applied but is not
// validated.
func Load(opts LoadOptions) (*Options, string, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("bundle_file", d.BundleFile)
	v.SetDefault("bundle_url", d.BundleURL)
	v.SetDefault("hash", d.Hash)
	v.SetDefault("gap", *d.Gap)
	v.SetDefault("minify", d.Minify)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("cache.disabled", d.Cache.Disabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.redis_url", d.Cache.RedisURL)
	v.SetDefault("cache.namespace", d.Cache.Namespace)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		v.SetConfigName(AppName)
		v.AddConfigPath(dir)
	}

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, "", svgerrors.Wrap(svgerrors.ErrCodeInvalidConfig, err, "read config")
		}
	} else {
		used = v.ConfigFileUsed()
	}

	for key, flag := range opts.Flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, "", svgerrors.Wrap(svgerrors.ErrCodeInternal, err, "bind flag %s", flag.Name)
		}
	}

	var o Options
	if err := v.Unmarshal(&o); err != nil {
		return nil, "", svgerrors.Wrap(svgerrors.ErrCodeInvalidConfig, err, "decode config")
	}
	o.SetDefaults()
	return &o, used, nil
}
