package config

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const templateHeader = `# svgbundle configuration.
#
# Every key can be overridden with an SVGBUNDLE_* environment variable
# (cache.redis_url -> SVGBUNDLE_CACHE_REDIS_URL) or the matching flag.

`

// WriteTemplate writes o as a commented TOML config file.
func WriteTemplate(w io.Writer, o Options) error {
	if _, err := io.WriteString(w, templateHeader); err != nil {
		return err
	}
	return toml.NewEncoder(w).Encode(o)
}

// Write encodes o as "toml" or "yaml".
func Write(w io.Writer, o Options, format string) error {
	switch format {
	case "toml":
		return toml.NewEncoder(w).Encode(o)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(o); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (want toml or yaml)", format)
	}
}
