package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/rickbassham/fitshdr/common"
	"github.com/rickbassham/fitshdr/fits"
)

// Config holds the rename settings that can live in a file. Flags given
// on the command line take precedence.
type Config struct {
	// Patterns maps a frame type (LIGHT, DARK, FLAT, BIAS) to its name
	// pattern, e.g. "{OBJECT}/{FILTER}_{EXPTIME:%.0f}s_".
	Patterns map[string]string `yaml:"patterns" json:"patterns"`

	// Suffix is appended to every name through fmt.Sprintf with the file
	// number.
	Suffix string `yaml:"suffix" json:"suffix"`

	NoSpace bool `yaml:"no_space" json:"no_space"`

	// Defaults fill in keywords a file lacks. Overrides replace keywords
	// a file has. Values use the FITS value syntax: 'text', 300.0, T.
	Defaults  map[string]string `yaml:"defaults" json:"defaults"`
	Overrides map[string]string `yaml:"overrides" json:"overrides"`

	// Aliases lists fallback keywords tried in order when a keyword is
	// missing.
	Aliases map[string][]string `yaml:"aliases" json:"aliases"`

	// Strict requires an END card in every header unit.
	Strict bool `yaml:"strict" json:"strict"`
}

func defaultConfig() *Config {
	return &Config{
		Patterns:  map[string]string{},
		Suffix:    "%03d",
		Defaults:  map[string]string{},
		Overrides: map[string]string{},
		Aliases: map[string][]string{
			"EXPTIME": {"EXPOSURE"},
		},
	}
}

// loadConfig reads a YAML (.yaml, .yml) or JSON with comments (.json,
// .jsonc) config file over the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".json", ".jsonc":
		err = json.Unmarshal(jsonc.ToJSON(data), cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported extension", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	patterns := make(map[string]string, len(cfg.Patterns))
	for k, v := range cfg.Patterns {
		patterns[strings.ToUpper(k)] = v
	}
	cfg.Patterns = patterns

	return cfg, nil
}

// headerValues parses config values with the FITS value grammar so that
// a default of 300 formats like a numeric keyword.
func headerValues(values map[string]string) (common.Header, error) {
	hdr := make(common.Header, len(values))
	for k, s := range values {
		v, err := fits.ParseValue(s)
		if err != nil {
			return nil, fmt.Errorf("value for %s: %w", k, err)
		}
		hdr[k] = v.Interface()
	}
	return hdr, nil
}
