// Package config loads quest settings from defaults, an optional YAML file,
// QUEST_* environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/stefanpenner/quest/pkg/store"
)

// FileName is the config file looked up inside the data directory.
const FileName = "quest.yaml"

// Output formats accepted by the output key.
const (
	OutputText  = "text"
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Config holds all quest configuration.
type Config struct {
	DataDir  string `koanf:"data_dir"`
	File     string `koanf:"file"`
	Verbose  bool   `koanf:"verbose"`
	Output   string `koanf:"output"`
	Autosave bool   `koanf:"autosave"`

	// ConfigFile is the YAML file that was read, if any.
	ConfigFile string `koanf:"-"`
}

// Load resolves configuration. Precedence (highest to lowest):
// flags > env vars > config file > defaults.
//
// cfgFile names an explicit config file; when empty, quest.yaml inside the
// resolved data directory is used if present. Only flags that were set on
// the command line override other sources.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"data_dir": store.DefaultDataDir(),
		"file":     store.DefaultFile,
		"verbose":  false,
		"output":   OutputText,
		"autosave": true,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	envProvider := env.Provider("QUEST_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "QUEST_"))
	})
	flagProvider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if key == "dir" {
			key = "data_dir"
		}
		return key, posflag.FlagVal(flags, f)
	})

	// The data directory decides where the config file lives, so resolve it
	// from env and flags before reading the file.
	if cfgFile == "" {
		probe := k.Copy()
		if err := probe.Load(envProvider, nil); err != nil {
			return nil, fmt.Errorf("failed to load env vars: %w", err)
		}
		if flags != nil {
			if err := probe.Load(flagProvider, nil); err != nil {
				return nil, fmt.Errorf("failed to load flags: %w", err)
			}
		}
		candidate := filepath.Join(probe.String("data_dir"), FileName)
		if _, err := os.Stat(candidate); err == nil {
			cfgFile = candidate
		}
	}

	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(flagProvider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = cfgFile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	switch c.Output {
	case OutputText, OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("invalid output %q (use text, table, json, or yaml)", c.Output)
	}
	return nil
}
