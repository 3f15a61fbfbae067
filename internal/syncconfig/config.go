package syncconfig

import (
	"strings"
	"time"

	toml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	envv2 "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix recognized for environment variable overrides.
const EnvPrefix = "DOCSYNC_"

// Config holds the sync engine's recognized options (spec §6).
type Config struct {
	// ResyncDebounceMS is the trailing-edge debounce before a drift
	// reconciliation runs. Default 100.
	ResyncDebounceMS int `koanf:"resync-debounce-ms"`

	// ResyncMaxWaitMS caps how long a reconciliation can be deferred by
	// continued activity. Default 500.
	ResyncMaxWaitMS int `koanf:"resync-max-wait-ms"`

	// MaxEditRetries is the number of times apply_edit is retried before
	// falling back to a scheduled resync. Default 20.
	MaxEditRetries int `koanf:"max-edit-retries"`

	// ResyncTimerMS is the forced periodic reconciliation tick. Default 10000.
	ResyncTimerMS int `koanf:"resync-timer-ms"`

	// ConfigFile records which file (if any) was loaded. Metadata only.
	ConfigFile string `koanf:"-"`
}

// Default returns the built-in defaults from spec §6.
func Default() *Config {
	return &Config{
		ResyncDebounceMS: 100,
		ResyncMaxWaitMS:  500,
		MaxEditRetries:   20,
		ResyncTimerMS:    10000,
	}
}

// ResyncDebounce returns ResyncDebounceMS as a time.Duration.
func (c *Config) ResyncDebounce() time.Duration {
	return time.Duration(c.ResyncDebounceMS) * time.Millisecond
}

// ResyncMaxWait returns ResyncMaxWaitMS as a time.Duration.
func (c *Config) ResyncMaxWait() time.Duration {
	return time.Duration(c.ResyncMaxWaitMS) * time.Millisecond
}

// ResyncTimer returns ResyncTimerMS as a time.Duration.
func (c *Config) ResyncTimer() time.Duration {
	return time.Duration(c.ResyncTimerMS) * time.Millisecond
}

// Load loads configuration: defaults, then configPath if non-empty, then
// DOCSYNC_* environment overrides.
func Load(configPath string) (*Config, error) {
	return LoadWithOverrides(configPath, nil)
}

// LoadWithOverrides layers defaults, an optional TOML file, DOCSYNC_*
// environment overrides, and finally a programmatic overrides map, in
// that order of increasing precedence.
//
// The overrides map exists for hosts that embed this engine alongside an
// editor integration and want to pin a session's tunables (e.g. a test
// harness forcing a short resync_timer_ms) without writing a config file
// or mutating the process environment — the same role
// koanf/providers/confmap plays as the final override layer in the
// teacher's own config package.
func LoadWithOverrides(configPath string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := envv2.Provider(EnvPrefix, envv2.Opt{
		Prefix: EnvPrefix,
		Delim:  ".",
		TransformFunc: func(k, v string) (string, any) {
			key := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
			key = strings.ReplaceAll(key, "_", "-")
			return key, v
		},
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFile = configPath
	return cfg, nil
}
