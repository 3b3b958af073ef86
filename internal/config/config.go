// Package config loads heron.yml.
//
// Values are resolved by viper in this order: bound command-line flags,
// HERON_* environment variables (HERON_LOG_LEVEL for log.level), the config
// file, then DefaultConfig.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "heron.yml"

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "HERON"

// Config represents heron.yml configuration
type Config struct {
	Tag      string      `mapstructure:"tag" yaml:"tag" validate:"required,alphanum"`
	Output   string      `mapstructure:"output" yaml:"output" validate:"required,endswith=.go,excludesall=/\\"`
	Strict   bool        `mapstructure:"strict" yaml:"strict"`
	Register bool        `mapstructure:"register" yaml:"register"`
	Log      LogConfig   `mapstructure:"log" yaml:"log"`
	Watch    WatchConfig `mapstructure:"watch" yaml:"watch"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error silent"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// WatchConfig holds watch mode settings
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce" validate:"gte=0"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tag:    "meili",
		Output: "meili_index_gen.go",
		Log: LogConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"tag":       "tag",
	"output":    "output",
	"strict":    "strict",
	"register":  "register",
	"log-level": "log.level",
	"log-json":  "log.json",
}

// LoadConfig loads configuration from path, the environment and flags.
// A missing file is not an error; defaults apply. flags may be nil.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("tag", cfg.Tag)
	v.SetDefault("output", cfg.Output)
	v.SetDefault("strict", cfg.Strict)
	v.SetDefault("register", cfg.Register)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.json", cfg.Log.JSON)
	v.SetDefault("watch.debounce", cfg.Watch.Debounce)
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// SaveConfig writes configuration to a YAML file
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
