// Package config provides Viper-based configuration loading for rollkit.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout", or a file path. Roll output owns stdout
	// in the CLI, so the default is stderr.
	Output string `mapstructure:"output"`
}

// DiceConfig selects and seeds the random source behind every roll.
type DiceConfig struct {
	// Source is "seeded" (math/rand/v2 PCG) or "crypto" (crypto/rand).
	Source string `mapstructure:"source"`
	// Seed seeds the "seeded" source. Zero draws a fresh random seed.
	Seed int64 `mapstructure:"seed"`
	// MaxCount caps the number of dice a single roll may request.
	MaxCount int `mapstructure:"max_count"`
}

// ContentConfig points at YAML roll content.
type ContentConfig struct {
	// RollsDir holds preset and table YAML files. Empty disables roll content.
	RollsDir string `mapstructure:"rolls_dir"`
}

// ScriptingConfig holds Lua macro settings.
type ScriptingConfig struct {
	// MacrosDir holds *.lua macro files. Empty disables macros.
	MacrosDir string `mapstructure:"macros_dir"`
	// InstructionLimit is the per-call Lua opcode budget; 0 uses the default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// TelnetConfig holds Telnet acceptor settings.
type TelnetConfig struct {
	// Host is the bind address for the Telnet listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the Telnet listener. 0 picks a free port.
	Port int `mapstructure:"port"`
	// ReadTimeout is the per-read timeout for Telnet connections.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for Telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the "host:port" listen address.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Dice      DiceConfig      `mapstructure:"dice"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Telnet    TelnetConfig    `mapstructure:"telnet"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDice(c.Dice); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}
	if err := validateTelnet(c.Telnet); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

func validateDice(d DiceConfig) error {
	var errs []string
	validSources := map[string]bool{"seeded": true, "crypto": true}
	if !validSources[d.Source] {
		errs = append(errs, fmt.Sprintf("dice.source must be one of [seeded, crypto], got %q", d.Source))
	}
	if d.Source == "crypto" && d.Seed != 0 {
		errs = append(errs, "dice.seed cannot be used with the crypto source")
	}
	if d.MaxCount < 1 {
		errs = append(errs, fmt.Sprintf("dice.max_count must be >= 1, got %d", d.MaxCount))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTelnet(t TelnetConfig) error {
	var errs []string
	if t.Port < 0 || t.Port > 65535 {
		errs = append(errs, fmt.Sprintf("telnet.port must be 0-65535, got %d", t.Port))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, "telnet.read_timeout must not be negative")
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "telnet.write_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path skips the file and uses
// defaults plus environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with ROLLKIT_ prefix
	v.SetEnvPrefix("ROLLKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("dice.source", "seeded")
	v.SetDefault("dice.seed", 0)
	v.SetDefault("dice.max_count", 1000)

	v.SetDefault("content.rolls_dir", "")

	v.SetDefault("scripting.macros_dir", "")
	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4100)
	v.SetDefault("telnet.read_timeout", "30m")
	v.SetDefault("telnet.write_timeout", "30s")
}
