// Package config provides Viper-based configuration loading for the
// encounter engine tooling.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// DiceConfig holds randomness settings.
type DiceConfig struct {
	// Deterministic switches from crypto randomness to a seeded generator so
	// an encounter can be replayed exactly.
	Deterministic bool `mapstructure:"deterministic"`
	// Seed feeds the deterministic generator; ignored otherwise.
	Seed int64 `mapstructure:"seed"`
}

// RoomConfig holds procedural room-generation settings.
type RoomConfig struct {
	// Width and Height are the generated room dimensions in 5-foot squares.
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	// ScatterRatio is the fraction of interior cells receiving scattered
	// terrain features, in [0, 1].
	ScatterRatio float64 `mapstructure:"scatter_ratio"`
}

// ScriptingConfig holds effect-hook scripting settings.
type ScriptingConfig struct {
	// Enabled turns Lua lifecycle hooks on.
	Enabled bool `mapstructure:"enabled"`
	// InstructionLimit caps Lua opcodes per hook execution; 0 uses the
	// package default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Dice      DiceConfig      `mapstructure:"dice"`
	Room      RoomConfig      `mapstructure:"room"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	// EffectsDir is the directory of YAML effect definitions.
	EffectsDir string `mapstructure:"effects_dir"`
}

// Validate checks all configuration invariants.
//
// Postcondition: returns nil if the configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", c.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[c.Logging.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", c.Logging.Format))
	}

	if c.Room.Width < 3 || c.Room.Height < 3 {
		errs = append(errs, fmt.Sprintf("room dimensions must be at least 3x3, got %dx%d", c.Room.Width, c.Room.Height))
	}
	if c.Room.ScatterRatio < 0 || c.Room.ScatterRatio > 1 {
		errs = append(errs, fmt.Sprintf("room.scatter_ratio must be in [0, 1], got %g", c.Room.ScatterRatio))
	}

	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ENCOUNTER_ prefix.
	v.SetEnvPrefix("ENCOUNTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file is supplied.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always unmarshal and validate cleanly.
	if err := v.Unmarshal(&cfg); err != nil {
		panic("config: defaults failed to unmarshal: " + err.Error())
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("dice.deterministic", false)
	v.SetDefault("dice.seed", 0)

	v.SetDefault("room.width", 12)
	v.SetDefault("room.height", 10)
	v.SetDefault("room.scatter_ratio", 0.15)

	v.SetDefault("scripting.enabled", true)
	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("effects_dir", "content/effects")
}
