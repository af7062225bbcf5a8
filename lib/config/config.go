// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/cbordate/lib/cbordecode"
	"github.com/bureau-foundation/cbordate/lib/cborvalue"
)

// EnvVar names the environment variable that points at the config file.
const EnvVar = "CBORDATE_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for interactive use and local tooling.
	Development Environment = "development"
	// Production is for pipelines that decode untrusted input.
	Production Environment = "production"
)

// DateMode selects how date-typed schema fields are coerced.
type DateMode string

const (
	// DateModeStrict requires text under tag 0 and a number under tag 1.
	DateModeStrict DateMode = "strict"
	// DateModeProbe accepts either payload under either date tag,
	// trying the number first.
	DateModeProbe DateMode = "probe"
)

// Decompression values for InputConfig.Decompress.
const (
	DecompressAuto = "auto"
	DecompressNone = "none"
	DecompressZstd = "zstd"
	DecompressLZ4  = "lz4"
)

// Config is the cbordate configuration.
type Config struct {
	// Environment identifies the deployment type (development, production).
	Environment Environment `yaml:"environment"`

	// Decoder bounds the resources one decode may use.
	Decoder DecoderConfig `yaml:"decoder"`

	// Dates configures date coercion for schema fields.
	Dates DatesConfig `yaml:"dates"`

	// Input configures how command input is read.
	Input InputConfig `yaml:"input"`

	// Schemas configures where named schema files are found.
	Schemas SchemasConfig `yaml:"schemas"`

	// Log configures the command logger.
	Log LogConfig `yaml:"log"`

	// Per-environment overrides, applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Decoder *DecoderConfig `yaml:"decoder,omitempty"`
	Dates   *DatesConfig   `yaml:"dates,omitempty"`
	Input   *InputConfig   `yaml:"input,omitempty"`
	Log     *LogConfig     `yaml:"log,omitempty"`
}

// DecoderConfig mirrors cborvalue.DecodeOptions.
type DecoderConfig struct {
	// MaxNestedLevels is the deepest nesting of arrays, maps and tags.
	// Default: 512
	MaxNestedLevels int `yaml:"max_nested_levels"`

	// MaxContainerLength caps array elements and map pairs.
	// Default: 16777216
	MaxContainerLength int `yaml:"max_container_length"`

	// MaxStringLength caps byte and text string lengths in bytes.
	// Default: 67108864
	MaxStringLength int `yaml:"max_string_length"`
}

// DatesConfig configures date coercion.
type DatesConfig struct {
	// Mode is "strict" or "probe".
	// Default: strict
	Mode DateMode `yaml:"mode"`
}

// InputConfig configures command input.
type InputConfig struct {
	// Decompress is "auto" (detect zstd and LZ4 frames), "none",
	// "zstd", or "lz4".
	// Default: auto
	Decompress string `yaml:"decompress"`

	// Hex treats input as hexadecimal text by default.
	Hex bool `yaml:"hex"`

	// MaxInputBytes caps how much input a command reads, after
	// decompression.
	// Default: 268435456
	MaxInputBytes int64 `yaml:"max_input_bytes"`
}

// SchemasConfig configures schema file lookup.
type SchemasConfig struct {
	// Directory is searched for schema names that are not paths.
	// Default: ${HOME}/.config/cbordate/schemas
	Directory string `yaml:"directory"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Environment: Development,
		Decoder: DecoderConfig{
			MaxNestedLevels:    cborvalue.DefaultMaxNestedLevels,
			MaxContainerLength: cborvalue.DefaultMaxContainerLength,
			MaxStringLength:    cborvalue.DefaultMaxStringLength,
		},
		Dates: DatesConfig{
			Mode: DateModeStrict,
		},
		Input: InputConfig{
			Decompress:    DecompressAuto,
			MaxInputBytes: 256 << 20,
		},
		Schemas: SchemasConfig{
			Directory: filepath.Join(homeDir, ".config", "cbordate", "schemas"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the file named by CBORDATE_CONFIG.
// There is no fallback: if the variable is not set, Load fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your cbordate.yaml config file, or use --config flag", EnvVar)
	}

	return LoadFile(configPath)
}

// Resolve picks the configuration for a command: the file named by
// flagPath when set, else the file named by CBORDATE_CONFIG when set,
// else Default. The result is validated.
func Resolve(flagPath string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch {
	case flagPath != "":
		cfg, err = LoadFile(flagPath)
	case os.Getenv(EnvVar) != "":
		cfg, err = Load()
	default:
		cfg = Default()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFile loads configuration from a specific file path. Values in the
// file are merged over Default, environment overrides are applied, and
// ${VAR} references in paths are expanded.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
		// Production defaults: never probe, never guess a frame format.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Dates: &DatesConfig{Mode: DateModeStrict},
				Input: &InputConfig{Decompress: DecompressNone},
				Log:   &LogConfig{Level: "warn"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Decoder != nil {
		if overrides.Decoder.MaxNestedLevels != 0 {
			c.Decoder.MaxNestedLevels = overrides.Decoder.MaxNestedLevels
		}
		if overrides.Decoder.MaxContainerLength != 0 {
			c.Decoder.MaxContainerLength = overrides.Decoder.MaxContainerLength
		}
		if overrides.Decoder.MaxStringLength != 0 {
			c.Decoder.MaxStringLength = overrides.Decoder.MaxStringLength
		}
	}

	if overrides.Dates != nil && overrides.Dates.Mode != "" {
		c.Dates.Mode = overrides.Dates.Mode
	}

	if overrides.Input != nil {
		if overrides.Input.Decompress != "" {
			c.Input.Decompress = overrides.Input.Decompress
		}
		// Hex is a bool, so it always applies from overrides.
		c.Input.Hex = overrides.Input.Hex
		if overrides.Input.MaxInputBytes != 0 {
			c.Input.MaxInputBytes = overrides.Input.MaxInputBytes
		}
	}

	if overrides.Log != nil && overrides.Log.Level != "" {
		c.Log.Level = overrides.Log.Level
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Schemas.Directory = expandVars(c.Schemas.Directory, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Decoder.MaxNestedLevels <= 0 {
		errs = append(errs, fmt.Errorf("decoder.max_nested_levels must be positive"))
	}
	if c.Decoder.MaxContainerLength <= 0 {
		errs = append(errs, fmt.Errorf("decoder.max_container_length must be positive"))
	}
	if c.Decoder.MaxStringLength <= 0 {
		errs = append(errs, fmt.Errorf("decoder.max_string_length must be positive"))
	}

	if c.Dates.Mode != DateModeStrict && c.Dates.Mode != DateModeProbe {
		errs = append(errs, fmt.Errorf("dates.mode must be one of: [strict probe]"))
	}

	decompressValues := []string{DecompressAuto, DecompressNone, DecompressZstd, DecompressLZ4}
	if !slices.Contains(decompressValues, c.Input.Decompress) {
		errs = append(errs, fmt.Errorf("input.decompress must be one of: %v", decompressValues))
	}
	if c.Input.MaxInputBytes <= 0 {
		errs = append(errs, fmt.Errorf("input.max_input_bytes must be positive"))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// DecodeOptions returns the decoder limits.
func (c *Config) DecodeOptions() cborvalue.DecodeOptions {
	return cborvalue.DecodeOptions{
		MaxNestedLevels:    c.Decoder.MaxNestedLevels,
		MaxContainerLength: c.Decoder.MaxContainerLength,
		MaxStringLength:    c.Decoder.MaxStringLength,
	}
}

// DateDecoder returns the decode function for date fields in the
// configured mode.
func (c *Config) DateDecoder() cbordecode.DecodeFunc[time.Time] {
	if c.Dates.Mode == DateModeProbe {
		return cbordecode.AsProbedDate
	}
	return cbordecode.AsDate
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q must be one of: [debug info warn error]", c.Log.Level)
	}
	return level, nil
}

// SchemaPath resolves a schema reference. Names containing a path
// separator or a file extension are used as given; bare names are
// looked up in Schemas.Directory with each supported extension.
func (c *Config) SchemaPath(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) || filepath.Ext(name) != "" {
		return name, nil
	}
	if c.Schemas.Directory == "" {
		return "", fmt.Errorf("schema %q is not a path and schemas.directory is not set", name)
	}
	for _, extension := range []string{".yaml", ".yml", ".json", ".jsonc", ".toml"} {
		candidate := filepath.Join(c.Schemas.Directory, name+extension)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("schema %q not found in %s", name, c.Schemas.Directory)
}
