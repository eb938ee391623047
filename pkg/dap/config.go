package dap

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/opendap-go/dapserve/internal/bytesize"
	"github.com/opendap-go/dapserve/internal/dapcore"
)

// Config is the full runtime configuration for a dapserve process.
//
// Configuration sources, in order of precedence:
//  1. Environment variables (DAPSERVE_*)
//  2. Configuration file (YAML)
//  3. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// ChunkSizeBytes bounds how many bytes the XDR encoder buffers before
	// flushing to the response writer, matching the reference encoder's
	// DASK_ENCODE_CHUNK_SIZE.
	ChunkSizeBytes bytesize.ByteSize `mapstructure:"chunk_size_bytes" yaml:"chunk_size_bytes"`

	// HTTP controls the demo HTTP dispatcher.
	HTTP HTTPConfig `mapstructure:"http" yaml:"http"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output: DEBUG, INFO, WARN, ERROR.
	Level string `mapstructure:"level" yaml:"level"`
	// Format is the log output format: text or json.
	Format string `mapstructure:"format" yaml:"format"`
	// Output is stdout, stderr, or a file path.
	Output string `mapstructure:"output" yaml:"output"`
}

// HTTPConfig controls the demo DDS/DAS/DODS HTTP dispatcher.
type HTTPConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// DefaultChunkSizeBytes mirrors the reference encoder's
// DASK_ENCODE_CHUNK_SIZE default.
const DefaultChunkSizeBytes = bytesize.ByteSize(dapcore.DefaultChunkSize)

// DefaultConfig returns the configuration used when no file or env vars
// override it.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
			Output: "stdout",
		},
		ChunkSizeBytes: DefaultChunkSizeBytes,
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// SetChunkSize validates and applies a new chunk size. This is the
// validated setter spec.md's set_dask_encoding_chunk_size calls for.
func (c *Config) SetChunkSize(n int) error {
	if err := dapcore.ValidateChunkSize(n); err != nil {
		return err
	}
	c.ChunkSizeBytes = bytesize.ByteSize(n)
	return nil
}

// Load reads configuration from the given file (empty string uses the
// default search location), layering environment variables and defaults
// on top, and returns the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	cfg := DefaultConfig()
	// Register every key with its default so AutomaticEnv can override it
	// whether or not a config file exists or mentions the key.
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)
	v.SetDefault("chunk_size_bytes", uint64(cfg.ChunkSizeBytes))
	v.SetDefault("http.addr", cfg.HTTP.Addr)

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(cfg, viper.DecodeHook(byteSizeDecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := dapcore.ValidateChunkSize(cfg.ChunkSizeBytes.EncoderChunkSize()); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setupViper wires environment variable and config file search behavior.
// Environment variables use the DAPSERVE_ prefix, e.g.
// DAPSERVE_LOGGING_LEVEL=DEBUG.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("DAPSERVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(defaultConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dapserve")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "dapserve")
}

// byteSizeDecodeHook lets config files and env vars express
// ChunkSizeBytes as a human-readable string ("20MB", "50Mi") or a plain
// number.
func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return bytesize.ParseByteSize(v)
		case int:
			return bytesize.ByteSize(v), nil
		case int64:
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
}
