package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/iamNilotpal/rotlog/internal/adapters/checksum"
	"github.com/iamNilotpal/rotlog/internal/adapters/compression"
	"github.com/iamNilotpal/rotlog/internal/adapters/format"
	"github.com/iamNilotpal/rotlog/internal/adapters/transform"
	"github.com/iamNilotpal/rotlog/internal/core/domain"
	"github.com/iamNilotpal/rotlog/internal/core/ports"
	"github.com/iamNilotpal/rotlog/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Transform types accepted in TransformConfig.Type.
const (
	TransformZstd    = "zstd"
	TransformGzip    = "gzip"
	TransformFraming = "framing"
	TransformBase64  = "base64"
	TransformXOR     = "xor"
)

type Config struct {
	Stream  StreamConfig  `yaml:"stream"`
	Format  FormatConfig  `yaml:"format"`
	Console ConsoleConfig `yaml:"console"`
}

// Holds the rotating file configuration.
type StreamConfig struct {
	Path        string            `yaml:"path"`          // Active log file
	Category    string            `yaml:"category"`      // Default category of records
	MaxSize     int64             `yaml:"max_size"`      // Rotation threshold in bytes, 0 disables rotation
	MaxBackups  int               `yaml:"max_backups"`   // Files kept per rotation, clamped to at least 1
	SyncOnWrite bool              `yaml:"sync_on_write"` // Sync after each record
	ErrorBuffer int               `yaml:"error_buffer"`  // Capacity of the error channel
	Transforms  []TransformConfig `yaml:"transforms"`    // Applied in order to every record
}

// Describes one pipeline stage.
type TransformConfig struct {
	Type     string `yaml:"type"`     // zstd, gzip, framing, base64 or xor
	Level    uint8  `yaml:"level"`    // Compression level, 0 picks the stage default
	Checksum string `yaml:"checksum"` // Framing checksum algorithm, empty for none
	Key      string `yaml:"key"`      // XOR key
}

// Selects the parts of every formatted message.
type FormatConfig struct {
	PrintFile     bool `yaml:"print_file"`
	PrintLine     bool `yaml:"print_line"`
	PrintCategory bool `yaml:"print_category"`
	UseName       bool `yaml:"use_name"`
	UseCircle     bool `yaml:"use_circle"`
}

type ConsoleConfig struct {
	Enable bool   `yaml:"enable"`
	Level  string `yaml:"level"` // zap level name, e.g. debug or info
}

// Returns a Config struct with reasonable default values.
func DefaultConfig() *Config {
	return &Config{
		Stream: StreamConfig{
			Path:        "logs/app.log",
			Category:    "default",
			MaxSize:     1024 * 1024 * 10, // 10MB
			MaxBackups:  5,
			ErrorBuffer: 64,
		},
		Format: FormatConfig{
			PrintFile:     true,
			PrintLine:     true,
			PrintCategory: true,
			UseName:       true,
			UseCircle:     true,
		},
		Console: ConsoleConfig{Enable: true, Level: "info"},
	}
}

// Loads configuration from a YAML file. Keys missing from the file keep
// their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Stream.Path) == "" {
		return errors.NewValidationError("stream.path", config.Stream.Path, fmt.Errorf("path is required"))
	}

	if config.Stream.MaxSize < 0 {
		return errors.NewValidationError("stream.max_size", config.Stream.MaxSize, fmt.Errorf("must not be negative"))
	}

	if config.Stream.ErrorBuffer < 0 {
		return errors.NewValidationError(
			"stream.error_buffer", config.Stream.ErrorBuffer, fmt.Errorf("must not be negative"),
		)
	}

	for i, t := range config.Stream.Transforms {
		if err := validateTransform(t); err != nil {
			return fmt.Errorf("transform %d: %w", i, err)
		}
	}

	if config.Console.Enable {
		if _, err := zapcore.ParseLevel(config.Console.Level); err != nil {
			return errors.NewValidationError("console.level", config.Console.Level, err)
		}
	}

	return nil
}

func validateTransform(t TransformConfig) error {
	switch t.Type {
	case TransformZstd:
		if t.Level != 0 {
			return compression.Validate(&domain.CompressionOptions{Level: t.Level})
		}
	case TransformGzip:
		if t.Level != 0 {
			return compression.ValidateGzip(&domain.CompressionOptions{Level: t.Level})
		}
	case TransformFraming:
		if t.Checksum != "" {
			return checksum.Validate(&domain.ChecksumOptions{Enable: true, Algorithm: domain.ChecksumAlgorithm(t.Checksum)})
		}
	case TransformBase64:
	case TransformXOR:
		if t.Key == "" {
			return errors.NewValidationError("key", t.Key, transform.ErrEmptyKey)
		}
	default:
		return errors.NewValidationError("type", t.Type, fmt.Errorf("unknown transform type"))
	}
	return nil
}

// StreamOptions converts the stream section into stream options.
func (c *StreamConfig) StreamOptions() domain.StreamOptions {
	return domain.StreamOptions{
		MaxSize:     c.MaxSize,
		MaxBackups:  c.MaxBackups,
		SyncOnWrite: c.SyncOnWrite,
		ErrorBuffer: c.ErrorBuffer,
	}
}

// Formatter builds the message constructor selected by the format section.
func (c *FormatConfig) Formatter() *format.MessageConstructor {
	var options format.Option
	if c.PrintFile {
		options |= format.PrintFile
	}
	if c.PrintLine {
		options |= format.PrintLine
	}
	if c.PrintCategory {
		options |= format.PrintCategory
	}

	var converter format.ConverterOption
	if c.UseName {
		converter |= format.UseName
	}
	if c.UseCircle {
		converter |= format.UseCircle
	}

	return format.NewMessageConstructor(options, format.NewTypeConverter(converter))
}

// ConsoleLevel returns the parsed console level, info if it cannot be parsed.
func (c *ConsoleConfig) ConsoleLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// Transformers builds the configured pipeline stages. The returned function
// releases the compression stages and must be called once the stream using
// them is closed.
func (c *StreamConfig) Transformers() ([]ports.Transformer, func() error, error) {
	var (
		stages  []ports.Transformer
		closers []func() error
	)

	release := func() error {
		var err error
		for _, closeFn := range closers {
			err = multierr.Append(err, closeFn())
		}
		return err
	}

	for i, t := range c.Transforms {
		stage, closeFn, err := buildTransform(t)
		if err != nil {
			return nil, nil, multierr.Append(fmt.Errorf("transform %d: %w", i, err), release())
		}

		stages = append(stages, stage)
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
	}

	return stages, release, nil
}

func buildTransform(t TransformConfig) (ports.Transformer, func() error, error) {
	switch t.Type {
	case TransformZstd:
		opts := compression.DefaultOptions()
		if t.Level != 0 {
			opts.Level = t.Level
		}
		z, err := compression.NewZstd(*opts)
		if err != nil {
			return nil, nil, err
		}
		return z, z.Close, nil

	case TransformGzip:
		level := compression.GzipDefaultLevel
		if t.Level != 0 {
			level = t.Level
		}
		g, err := compression.NewGzip(domain.CompressionOptions{Level: level})
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil

	case TransformFraming:
		if t.Checksum == "" {
			return transform.NewFraming(nil), nil, nil
		}
		sum, err := checksum.NewCheckSummer(domain.ChecksumAlgorithm(t.Checksum))
		if err != nil {
			return nil, nil, err
		}
		return transform.NewFraming(sum), nil, nil

	case TransformBase64:
		return transform.Base64Lines(), nil, nil

	case TransformXOR:
		x, err := transform.XOR([]byte(t.Key))
		if err != nil {
			return nil, nil, err
		}
		return x, nil, nil

	default:
		return nil, nil, errors.NewValidationError("type", t.Type, fmt.Errorf("unknown transform type"))
	}
}
