// Package config loads CLI settings from defaults, an optional config file,
// SHANNON_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/alexshd/shannon"
	"github.com/alexshd/shannon/internal/blocks"
	"github.com/alexshd/shannon/internal/plot"
	"github.com/alexshd/shannon/internal/report"
)

// EnvPrefix prefixes every environment variable the CLI reads, e.g. SHANNON_BLOCK_SIZE.
const EnvPrefix = "SHANNON"

// Config holds every setting of the shannon CLI.
type Config struct {
	BlockSize int     `mapstructure:"block_size"`
	Workers   int     `mapstructure:"workers"`
	Width     int     `mapstructure:"width"`
	Height    int     `mapstructure:"height"`
	YMax      float32 `mapstructure:"y_max"`
	High      float32 `mapstructure:"high"`
	Low       float32 `mapstructure:"low"`
	Format    string  `mapstructure:"format"`
	LogLevel  string  `mapstructure:"log_level"`

	// Resolved by Validate from Format and LogLevel.
	Output report.Format `mapstructure:"-"`
	Slog   slog.Level    `mapstructure:"-"`
}

// Default returns the settings used when no other source provides a value.
func Default() Config {
	th := shannon.DefaultThresholds[float32]()
	return Config{
		BlockSize: blocks.DefaultBlockSize,
		Workers:   0,
		Width:     180,
		Height:    100,
		YMax:      0,
		High:      th.High,
		Low:       th.Low,
		Format:    string(report.FormatText),
		LogLevel:  "info",
	}
}

// New returns a viper instance seeded with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("block_size", d.BlockSize)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("width", d.Width)
	v.SetDefault("height", d.Height)
	v.SetDefault("y_max", d.YMax)
	v.SetDefault("high", d.High)
	v.SetDefault("low", d.Low)
	v.SetDefault("format", d.Format)
	v.SetDefault("log_level", d.LogLevel)
	return v
}

// BindFlags binds every flag of fs to the key of the same name with dashes
// replaced by underscores, so --block-size sets block_size.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var result *multierror.Error
	fs.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			result = multierror.Append(result, fmt.Errorf("bind flag %s: %w", f.Name, err))
		}
	})
	return result.ErrorOrNil()
}

// Load reads the optional config file at path and decodes v into a Config.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once. On success it also fills
// Output and Slog from their textual forms.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.BlockSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("block_size=%d: %w", c.BlockSize, blocks.ErrInvalidBlockSize))
	}
	if c.Workers < 0 {
		result = multierror.Append(result, fmt.Errorf("workers=%d: must not be negative", c.Workers))
	}
	if err := c.Chart().Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.Thresholds().Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	format, err := report.ParseFormat(c.Format)
	if err != nil {
		result = multierror.Append(result, err)
	}
	level, err := c.Level()
	if err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		return err
	}
	c.Output = format
	c.Slog = level
	return nil
}

// Thresholds returns the edge detector's hysteresis band.
func (c Config) Thresholds() shannon.Thresholds[float32] {
	return shannon.Thresholds[float32]{High: c.High, Low: c.Low}
}

// Chart returns the plot dimensions.
func (c Config) Chart() plot.Chart {
	return plot.Chart{Width: c.Width, Height: c.Height, YMax: c.YMax}
}

// Scanner returns a block scanner with the configured size and concurrency.
func (c Config) Scanner() blocks.Scanner {
	return blocks.Scanner{BlockSize: c.BlockSize, Workers: c.Workers}
}

// Level parses LogLevel (debug, info, warn, error).
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level=%q: %w", c.LogLevel, err)
	}
	return level, nil
}
