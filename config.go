package aspen

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes the render context and, when used with Run, the window.
// It can be loaded from YAML:
//
//	title: demo
//	width: 640
//	height: 360
//	tps: 60
//	vsync: true
//	back_color: {r: 0.1, g: 0.1, b: 0.12, a: 1}
//	debug: false
//	log_level: info
type Config struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`  // internal resolution
	Height    int    `yaml:"height"` // internal resolution
	TPS       int    `yaml:"tps"`
	VSync     bool   `yaml:"vsync"`
	BackColor Color  `yaml:"back_color"`
	Debug     bool   `yaml:"debug"`
	LogLevel  string `yaml:"log_level"` // debug, info, warn, error
}

// DefaultConfig returns a 640x480, 60 TPS configuration with a black
// background.
func DefaultConfig() Config {
	return Config{
		Title:     "aspen",
		Width:     640,
		Height:    480,
		TPS:       60,
		VSync:     true,
		BackColor: ColorBlack,
		LogLevel:  "info",
	}
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// Validate reports ErrInvalidArgument for a non-positive resolution or tick
// rate, or an unknown log level.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return invalidArgument("resolution %dx%d", c.Width, c.Height)
	}
	if c.TPS <= 0 {
		return invalidArgument("tps %d", c.TPS)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level maps LogLevel to a slog level. An empty string means info.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, invalidArgument("log level %q", c.LogLevel)
	}
}

// Resolution returns the internal resolution.
func (c Config) Resolution() Size { return Size{c.Width, c.Height} }
