package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"vexec/internal/chunkstore"
	"vexec/internal/process"
	"vexec/internal/render"
)

// MaxChunkSize bounds chunk_size so a typo cannot allocate huge buffers per read.
const MaxChunkSize = 64 * 1024

// ColorMode selects when escape sequences are written.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config is the file layout of config.toml. Flags override it field by field.
type Config struct {
	ChunkSize   int    `toml:"chunk_size"`
	Color       string `toml:"color"`
	StdoutColor string `toml:"stdout_color"`
	StderrColor string `toml:"stderr_color"`
	SignalExit  string `toml:"signal_exit"`
	PTY         bool   `toml:"pty"`
	LogLevel    string `toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ChunkSize:   chunkstore.DefaultCapacity,
		Color:       string(ColorAuto),
		StdoutColor: "default",
		StderrColor: "red",
		SignalExit:  string(process.SignalSuccess),
		LogLevel:    "warn",
	}
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vexec")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "vexec")
	}
	return filepath.Join(home, ".config", "vexec")
}

// Path returns the config file location: $VEXEC_CONFIG if set, otherwise
// config.toml in the XDG config directory.
func Path() string {
	if p := os.Getenv("VEXEC_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(configDir(), "config.toml")
}

// Load reads the config file at path on top of the defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field for a usable value.
func (c *Config) Validate() error {
	if c.ChunkSize < 1 || c.ChunkSize > MaxChunkSize {
		return fmt.Errorf("chunk_size must be between 1 and %d, got %d", MaxChunkSize, c.ChunkSize)
	}
	if _, err := c.ColorMode(); err != nil {
		return err
	}
	if _, err := render.NewPalette(c.StdoutColor, c.StderrColor); err != nil {
		return err
	}
	if _, err := process.ParseSignalPolicy(c.SignalExit); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// ColorMode parses Color.
func (c *Config) ColorMode() (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(c.Color)); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("unknown color mode %q (valid: auto, always, never)", c.Color)
}

// Palette returns the palette to render with. isTerminal is consulted only
// in auto mode.
func (c *Config) Palette(isTerminal bool) (render.Palette, error) {
	mode, err := c.ColorMode()
	if err != nil {
		return render.Palette{}, err
	}
	if mode == ColorNever || (mode == ColorAuto && !isTerminal) {
		return render.NoColor(), nil
	}
	return render.NewPalette(c.StdoutColor, c.StderrColor)
}

// SignalPolicy parses SignalExit.
func (c *Config) SignalPolicy() (process.SignalPolicy, error) {
	return process.ParseSignalPolicy(c.SignalExit)
}

// Level parses LogLevel as a slog level name.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unknown log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
