package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"vexec/internal/process"
	"vexec/internal/render"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
chunk_size = 64
color = "always"
stderr_color = "magenta"
signal_exit = "shell"
pty = true
log_level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 64, cfg.ChunkSize)
	require.Equal(t, "always", cfg.Color)
	require.Equal(t, "default", cfg.StdoutColor)
	require.Equal(t, "magenta", cfg.StderrColor)
	require.True(t, cfg.PTY)

	policy, err := cfg.SignalPolicy()
	require.NoError(t, err)
	require.Equal(t, process.SignalShell, policy)

	level, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "syntax", content: `chunk_size = `},
		{name: "zero chunk size", content: `chunk_size = 0`},
		{name: "huge chunk size", content: `chunk_size = 1000000`},
		{name: "color mode", content: `color = "sometimes"`},
		{name: "color name", content: `stdout_color = "mauve"`},
		{name: "signal policy", content: `signal_exit = "ignore"`},
		{name: "log level", content: `log_level = "chatty"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("VEXEC_CONFIG", "/etc/vexec.toml")
	require.Equal(t, "/etc/vexec.toml", Path())

	t.Setenv("VEXEC_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	require.Equal(t, "/xdg/vexec/config.toml", Path())
}

func TestPalette(t *testing.T) {
	cfg := Default()

	p, err := cfg.Palette(false)
	require.NoError(t, err)
	require.Equal(t, render.NoColor(), p)

	p, err = cfg.Palette(true)
	require.NoError(t, err)
	require.Equal(t, render.DefaultPalette(), p)

	cfg.Color = "never"
	p, err = cfg.Palette(true)
	require.NoError(t, err)
	require.Equal(t, render.NoColor(), p)

	cfg.Color = "always"
	p, err = cfg.Palette(false)
	require.NoError(t, err)
	require.Equal(t, render.DefaultPalette(), p)
}
