package render

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"vexec/internal/chunkstore"
)

var sgr = regexp.MustCompile("\x1b\\[[0-9;]*m")

func stripEscapes(s string) string {
	return sgr.ReplaceAllString(s, "")
}

func chunk(source chunkstore.Source, data string) chunkstore.Chunk {
	return chunkstore.Chunk{Source: source, Data: []byte(data)}
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultPalette()).Render(nil))
	require.Equal(t, Reset, buf.String())
}

func TestRender_SwitchesColorOnSourceChange(t *testing.T) {
	p := DefaultPalette()
	var buf bytes.Buffer
	err := New(&buf, p).Render([]chunkstore.Chunk{
		chunk(chunkstore.Stdout, "a"),
		chunk(chunkstore.Stdout, "b"),
		chunk(chunkstore.Stderr, "c"),
		chunk(chunkstore.Stdout, "d"),
	})
	require.NoError(t, err)
	require.Equal(t, p.Stdout+"ab"+p.Stderr+"c"+p.Stdout+"d"+p.Reset, buf.String())
}

func TestRender_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		chunks []chunkstore.Chunk
	}{
		{name: "single stream", chunks: []chunkstore.Chunk{
			chunk(chunkstore.Stdout, "hello "),
			chunk(chunkstore.Stdout, "world\n"),
		}},
		{name: "interleaved", chunks: []chunkstore.Chunk{
			chunk(chunkstore.Stderr, "warn: "),
			chunk(chunkstore.Stdout, "out\n"),
			chunk(chunkstore.Stderr, "disk\n"),
		}},
		{name: "binary", chunks: []chunkstore.Chunk{
			chunk(chunkstore.Stdout, "\x00\x01\xff"),
			chunk(chunkstore.Stderr, "\n\n"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var want strings.Builder
			for _, c := range tt.chunks {
				want.Write(c.Data)
			}

			var buf bytes.Buffer
			require.NoError(t, New(&buf, DefaultPalette()).Render(tt.chunks))
			require.Equal(t, want.String(), stripEscapes(buf.String()))
			require.True(t, strings.HasSuffix(buf.String(), Reset))
		})
	}
}

func TestRender_NoColor(t *testing.T) {
	var buf bytes.Buffer
	err := New(&buf, NoColor()).Render([]chunkstore.Chunk{
		chunk(chunkstore.Stdout, "out"),
		chunk(chunkstore.Stderr, "err"),
	})
	require.NoError(t, err)
	require.Equal(t, "outerr", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("console gone")
}

func TestRender_WriteError(t *testing.T) {
	err := New(failingWriter{}, DefaultPalette()).Render([]chunkstore.Chunk{chunk(chunkstore.Stdout, "x")})
	require.Error(t, err)
}

func TestNewPalette(t *testing.T) {
	p, err := NewPalette("green", "Yellow")
	require.NoError(t, err)
	require.Equal(t, "\x1b[32m", p.Stdout)
	require.Equal(t, "\x1b[33m", p.Stderr)
	require.Equal(t, Reset, p.Reset)

	_, err = NewPalette("green", "chartreuse")
	require.Error(t, err)
}

func TestColorNames(t *testing.T) {
	names := ColorNames()
	require.Contains(t, names, "red")
	require.Contains(t, names, "default")
	require.IsIncreasing(t, names)
}
