// Package render writes a drained chunk sequence to the console, switching
// colors whenever the source stream changes.
package render

import (
	"fmt"
	"io"

	"vexec/internal/chunkstore"
)

// Renderer writes chunk sequences to a console using a Palette.
type Renderer struct {
	out     io.Writer
	palette Palette
}

// New returns a Renderer writing to out.
func New(out io.Writer, palette Palette) *Renderer {
	return &Renderer{out: out, palette: palette}
}

// Render writes chunks in order. The color mode lives only for the duration
// of this call, and the reset sequence is written even when chunks is empty
// so the terminal is always left clean.
func (r *Renderer) Render(chunks []chunkstore.Chunk) error {
	mode := chunkstore.SourceNone
	for i, chunk := range chunks {
		if chunk.Source != mode {
			if err := r.writeString(r.palette.sequence(chunk.Source)); err != nil {
				return fmt.Errorf("failed to write color for chunk %d: %w", i, err)
			}
			mode = chunk.Source
		}
		if _, err := r.out.Write(chunk.Data); err != nil {
			return fmt.Errorf("failed to write chunk %d: %w", i, err)
		}
	}
	if err := r.writeString(r.palette.Reset); err != nil {
		return fmt.Errorf("failed to write color reset: %w", err)
	}
	return nil
}

func (r *Renderer) writeString(s string) error {
	if s == "" {
		return nil
	}
	_, err := io.WriteString(r.out, s)
	return err
}
