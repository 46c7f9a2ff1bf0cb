package render

import (
	"fmt"
	"sort"
	"strings"

	"vexec/internal/chunkstore"
)

// Reset is the SGR sequence that restores the terminal's default attributes.
const Reset = "\x1b[0m"

// colorCodes maps color names to SGR foreground parameters.
var colorCodes = map[string]int{
	"black":   30,
	"red":     31,
	"green":   32,
	"yellow":  33,
	"blue":    34,
	"magenta": 35,
	"cyan":    36,
	"white":   37,
	"default": 39,
}

// Palette holds the escape sequences the Renderer writes.
// An empty sequence writes nothing.
type Palette struct {
	Stdout string
	Stderr string
	Reset  string
}

// DefaultPalette leaves stdout in the terminal's default color and shows
// stderr in red.
func DefaultPalette() Palette {
	return Palette{
		Stdout: "\x1b[39m",
		Stderr: "\x1b[31m",
		Reset:  Reset,
	}
}

// NoColor returns a palette that writes no escape sequences at all.
func NoColor() Palette {
	return Palette{}
}

// NewPalette builds a palette from color names such as "red" or "default".
func NewPalette(stdoutColor, stderrColor string) (Palette, error) {
	out, err := Color(stdoutColor)
	if err != nil {
		return Palette{}, err
	}
	errSeq, err := Color(stderrColor)
	if err != nil {
		return Palette{}, err
	}
	return Palette{Stdout: out, Stderr: errSeq, Reset: Reset}, nil
}

// Color returns the SGR sequence for a color name.
func Color(name string) (string, error) {
	code, ok := colorCodes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unknown color %q (valid: %s)", name, strings.Join(ColorNames(), ", "))
	}
	return fmt.Sprintf("\x1b[%dm", code), nil
}

// ColorNames lists the accepted color names in sorted order.
func ColorNames() []string {
	names := make([]string, 0, len(colorCodes))
	for name := range colorCodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p Palette) sequence(source chunkstore.Source) string {
	switch source {
	case chunkstore.Stdout:
		return p.Stdout
	case chunkstore.Stderr:
		return p.Stderr
	default:
		return ""
	}
}
