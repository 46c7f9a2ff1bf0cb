package supervisor

import (
	"io"
	"log/slog"
	"os"

	"vexec/internal/chunkstore"
	"vexec/internal/process"
	"vexec/internal/render"
)

type options struct {
	chunkSize int
	policy    process.SignalPolicy
	pty       bool
	palette   render.Palette
	out       io.Writer
	stdin     *os.File
	dir       string
	env       []string
	log       *slog.Logger
}

func defaultOptions() *options {
	return &options{
		chunkSize: chunkstore.DefaultCapacity,
		policy:    process.SignalSuccess,
		palette:   render.DefaultPalette(),
		out:       os.Stdout,
		stdin:     os.Stdin,
		log:       slog.Default(),
	}
}

// Option configures a Supervisor at launch.
type Option func(*options)

// WithChunkSize sets the number of bytes attempted per read.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// WithSignalPolicy sets the exit code reported when the child is killed by a signal.
func WithSignalPolicy(p process.SignalPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithPTY gives the child a pseudo-terminal as stdout so that it keeps
// line-buffering its output. Line endings are translated by the terminal.
func WithPTY(enabled bool) Option {
	return func(o *options) {
		o.pty = enabled
	}
}

// WithPalette sets the escape sequences used when rendering.
func WithPalette(p render.Palette) Option {
	return func(o *options) {
		o.palette = p
	}
}

// WithOutput sets the console the captured output is rendered to.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithStdin sets the child's stdin. nil means the null device.
func WithStdin(f *os.File) Option {
	return func(o *options) {
		o.stdin = f
	}
}

// WithDir sets the child's working directory.
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithEnv sets the child's environment. nil inherits the current one.
func WithEnv(env []string) Option {
	return func(o *options) {
		o.env = env
	}
}

// WithLogger sets the logger for diagnostics. nil keeps slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}
