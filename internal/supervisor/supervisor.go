// Package supervisor runs a child process, captures its stdout and stderr
// through two concurrent readers, and renders the combined output once the
// child has exited and both readers are finished.
package supervisor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sync/errgroup"

	"vexec/internal/chunkstore"
	"vexec/internal/process"
	"vexec/internal/reader"
	"vexec/internal/render"
	"vexec/internal/stream"
)

// streamReader is the part of reader.Reader the supervisor drives.
type streamReader interface {
	Run()
	Source() chunkstore.Source
	Err() error
	Chunks() int
}

var _ streamReader = &reader.Reader{}

// Supervisor owns one child process, its two output streams and the store
// their readers share.
type Supervisor struct {
	cmd      *exec.Cmd
	proc     *process.Process
	store    *chunkstore.Store
	streams  []stream.Stream
	readers  []streamReader
	renderer *render.Renderer
	policy   process.SignalPolicy
	log      *slog.Logger
}

// Launch starts command with args, looked up in PATH when it contains no
// slash. The returned Supervisor owns the child and both stream handles;
// call Run to capture and render its output.
func Launch(command string, args []string, opts ...Option) (*Supervisor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, err := chunkstore.New(o.chunkSize)
	if err != nil {
		return nil, &LaunchError{Command: command, Err: err}
	}

	cmd := exec.Command(command, args...)
	if o.stdin != nil {
		cmd.Stdin = o.stdin
	}
	cmd.Dir = o.dir
	cmd.Env = o.env

	// The read ends are created here rather than with cmd.StdoutPipe:
	// exec.Cmd.Wait closes pipes it created, and the child is waited for
	// before the readers are joined.
	outR, outW, err := openStdout(o.pty)
	if err != nil {
		return nil, &LaunchError{Command: command, Err: err}
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		closeAll(outR, outW)
		return nil, &LaunchError{Command: command, Err: fmt.Errorf("failed to create stderr pipe: %w", err)}
	}
	cmd.Stdout = outW
	cmd.Stderr = errW

	startTime := time.Now()
	err = cmd.Start()
	// The child holds its own copies now. Ours must go so that EOF is seen
	// once the child and its descendants close theirs.
	closeAll(outW, errW)
	if err != nil {
		closeAll(outR, errR)
		return nil, &LaunchError{Command: command, Err: err}
	}

	var outStream *stream.File
	if o.pty {
		outStream, err = stream.NewPTY(outR)
	} else {
		outStream, err = stream.NewFile(outR)
	}
	if err != nil {
		closeAll(outR, errR)
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, &LaunchError{Command: command, Err: err}
	}
	errStream, err := stream.NewFile(errR)
	if err != nil {
		closeAll(outR, errR)
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, &LaunchError{Command: command, Err: err}
	}

	proc := &process.Process{
		PID:       cmd.Process.Pid,
		Command:   command,
		Args:      args,
		StartTime: startTime,
	}
	log := o.log.With("pid", proc.PID)
	if err := proc.Describe(); err != nil {
		log.Debug("Could not describe child", "error", err)
	}
	log.Debug("Child started", "command", proc.CommandLine(), "name", proc.Name, "pty", o.pty)

	return &Supervisor{
		cmd:     cmd,
		proc:    proc,
		store:   store,
		streams: []stream.Stream{outStream, errStream},
		readers: []streamReader{
			reader.New(outStream, chunkstore.Stdout, store, log),
			reader.New(errStream, chunkstore.Stderr, store, log),
		},
		renderer: render.New(o.out, o.palette),
		policy:   o.policy,
		log:      log,
	}, nil
}

func openStdout(usePTY bool) (r, w *os.File, err error) {
	if usePTY {
		ptmx, tty, err := pty.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open pty: %w", err)
		}
		return ptmx, tty, nil
	}
	r, w, err = os.Pipe()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	return r, w, nil
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}

// Process returns the record of the child.
func (s *Supervisor) Process() *process.Process {
	return s.proc
}

// Run captures the child's output until it exits, then renders it and
// returns the disposition. It must be called exactly once.
//
// On a WaitError the readers are abandoned and nothing is rendered.
func (s *Supervisor) Run() (process.Disposition, error) {
	var g errgroup.Group
	for _, r := range s.readers {
		r := r
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = &JoinError{Stream: r.Source().String(), Err: fmt.Errorf("reader panicked: %v", p)}
				}
			}()
			r.Run()
			return nil
		})
	}

	d, err := s.WaitChild()
	if err != nil {
		return process.Disposition{}, err
	}

	if err := g.Wait(); err != nil {
		return d, err
	}
	for _, r := range s.readers {
		if r.Err() != nil {
			s.log.Warn("Output is incomplete", "stream", r.Source().String(), "error", r.Err(), "chunks", r.Chunks())
		}
	}
	s.closeStreams()

	chunks := s.store.Drain()
	s.log.Debug("Rendering output", "chunks", len(chunks))
	if err := s.renderer.Render(chunks); err != nil {
		return d, fmt.Errorf("failed to render output: %w", err)
	}
	return d, nil
}

// WaitChild blocks until the child terminates and classifies the result.
func (s *Supervisor) WaitChild() (process.Disposition, error) {
	err := s.cmd.Wait()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return process.Disposition{}, &WaitError{PID: s.proc.PID, Err: err}
	}

	var d process.Disposition
	if status, ok := s.cmd.ProcessState.Sys().(syscall.WaitStatus); ok {
		d = process.Classify(status, s.policy)
	} else {
		d = process.Disposition{Kind: process.Abnormal, ExitCode: 1, Reason: s.cmd.ProcessState.String()}
	}
	s.proc.Finish(d)

	if d.Kind == process.Abnormal {
		s.log.Error("Child ended abnormally", "reason", d.Reason)
	}
	s.log.Debug("Child finished", "disposition", d.String(), "exit_code", d.ExitCode, "duration", s.proc.Duration())
	return d, nil
}

func (s *Supervisor) closeStreams() {
	for _, st := range s.streams {
		if err := st.Close(); err != nil {
			s.log.Debug("Failed to close stream", "error", err)
		}
	}
}
