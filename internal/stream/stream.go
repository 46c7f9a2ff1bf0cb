// Package stream wraps the read end of a child's output channel as a
// non-blocking byte source with an explicit readiness wait.
package stream

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// ErrWouldBlock is returned by Read when no data is currently available.
// It is transient: the caller should Wait and try again.
var ErrWouldBlock = errors.New("stream: read would block")

// Stream is a readable byte source that never blocks inside Read.
type Stream interface {
	// Read makes a single non-blocking read attempt. It returns (0, nil)
	// at end of stream and (0, ErrWouldBlock) when nothing is buffered.
	Read(p []byte) (int, error)

	// Wait blocks until the stream is readable, hung up or in error.
	Wait() error

	io.Closer
}

// File is a Stream backed by an *os.File such as a pipe or pty master.
type File struct {
	f  *os.File
	rc syscall.RawConn

	// eioIsEOF maps EIO to end of stream. A pty master reports EIO once
	// the slave side has been closed by every process holding it.
	eioIsEOF bool
}

var _ Stream = &File{}

// NewFile puts f into non-blocking mode and wraps it.
func NewFile(f *os.File) (*File, error) {
	return newFile(f, false)
}

// NewPTY wraps the master side of a pseudo-terminal.
func NewPTY(f *os.File) (*File, error) {
	return newFile(f, true)
}

func newFile(f *os.File, eioIsEOF bool) (*File, error) {
	rc, err := f.SyscallConn()
	if err != nil {
		return nil, fmt.Errorf("failed to get raw conn for %s: %w", f.Name(), err)
	}

	var nbErr error
	if err := rc.Control(func(fd uintptr) {
		nbErr = unix.SetNonblock(int(fd), true)
	}); err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", f.Name(), err)
	}
	if nbErr != nil {
		return nil, fmt.Errorf("failed to set %s non-blocking: %w", f.Name(), nbErr)
	}

	return &File{f: f, rc: rc, eioIsEOF: eioIsEOF}, nil
}

func (s *File) Read(p []byte) (int, error) {
	var (
		n       int
		readErr error
	)
	err := s.rc.Read(func(fd uintptr) bool {
		for {
			n, readErr = unix.Read(int(fd), p)
			if readErr != unix.EINTR {
				return true
			}
		}
	})
	if err != nil {
		return 0, err
	}

	switch {
	case readErr == nil:
		return n, nil
	case errors.Is(readErr, unix.EAGAIN):
		return 0, ErrWouldBlock
	case s.eioIsEOF && errors.Is(readErr, unix.EIO):
		return 0, nil
	default:
		return 0, &os.PathError{Op: "read", Path: s.f.Name(), Err: readErr}
	}
}

func (s *File) Wait() error {
	var pollErr error
	err := s.rc.Control(func(fd uintptr) {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		for {
			_, pollErr = unix.Poll(fds, -1)
			if pollErr != unix.EINTR {
				return
			}
		}
	})
	if err != nil {
		return err
	}
	if pollErr != nil {
		return &os.PathError{Op: "poll", Path: s.f.Name(), Err: pollErr}
	}
	return nil
}

func (s *File) Close() error {
	return s.f.Close()
}
