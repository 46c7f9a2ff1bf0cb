package supervisor

import "fmt"

// LaunchError means the child could not be started. No readers were started.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// WaitError means termination of the child could not be observed. The
// readers may still be running when it is returned.
type WaitError struct {
	PID int
	Err error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("failed to wait for pid %d: %v", e.PID, e.Err)
}

func (e *WaitError) Unwrap() error {
	return e.Err
}

// JoinError means a reader did not finish cleanly, so the captured output
// can not be trusted to be complete.
type JoinError struct {
	Stream string
	Err    error
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("failed to join %s reader: %v", e.Stream, e.Err)
}

func (e *JoinError) Unwrap() error {
	return e.Err
}
