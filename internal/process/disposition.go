// Package process records a child process and classifies how it ended.
package process

import (
	"fmt"
	"strings"
	"syscall"
)

// Kind says how a child terminated.
type Kind int

const (
	Exited Kind = iota
	Signaled
	Abnormal
)

func (k Kind) String() string {
	switch k {
	case Exited:
		return "exited"
	case Signaled:
		return "signaled"
	default:
		return "abnormal"
	}
}

// Disposition is the classified termination of a child.
type Disposition struct {
	Kind     Kind
	Code     int            // exit status, valid when Kind == Exited
	Signal   syscall.Signal // valid when Kind == Signaled
	ExitCode int            // what this program should exit with
	Reason   string         // diagnostic for Abnormal
}

func (d Disposition) String() string {
	switch d.Kind {
	case Exited:
		return fmt.Sprintf("exited with code %d", d.Code)
	case Signaled:
		return fmt.Sprintf("terminated by signal %s", d.Signal)
	default:
		return "abnormal termination: " + d.Reason
	}
}

// SignalPolicy decides the exit code reported for a child killed by a signal.
type SignalPolicy string

const (
	// SignalSuccess reports signal termination as success (0).
	SignalSuccess SignalPolicy = "success"
	// SignalFailure reports signal termination as a generic failure (1).
	SignalFailure SignalPolicy = "failure"
	// SignalShell reports 128 + signal number, as POSIX shells do.
	SignalShell SignalPolicy = "shell"
)

// ParseSignalPolicy validates a policy name.
func ParseSignalPolicy(s string) (SignalPolicy, error) {
	switch p := SignalPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case SignalSuccess, SignalFailure, SignalShell:
		return p, nil
	}
	return "", fmt.Errorf("unknown signal exit policy %q (valid: success, failure, shell)", s)
}

// ExitCode maps a signal to an exit code according to the policy.
func (p SignalPolicy) ExitCode(sig syscall.Signal) int {
	switch p {
	case SignalFailure:
		return 1
	case SignalShell:
		return 128 + int(sig)
	default:
		return 0
	}
}

// Classify turns a wait status into a Disposition.
func Classify(status syscall.WaitStatus, policy SignalPolicy) Disposition {
	switch {
	case status.Exited():
		code := status.ExitStatus()
		return Disposition{Kind: Exited, Code: code, ExitCode: code}
	case status.Signaled():
		sig := status.Signal()
		return Disposition{Kind: Signaled, Signal: sig, ExitCode: policy.ExitCode(sig)}
	case status.Stopped():
		return Disposition{Kind: Abnormal, ExitCode: 1, Reason: fmt.Sprintf("stopped by signal %s", status.StopSignal())}
	default:
		return Disposition{Kind: Abnormal, ExitCode: 1, Reason: fmt.Sprintf("unknown wait status %#x", uint32(status))}
	}
}
