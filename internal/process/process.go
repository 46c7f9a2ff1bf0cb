package process

import (
	"fmt"
	"strings"
	"time"

	gopsprocess "github.com/shirou/gopsutil/v3/process"
)

// Process is the record the supervisor keeps about its child.
type Process struct {
	PID         int
	Command     string
	Args        []string
	Name        string // executable name as seen by the OS, if it could be observed
	StartTime   time.Time
	EndTime     time.Time
	Completed   bool // true once the child has been waited for
	Disposition Disposition
}

// CommandLine returns the command and its arguments joined by spaces.
func (p *Process) CommandLine() string {
	return strings.Join(append([]string{p.Command}, p.Args...), " ")
}

// Describe fills in what the OS reports about a running child.
// The child may already have exited, in which case Name stays empty and
// the error is returned for logging.
func (p *Process) Describe() error {
	proc, err := gopsprocess.NewProcess(int32(p.PID))
	if err != nil {
		return fmt.Errorf("failed to inspect pid %d: %w", p.PID, err)
	}
	name, err := proc.Name()
	if err != nil {
		return fmt.Errorf("failed to read name of pid %d: %w", p.PID, err)
	}
	p.Name = name
	return nil
}

// Finish records the outcome of the child.
func (p *Process) Finish(d Disposition) {
	p.Completed = true
	p.EndTime = time.Now()
	p.Disposition = d
}

// Duration returns how long the child ran. It is zero until Finish.
func (p *Process) Duration() time.Duration {
	if !p.Completed {
		return 0
	}
	return p.EndTime.Sub(p.StartTime)
}
