// Defines the Process struct that models one schedulable unit in the simulation.
// Tracks arrival, burst, priority, the per-tick lifecycle and the derived timings.

package sim

import (
	"fmt"

	"github.com/markphelps/optional"
)

// ProcessState is the state a process holds during one tick.
type ProcessState int

const (
	StateNotArrived ProcessState = iota
	StateReady
	StateRunning
	StateBlocked // part of the state domain; the single-CPU engine never produces it
	StateFinished
)

// Code returns the single-character code used by timeline reports.
// Ready and NotArrived both render blank.
func (s ProcessState) Code() string {
	switch s {
	case StateRunning:
		return "E"
	case StateBlocked:
		return "B"
	case StateFinished:
		return "F"
	default:
		return " "
	}
}

func (s ProcessState) String() string {
	switch s {
	case StateNotArrived:
		return "not-arrived"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateBlocked:
		return "blocked"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("ProcessState(%d)", int(s))
	}
}

// Process models a single process's lifecycle in the simulation.
type Process struct {
	Name        string // Unique identifier for the process
	ArrivalTime int    // Tick at which the process enters the ready queue
	Burst       int    // Total CPU ticks required
	Priority    int    // Lower value = more urgent. Only read by the priority policy.

	// Lifecycle holds one state per simulated tick. Sized to the safety bound
	// when a run starts and resliced to the simulated duration when it ends.
	Lifecycle []ProcessState

	WaitingTime  int          // Ticks spent Ready
	ResponseTime optional.Int // Ticks from arrival to first Running tick; unset until scheduled
	ReturnTime   int          // Ticks from arrival to completion (turnaround)
	Completed    bool

	executed int // Running ticks so far
}

// NewProcess creates a process with the given static parameters.
func NewProcess(name string, arrival, burst, priority int) *Process {
	return &Process{
		Name:        name,
		ArrivalTime: arrival,
		Burst:       burst,
		Priority:    priority,
	}
}

// Clone returns a fresh process with the same static parameters and no
// run state, for running the same table under another policy.
func (p *Process) Clone() *Process {
	return NewProcess(p.Name, p.ArrivalTime, p.Burst, p.Priority)
}

// Executed returns the number of ticks the process has spent Running.
func (p *Process) Executed() int {
	return p.executed
}

// Remaining returns the CPU ticks the process still needs.
func (p *Process) Remaining() int {
	return p.Burst - p.executed
}

// RunningTicks counts Running entries in the recorded lifecycle.
func (p *Process) RunningTicks() int {
	n := 0
	for _, s := range p.Lifecycle {
		if s == StateRunning {
			n++
		}
	}
	return n
}

// reset clears all per-run state and sizes the lifecycle to bound ticks.
func (p *Process) reset(bound int) {
	p.Lifecycle = make([]ProcessState, bound)
	p.WaitingTime = 0
	p.ResponseTime = optional.Int{}
	p.ReturnTime = 0
	p.Completed = false
	p.executed = 0
}

// validate checks the static parameters.
func (p *Process) validate() error {
	if p.ArrivalTime < 0 {
		return fmt.Errorf("process %q: arrival time %d must be >= 0", p.Name, p.ArrivalTime)
	}
	if p.Burst < 0 {
		return fmt.Errorf("process %q: burst %d must be >= 0", p.Name, p.Burst)
	}
	return nil
}

// This method returns a human-readable string representation of a Process.
func (p Process) String() string {
	return fmt.Sprintf("Process: (Name: %s, Arrival: %d, Burst: %d, Executed: %d)", p.Name, p.ArrivalTime, p.Burst, p.executed)
}
