package sim

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestSimulator builds a Simulator or fails the test.
func newTestSimulator(t *testing.T, procs []*Process, cfg PolicyConfig) *Simulator {
	t.Helper()
	s, err := NewSimulator(procs, SimConfig{Policy: cfg})
	require.NoError(t, err)
	return s
}

// runningSequence returns the name of the Running process per tick, "-" when idle.
func runningSequence(s *Simulator) []string {
	seq := make([]string, s.Duration)
	for t := range seq {
		seq[t] = "-"
		for _, p := range s.Processes {
			if p.Lifecycle[t] == StateRunning {
				seq[t] = p.Name
			}
		}
	}
	return seq
}

// processNames returns the names of procs in order.
func processNames(procs []*Process) []string {
	names := make([]string, len(procs))
	for i, p := range procs {
		names[i] = p.Name
	}
	return names
}

// completionOrder returns process names sorted by completion tick, table order on ties.
func completionOrder(procs []*Process) []string {
	var done []*Process
	for _, p := range procs {
		if p.Completed {
			done = append(done, p)
		}
	}
	sort.SliceStable(done, func(i, j int) bool {
		return done[i].ArrivalTime+done[i].ReturnTime < done[j].ArrivalTime+done[j].ReturnTime
	})
	return processNames(done)
}
