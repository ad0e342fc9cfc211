package sim

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/markphelps/optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// finishedProcess builds a completed process with a hand-written lifecycle.
func finishedProcess(name string, arrival, burst, ret, wait, resp int, life ...ProcessState) *Process {
	p := NewProcess(name, arrival, burst, 0)
	p.Completed = true
	p.ReturnTime = ret
	p.WaitingTime = wait
	p.ResponseTime = optional.NewInt(resp)
	p.Lifecycle = life
	return p
}

func TestComputeMetrics_Averages(t *testing.T) {
	// GIVEN two finished processes over a 4-tick run
	r, e, f := StateReady, StateRunning, StateFinished
	a := finishedProcess("A", 0, 2, 2, 0, 0, e, e, f, f)
	b := finishedProcess("B", 0, 2, 4, 2, 2, r, r, e, e)

	// WHEN metrics are computed
	m := ComputeMetrics([]*Process{a, b}, 4)

	// THEN averages and rates match hand calculation
	assert.Equal(t, 4, m.Duration)
	assert.Equal(t, 2, m.CompletedProcesses)
	assert.Equal(t, 4, m.BaselineCPUTime)
	assert.Equal(t, 4, m.BusyTicks)
	assert.InDelta(t, 1.0, m.AvgWaitingTime, 1e-12)
	assert.InDelta(t, 1.0, m.AvgResponseTime, 1e-12)
	assert.InDelta(t, 3.0, m.AvgReturnTime, 1e-12)
	assert.InDelta(t, 1.5, m.AvgReturnTimeN, 1e-12) // (2/2 + 4/2) / 2
	assert.InDelta(t, 0.5, m.Throughput, 1e-12)
	assert.InDelta(t, 1.0, m.CPUUsage, 1e-12)
	assert.InDelta(t, 1.0, m.Utilization, 1e-12)
}

func TestComputeMetrics_IdleTicks(t *testing.T) {
	// GIVEN one process finishing after two idle ticks
	n, e := StateNotArrived, StateRunning
	a := finishedProcess("A", 2, 1, 1, 0, 0, n, n, e)

	// WHEN metrics are computed over 3 ticks
	m := ComputeMetrics([]*Process{a}, 3)

	// THEN usage reflects the stretch and utilization the busy share
	assert.InDelta(t, 3.0, m.CPUUsage, 1e-12)
	assert.InDelta(t, 1.0/3.0, m.Utilization, 1e-12)
	assert.InDelta(t, 1.0/3.0, m.Throughput, 1e-12)
}

func TestComputeMetrics_ZeroBurst_NormalizedIsOne(t *testing.T) {
	z := finishedProcess("Z", 0, 0, 0, 0, 0, StateFinished)
	m := ComputeMetrics([]*Process{z}, 1)
	assert.InDelta(t, 1.0, m.AvgReturnTimeN, 1e-12)
	assert.Zero(t, m.CPUUsage, "no CPU demand leaves usage at zero")
}

func TestComputeMetrics_Unfinished_ExcludedFromAverages(t *testing.T) {
	// GIVEN one finished and one never-scheduled process
	a := finishedProcess("A", 0, 1, 1, 0, 0, StateRunning, StateFinished)
	stuck := NewProcess("stuck", 0, 5, 0)
	stuck.Lifecycle = []ProcessState{StateReady, StateReady}
	stuck.WaitingTime = 2

	// WHEN metrics are computed
	m := ComputeMetrics([]*Process{a, stuck}, 2)

	// THEN only A contributes to the averages and the row shows no response
	assert.Equal(t, 1, m.CompletedProcesses)
	assert.InDelta(t, 0.0, m.AvgWaitingTime, 1e-12)
	assert.InDelta(t, 1.0, m.AvgReturnTime, 1e-12)
	require.Len(t, m.PerProcess, 2)
	assert.Nil(t, m.PerProcess[1].ResponseTime)
	assert.False(t, m.PerProcess[1].Completed)
}

func TestComputeMetrics_NoMutation(t *testing.T) {
	a := finishedProcess("A", 0, 2, 2, 0, 0, StateRunning, StateRunning)
	before := *a
	ComputeMetrics([]*Process{a}, 2)
	assert.Equal(t, before.WaitingTime, a.WaitingTime)
	assert.Equal(t, before.ReturnTime, a.ReturnTime)
	assert.Equal(t, before.Lifecycle, a.Lifecycle)
	assert.Equal(t, before.ResponseTime, a.ResponseTime)
}

func TestComputeMetrics_EmptyTable(t *testing.T) {
	m := ComputeMetrics(nil, 0)
	assert.Zero(t, m.Throughput)
	assert.Zero(t, m.AvgWaitingTime)
	assert.NotNil(t, m.PerProcess)
}

// TestSaveResults_WritesJSON verifies the JSON document round-trips the aggregates.
//
// Given: metrics from a finished RR run
// When: SaveResults is called
// Then: the file holds the algorithm, aggregates and one row per process
func TestSaveResults_WritesJSON(t *testing.T) {
	// GIVEN metrics from a finished run
	s := newTestSimulator(t, []*Process{NewProcess("A", 0, 4, 0), NewProcess("B", 0, 2, 0)}, PolicyConfig{Algorithm: "rr", Quantum: 2})
	s.Run()
	path := filepath.Join(t.TempDir(), "metrics.json")

	// WHEN SaveResults is called
	require.NoError(t, s.Metrics.SaveResults("rr", s.Truncated, path))

	// THEN the file contains the aggregates
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out MetricsOutput
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "rr", out.Algorithm)
	assert.Equal(t, 6, out.Duration)
	assert.Equal(t, 2, out.CompletedProcesses)
	assert.False(t, out.Truncated)
	assert.InDelta(t, 5.0, out.AvgReturnTime, 1e-12)
	require.Len(t, out.PerProcess, 2)
	require.NotNil(t, out.PerProcess[1].ResponseTime)
	assert.Equal(t, 2, *out.PerProcess[1].ResponseTime)
}

func TestSaveResults_BadPath_ReturnsError(t *testing.T) {
	m := ComputeMetrics(nil, 0)
	err := m.SaveResults("fcfs", false, filepath.Join(t.TempDir(), "missing", "dir", "m.json"))
	assert.Error(t, err)
}
