// Package testutil provides shared test infrastructure for the cpu-sim engine.
// It holds the golden scenario types and assertion helpers used by sim/ tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenProcess is one row of a golden scenario's process table.
type GoldenProcess struct {
	Name     string `json:"name"`
	Arrival  int    `json:"arrival"`
	Burst    int    `json:"burst"`
	Priority int    `json:"priority"`
}

// GoldenTestCase represents a single scenario from the golden dataset.
type GoldenTestCase struct {
	Name      string          `json:"name"`
	Algorithm string          `json:"algorithm"`
	Modality  string          `json:"modality"`
	Quantum   int             `json:"quantum"`
	Processes []GoldenProcess `json:"processes"`
	Expected  GoldenExpected  `json:"expected"`
}

// GoldenExpected represents the expected outcome of a golden scenario.
type GoldenExpected struct {
	// Exact match values (integers), indexed like Processes
	Duration      int      `json:"duration"`
	Running       []string `json:"running"` // process on the CPU per tick, "-" when idle
	ReturnTimes   []int    `json:"return_times"`
	WaitingTimes  []int    `json:"waiting_times"`
	ResponseTimes []int    `json:"response_times"`

	// Derived floating-point metrics
	AvgWaitingTime  float64 `json:"avg_waiting_time"`
	AvgResponseTime float64 `json:"avg_response_time"`
	AvgReturnTime   float64 `json:"avg_return_time"`
	AvgReturnTimeN  float64 `json:"avg_normalized_return_time"`
	Throughput      float64 `json:"throughput"`
	CPUUsage        float64 `json:"cpu_usage"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
