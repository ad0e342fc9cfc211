// Derives per-run scheduling metrics from the finalized process table:
// waiting, response and return times, throughput and CPU usage.

package sim

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates statistics about the simulation for final reporting.
// Averages run over completed processes, which is every process unless the
// run was truncated by the safety bound.
type Metrics struct {
	Duration           int // Simulated ticks
	Processes          int // Size of the process table
	CompletedProcesses int
	BaselineCPUTime    int // Sum of all bursts
	BusyTicks          int // Ticks with a Running process

	// CPUUsage is Duration / BaselineCPUTime: how stretched the run is
	// relative to the pure CPU demand. 1.0 means no idle ticks.
	CPUUsage float64
	// Utilization is BusyTicks / Duration.
	Utilization float64
	// Throughput is CompletedProcesses / Duration.
	Throughput float64

	AvgWaitingTime  float64
	AvgResponseTime float64
	AvgReturnTime   float64
	// AvgReturnTimeN averages ReturnTime / Burst. A zero-burst process
	// contributes 1.0.
	AvgReturnTimeN float64

	PerProcess []ProcessMetrics
}

// ProcessMetrics is the per-process row of a metrics report.
type ProcessMetrics struct {
	Name         string  `json:"name"`
	ArrivalTime  int     `json:"arrival_time"`
	Burst        int     `json:"burst"`
	Priority     int     `json:"priority"`
	Completed    bool    `json:"completed"`
	WaitingTime  int     `json:"waiting_time"`
	ResponseTime *int    `json:"response_time"` // null until first scheduled
	ReturnTime   int     `json:"return_time"`
	ReturnTimeN  float64 `json:"normalized_return_time"`
}

// MetricsOutput is the JSON document written by SaveResults.
type MetricsOutput struct {
	Algorithm          string           `json:"algorithm"`
	Duration           int              `json:"duration"`
	Processes          int              `json:"processes"`
	CompletedProcesses int              `json:"completed_processes"`
	Truncated          bool             `json:"truncated"`
	CPUUsage           float64          `json:"cpu_usage"`
	Utilization        float64          `json:"utilization"`
	Throughput         float64          `json:"throughput"`
	AvgWaitingTime     float64          `json:"avg_waiting_time"`
	AvgResponseTime    float64          `json:"avg_response_time"`
	AvgReturnTime      float64          `json:"avg_return_time"`
	AvgReturnTimeN     float64          `json:"avg_normalized_return_time"`
	PerProcess         []ProcessMetrics `json:"per_process"`
}

// ComputeMetrics derives metrics from a finalized process table. It does
// not modify the processes.
func ComputeMetrics(procs []*Process, duration int) *Metrics {
	m := &Metrics{
		Duration:   duration,
		Processes:  len(procs),
		PerProcess: make([]ProcessMetrics, 0, len(procs)),
	}

	var waiting, response, ret, retN []float64
	for _, p := range procs {
		m.BaselineCPUTime += p.Burst
		m.BusyTicks += p.RunningTicks()

		row := ProcessMetrics{
			Name:        p.Name,
			ArrivalTime: p.ArrivalTime,
			Burst:       p.Burst,
			Priority:    p.Priority,
			Completed:   p.Completed,
			WaitingTime: p.WaitingTime,
			ReturnTime:  p.ReturnTime,
		}
		if rt, err := p.ResponseTime.Get(); err == nil {
			row.ResponseTime = &rt
		}
		if p.Completed {
			row.ReturnTimeN = normalizedReturn(p)
			m.CompletedProcesses++
			waiting = append(waiting, float64(p.WaitingTime))
			response = append(response, float64(p.ResponseTime.OrElse(0)))
			ret = append(ret, float64(p.ReturnTime))
			retN = append(retN, row.ReturnTimeN)
		}
		m.PerProcess = append(m.PerProcess, row)
	}

	if duration > 0 {
		m.Throughput = float64(m.CompletedProcesses) / float64(duration)
		m.Utilization = float64(m.BusyTicks) / float64(duration)
	}
	if m.BaselineCPUTime > 0 {
		m.CPUUsage = float64(duration) / float64(m.BaselineCPUTime)
	}
	if m.CompletedProcesses > 0 {
		m.AvgWaitingTime = stat.Mean(waiting, nil)
		m.AvgResponseTime = stat.Mean(response, nil)
		m.AvgReturnTime = stat.Mean(ret, nil)
		m.AvgReturnTimeN = stat.Mean(retN, nil)
	}
	return m
}

func normalizedReturn(p *Process) float64 {
	if p.Burst == 0 {
		return 1.0
	}
	return float64(p.ReturnTime) / float64(p.Burst)
}

// Output builds the JSON document for this run.
func (m *Metrics) Output(algorithm string, truncated bool) MetricsOutput {
	return MetricsOutput{
		Algorithm:          algorithm,
		Duration:           m.Duration,
		Processes:          m.Processes,
		CompletedProcesses: m.CompletedProcesses,
		Truncated:          truncated,
		CPUUsage:           m.CPUUsage,
		Utilization:        m.Utilization,
		Throughput:         m.Throughput,
		AvgWaitingTime:     m.AvgWaitingTime,
		AvgResponseTime:    m.AvgResponseTime,
		AvgReturnTime:      m.AvgReturnTime,
		AvgReturnTimeN:     m.AvgReturnTimeN,
		PerProcess:         m.PerProcess,
	}
}

// SaveResults writes the metrics as indented JSON to path.
func (m *Metrics) SaveResults(algorithm string, truncated bool, path string) error {
	data, err := json.MarshalIndent(m.Output(algorithm, truncated), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metrics: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	logrus.Infof("Metrics written to: %s", path)
	return nil
}
