// Package evaluation runs one process table under several scheduling
// policies and bundles the outcome of each run for side-by-side comparison.
package evaluation

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	"github.com/cpu-sim/cpu-sim/sim"
	"github.com/cpu-sim/cpu-sim/sim/trace"
)

// EvaluationResult bundles all outputs from one simulation run.
type EvaluationResult struct {
	Policy  sim.PolicyConfig
	Metrics *sim.Metrics
	Summary *trace.TraceSummary

	Duration  int
	Truncated bool
	WallTime  time.Duration // wall-clock duration of Run()
}

// Label names the policy the way the comparison table shows it.
func (r *EvaluationResult) Label() string {
	label := r.Policy.Algorithm
	if r.Policy.Modality != "" {
		label += "/" + r.Policy.Modality
	}
	if r.Policy.Algorithm == string(sim.AlgorithmRR) {
		label += fmt.Sprintf(" q=%d", r.Policy.Quantum)
	}
	return label
}

// Evaluate runs procs once per configuration. Each run gets its own clone of
// the table, so runs are independent and execute concurrently. Results keep
// the order of cfgs. The input processes are not modified.
func Evaluate(procs []*sim.Process, cfgs []sim.SimConfig) ([]*EvaluationResult, error) {
	sims := make([]*sim.Simulator, len(cfgs))
	for i, cfg := range cfgs {
		table := make([]*sim.Process, len(procs))
		for j, p := range procs {
			table[j] = p.Clone()
		}
		s, err := sim.NewSimulator(table, cfg)
		if err != nil {
			return nil, fmt.Errorf("policy %s: %w", cfg.Policy.Algorithm, err)
		}
		s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
		sims[i] = s
	}

	results := make([]*EvaluationResult, len(cfgs))
	var wg sync.WaitGroup
	for i := range sims {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := sims[i]
			start := time.Now()
			s.Run()
			results[i] = &EvaluationResult{
				Policy:    cfgs[i].Policy,
				Metrics:   s.Metrics,
				Summary:   trace.Summarize(s.Trace),
				Duration:  s.Duration,
				Truncated: s.Truncated,
				WallTime:  time.Since(start),
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		logrus.Debugf("Evaluated %s: duration=%d avg_wait=%.2f in %v", r.Label(), r.Duration, r.Metrics.AvgWaitingTime, r.WallTime)
	}
	return results, nil
}

// Best returns the result with the lowest average waiting time. Ties keep
// the earlier result. Nil for an empty slice.
func Best(results []*EvaluationResult) *EvaluationResult {
	var best *EvaluationResult
	for _, r := range results {
		if best == nil || r.Metrics.AvgWaitingTime < best.Metrics.AvgWaitingTime {
			best = r
		}
	}
	return best
}

// PrintComparison writes one row per result.
func PrintComparison(w io.Writer, results []*EvaluationResult) {
	_, _ = fmt.Fprintln(w, "Policy comparison")
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Policy", "Duration", "Avg Wait", "Avg Response", "Avg Return", "Avg Return/Burst", "Switches", "Preemptions"})
	for _, r := range results {
		label := r.Label()
		if r.Truncated {
			label += " (truncated)"
		}
		table.Append([]string{
			label,
			fmt.Sprint(r.Duration),
			fmt.Sprintf("%.2f", r.Metrics.AvgWaitingTime),
			fmt.Sprintf("%.2f", r.Metrics.AvgResponseTime),
			fmt.Sprintf("%.2f", r.Metrics.AvgReturnTime),
			fmt.Sprintf("%.2f", r.Metrics.AvgReturnTimeN),
			fmt.Sprint(r.Summary.ContextSwitches),
			fmt.Sprint(r.Summary.Preemptions),
		})
	}
	table.Render()
}
