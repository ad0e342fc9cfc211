package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions int
	Dispatches     int
	Preemptions    int
	Expirations    int
	Completions    int
	// ContextSwitches counts dispatches of a process other than the one
	// dispatched before it. Re-dispatching the same process after a slice
	// expiry or an idle gap is not a switch.
	ContextSwitches int
	MeanQueueDepth  float64 // over dispatch records
	MaxQueueDepth   int
	UniqueProcesses int
	DispatchCounts  map[string]int // process name → times placed on the CPU
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		DispatchCounts: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Decisions)
	totalDepth := 0
	lastDispatched := ""
	for _, d := range st.Decisions {
		switch d.Kind {
		case KindDispatch:
			if summary.Dispatches > 0 && d.Process != lastDispatched {
				summary.ContextSwitches++
			}
			lastDispatched = d.Process
			summary.Dispatches++
			summary.DispatchCounts[d.Process]++
			totalDepth += d.QueueDepth
			if d.QueueDepth > summary.MaxQueueDepth {
				summary.MaxQueueDepth = d.QueueDepth
			}
		case KindPreempt:
			summary.Preemptions++
		case KindExpire:
			summary.Expirations++
		case KindComplete:
			summary.Completions++
		}
	}

	if summary.Dispatches > 0 {
		summary.MeanQueueDepth = float64(totalDepth) / float64(summary.Dispatches)
	}
	summary.UniqueProcesses = len(summary.DispatchCounts)

	return summary
}
