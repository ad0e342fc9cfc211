// Package trace provides decision-trace recording for dispatch analysis.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// DecisionKind names what happened to a process at a tick.
type DecisionKind string

const (
	KindDispatch DecisionKind = "dispatch" // process placed on the CPU
	KindPreempt  DecisionKind = "preempt"  // running process displaced by a better candidate
	KindExpire   DecisionKind = "expire"   // time slice exhausted, process re-queued
	KindComplete DecisionKind = "complete" // process reached its burst
)

// DispatchRecord captures a single dispatcher decision.
type DispatchRecord struct {
	Tick       int
	Process    string
	Kind       DecisionKind
	QueueDepth int // ready queue length right after the decision
}
