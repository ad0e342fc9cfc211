// Package sim provides the tick-based CPU scheduling simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - process.go: Process lifecycle (not-arrived → ready ⇄ running → finished)
//   - policy.go: the Policy interface and the FCFS, RR, SJF, SRTF and priority selectors
//   - simulator.go: the dispatch loop (admission, selection, recording, execution)
//   - metrics.go: metrics derived from the recorded per-tick history
//
// # Architecture
//
// One Simulator owns the clock, the ReadyQueue and the dispatcher state for a
// run. Each tick it admits arrivals, asks its Policy for a Decision, applies
// the decision to the queue, records one ProcessState per process and
// executes the running process for one tick. Policies only read the queue.
//
// Collaborators live in sub-packages:
//   - sim/workload/: process tables from delimited text, seeded generation
//   - sim/report/: timeline and metrics rendering
//   - sim/trace/: dispatch decision recording
package sim
