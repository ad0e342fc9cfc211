// Implements the ReadyQueue, which holds all processes waiting for the CPU.
// Processes are enqueued on arrival and on preemption.

package sim

import (
	"fmt"
	"strings"
)

// ReadyQueue represents a FIFO queue of processes waiting to be dispatched.
// A process is a member at most once; membership means waiting, eligible
// to run, and not currently running.
type ReadyQueue struct {
	queue   []*Process // FIFO queue of processes
	members map[*Process]struct{}
}

// NewReadyQueue returns an empty ReadyQueue.
func NewReadyQueue() *ReadyQueue {
	return &ReadyQueue{members: make(map[*Process]struct{})}
}

// Enqueue adds a process to the back of the ready queue.
// It is a no-op returning false when p is nil, completed or already queued.
func (rq *ReadyQueue) Enqueue(p *Process) bool {
	if p == nil || p.Completed || rq.Contains(p) {
		return false
	}
	if rq.members == nil {
		rq.members = make(map[*Process]struct{})
	}
	rq.queue = append(rq.queue, p)
	rq.members[p] = struct{}{}
	return true
}

// Dequeue removes the process at the front of the queue.
// Returns nil if the queue is empty.
func (rq *ReadyQueue) Dequeue() *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	p := rq.queue[0]
	rq.queue = rq.queue[1:]
	delete(rq.members, p)
	return p
}

// Remove takes p out of the queue wherever it sits, keeping the relative
// order of the other members. Returns false if p was not queued.
func (rq *ReadyQueue) Remove(p *Process) bool {
	if !rq.Contains(p) {
		return false
	}
	for i, q := range rq.queue {
		if q == p {
			rq.queue = append(rq.queue[:i:i], rq.queue[i+1:]...)
			break
		}
	}
	delete(rq.members, p)
	return true
}

// Contains reports whether p is currently queued.
func (rq *ReadyQueue) Contains(p *Process) bool {
	_, ok := rq.members[p]
	return ok
}

// Len returns the number of processes in the queue.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

// Peek returns the process at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (rq *ReadyQueue) Peek() *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	return rq.queue[0]
}

// Items returns the queue contents in FIFO order.
// The returned slice is the queue's internal storage -- callers MUST NOT
// modify it. Policies read it; only the dispatch loop mutates the queue.
func (rq *ReadyQueue) Items() []*Process {
	return rq.queue
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range rq.queue {
		sb.WriteString(p.Name)
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// checkSet panics if the queue holds a process twice or its index disagrees
// with its contents. Called by the dispatch loop once per tick.
func (rq *ReadyQueue) checkSet() {
	if len(rq.members) != len(rq.queue) {
		panic(fmt.Sprintf("ready queue: %d members indexed, %d queued", len(rq.members), len(rq.queue)))
	}
	seen := make(map[*Process]struct{}, len(rq.queue))
	for _, p := range rq.queue {
		if _, dup := seen[p]; dup {
			panic(fmt.Sprintf("ready queue: %s queued twice", p.Name))
		}
		if _, ok := rq.members[p]; !ok {
			panic(fmt.Sprintf("ready queue: %s queued but not indexed", p.Name))
		}
		seen[p] = struct{}{}
	}
}
