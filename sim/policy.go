package sim

import (
	"fmt"
	"strings"
)

// Algorithm names a scheduling policy.
type Algorithm string

const (
	AlgorithmFCFS     Algorithm = "fcfs"
	AlgorithmRR       Algorithm = "rr"
	AlgorithmSJF      Algorithm = "sjf"
	AlgorithmSRTF     Algorithm = "srtf"
	AlgorithmPriority Algorithm = "priority"
)

// Modality selects the preemptive or nonpreemptive variant of an algorithm.
type Modality string

const (
	ModalityNonPreemptive Modality = "nonpreemptive"
	ModalityPreemptive    Modality = "preemptive"
)

var validAlgorithms = map[Algorithm]bool{
	AlgorithmFCFS: true, AlgorithmRR: true, AlgorithmSJF: true, AlgorithmSRTF: true, AlgorithmPriority: true,
}

var validModalities = map[Modality]bool{
	"": true, ModalityNonPreemptive: true, ModalityPreemptive: true,
}

// IsValidAlgorithm returns true if name is a recognized algorithm.
func IsValidAlgorithm(name string) bool {
	return validAlgorithms[Algorithm(strings.ToLower(name))]
}

// IsValidModality returns true if name is a recognized modality. Empty is accepted.
func IsValidModality(name string) bool {
	return validModalities[Modality(strings.ToLower(name))]
}

// ValidAlgorithmNames lists the accepted algorithm names in a stable order.
func ValidAlgorithmNames() []string {
	return []string{string(AlgorithmFCFS), string(AlgorithmRR), string(AlgorithmSJF), string(AlgorithmSRTF), string(AlgorithmPriority)}
}

// Decision is the outcome of one selection step.
type Decision struct {
	Next    *Process // process that occupies the CPU this tick; nil = idle
	Preempt bool     // the running process goes back to the ready queue
	Quantum int      // remaining time slice for Next; 0 = unbounded
}

// Policy decides, once per tick, which process occupies the CPU.
// Implementations read the queue and never mutate it; the Simulator applies
// the decision. When running is non-nil and Next differs from it, Preempt
// must be true.
type Policy interface {
	Select(running *Process, rq *ReadyQueue, quantumLeft int, tick int) Decision
}

// keep continues the running process with its current slice.
func keep(running *Process, quantumLeft int) Decision {
	return Decision{Next: running, Quantum: quantumLeft}
}

// FCFSPolicy dispatches in queue order and never preempts.
type FCFSPolicy struct{}

func (f *FCFSPolicy) Select(running *Process, rq *ReadyQueue, quantumLeft int, _ int) Decision {
	if running != nil {
		return keep(running, quantumLeft)
	}
	return Decision{Next: rq.Peek()}
}

// RoundRobinPolicy dispatches in queue order with a fixed time slice.
// Slice expiry is enforced by the Simulator once the slice reaches zero.
type RoundRobinPolicy struct {
	Quantum int
}

func (r *RoundRobinPolicy) Select(running *Process, rq *ReadyQueue, quantumLeft int, _ int) Decision {
	if running != nil {
		return keep(running, quantumLeft)
	}
	next := rq.Peek()
	if next == nil {
		return Decision{}
	}
	return Decision{Next: next, Quantum: r.Quantum}
}

// SJFPolicy picks the queued process with the smallest total burst,
// then earliest arrival, then queue order. Nonpreemptive.
// Warning: SJF can starve long processes under sustained load.
type SJFPolicy struct{}

func (s *SJFPolicy) Select(running *Process, rq *ReadyQueue, quantumLeft int, _ int) Decision {
	if running != nil {
		return keep(running, quantumLeft)
	}
	return Decision{Next: best(rq, func(p *Process) int { return p.Burst })}
}

// SRTFPolicy picks the queued process with the smallest remaining burst and
// preempts the running process when a queued one is strictly shorter.
type SRTFPolicy struct{}

func (s *SRTFPolicy) Select(running *Process, rq *ReadyQueue, quantumLeft int, _ int) Decision {
	return preemptOnBetter(running, rq, quantumLeft, (*Process).Remaining)
}

// PriorityPolicy picks the queued process with the lowest priority value,
// then earliest arrival, then queue order. When Preemptive, a queued process
// with strictly better priority displaces the running one.
type PriorityPolicy struct {
	Preemptive bool
}

func (pp *PriorityPolicy) Select(running *Process, rq *ReadyQueue, quantumLeft int, _ int) Decision {
	key := func(p *Process) int { return p.Priority }
	if pp.Preemptive {
		return preemptOnBetter(running, rq, quantumLeft, key)
	}
	if running != nil {
		return keep(running, quantumLeft)
	}
	return Decision{Next: best(rq, key)}
}

// best returns the queued process with the smallest key. Ties go to the
// earlier arrival, then to the earlier queue position.
func best(rq *ReadyQueue, key func(*Process) int) *Process {
	var chosen *Process
	for _, p := range rq.Items() {
		if chosen == nil {
			chosen = p
			continue
		}
		kp, kc := key(p), key(chosen)
		if kp < kc || (kp == kc && p.ArrivalTime < chosen.ArrivalTime) {
			chosen = p
		}
	}
	return chosen
}

func preemptOnBetter(running *Process, rq *ReadyQueue, quantumLeft int, key func(*Process) int) Decision {
	candidate := best(rq, key)
	if running == nil {
		return Decision{Next: candidate}
	}
	if candidate != nil && key(candidate) < key(running) {
		return Decision{Next: candidate, Preempt: true}
	}
	return keep(running, quantumLeft)
}

// PolicyConfig groups scheduling policy selection.
type PolicyConfig struct {
	Algorithm string // "fcfs", "rr", "sjf", "srtf", "priority"
	Modality  string // "preemptive", "nonpreemptive"; empty = the algorithm's natural modality
	Quantum   int    // time slice for "rr" (must be > 0)
}

// NewPolicy creates a Policy from its configuration.
// sjf with preemptive modality resolves to SRTF and srtf with nonpreemptive
// modality resolves to SJF. fcfs and rr have a fixed modality (see
// FixedModality) and ignore the setting.
func NewPolicy(cfg PolicyConfig) (Policy, error) {
	alg := Algorithm(strings.ToLower(cfg.Algorithm))
	mod := Modality(strings.ToLower(cfg.Modality))
	if !validAlgorithms[alg] {
		return nil, fmt.Errorf("unknown algorithm %q (valid: %s)", cfg.Algorithm, strings.Join(ValidAlgorithmNames(), ", "))
	}
	if !validModalities[mod] {
		return nil, fmt.Errorf("unknown modality %q (valid: %s, %s)", cfg.Modality, ModalityPreemptive, ModalityNonPreemptive)
	}
	switch alg {
	case AlgorithmFCFS:
		return &FCFSPolicy{}, nil
	case AlgorithmRR:
		if cfg.Quantum <= 0 {
			return nil, fmt.Errorf("round-robin quantum must be > 0, got %d", cfg.Quantum)
		}
		return &RoundRobinPolicy{Quantum: cfg.Quantum}, nil
	case AlgorithmSJF:
		if mod == ModalityPreemptive {
			return &SRTFPolicy{}, nil
		}
		return &SJFPolicy{}, nil
	case AlgorithmSRTF:
		if mod == ModalityNonPreemptive {
			return &SJFPolicy{}, nil
		}
		return &SRTFPolicy{}, nil
	case AlgorithmPriority:
		return &PriorityPolicy{Preemptive: mod == ModalityPreemptive}, nil
	default:
		return nil, fmt.Errorf("unhandled algorithm %q", alg)
	}
}

// FixedModality reports whether the algorithm ignores the modality setting,
// and which modality it always uses.
func FixedModality(name string) (Modality, bool) {
	switch Algorithm(strings.ToLower(name)) {
	case AlgorithmFCFS:
		return ModalityNonPreemptive, true
	case AlgorithmRR:
		return ModalityPreemptive, true
	default:
		return "", false
	}
}
