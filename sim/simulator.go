// sim/simulator.go
package sim

import (
	"fmt"
	"sort"

	"github.com/markphelps/optional"
	"github.com/sirupsen/logrus"

	"github.com/cpu-sim/cpu-sim/sim/trace"
)

// Simulator is the core object that holds the simulation clock, the process
// table, the ready queue and the dispatcher state. It owns all of them for
// the duration of a run; independent Simulators may run concurrently over
// independent process tables.
type Simulator struct {
	Clock int
	// Bound caps the run: sum(burst) + max(arrival) + margin. Reaching it
	// before every process finishes sets Truncated.
	Bound int
	// Duration is the number of ticks actually simulated. Equal to Clock
	// after Run and to len(p.Lifecycle) for every process.
	Duration  int
	Truncated bool

	Processes []*Process
	ReadyQ    *ReadyQueue
	Policy    Policy
	// Trace records dispatch decisions when non-nil.
	Trace   *trace.SimulationTrace
	Metrics *Metrics

	margin      int
	arrivals    []*Process // Processes stable-sorted by arrival time
	nextArrival int
	running     *Process
	quantumLeft int // 0 = unbounded slice
	finished    int
}

// NewSimulator validates the process table and builds the policy.
// The table order is kept: simultaneous arrivals are admitted in it.
func NewSimulator(procs []*Process, cfg SimConfig) (*Simulator, error) {
	policy, err := NewPolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(procs))
	for i, p := range procs {
		if p == nil {
			return nil, fmt.Errorf("process %d is nil", i)
		}
		if err := p.validate(); err != nil {
			return nil, err
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate process name %q", p.Name)
		}
		seen[p.Name] = true
	}
	sim := &Simulator{
		Processes: procs,
		Policy:    policy,
		margin:    cfg.margin(),
	}
	sim.reset()
	return sim, nil
}

// reset clears every piece of per-run state so that Run can be repeated.
func (sim *Simulator) reset() {
	sim.Bound = sim.margin
	maxArrival := 0
	for _, p := range sim.Processes {
		sim.Bound += p.Burst
		maxArrival = max(maxArrival, p.ArrivalTime)
	}
	sim.Bound += maxArrival

	for _, p := range sim.Processes {
		p.reset(sim.Bound)
	}
	sim.arrivals = append(sim.arrivals[:0], sim.Processes...)
	sort.SliceStable(sim.arrivals, func(i, j int) bool {
		return sim.arrivals[i].ArrivalTime < sim.arrivals[j].ArrivalTime
	})

	sim.Clock = 0
	sim.Duration = 0
	sim.Truncated = false
	sim.ReadyQ = NewReadyQueue()
	sim.Metrics = nil
	sim.nextArrival = 0
	sim.finished = 0
	sim.idle()
	if sim.Trace != nil {
		sim.Trace.Reset()
	}
}

// Run simulates from tick 0 until every process finished or the bound is reached.
func (sim *Simulator) Run() {
	sim.reset()
	logrus.Infof("Starting simulation: %d processes, policy=%T, bound=%d ticks", len(sim.Processes), sim.Policy, sim.Bound)
	for sim.finished < len(sim.Processes) && sim.Clock < sim.Bound {
		sim.Step()
	}
	sim.finalize()
	if sim.Truncated {
		logrus.Warnf("[tick %05d] Safety bound reached with %d of %d processes unfinished; results are partial",
			sim.Clock, len(sim.Processes)-sim.finished, len(sim.Processes))
	}
	logrus.Infof("[tick %05d] Simulation ended", sim.Clock)
}

// Step processes a single tick: admission, selection, state recording,
// execution, then the clock advances.
func (sim *Simulator) Step() {
	t := sim.Clock
	sim.admit(t)
	sim.dispatch(t)
	sim.record(t)
	sim.execute(t)
	sim.ReadyQ.checkSet()
	logrus.Debugf("[tick %05d] running=%s queue=%v", t, sim.runningName(), sim.ReadyQ)
	sim.Clock++
}

// Running returns the process holding the CPU, or nil when idle.
func (sim *Simulator) Running() *Process {
	return sim.running
}

// Finished returns the number of completed processes.
func (sim *Simulator) Finished() int {
	return sim.finished
}

func (sim *Simulator) admit(t int) {
	for sim.nextArrival < len(sim.arrivals) && sim.arrivals[sim.nextArrival].ArrivalTime == t {
		p := sim.arrivals[sim.nextArrival]
		sim.nextArrival++
		if p.Burst == 0 {
			// Nothing to execute: done on arrival, never Running, never waiting.
			p.ResponseTime = optional.NewInt(0)
			sim.complete(p, t, 0)
			continue
		}
		sim.ReadyQ.Enqueue(p)
	}
}

func (sim *Simulator) dispatch(t int) {
	dec := sim.Policy.Select(sim.running, sim.ReadyQ, sim.quantumLeft, t)
	if dec.Next == sim.running {
		sim.quantumLeft = dec.Quantum
		return
	}
	if dec.Next != nil && !sim.ReadyQ.Remove(dec.Next) {
		panic(fmt.Sprintf("policy %T selected %s, which is not in the ready queue", sim.Policy, dec.Next.Name))
	}
	if prev := sim.running; prev != nil {
		if !dec.Preempt {
			panic(fmt.Sprintf("policy %T replaced running %s without preempting it", sim.Policy, prev.Name))
		}
		sim.ReadyQ.Enqueue(prev)
		sim.traceDecision(t, prev, trace.KindPreempt)
		logrus.Debugf("[tick %05d] %s preempted by %s", t, prev.Name, nameOf(dec.Next))
	}
	sim.running = dec.Next
	sim.quantumLeft = dec.Quantum
	if p := sim.running; p != nil {
		if !p.ResponseTime.Present() {
			p.ResponseTime = optional.NewInt(t - p.ArrivalTime)
		}
		sim.traceDecision(t, p, trace.KindDispatch)
	}
}

func (sim *Simulator) record(t int) {
	for _, p := range sim.Processes {
		var s ProcessState
		switch {
		case p.Completed:
			s = StateFinished
		case t < p.ArrivalTime:
			s = StateNotArrived
		case p == sim.running:
			s = StateRunning
		default:
			s = StateReady
		}
		p.Lifecycle[t] = s
	}
}

func (sim *Simulator) execute(t int) {
	p := sim.running
	if p == nil {
		return
	}
	if p.executed >= p.Burst {
		panic(fmt.Sprintf("process %s would execute beyond its burst of %d", p.Name, p.Burst))
	}
	p.executed++

	expired := false
	if sim.quantumLeft > 0 {
		sim.quantumLeft--
		expired = sim.quantumLeft == 0
	}

	switch {
	case p.executed == p.Burst:
		sim.complete(p, t, t+1)
		sim.idle()
	case expired:
		sim.ReadyQ.Enqueue(p)
		sim.traceDecision(t, p, trace.KindExpire)
		sim.idle()
	}
}

// complete marks p Finished with completion at tick end.
func (sim *Simulator) complete(p *Process, t, end int) {
	p.Completed = true
	p.ReturnTime = end - p.ArrivalTime
	sim.finished++
	sim.traceDecision(t, p, trace.KindComplete)
	logrus.Debugf("[tick %05d] %s finished, return time %d", t, p.Name, p.ReturnTime)
}

// idle clears the running slot and restores a fresh slice.
func (sim *Simulator) idle() {
	sim.running = nil
	sim.quantumLeft = 0
}

// finalize trims histories to the simulated length and derives metrics.
func (sim *Simulator) finalize() {
	sim.Duration = sim.Clock
	sim.Truncated = sim.finished < len(sim.Processes)
	for _, p := range sim.Processes {
		p.Lifecycle = p.Lifecycle[:sim.Duration]
		waiting := 0
		for _, s := range p.Lifecycle {
			if s == StateReady {
				waiting++
			}
		}
		p.WaitingTime = waiting
	}
	sim.Metrics = ComputeMetrics(sim.Processes, sim.Duration)
}

func (sim *Simulator) traceDecision(t int, p *Process, kind trace.DecisionKind) {
	if sim.Trace == nil {
		return
	}
	sim.Trace.RecordDecision(trace.DispatchRecord{
		Tick:       t,
		Process:    p.Name,
		Kind:       kind,
		QueueDepth: sim.ReadyQ.Len(),
	})
}

func (sim *Simulator) runningName() string {
	return nameOf(sim.running)
}

func nameOf(p *Process) string {
	if p == nil {
		return "-"
	}
	return p.Name
}
