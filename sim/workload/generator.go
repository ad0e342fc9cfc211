package workload

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cpu-sim/cpu-sim/sim"
)

// GeneratorConfig describes a random process table. Arrival gaps, bursts and
// priorities are drawn uniformly from their inclusive ranges.
type GeneratorConfig struct {
	Count           int    `yaml:"count"`
	MaxInterarrival int    `yaml:"max_interarrival"` // gap to the previous arrival in [0, MaxInterarrival]
	BurstMin        int    `yaml:"burst_min"`
	BurstMax        int    `yaml:"burst_max"`
	PriorityMin     int    `yaml:"priority_min"`
	PriorityMax     int    `yaml:"priority_max"`
	NamePrefix      string `yaml:"name_prefix"`
}

// DefaultGeneratorConfig returns the configuration used when no preset is chosen.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Count:           5,
		MaxInterarrival: 3,
		BurstMin:        1,
		BurstMax:        8,
		PriorityMin:     1,
		PriorityMax:     5,
		NamePrefix:      "P",
	}
}

// Validate reports the first out-of-range field.
func (c GeneratorConfig) Validate() error {
	switch {
	case c.Count < 0:
		return fmt.Errorf("count must be non-negative, got %d", c.Count)
	case c.MaxInterarrival < 0:
		return fmt.Errorf("max_interarrival must be non-negative, got %d", c.MaxInterarrival)
	case c.BurstMin < 0:
		return fmt.Errorf("burst_min must be non-negative, got %d", c.BurstMin)
	case c.BurstMax < c.BurstMin:
		return fmt.Errorf("burst_max (%d) must be >= burst_min (%d)", c.BurstMax, c.BurstMin)
	case c.PriorityMax < c.PriorityMin:
		return fmt.Errorf("priority_max (%d) must be >= priority_min (%d)", c.PriorityMax, c.PriorityMin)
	case c.NamePrefix == "":
		return fmt.Errorf("name_prefix must not be empty")
	}
	return nil
}

// Generate draws a process table from cfg. The first process arrives at tick
// 0 and arrivals are non-decreasing. Deterministic given the same config and
// SimulationKey.
func Generate(cfg GeneratorConfig, rng *sim.PartitionedRNG) ([]*sim.Process, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	arrivals := rng.ForSubsystem(sim.SubsystemArrivals)
	bursts := rng.ForSubsystem(sim.SubsystemBursts)
	priorities := rng.ForSubsystem(sim.SubsystemPriorities)

	procs := make([]*sim.Process, 0, cfg.Count)
	arrival := 0
	for i := 0; i < cfg.Count; i++ {
		if i > 0 {
			arrival += arrivals.Intn(cfg.MaxInterarrival + 1)
		}
		burst := cfg.BurstMin + bursts.Intn(cfg.BurstMax-cfg.BurstMin+1)
		priority := cfg.PriorityMin + priorities.Intn(cfg.PriorityMax-cfg.PriorityMin+1)
		name := fmt.Sprintf("%s%d", cfg.NamePrefix, i+1)
		procs = append(procs, sim.NewProcess(name, arrival, burst, priority))
	}
	return procs, nil
}

// WriteProcesses writes procs as a header row followed by one record per
// process, readable by LoadProcesses with the same delimiter.
func WriteProcesses(w io.Writer, procs []*sim.Process, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write([]string{"name", "arrival", "burst", "priority"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, p := range procs {
		record := []string{
			p.Name,
			strconv.Itoa(p.ArrivalTime),
			strconv.Itoa(p.Burst),
			strconv.Itoa(p.Priority),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing process %s: %w", p.Name, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing process table: %w", err)
	}
	return nil
}
