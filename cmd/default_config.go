package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cpu-sim/cpu-sim/sim"
	"github.com/cpu-sim/cpu-sim/sim/workload"
)

// RunDefaults holds the run settings used when the matching flag is not set.
type RunDefaults struct {
	Algorithm      string `yaml:"algorithm"`
	Modality       string `yaml:"modality"`
	Quantum        int    `yaml:"quantum"`
	DurationMargin int    `yaml:"duration_margin"`
	Delimiter      string `yaml:"delimiter"`
	TraceLevel     string `yaml:"trace_level"`
}

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version   string                              `yaml:"version"`
	Run       RunDefaults                         `yaml:"run"`
	Workloads map[string]workload.GeneratorConfig `yaml:"workloads"`
}

// builtinDefaults is used when no defaults file is present.
func builtinDefaults() Config {
	return Config{
		Version: "1",
		Run: RunDefaults{
			Algorithm:      string(sim.AlgorithmFCFS),
			Quantum:        2,
			DurationMargin: sim.DefaultDurationMargin,
			Delimiter:      string(workload.DefaultDelimiter),
			TraceLevel:     "none",
		},
		Workloads: map[string]workload.GeneratorConfig{
			"default": workload.DefaultGeneratorConfig(),
		},
	}
}

// loadDefaultsConfig parses a defaults file with strict field checking:
// unknown keys are errors, so typos cannot silently fall back to defaults.
func loadDefaultsConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading defaults file %s: %w", path, err)
	}
	return parseDefaultsConfig(data)
}

func parseDefaultsConfig(data []byte) (Config, error) {
	cfg := builtinDefaults()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing defaults YAML: %w", err)
	}
	return cfg, nil
}

// Preset returns the named generator preset.
func (c Config) Preset(name string) (workload.GeneratorConfig, error) {
	preset, ok := c.Workloads[name]
	if !ok {
		names := make([]string, 0, len(c.Workloads))
		for n := range c.Workloads {
			names = append(names, n)
		}
		sort.Strings(names)
		return workload.GeneratorConfig{}, fmt.Errorf("unknown workload preset %q (available: %s)", name, strings.Join(names, ", "))
	}
	return preset, nil
}
