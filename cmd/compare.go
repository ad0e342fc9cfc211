package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cpu-sim/cpu-sim/sim"
	"github.com/cpu-sim/cpu-sim/sim/evaluation"
	"github.com/cpu-sim/cpu-sim/sim/workload"
)

var (
	compareInput     string
	compareQuantum   int
	compareDelimiter string
)

// comparisonConfigs lists every distinct policy: each algorithm in its
// natural modality plus the non-default variants of sjf and priority.
func comparisonConfigs(quantum, margin int) []sim.SimConfig {
	policies := []sim.PolicyConfig{
		{Algorithm: string(sim.AlgorithmFCFS)},
		{Algorithm: string(sim.AlgorithmRR), Quantum: quantum},
		{Algorithm: string(sim.AlgorithmSJF), Modality: string(sim.ModalityNonPreemptive)},
		{Algorithm: string(sim.AlgorithmSRTF), Modality: string(sim.ModalityPreemptive)},
		{Algorithm: string(sim.AlgorithmPriority), Modality: string(sim.ModalityNonPreemptive)},
		{Algorithm: string(sim.AlgorithmPriority), Modality: string(sim.ModalityPreemptive)},
	}
	cfgs := make([]sim.SimConfig, 0, len(policies))
	for _, p := range policies {
		cfgs = append(cfgs, sim.SimConfig{Policy: p, DurationMargin: margin})
	}
	return cfgs
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run a process file under every policy and compare the metrics",
	Run: func(cmd *cobra.Command, args []string) {
		if compareInput == "" {
			logrus.Fatalf("--input is required")
		}
		cfg := loadDefaults(cmd)
		quantum := cfg.Run.Quantum
		if cmd.Flags().Changed("quantum") {
			quantum = compareQuantum
		}
		if quantum <= 0 {
			logrus.Fatalf("--quantum must be > 0, got %d", quantum)
		}
		if err := validateMargin(cfg.Run.DurationMargin); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		delim := cfg.Run.Delimiter
		if cmd.Flags().Changed("delimiter") {
			delim = compareDelimiter
		}
		d, err := parseDelimiter(delim)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		procs, err := workload.LoadProcessesFile(compareInput, d)
		if err != nil {
			logrus.Fatalf("Failed to load processes: %v", err)
		}
		results, err := evaluation.Evaluate(procs, comparisonConfigs(quantum, cfg.Run.DurationMargin))
		if err != nil {
			logrus.Fatalf("Failed to evaluate policies: %v", err)
		}
		evaluation.PrintComparison(cmd.OutOrStdout(), results)
		if best := evaluation.Best(results); best != nil {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Lowest average waiting time: %s (%.2f)\n", best.Label(), best.Metrics.AvgWaitingTime)
		}
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareInput, "input", "", "Process file (name;arrival;burst[;priority] per line)")
	compareCmd.Flags().IntVar(&compareQuantum, "quantum", 2, "Time slice in ticks for rr")
	compareCmd.Flags().StringVar(&compareDelimiter, "delimiter", string(workload.DefaultDelimiter), "Field delimiter of the process file")
	rootCmd.AddCommand(compareCmd)
}
