package cmd

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cpu-sim/cpu-sim/sim"
	"github.com/cpu-sim/cpu-sim/sim/report"
	"github.com/cpu-sim/cpu-sim/sim/trace"
	"github.com/cpu-sim/cpu-sim/sim/workload"
)

// runFlags holds the raw values of the run command flags.
type runFlags struct {
	input          string
	algorithm      string
	modality       string
	quantum        int
	durationMargin int
	delimiter      string
	traceLevel     string
	results        string
}

var runArgs runFlags

// runOptions is the resolved run configuration after applying defaults.
type runOptions struct {
	Sim        sim.SimConfig
	Delimiter  rune
	TraceLevel trace.TraceLevel
}

// resolve layers flags over file defaults: a flag wins only when the
// operator set it explicitly.
func (f runFlags) resolve(d RunDefaults, changed func(name string) bool) (runOptions, error) {
	pick := func(name, flagVal, fileVal string) string {
		if changed(name) {
			return flagVal
		}
		return fileVal
	}
	pickInt := func(name string, flagVal, fileVal int) int {
		if changed(name) {
			return flagVal
		}
		return fileVal
	}

	algorithm := strings.ToLower(pick("algorithm", f.algorithm, d.Algorithm))
	modality := strings.ToLower(pick("modality", f.modality, d.Modality))
	quantum := pickInt("quantum", f.quantum, d.Quantum)
	margin := pickInt("duration-margin", f.durationMargin, d.DurationMargin)
	level := pick("trace-level", f.traceLevel, d.TraceLevel)

	if !sim.IsValidAlgorithm(algorithm) {
		return runOptions{}, fmt.Errorf("unknown algorithm %q (valid: %s)", algorithm, strings.Join(sim.ValidAlgorithmNames(), ", "))
	}
	if !sim.IsValidModality(modality) {
		return runOptions{}, fmt.Errorf("unknown modality %q (valid: %s, %s)", modality, sim.ModalityPreemptive, sim.ModalityNonPreemptive)
	}
	if algorithm == string(sim.AlgorithmRR) && quantum <= 0 {
		return runOptions{}, fmt.Errorf("--quantum must be > 0 for rr, got %d", quantum)
	}
	if err := validateMargin(margin); err != nil {
		return runOptions{}, err
	}
	if !trace.IsValidTraceLevel(level) {
		return runOptions{}, fmt.Errorf("unknown trace level %q (valid: none, decisions)", level)
	}
	delim, err := parseDelimiter(pick("delimiter", f.delimiter, d.Delimiter))
	if err != nil {
		return runOptions{}, err
	}

	if fixed, ok := sim.FixedModality(algorithm); ok && modality != "" && sim.Modality(modality) != fixed {
		logrus.Warnf("Modality %q ignored: %s is always %s", modality, algorithm, fixed)
	}

	return runOptions{
		Sim: sim.SimConfig{
			Policy:         sim.PolicyConfig{Algorithm: algorithm, Modality: modality, Quantum: quantum},
			DurationMargin: margin,
		},
		Delimiter:  delim,
		TraceLevel: trace.TraceLevel(level),
	}, nil
}

// validateMargin rejects margins the engine would replace with its default.
func validateMargin(margin int) error {
	if margin <= 0 {
		return fmt.Errorf("--duration-margin must be > 0, got %d", margin)
	}
	return nil
}

// parseDelimiter accepts a single character or the escape `\t`.
func parseDelimiter(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '\n' || r == '\r' || r == '#' {
		return 0, fmt.Errorf("delimiter %q is not allowed", s)
	}
	return r, nil
}

// simulate runs one simulation over procs and writes the full report to w.
func simulate(w io.Writer, procs []*sim.Process, opts runOptions) (*sim.Simulator, error) {
	s, err := sim.NewSimulator(procs, opts.Sim)
	if err != nil {
		return nil, err
	}
	if opts.TraceLevel == trace.TraceLevelDecisions {
		s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: opts.TraceLevel})
	}
	s.Run()

	report.PrintSimulation(w, s.Processes, s.Duration)
	_, _ = fmt.Fprintln(w)
	report.PrintProcesses(w, s.Processes)
	_, _ = fmt.Fprintln(w)
	report.PrintMetrics(w, s.Metrics)
	if s.Trace != nil {
		_, _ = fmt.Fprintln(w)
		printTraceSummary(w, trace.Summarize(s.Trace))
	}
	return s, nil
}

func printTraceSummary(w io.Writer, ts *trace.TraceSummary) {
	_, _ = fmt.Fprintln(w, "=== Trace Summary ===")
	_, _ = fmt.Fprintf(w, "Total Decisions: %d\n", ts.TotalDecisions)
	_, _ = fmt.Fprintf(w, "  Dispatches: %d\n", ts.Dispatches)
	_, _ = fmt.Fprintf(w, "  Preemptions: %d\n", ts.Preemptions)
	_, _ = fmt.Fprintf(w, "  Slice Expirations: %d\n", ts.Expirations)
	_, _ = fmt.Fprintf(w, "  Completions: %d\n", ts.Completions)
	_, _ = fmt.Fprintf(w, "Context Switches: %d\n", ts.ContextSwitches)
	_, _ = fmt.Fprintf(w, "Mean Queue Depth: %.2f\n", ts.MeanQueueDepth)
	_, _ = fmt.Fprintf(w, "Max Queue Depth: %d\n", ts.MaxQueueDepth)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scheduling simulation over a process file",
	Run: func(cmd *cobra.Command, args []string) {
		if runArgs.input == "" {
			logrus.Fatalf("--input is required")
		}
		cfg := loadDefaults(cmd)
		opts, err := runArgs.resolve(cfg.Run, cmd.Flags().Changed)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		procs, err := workload.LoadProcessesFile(runArgs.input, opts.Delimiter)
		if err != nil {
			logrus.Fatalf("Failed to load processes: %v", err)
		}
		logrus.Infof("Loaded %d processes from %s", len(procs), runArgs.input)

		s, err := simulate(cmd.OutOrStdout(), procs, opts)
		if err != nil {
			logrus.Fatalf("Failed to start simulation: %v", err)
		}
		if runArgs.results != "" {
			if err := s.Metrics.SaveResults(opts.Sim.Policy.Algorithm, s.Truncated, runArgs.results); err != nil {
				logrus.Fatalf("Failed to save results: %v", err)
			}
		}
		logrus.Info("Simulation complete.")
	},
}

func init() {
	runCmd.Flags().StringVar(&runArgs.input, "input", "", "Process file (name;arrival;burst[;priority] per line)")
	runCmd.Flags().StringVar(&runArgs.algorithm, "algorithm", "fcfs", "Scheduling algorithm: "+strings.Join(sim.ValidAlgorithmNames(), ", "))
	runCmd.Flags().StringVar(&runArgs.modality, "modality", "", "Modality: preemptive or nonpreemptive (empty = algorithm's natural modality)")
	runCmd.Flags().IntVar(&runArgs.quantum, "quantum", 2, "Time slice in ticks for rr")
	runCmd.Flags().IntVar(&runArgs.durationMargin, "duration-margin", sim.DefaultDurationMargin, "Slack ticks added to the safety bound")
	runCmd.Flags().StringVar(&runArgs.delimiter, "delimiter", string(workload.DefaultDelimiter), "Field delimiter of the process file")
	runCmd.Flags().StringVar(&runArgs.traceLevel, "trace-level", "none", "Decision trace level (none, decisions)")
	runCmd.Flags().StringVar(&runArgs.results, "results", "", "Write metrics as JSON to this file")
}
