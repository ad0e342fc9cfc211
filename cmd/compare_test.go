package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpu-sim/cpu-sim/sim"
)

func TestComparisonConfigs_AllPoliciesBuild(t *testing.T) {
	cfgs := comparisonConfigs(3, 2)
	require.Len(t, cfgs, 6)
	for _, cfg := range cfgs {
		_, err := sim.NewPolicy(cfg.Policy)
		assert.NoError(t, err, cfg.Policy.Algorithm)
		assert.Equal(t, 2, cfg.DurationMargin)
	}
	assert.Equal(t, 3, cfgs[1].Policy.Quantum)
}

func TestCompareCommand_EndToEnd(t *testing.T) {
	// GIVEN a process file
	input := filepath.Join(t.TempDir(), "procs.txt")
	require.NoError(t, os.WriteFile(input, []byte("P1;0;7\nP2;2;4\nP3;4;1\nP4;5;4\n"), 0644))

	// WHEN the compare command executes
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"compare", "--input", input, "--defaults", filepath.Join("..", "defaults.yaml")})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		compareInput = ""
	})
	require.NoError(t, rootCmd.Execute())

	// THEN every policy has a row and the best one is named
	out := buf.String()
	assert.Contains(t, out, "fcfs")
	assert.Contains(t, out, "rr q=2")
	assert.Contains(t, out, "srtf/preemptive")
	assert.Contains(t, out, "Lowest average waiting time: srtf/preemptive (3.00)")
}
