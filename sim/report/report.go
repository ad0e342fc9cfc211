// Package report renders a finished simulation as text tables: the per-tick
// timeline, the per-process outcome table and the aggregate metrics block.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/cpu-sim/cpu-sim/sim"
)

// PrintSimulation writes the timeline: one row per process, one column per
// tick, each cell the single-character code of the recorded state.
func PrintSimulation(w io.Writer, procs []*sim.Process, duration int) {
	_, _ = fmt.Fprintln(w, "Timeline")
	header := make([]string, 0, duration+1)
	header = append(header, "name")
	for t := 0; t < duration; t++ {
		header = append(header, strconv.Itoa(t))
	}

	rows := make([][]string, 0, len(procs))
	for _, p := range procs {
		row := make([]string, 0, duration+1)
		row = append(row, p.Name)
		for t := 0; t < duration; t++ {
			state := sim.StateNotArrived
			if t < len(p.Lifecycle) {
				state = p.Lifecycle[t]
			}
			row = append(row, state.Code())
		}
		rows = append(rows, row)
	}

	table := newTable(w)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.Render()
}

// PrintProcesses writes one row per process with its timing outcome. A
// process that never ran shows "-" for response time.
func PrintProcesses(w io.Writer, procs []*sim.Process) {
	_, _ = fmt.Fprintln(w, "Processes")
	table := newTable(w)
	table.SetHeader([]string{"Name", "Arrival", "Burst", "Priority", "Wait", "Response", "Return", "Return/Burst", "Done"})
	for _, p := range procs {
		response := "-"
		if rt, err := p.ResponseTime.Get(); err == nil {
			response = strconv.Itoa(rt)
		}
		norm := "-"
		if p.Completed {
			norm = fmt.Sprintf("%.2f", normalized(p))
		}
		table.Append([]string{
			p.Name,
			strconv.Itoa(p.ArrivalTime),
			strconv.Itoa(p.Burst),
			strconv.Itoa(p.Priority),
			strconv.Itoa(p.WaitingTime),
			response,
			strconv.Itoa(p.ReturnTime),
			norm,
			strconv.FormatBool(p.Completed),
		})
	}
	table.Render()
}

// PrintMetrics writes the aggregate metrics block. When not every process
// completed, a warning line precedes the table.
func PrintMetrics(w io.Writer, m *sim.Metrics) {
	_, _ = fmt.Fprintln(w, "Metrics")
	if m.CompletedProcesses < m.Processes {
		_, _ = fmt.Fprintf(w, "WARNING: simulation truncated, %d of %d processes completed\n",
			m.CompletedProcesses, m.Processes)
	}
	table := newTable(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.AppendBulk([][]string{
		{"= Duration", strconv.Itoa(m.Duration)},
		{"= Processes", strconv.Itoa(m.Processes)},
		{"= Completed", strconv.Itoa(m.CompletedProcesses)},
		{"CPU usage", percent(m.CPUUsage)},
		{"CPU utilization", percent(m.Utilization)},
		{"Throughput", percent(m.Throughput)},
		{"Average waiting time", fmt.Sprintf("%.2f", m.AvgWaitingTime)},
		{"Average response time", fmt.Sprintf("%.2f", m.AvgResponseTime)},
		{"Average return time", fmt.Sprintf("%.2f", m.AvgReturnTime)},
		{"Average return time (normalized)", fmt.Sprintf("%.2f", m.AvgReturnTimeN)},
	})
	table.Render()
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func normalized(p *sim.Process) float64 {
	if p.Burst == 0 {
		return 1.0
	}
	return float64(p.ReturnTime) / float64(p.Burst)
}
