// Package workload builds process tables for the simulator: it reads them
// from delimited text, generates them from a seeded configuration, and writes
// them back in the same record format.
//
// A record is name<delim>arrival<delim>burst[<delim>priority]. Blank lines and
// lines starting with '#' are ignored. A first record is treated as a header
// when its name column reads "name" or when neither its arrival nor its burst
// column is an integer.
package workload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cpu-sim/cpu-sim/sim"
)

// DefaultDelimiter separates fields when the caller does not choose one.
const DefaultDelimiter = ';'

// LoadProcessesFile opens path and parses it with LoadProcesses.
func LoadProcessesFile(path string, delim rune) ([]*sim.Process, error) {
	if path == "" {
		return nil, fmt.Errorf("process file path must not be empty")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening process file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	procs, err := LoadProcesses(file, delim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return procs, nil
}

// LoadProcesses parses a process table from r. Records keep their input
// order, which is the tie-break order for simultaneous arrivals.
func LoadProcesses(r io.Reader, delim rune) ([]*sim.Process, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var procs []*sim.Process
	names := make(map[string]int)
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading process table: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}

		p, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if prev, dup := names[p.Name]; dup {
			return nil, fmt.Errorf("line %d: duplicate process name %q (first seen on line %d)", line, p.Name, prev)
		}
		names[p.Name] = line
		procs = append(procs, p)
	}
	return procs, nil
}

// isHeader reports whether a first record is a column header: its name
// column reads "name", or neither its arrival nor its burst column is an
// integer. Anything else is data and must parse.
func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(record[0]), "name") {
		return true
	}
	if len(record) < 3 {
		return false
	}
	return !isInt(record[1]) && !isInt(record[2])
}

func isInt(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}

func parseRecord(record []string) (*sim.Process, error) {
	if len(record) < 3 || len(record) > 4 {
		return nil, fmt.Errorf("expected 3 or 4 fields (name, arrival, burst[, priority]), got %d", len(record))
	}
	name := strings.TrimSpace(record[0])
	if name == "" {
		return nil, errors.New("empty process name")
	}
	arrival, err := parseNonNegative("arrival", record[1])
	if err != nil {
		return nil, err
	}
	burst, err := parseNonNegative("burst", record[2])
	if err != nil {
		return nil, err
	}
	priority := 0
	if len(record) == 4 && strings.TrimSpace(record[3]) != "" {
		priority, err = strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("invalid priority %q: %w", record[3], err)
		}
	}
	return sim.NewProcess(name, arrival, burst, priority), nil
}

func parseNonNegative(field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s must be non-negative, got %d", field, v)
	}
	return v, nil
}
