// Package jobshop implements the scheduling environment the trainer runs
// against: problem-instance parsing and a dispatching simulator that exposes
// states, action masks and makespan bookkeeping.
package jobshop

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Operation is one processing step of a job on a specific machine.
type Operation struct {
	Machine  int
	Duration int
}

// Instance is a parsed job-shop problem: Ops[j] lists job j's operations in
// technological order.
type Instance struct {
	Name     string
	Jobs     int
	Machines int
	Ops      [][]Operation
}

// ParseInstance reads a problem file. The name of the case is the file name
// without extension.
func ParseInstance(path string) (*Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return ParseInstanceData(name, data)
}

// ParseInstanceData parses the standard format: a header line "jobs
// machines" followed by one line per job of (machine, duration) pairs.
func ParseInstanceData(name string, data []byte) (*Instance, error) {
	lines := make([]string, 0)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("instance %s: empty file", name)
	}
	header := strings.Fields(lines[0])
	if len(header) < 2 {
		return nil, fmt.Errorf("instance %s: malformed header %q", name, lines[0])
	}
	jobs, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, fmt.Errorf("instance %s: job count: %w", name, err)
	}
	machines, err := strconv.Atoi(header[1])
	if err != nil {
		return nil, fmt.Errorf("instance %s: machine count: %w", name, err)
	}
	if jobs <= 0 || machines <= 0 {
		return nil, fmt.Errorf("instance %s: invalid size %dx%d", name, jobs, machines)
	}
	if len(lines)-1 < jobs {
		return nil, fmt.Errorf("instance %s: expected %d job rows, got %d", name, jobs, len(lines)-1)
	}

	ops := make([][]Operation, jobs)
	for j := 0; j < jobs; j++ {
		fields := strings.Fields(lines[j+1])
		if len(fields) != 2*machines {
			return nil, fmt.Errorf("instance %s: job %d has %d fields, want %d", name, j, len(fields), 2*machines)
		}
		ops[j] = make([]Operation, machines)
		for k := 0; k < machines; k++ {
			machine, err := strconv.Atoi(fields[2*k])
			if err != nil {
				return nil, fmt.Errorf("instance %s: job %d op %d machine: %w", name, j, k, err)
			}
			duration, err := strconv.Atoi(fields[2*k+1])
			if err != nil {
				return nil, fmt.Errorf("instance %s: job %d op %d duration: %w", name, j, k, err)
			}
			if machine < 0 || machine >= machines {
				return nil, fmt.Errorf("instance %s: job %d op %d references machine %d", name, j, k, machine)
			}
			if duration < 0 {
				return nil, fmt.Errorf("instance %s: job %d op %d has negative duration", name, j, k)
			}
			ops[j][k] = Operation{Machine: machine, Duration: duration}
		}
	}
	return &Instance{
		Name:     name,
		Jobs:     jobs,
		Machines: machines,
		Ops:      ops,
	}, nil
}

// TotalDuration is the processing time sum over all operations, used to
// normalize state features.
func (in *Instance) TotalDuration() int {
	total := 0
	for _, job := range in.Ops {
		for _, op := range job {
			total += op.Duration
		}
	}
	return total
}
