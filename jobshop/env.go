package jobshop

import (
	"fmt"

	"github.com/jssp-rl/jssp-ppo/types"
)

// MaskInfeasible is the logit offset for actions that cannot currently be
// dispatched.
const MaskInfeasible = -1e8

// Env is a dispatching job-shop environment: an action picks a job, whose
// next operation is scheduled on its machine at the earliest feasible time.
// An episode ends when all jobs*machines operations are scheduled.
type Env struct {
	instance *Instance

	// per-job index of the next unscheduled operation
	nextOp []int
	// per-job completion time of the last scheduled operation
	jobReady []int
	// per-machine completion time
	machineReady []int
	scheduled    int
	makeSpan     int

	horizon float64
}

var _ types.Environment = &Env{}

func NewEnv(instance *Instance) *Env {
	horizon := instance.TotalDuration()
	if horizon == 0 {
		horizon = 1
	}
	env := &Env{
		instance: instance,
		horizon:  float64(horizon),
	}
	env.reset()
	return env
}

func (e *Env) reset() {
	e.nextOp = make([]int, e.instance.Jobs)
	e.jobReady = make([]int, e.instance.Jobs)
	e.machineReady = make([]int, e.instance.Machines)
	e.scheduled = 0
	e.makeSpan = 0
}

func (e *Env) StateDim() int {
	return 2*e.instance.Jobs + e.instance.Machines
}

func (e *Env) ActionDim() int {
	return e.instance.Jobs
}

func (e *Env) Jobs() int {
	return e.instance.Jobs
}

func (e *Env) Machines() int {
	return e.instance.Machines
}

func (e *Env) CaseName() string {
	return e.instance.Name
}

func (e *Env) CurrentTime() int {
	return e.makeSpan
}

func (e *Env) Reset() ([]float64, []float64, error) {
	e.reset()
	return e.state(), e.mask(), nil
}

// Step dispatches the next operation of the chosen job. Reward is the
// negated makespan increase, so episode reward sums to -makespan.
func (e *Env) Step(action int) ([]float64, float64, bool, []float64, error) {
	if action < 0 || action >= e.instance.Jobs {
		return nil, 0, false, nil, fmt.Errorf("%w: action %d out of range [0,%d)", types.ErrEnvContract, action, e.instance.Jobs)
	}
	if e.nextOp[action] >= e.instance.Machines {
		return nil, 0, false, nil, fmt.Errorf("%w: job %d has no remaining operations", types.ErrEnvContract, action)
	}

	op := e.instance.Ops[action][e.nextOp[action]]
	start := e.jobReady[action]
	if e.machineReady[op.Machine] > start {
		start = e.machineReady[op.Machine]
	}
	finish := start + op.Duration
	e.jobReady[action] = finish
	e.machineReady[op.Machine] = finish
	e.nextOp[action]++
	e.scheduled++

	before := e.makeSpan
	if finish > e.makeSpan {
		e.makeSpan = finish
	}
	reward := -float64(e.makeSpan - before)

	done := e.scheduled == e.instance.Jobs*e.instance.Machines
	return e.state(), reward, done, e.mask(), nil
}

// state encodes per-job completion fraction, per-job normalized ready time
// and per-machine normalized load.
func (e *Env) state() []float64 {
	state := make([]float64, 0, e.StateDim())
	for j := 0; j < e.instance.Jobs; j++ {
		state = append(state, float64(e.nextOp[j])/float64(e.instance.Machines))
	}
	for j := 0; j < e.instance.Jobs; j++ {
		state = append(state, float64(e.jobReady[j])/e.horizon)
	}
	for m := 0; m < e.instance.Machines; m++ {
		state = append(state, float64(e.machineReady[m])/e.horizon)
	}
	return state
}

func (e *Env) mask() []float64 {
	mask := make([]float64, e.instance.Jobs)
	for j := 0; j < e.instance.Jobs; j++ {
		if e.nextOp[j] >= e.instance.Machines {
			mask[j] = MaskInfeasible
		}
	}
	return mask
}
