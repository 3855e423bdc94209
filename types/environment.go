package types

// Environment is the job-shop scheduling simulator the trainer runs
// against. Implementations are stateful: Reset starts a fresh episode and
// Step advances it by dispatching one action.
type Environment interface {
	// Reset starts a new episode and returns the initial state vector and
	// action mask. The mask holds 0 for feasible actions and a large
	// negative offset for infeasible ones.
	Reset() (state []float64, mask []float64, err error)
	// Step dispatches the action with the given index and returns the next
	// state, the immediate reward, whether the episode ended, and the next
	// action mask.
	Step(action int) (state []float64, reward float64, done bool, mask []float64, err error)

	// StateDim is the length of the state vector
	StateDim() int
	// ActionDim is the number of actions (length of the mask)
	ActionDim() int
	// Jobs in the problem instance
	Jobs() int
	// Machines in the problem instance
	Machines() int
	// CaseName identifies the problem instance
	CaseName() string
	// CurrentTime is the makespan accumulated so far; at episode end it is
	// the terminal makespan
	CurrentTime() int
}
