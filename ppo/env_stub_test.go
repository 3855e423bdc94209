package ppo

import "github.com/jssp-rl/jssp-ppo/types"

// stubEnv is a deterministic environment for exercising the collector and
// trainer without a real scheduling problem.
type stubEnv struct {
	name      string
	stateDim  int
	actionDim int
	jobs      int
	machines  int
	length    int
	rewards   []float64
	makeSpan  int

	step            int
	badStateOnReset bool
	allMasked       bool
}

var _ types.Environment = &stubEnv{}

func newStubEnv() *stubEnv {
	return &stubEnv{
		name:      "stub",
		stateDim:  3,
		actionDim: 2,
		jobs:      2,
		machines:  2,
		length:    4,
		makeSpan:  42,
	}
}

func (s *stubEnv) state() []float64 {
	state := make([]float64, s.stateDim)
	for i := range state {
		state[i] = float64(s.step)*0.1 + float64(i)*0.01
	}
	return state
}

func (s *stubEnv) mask() []float64 {
	mask := make([]float64, s.actionDim)
	if s.allMasked {
		for i := range mask {
			mask[i] = -1e8
		}
	}
	return mask
}

func (s *stubEnv) Reset() ([]float64, []float64, error) {
	s.step = 0
	if s.badStateOnReset {
		return make([]float64, s.stateDim+1), s.mask(), nil
	}
	return s.state(), s.mask(), nil
}

func (s *stubEnv) Step(action int) ([]float64, float64, bool, []float64, error) {
	reward := -1.0
	if s.step < len(s.rewards) {
		reward = s.rewards[s.step]
	}
	s.step++
	done := s.step >= s.length
	return s.state(), reward, done, s.mask(), nil
}

func (s *stubEnv) StateDim() int    { return s.stateDim }
func (s *stubEnv) ActionDim() int   { return s.actionDim }
func (s *stubEnv) Jobs() int        { return s.jobs }
func (s *stubEnv) Machines() int    { return s.machines }
func (s *stubEnv) CaseName() string { return s.name }
func (s *stubEnv) CurrentTime() int { return s.makeSpan }
