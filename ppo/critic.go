package ppo

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/jssp-rl/jssp-ppo/nn"
)

// Critic estimates the discounted return of a state.
type Critic struct {
	net *nn.MLP
	opt *nn.Adam
}

func NewCritic(stateDim, hiddenUnits int, lr float64, src rand.Source) *Critic {
	return &Critic{
		net: nn.NewMLP(stateDim, hiddenUnits, 1, src),
		opt: nn.NewAdam(lr),
	}
}

// Net exposes the underlying network for checkpointing.
func (c *Critic) Net() *nn.MLP {
	return c.net
}

// Value returns the detached value estimate for a single state.
func (c *Critic) Value(state []float64) float64 {
	return c.net.ForwardVec(state)[0]
}

// Values returns value estimates for a batch of states, one row each.
func (c *Critic) Values(states *mat.Dense) []float64 {
	out := c.net.Forward(states)
	rows, _ := out.Dims()
	values := make([]float64, rows)
	for i := 0; i < rows; i++ {
		values[i] = out.At(i, 0)
	}
	return values
}
