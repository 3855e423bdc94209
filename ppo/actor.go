// Package ppo implements the scheduling policy trainer: actor/critic heads
// over injected MLPs, episodic rollout collection, a priority replay buffer
// and the clipped-surrogate update loop.
package ppo

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/jssp-rl/jssp-ppo/nn"
	"github.com/jssp-rl/jssp-ppo/types"
)

// probFloor keeps masked-out actions negligibly unlikely but never exactly
// zero, so probability ratios stay defined.
const probFloor = 1e-12

// Actor maps a state and action mask to a categorical distribution over
// actions and samples from it.
type Actor struct {
	net *nn.MLP
	opt *nn.Adam
	src rand.Source
}

func NewActor(stateDim, actionDim, hiddenUnits int, lr float64, src rand.Source) *Actor {
	return &Actor{
		net: nn.NewMLP(stateDim, hiddenUnits, actionDim, src),
		opt: nn.NewAdam(lr),
		src: src,
	}
}

// Net exposes the underlying network for checkpointing.
func (a *Actor) Net() *nn.MLP {
	return a.net
}

// SelectAction adds the mask to the logits, softmaxes, and draws one action.
// Pure inference: no gradient state is recorded. Returns the action index
// and the probability assigned to it.
func (a *Actor) SelectAction(state, mask []float64) (int, float64, error) {
	logits := a.net.ForwardVec(state)
	if len(mask) != len(logits) {
		return 0, 0, fmt.Errorf("%w: mask length %d, action space %d", types.ErrEnvContract, len(mask), len(logits))
	}
	for i := range logits {
		logits[i] += mask[i]
	}
	probs := softmaxFloor(logits)
	idx, ok := sampleuv.NewWeighted(probs, a.src).Take()
	if !ok {
		return 0, 0, fmt.Errorf("%w: degenerate action distribution", types.ErrNumericalInstability)
	}
	return idx, probs[idx], nil
}

// Probabilities computes the unmasked action distribution for a batch of
// states, one row per sample. The update path gathers chosen-action
// probabilities from this.
func (a *Actor) Probabilities(states *mat.Dense) *mat.Dense {
	out := a.net.Forward(states)
	rows, cols := out.Dims()
	for i := 0; i < rows; i++ {
		probs := softmaxFloor(mat.Row(nil, i, out))
		for j := 0; j < cols; j++ {
			out.Set(i, j, probs[j])
		}
	}
	return out
}

// softmaxFloor is a numerically stable softmax with a small positive floor
// on every probability.
func softmaxFloor(logits []float64) []float64 {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	probs := make([]float64, len(logits))
	sum := 0.0
	for i, v := range logits {
		probs[i] = math.Exp(v - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
		if probs[i] < probFloor {
			probs[i] = probFloor
		}
	}
	return probs
}
