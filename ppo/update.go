package ppo

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/jssp-rl/jssp-ppo/types"
)

// UpdateEngine performs the repeated mini-batch and priority-weighted
// gradient updates of one epoch.
type UpdateEngine struct {
	actor  *Actor
	critic *Critic
	replay *ReplayBuffer

	clipEpsilon        float64
	maxGradNorm        float64
	batchSize          int
	initSize           int
	convergenceEpisode int

	// monotone across the whole run, never reset per epoch
	trainSteps  int
	updateSteps int

	rng *rand.Rand
}

func NewUpdateEngine(actor *Actor, critic *Critic, replay *ReplayBuffer, config types.Config, batchSize int, src rand.Source) *UpdateEngine {
	return &UpdateEngine{
		actor:              actor,
		critic:             critic,
		replay:             replay,
		clipEpsilon:        config.ClipEpsilon,
		maxGradNorm:        config.MaxGradNorm,
		batchSize:          batchSize,
		initSize:           config.InitSize,
		convergenceEpisode: config.ConvergenceEpisode,
		updateSteps:        config.UpdateSteps,
		rng:                rand.New(src),
	}
}

// TrainSteps returns the global pass counter.
func (e *UpdateEngine) TrainSteps() int {
	return e.trainSteps
}

// Update consumes the epoch buffer: per pass, a full shuffled mini-batch
// sweep with priority write-back, then one priority-weighted replay step
// whose batch grows with the global pass counter.
func (e *UpdateEngine) Update(buffer *types.EpochBuffer) error {
	n := buffer.Len()
	if n == 0 {
		return fmt.Errorf("update on empty epoch buffer")
	}
	for pass := 0; pass < e.updateSteps; pass++ {
		e.trainSteps++

		// full sweep over disjoint shuffled mini-batches, last partial
		// batch included
		perm := e.rng.Perm(n)
		for start := 0; start < n; start += e.batchSize {
			end := start + e.batchSize
			if end > n {
				end = n
			}
			indices := perm[start:end]
			advantages, err := e.learn(buffer.Gather(indices), nil)
			if err != nil {
				return err
			}
			if err := e.replay.WriteBack(indices, advantages); err != nil {
				return err
			}
		}

		// priority-weighted replay step; its advantages are not persisted
		size := ReplaySize(e.trainSteps, e.initSize, e.batchSize, e.convergenceEpisode)
		indices, err := e.replay.Sample(size)
		if err != nil {
			return err
		}
		if _, err := e.learn(buffer.Gather(indices), nil); err != nil {
			return err
		}
	}
	return nil
}

// ReplaySize is the quadratic growth schedule of the replay batch: it starts
// at initSize and saturates at batchSize once trainSteps reaches
// convergenceEpisode.
func ReplaySize(trainSteps, initSize, batchSize, convergenceEpisode int) int {
	progress := float64(trainSteps) / float64(convergenceEpisode)
	size := int(float64(initSize) + float64(batchSize-initSize)*progress*progress)
	if size > batchSize {
		return batchSize
	}
	return size
}

// learn runs one gradient step on both networks for the batch and returns
// the detached per-transition advantages. A nil weights slice means uniform
// critic weighting.
func (e *UpdateEngine) learn(batch []types.Transition, weights []float64) ([]float64, error) {
	n := len(batch)
	stateDim := len(batch[0].State)
	states := mat.NewDense(n, stateDim, nil)
	for i, tr := range batch {
		states.SetRow(i, tr.State)
	}

	// advantage = detach(returns - V); no gradient flows through it
	values := e.critic.Values(states)
	advantages := make([]float64, n)
	for i, tr := range batch {
		advantages[i] = tr.Return - values[i]
	}

	probs := e.actor.Probabilities(states)
	actorLoss := 0.0
	// gradient of the clipped objective w.r.t. the new action probability
	dProb := make([]float64, n)
	for i, tr := range batch {
		pNew := probs.At(i, tr.Action)
		ratio := pNew / tr.OldProb
		surrogate := ratio * advantages[i]
		clipped := clamp(ratio, 1-e.clipEpsilon, 1+e.clipEpsilon) * advantages[i]
		objective := math.Min(surrogate, clipped)
		actorLoss -= objective / float64(n)
		// min picks the unclipped branch when surrogate <= clipped; the
		// clipped branch has zero ratio-derivative when it differs
		if surrogate <= clipped {
			dProb[i] = -(advantages[i] / tr.OldProb) / float64(n)
		}
	}
	if math.IsNaN(actorLoss) || math.IsInf(actorLoss, 0) {
		return nil, fmt.Errorf("%w: actor loss %v", types.ErrNumericalInstability, actorLoss)
	}

	// backpropagate through softmax: dL/dlogit_k = dL/dp_a * p_a * (d_ak - p_k)
	_, actionDim := probs.Dims()
	dLogits := mat.NewDense(n, actionDim, nil)
	for i, tr := range batch {
		pA := probs.At(i, tr.Action)
		for k := 0; k < actionDim; k++ {
			delta := 0.0
			if k == tr.Action {
				delta = 1.0
			}
			dLogits.Set(i, k, dProb[i]*pA*(delta-probs.At(i, k)))
		}
	}
	actorGrads := e.actor.net.Backward(states, dLogits)
	if actorGrads.HasNaN() {
		return nil, fmt.Errorf("%w: actor gradients", types.ErrNumericalInstability)
	}
	actorGrads.ClipNorm(e.maxGradNorm)
	e.actor.opt.Step(e.actor.net, actorGrads)

	// critic loss = mean(weights * (returns - V)^2)
	criticLoss := 0.0
	dValue := mat.NewDense(n, 1, nil)
	for i, tr := range batch {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		diff := tr.Return - values[i]
		criticLoss += w * diff * diff / float64(n)
		dValue.Set(i, 0, -2*w*diff/float64(n))
	}
	if math.IsNaN(criticLoss) || math.IsInf(criticLoss, 0) {
		return nil, fmt.Errorf("%w: critic loss %v", types.ErrNumericalInstability, criticLoss)
	}
	criticGrads := e.critic.net.Backward(states, dValue)
	if criticGrads.HasNaN() {
		return nil, fmt.Errorf("%w: critic gradients", types.ErrNumericalInstability)
	}
	criticGrads.ClipNorm(e.maxGradNorm)
	e.critic.opt.Step(e.critic.net, criticGrads)

	return advantages, nil
}

// ClippedObjective is the per-transition surrogate term
// min(ratio*adv, clamp(ratio, 1-eps, 1+eps)*adv).
func ClippedObjective(ratio, advantage, epsilon float64) float64 {
	surrogate := ratio * advantage
	clipped := clamp(ratio, 1-epsilon, 1+epsilon) * advantage
	return math.Min(surrogate, clipped)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
