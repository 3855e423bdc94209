package ppo

import (
	"fmt"

	"github.com/jssp-rl/jssp-ppo/types"
)

// RolloutCollector drives complete episodes against the environment using
// the actor and converts rewards into discounted returns.
type RolloutCollector struct {
	env   types.Environment
	actor *Actor
	gamma float64
}

func NewRolloutCollector(env types.Environment, actor *Actor, gamma float64) *RolloutCollector {
	return &RolloutCollector{
		env:   env,
		actor: actor,
		gamma: gamma,
	}
}

// EpisodeResult is the outcome of one complete episode.
type EpisodeResult struct {
	Transitions []types.Transition
	// terminal makespan of the episode
	MakeSpan int
	// undiscounted reward sum
	Reward float64
}

// CollectEpisode runs exactly one episode and returns the transitions in
// time order with discounted returns filled in.
func (rc *RolloutCollector) CollectEpisode() (*EpisodeResult, error) {
	state, mask, err := rc.env.Reset()
	if err != nil {
		return nil, err
	}
	if err := rc.checkShapes(state, mask); err != nil {
		return nil, err
	}

	states := make([][]float64, 0)
	actions := make([]int, 0)
	rewards := make([]float64, 0)
	probs := make([]float64, 0)
	episodeReward := 0.0

	for {
		action, prob, err := rc.actor.SelectAction(state, mask)
		if err != nil {
			return nil, err
		}
		nextState, reward, done, nextMask, err := rc.env.Step(action)
		if err != nil {
			return nil, err
		}

		states = append(states, state)
		actions = append(actions, action)
		rewards = append(rewards, reward)
		probs = append(probs, prob)
		episodeReward += reward

		if done {
			break
		}
		if err := rc.checkShapes(nextState, nextMask); err != nil {
			return nil, err
		}
		state = nextState
		mask = nextMask
	}

	returns := DiscountedReturns(rewards, rc.gamma)
	transitions := make([]types.Transition, len(states))
	for i := range states {
		transitions[i] = types.Transition{
			State:   states[i],
			Action:  actions[i],
			Return:  returns[i],
			OldProb: probs[i],
		}
	}
	return &EpisodeResult{
		Transitions: transitions,
		MakeSpan:    rc.env.CurrentTime(),
		Reward:      episodeReward,
	}, nil
}

func (rc *RolloutCollector) checkShapes(state, mask []float64) error {
	if len(state) != rc.env.StateDim() {
		return fmt.Errorf("%w: state length %d, want %d", types.ErrEnvContract, len(state), rc.env.StateDim())
	}
	if len(mask) != rc.env.ActionDim() {
		return fmt.Errorf("%w: mask length %d, want %d", types.ErrEnvContract, len(mask), rc.env.ActionDim())
	}
	feasible := 0
	for _, m := range mask {
		if m == 0 {
			feasible++
		}
	}
	if feasible == 0 {
		return fmt.Errorf("%w: mask disallows every action", types.ErrEnvContract)
	}
	return nil
}

// DiscountedReturns accumulates rewards backwards with v <- r + gamma*v.
func DiscountedReturns(rewards []float64, gamma float64) []float64 {
	returns := make([]float64, len(rewards))
	v := 0.0
	for i := len(rewards) - 1; i >= 0; i-- {
		v = rewards[i] + gamma*v
		returns[i] = v
	}
	return returns
}
