package ppo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/jssp-rl/jssp-ppo/types"
)

func TestReplaySizeSchedule(t *testing.T) {
	const (
		initSize    = 1
		batchSize   = 64
		convergence = 2000
	)
	assert.Equal(t, initSize, ReplaySize(0, initSize, batchSize, convergence))

	prev := 0
	for steps := 0; steps <= 2500; steps += 10 {
		size := ReplaySize(steps, initSize, batchSize, convergence)
		assert.GreaterOrEqual(t, size, prev, "schedule must be non-decreasing")
		assert.LessOrEqual(t, size, batchSize)
		prev = size
	}
	// saturation: within one of batchSize at the convergence episode
	assert.GreaterOrEqual(t, ReplaySize(convergence, initSize, batchSize, convergence), batchSize-1)
	assert.Equal(t, batchSize, ReplaySize(3*convergence, initSize, batchSize, convergence))
}

func TestClippedObjectiveContinuity(t *testing.T) {
	const eps = 0.2
	for _, advantage := range []float64{2.0, -2.0} {
		for _, boundary := range []float64{1 - eps, 1 + eps} {
			below := ClippedObjective(boundary-1e-9, advantage, eps)
			at := ClippedObjective(boundary, advantage, eps)
			above := ClippedObjective(boundary+1e-9, advantage, eps)
			assert.InDelta(t, at, below, 1e-6)
			assert.InDelta(t, at, above, 1e-6)
		}
	}
	// inside the clip range the objective is exactly the unclipped surrogate
	for _, ratio := range []float64{1 - eps, 0.9, 1.0, 1.1, 1 + eps} {
		assert.Equal(t, ratio*1.7, ClippedObjective(ratio, 1.7, eps))
	}
}

func newTestEngine(t *testing.T, updateSteps int) (*UpdateEngine, *ReplayBuffer, *types.EpochBuffer) {
	t.Helper()
	src := rand.NewSource(21)
	actor := NewActor(3, 2, 8, 1e-3, src)
	critic := NewCritic(3, 8, 3e-3, src)
	replay := NewReplayBuffer(6, 0.6, 1e-5, src)

	config := types.DefaultConfig()
	config.UpdateSteps = updateSteps
	engine := NewUpdateEngine(actor, critic, replay, config, 3, src)

	buffer := types.NewEpochBuffer()
	episode := make([]types.Transition, 6)
	for i := range episode {
		episode[i] = types.Transition{
			State:   []float64{float64(i) * 0.1, 0.5, -0.3},
			Action:  i % 2,
			Return:  -float64(6 - i),
			OldProb: 0.5,
		}
	}
	buffer.AppendEpisode(episode)
	require.NoError(t, replay.SetLength(buffer.Len()))
	return engine, replay, buffer
}

func TestUpdateWritesPositivePriorities(t *testing.T) {
	engine, replay, buffer := newTestEngine(t, 2)
	require.NoError(t, engine.Update(buffer))

	priorities := replay.Priorities()
	require.Len(t, priorities, 6)
	for i, p := range priorities {
		assert.Greater(t, p, 0.0, "priority %d", i)
		assert.False(t, math.IsNaN(p))
	}
}

func TestTrainStepsAccumulateAcrossEpochs(t *testing.T) {
	engine, _, buffer := newTestEngine(t, 2)
	require.NoError(t, engine.Update(buffer))
	assert.Equal(t, 2, engine.TrainSteps())
	require.NoError(t, engine.Update(buffer))
	assert.Equal(t, 4, engine.TrainSteps(), "counter must not reset per epoch")
}

func TestUpdateEmptyBuffer(t *testing.T) {
	engine, _, _ := newTestEngine(t, 1)
	assert.Error(t, engine.Update(types.NewEpochBuffer()))
}
