package jobshop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	instance, err := ParseInstanceData("sample", []byte(sampleInstance))
	require.NoError(t, err)
	return NewEnv(instance)
}

func TestEnvDims(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, 6, env.StateDim())
	assert.Equal(t, 2, env.ActionDim())
	assert.Equal(t, 2, env.Jobs())
	assert.Equal(t, 2, env.Machines())
	assert.Equal(t, "sample", env.CaseName())
}

func TestEnvReset(t *testing.T) {
	env := newTestEnv(t)
	state, mask, err := env.Reset()
	require.NoError(t, err)
	require.Len(t, state, env.StateDim())
	require.Len(t, mask, env.ActionDim())
	for i, v := range state {
		assert.Zero(t, v, "state entry %d", i)
	}
	for i, v := range mask {
		assert.Zero(t, v, "all jobs feasible at reset, mask entry %d", i)
	}
	assert.Equal(t, 0, env.CurrentTime())
}

func TestEnvDispatchSequence(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.Reset()
	require.NoError(t, err)

	// job0 op0 on machine0: finishes at 3
	_, reward, done, mask, err := env.Step(0)
	require.NoError(t, err)
	assert.Equal(t, -3.0, reward)
	assert.False(t, done)
	assert.Equal(t, 3, env.CurrentTime())
	assert.Equal(t, []float64{0, 0}, mask)

	// job1 op0 on machine1 runs in parallel, makespan unchanged
	_, reward, done, _, err = env.Step(1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, reward)
	assert.False(t, done)
	assert.Equal(t, 3, env.CurrentTime())

	// job0 op1 on machine1 waits for the job: starts at 3, finishes at 5
	_, reward, done, mask, err = env.Step(0)
	require.NoError(t, err)
	assert.Equal(t, -2.0, reward)
	assert.False(t, done)
	assert.Equal(t, 5, env.CurrentTime())
	assert.Equal(t, MaskInfeasible, mask[0], "exhausted job must be masked")

	// job1 op1 on machine0 waits for machine0: starts at 3, finishes at 7
	_, reward, done, _, err = env.Step(1)
	require.NoError(t, err)
	assert.Equal(t, -2.0, reward)
	assert.True(t, done)
	assert.Equal(t, 7, env.CurrentTime())
}

func TestEnvRewardSumsToNegatedMakespan(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.Reset()
	require.NoError(t, err)

	total := 0.0
	for _, action := range []int{1, 1, 0, 0} {
		_, reward, _, _, stepErr := env.Step(action)
		require.NoError(t, stepErr)
		total += reward
	}
	assert.Equal(t, float64(-env.CurrentTime()), total)
}

func TestEnvRejectsBadActions(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.Reset()
	require.NoError(t, err)

	_, _, _, _, err = env.Step(5)
	assert.Error(t, err)

	_, _, _, _, err = env.Step(0)
	require.NoError(t, err)
	_, _, _, _, err = env.Step(0)
	require.NoError(t, err)
	// job0 is exhausted now
	_, _, _, _, err = env.Step(0)
	assert.Error(t, err)
}
