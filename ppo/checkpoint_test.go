package ppo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func TestCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := rand.NewSource(31)
	actor := NewActor(3, 4, 8, 1e-3, src)
	critic := NewCritic(3, 8, 3e-3, src)

	state := []float64{0.2, -0.4, 0.7}
	states := mat.NewDense(1, 3, state)
	wantProbs := mat.Row(nil, 0, actor.Probabilities(states))
	wantValue := critic.Value(state)

	checkpointer := DirCheckpointer{Dir: dir}
	require.NoError(t, checkpointer.Save(actor, critic))

	restoredActor := NewActor(3, 4, 8, 1e-3, rand.NewSource(99))
	restoredCritic := NewCritic(3, 8, 3e-3, rand.NewSource(99))
	require.NoError(t, checkpointer.Load(restoredActor, restoredCritic))

	gotProbs := mat.Row(nil, 0, restoredActor.Probabilities(states))
	assert.Equal(t, wantProbs, gotProbs, "restored action probabilities must be bit-identical")
	assert.Equal(t, wantValue, restoredCritic.Value(state))
}

func TestCheckpointLoadMissingDir(t *testing.T) {
	checkpointer := DirCheckpointer{Dir: t.TempDir() + "/missing"}
	actor := NewActor(2, 2, 4, 1e-3, rand.NewSource(1))
	critic := NewCritic(2, 4, 3e-3, rand.NewSource(1))
	assert.Error(t, checkpointer.Load(actor, critic))
}
