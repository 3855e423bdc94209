package ppo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func TestSelectActionRespectsMask(t *testing.T) {
	actor := NewActor(2, 3, 8, 1e-3, rand.NewSource(13))
	state := []float64{0.5, -0.5}
	mask := []float64{0, -1e8, 0}

	for i := 0; i < 500; i++ {
		action, prob, err := actor.SelectAction(state, mask)
		require.NoError(t, err)
		assert.NotEqual(t, 1, action, "masked-out action was sampled")
		assert.Greater(t, prob, 0.0)
	}
}

func TestSelectActionMaskLengthMismatch(t *testing.T) {
	actor := NewActor(2, 3, 8, 1e-3, rand.NewSource(13))
	_, _, err := actor.SelectAction([]float64{0.5, -0.5}, []float64{0, 0})
	assert.Error(t, err)
}

func TestSoftmaxFloor(t *testing.T) {
	probs := softmaxFloor([]float64{1, 2, -1e8})
	sum := 0.0
	for _, p := range probs {
		assert.Greater(t, p, 0.0, "no probability may be exactly zero")
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	// the masked entry carries negligible mass
	assert.Less(t, probs[2], 1e-10)
}

func TestProbabilitiesRowsSumToOne(t *testing.T) {
	actor := NewActor(3, 4, 8, 1e-3, rand.NewSource(2))
	states := mat.NewDense(2, 3, []float64{0.1, 0.2, 0.3, -0.1, -0.2, -0.3})
	probs := actor.Probabilities(states)

	rows, cols := probs.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 4, cols)
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			assert.Greater(t, probs.At(i, j), 0.0)
			sum += probs.At(i, j)
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}
