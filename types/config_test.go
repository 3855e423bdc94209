package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, 0.999, c.Gamma)
	assert.Equal(t, 1e-3, c.ActorLR)
	assert.Equal(t, 3e-3, c.CriticLR)
	assert.Equal(t, 0.2, c.ClipEpsilon)
	assert.Equal(t, 0.5, c.MaxGradNorm)
	assert.Equal(t, 10, c.UpdateSteps)
	assert.Equal(t, 0.6, c.Alpha)
	assert.Equal(t, 2000, c.ConvergenceEpisode)
	assert.Equal(t, 4000, c.MaxEpochs)
	assert.Equal(t, 3600, c.TimeBudgetSeconds)
	assert.Equal(t, 30, c.ConvergenceWindow)
}

func TestConfigDerivedSizes(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, 2*3*4, c.BatchSizeFor(3, 4))
	assert.Equal(t, 17, c.HiddenUnitsFor(17))

	c.BatchSize = 16
	c.HiddenUnits = 100
	assert.Equal(t, 16, c.BatchSizeFor(3, 4))
	assert.Equal(t, 100, c.HiddenUnitsFor(17))
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gamma: 0.9\nmemory_size: 3\n"), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.9, c.Gamma)
	assert.Equal(t, 3, c.MemorySize)
	// untouched fields keep their defaults
	assert.Equal(t, 10, c.UpdateSteps)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
