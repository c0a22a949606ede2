package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RMahshie/fra-analyzer/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserOptions_NoiseDisabled(t *testing.T) {
	sweep, baseline := parserOptions(100, false, 7)

	assert.Nil(t, sweep.Noise)
	assert.Nil(t, baseline.Noise)
	assert.Equal(t, 100, sweep.MaxPoints)
	assert.Equal(t, 100, baseline.MaxPoints)
}

func TestParserOptions_BaselineGetsOwnJitter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx1.csv")
	require.NoError(t, os.WriteFile(path, []byte("frequency,magnitude,phase\n100,1.0,0\n200,1.0,0\n300,1.0,0\n"), 0o644))

	sweepOpts, baselineOpts := parserOptions(0, true, 7)
	require.NotNil(t, sweepOpts.Noise)
	require.NotNil(t, baselineOpts.Noise)
	assert.NotEqual(t, sweepOpts.Noise.Seed, baselineOpts.Noise.Seed)

	data, err := readSweep(path, "", sweepOpts)
	require.NoError(t, err)
	baseline, err := readSweep(path, "", baselineOpts)
	require.NoError(t, err)

	// The same file read twice must still deviate once noise is applied
	dev := analysis.CompareToBaseline(data, baseline)
	require.NotNil(t, dev)
	assert.Greater(t, *dev, 0.0)
}
