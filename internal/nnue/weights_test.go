package nnue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeightsSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	net := NewNetwork()
	net.InitRandom(2026)

	require.NoError(t, net.SaveWeights(dir))

	loaded := NewNetwork()
	require.NoError(t, loaded.LoadWeights(dir))

	require.Equal(t, net.L1Weights, loaded.L1Weights)
	require.Equal(t, net.L1Bias, loaded.L1Bias)
	require.Equal(t, net.L2Weights, loaded.L2Weights)
	require.Equal(t, net.L2Bias, loaded.L2Bias)
	require.Equal(t, net.OutputWeights, loaded.OutputWeights)
	require.Equal(t, net.OutputBias, loaded.OutputBias)
}

func TestLoadWeightsMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	net := NewNetwork()
	require.Error(t, net.LoadWeights(dir))
}
