package nnue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chessposcore/chessboard/internal/board"
)

func TestEvaluateFailsWithoutLoadedModel(t *testing.T) {
	evaluator, err := NewEvaluator("")
	require.NoError(t, err)

	pos, err := board.ParseFEN(board.StartFEN)
	require.NoError(t, err)

	_, err = evaluator.Evaluate(pos)
	require.Error(t, err)
}

func TestEvaluateSucceedsWithLoadedModel(t *testing.T) {
	dir := t.TempDir()
	net := NewNetwork()
	net.InitRandom(321)
	require.NoError(t, net.SaveWeights(dir))

	evaluator, err := NewEvaluator(dir)
	require.NoError(t, err)

	pos, err := board.ParseFEN(board.StartFEN)
	require.NoError(t, err)
	pos.AttachAccumulator(evaluator)
	evaluator.Refresh(pos)

	_, err = evaluator.Evaluate(pos)
	require.NoError(t, err)
}
