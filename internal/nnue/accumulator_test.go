package nnue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chessposcore/chessboard/internal/board"
)

func TestAddRemoveFeatureRoundTrip(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(7)

	acc := &Accumulator{}
	copy(acc.White[:], net.L1Bias[:])
	before := acc.White

	acc.AddFeature(board.White, 1234, net)
	require.NotEqual(t, before, acc.White)

	acc.RemoveFeature(board.White, 1234, net)
	require.Equal(t, before, acc.White)
}

func TestComputeFullMatchesRefreshBothSides(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(11)
	pos := board.NewPosition()

	full := &Accumulator{}
	full.ComputeFull(pos, net)

	piecewise := &Accumulator{}
	piecewise.RefreshWhiteSide(pos, net)
	piecewise.RefreshBlackSide(pos, net)

	require.Equal(t, full.White, piecewise.White)
	require.Equal(t, full.Black, piecewise.Black)
}

func TestUpdateIncrementalMatchesComputeFull(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(42)

	pos, err := board.ParseFEN(board.StartFEN)
	require.NoError(t, err)

	acc := &Accumulator{}
	acc.ComputeFull(pos, net)

	m := board.NewDoublePush(board.E2, board.E4)
	pos.Make(m)
	acc.UpdateIncremental(pos, m, board.NoPiece, board.NoSquare, net)

	want := &Accumulator{}
	want.ComputeFull(pos, net)

	require.Equal(t, want.White, acc.White)
	require.Equal(t, want.Black, acc.Black)
}

func TestUpdateIncrementalMatchesComputeFullOnEnPassant(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(123)

	// White pawn on e5, black just double-pushed d7-d5: e5xd6 en passant is
	// legal. The captured black pawn sits on d5, one rank behind the
	// destination square d6 the capturing pawn lands on.
	pos, err := board.ParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	require.NoError(t, err)

	acc := &Accumulator{}
	acc.ComputeFull(pos, net)

	m := board.NewMove(board.E5, board.D6)
	pos.Make(m)
	acc.UpdateIncremental(pos, m, board.NewPiece(board.Pawn, board.Black), board.D5, net)

	want := &Accumulator{}
	want.ComputeFull(pos, net)

	require.Equal(t, want.White, acc.White)
	require.Equal(t, want.Black, acc.Black)
}

func TestUpdateIncrementalRefreshesOnKingMove(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(99)

	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	acc := &Accumulator{}
	acc.ComputeFull(pos, net)

	m := board.NewMove(board.E1, board.D1)
	pos.Make(m)
	acc.UpdateIncremental(pos, m, board.NoPiece, board.NoSquare, net)

	want := &Accumulator{}
	want.ComputeFull(pos, net)

	require.Equal(t, want.White, acc.White)
	require.Equal(t, want.Black, acc.Black)
}

func TestUpdateIncrementalKingCaptureUpdatesOtherSide(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(5)

	// White king on e1 captures a black rook sitting undefended on e2.
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	require.NoError(t, err)

	acc := &Accumulator{}
	acc.ComputeFull(pos, net)

	m := board.NewMove(board.E1, board.E2)
	captured := pos.PieceAt(board.E2)
	pos.Make(m)
	acc.UpdateIncremental(pos, m, captured, board.E2, net)

	want := &Accumulator{}
	want.ComputeFull(pos, net)

	require.Equal(t, want.White, acc.White)
	require.Equal(t, want.Black, acc.Black)
}

func TestUpdateIncrementalCastlingUpdatesOtherSide(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(6)

	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	require.NoError(t, err)

	acc := &Accumulator{}
	acc.ComputeFull(pos, net)

	m := board.CastleWhiteKingside
	pos.Make(m)
	acc.UpdateIncremental(pos, m, board.NoPiece, board.NoSquare, net)

	want := &Accumulator{}
	want.ComputeFull(pos, net)

	require.Equal(t, want.White, acc.White)
	require.Equal(t, want.Black, acc.Black)
}

// TestEvaluatorAttachedToPositionTracksMakeUnmake exercises the
// board.FeatureAccumulator wiring end to end: a Position with an Evaluator
// attached via AttachAccumulator maintains a correct accumulator through a
// sequence of ordinary moves, a capture, and unmake, entirely driven by
// Position.Make/Unmake with no direct Evaluator calls from the test.
func TestEvaluatorAttachedToPositionTracksMakeUnmake(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(2024)
	evaluator := &Evaluator{net: net, stack: NewAccumulatorStack()}

	pos, err := board.ParseFEN(board.StartFEN)
	require.NoError(t, err)
	pos.AttachAccumulator(evaluator)
	evaluator.Refresh(pos)

	moves := []board.Move{
		board.NewDoublePush(board.E2, board.E4),
		board.NewDoublePush(board.D7, board.D5),
		board.NewMove(board.E4, board.D5), // pawn capture
	}
	for _, m := range moves {
		pos.Make(m)
	}

	want := &Accumulator{}
	want.ComputeFull(pos, net)
	got := evaluator.stack.Current()
	require.Equal(t, want.White, got.White)
	require.Equal(t, want.Black, got.Black)

	for i := len(moves) - 1; i >= 0; i-- {
		pos.Unmake(moves[i])
	}

	startAcc := &Accumulator{}
	startAcc.ComputeFull(pos, net)
	require.Equal(t, startAcc.White, evaluator.stack.Current().White)
	require.Equal(t, startAcc.Black, evaluator.stack.Current().Black)
}

func TestAccumulatorStackPushPop(t *testing.T) {
	s := NewAccumulatorStack()
	s.Current().White[0] = 42
	s.Current().Computed = true

	s.Push()
	s.Current().White[0] = 7
	require.EqualValues(t, 7, s.Current().White[0])

	s.Pop()
	require.EqualValues(t, 42, s.Current().White[0])
}
