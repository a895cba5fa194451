package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckmate(t *testing.T) {
	// Back-rank mate: Black king on h8 boxed in by its own pawns, white
	// rook delivering check along the 8th rank.
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	require.NoError(t, err)

	pos.ensurePinsAndChecks()
	require.True(t, pos.InCheck())
	require.Equal(t, 1, pos.NumChecks())
	require.False(t, pos.HasLegalMoves())
	require.True(t, pos.IsCheckmate())
	require.False(t, pos.IsStalemate())
}

func TestNotCheckmate(t *testing.T) {
	// King can capture the checking rook: not checkmate.
	pos, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	require.NoError(t, err)

	pos.ensurePinsAndChecks()
	require.True(t, pos.InCheck())

	moves := pos.GenerateAllLegal()
	require.Greater(t, moves.Len(), 0)
	require.False(t, pos.IsCheckmate())
}

func TestInCheckIsFreshImmediatelyAfterMake(t *testing.T) {
	// Fool's mate: after 1.f3 e5 2.g4 Qh4#, white is in checkmate the
	// instant Make(Qh4) returns, with no intervening call to
	// ensurePinsAndChecks/GenerateAllLegal to force a recompute.
	pos, err := ParseFEN(StartFEN)
	require.NoError(t, err)

	pos.Make(NewMove(F2, F3))
	pos.Make(NewDoublePush(E7, E5))
	pos.Make(NewDoublePush(G2, G4))
	pos.Make(NewMove(D8, H4))

	require.True(t, pos.InCheck())
	require.True(t, pos.IsCheckmate())
}

func TestStalemate(t *testing.T) {
	// Classic stalemate: black king on h8, not in check, no legal moves.
	pos, err := ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)

	pos.ensurePinsAndChecks()
	require.False(t, pos.InCheck())
	require.True(t, pos.IsStalemate())
	require.True(t, pos.IsDraw())
}
