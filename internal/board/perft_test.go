package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func runPerftCases(t *testing.T, pos *Position, cases []struct {
	depth    int
	expected uint64
}) {
	for _, tc := range cases {
		got := Perft(pos.Copy(), tc.depth)
		require.Equalf(t, tc.expected, got, "perft(%d)", tc.depth)
	}
}

func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()
	runPerftCases(t, pos, []struct {
		depth    int
		expected uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		{5, 4865609},
	})
}

// TestPerftKiwipete exercises castling, promotion, and en passant together.
// FEN: r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -
func TestPerftKiwipete(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	require.NoError(t, err)

	runPerftCases(t, pos, []struct {
		depth    int
		expected uint64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
		{4, 4085603},
	})
}

// TestPerftPosition3 is a sparse king/pawn/rook position stressing en passant.
// FEN: 8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -
func TestPerftPosition3(t *testing.T) {
	pos, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -")
	require.NoError(t, err)

	runPerftCases(t, pos, []struct {
		depth    int
		expected uint64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
		{5, 674624},
	})
}

// TestPerftEnPassantPin exercises the horizontal-pin en passant edge case:
// a black pawn capturing en passant would expose its own king to a rook on
// the same rank, so the capture must not appear among legal moves.
// FEN: 8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1
func TestPerftEnPassantPin(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	require.NoError(t, err)

	moves := pos.GenerateAllLegal()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		require.Falsef(t, m.IsEnPassant(pos), "en passant move %v should be illegal (horizontal pin)", m)
	}

	runPerftCases(t, pos, []struct {
		depth    int
		expected uint64
	}{
		{1, 6},
		{2, 94},
	})
}

// TestPerftCastlingThroughAttack verifies castling is rejected when the
// king's transit or destination square is attacked, even though the king's
// origin square itself is not.
// FEN: r3k2r/8/8/8/8/5r2/8/R3K2R w KQkq - 0 1
// The black rook on f3 does not check the white king but controls the
// f-file down to f1, so kingside castling would pass through an attacked
// square.
func TestPerftCastlingThroughAttack(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/5r2/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	moves := pos.GenerateAllLegal()
	for i := 0; i < moves.Len(); i++ {
		require.NotEqual(t, CastleWhiteKingside, moves.Get(i),
			"white should not be able to castle kingside through an attacked f1")
	}
}

// TestPerftPromotionWithCapture exercises promotion (including
// capture-promotion) alongside an already-underpromoted knight.
// FEN: rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8
func TestPerftPromotionWithCapture(t *testing.T) {
	pos, err := ParseFEN("rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8")
	require.NoError(t, err)

	runPerftCases(t, pos, []struct {
		depth    int
		expected uint64
	}{
		{1, 44},
		{2, 1486},
		{3, 62379},
	})
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	require.NoError(t, err)

	before := *pos
	moves := pos.GenerateAllLegal()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		pos.Make(m)
		pos.Unmake(m)
		require.Equal(t, before.Hash, pos.Hash, "hash mismatch after make/unmake of %v", m)
		require.Equal(t, before.AllOccupied, pos.AllOccupied, "occupancy mismatch after make/unmake of %v", m)
		require.Equal(t, before.CastlingRights, pos.CastlingRights)
		require.Equal(t, before.EnPassant, pos.EnPassant)
	}
}

func TestZobristIncrementalMatchesRebuild(t *testing.T) {
	pos := NewPosition()
	moves := pos.GenerateAllLegal()
	require.Greater(t, moves.Len(), 0)

	m := moves.Get(0)
	pos.Make(m)
	require.Equal(t, pos.ComputeHash(), pos.Hash)
}

func TestNoDuplicateMoves(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	require.NoError(t, err)

	moves := pos.GenerateAllLegal()
	seen := make(map[Move]bool)
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		require.Falsef(t, seen[m], "duplicate move %v", m)
		seen[m] = true
	}
}

func TestPinsAndChecksInvariants(t *testing.T) {
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	require.NoError(t, err)

	pos.ensurePinsAndChecks()
	require.Equal(t, pos.pins.StraightPins|pos.pins.DiagonalPins, pos.AllPins())
	require.Equal(t, pos.checks.NumChecks, pos.checks.allCheckers().PopCount())
}

func TestUnmakeStackUnderflowPanics(t *testing.T) {
	pos := NewPosition()
	require.Panics(t, func() {
		pos.Unmake(NewMove(E2, E4))
	})
}

func TestMakeStackOverflowPanics(t *testing.T) {
	pos := NewPosition()
	pos.undo.top = MaxPly
	require.Panics(t, func() {
		pos.Make(NewMove(E2, E4))
	})
}
