package nnue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chessposcore/chessboard/internal/board"
)

func TestHalfKPIndexFormula(t *testing.T) {
	// feature_index = king_square*640 + piece_offset*64 + piece_square, no
	// mirroring: white's perspective with its king on e1 and a white pawn on
	// e2 should land at e1*640 + 0*64 + e2.
	idx := HalfKPIndex(board.White, board.E1, board.Pawn, board.White, board.E2)
	require.Equal(t, int(board.E1)*640+0*64+int(board.E2), idx)
}

func TestHalfKPIndexOwnOppFlip(t *testing.T) {
	// From black's perspective, a white piece is the "opponent", landing in
	// the [5,9] piece-offset band rather than [0,4].
	idxBlackViewOfWhitePawn := HalfKPIndex(board.Black, board.E8, board.Pawn, board.White, board.E2)
	idxBlackViewOfBlackPawn := HalfKPIndex(board.Black, board.E8, board.Pawn, board.Black, board.E2)

	require.NotEqual(t, idxBlackViewOfWhitePawn, idxBlackViewOfBlackPawn)
	require.Equal(t, idxBlackViewOfBlackPawn+5*64, idxBlackViewOfWhitePawn)
}

func TestHalfKPIndexRejectsKing(t *testing.T) {
	require.Equal(t, -1, HalfKPIndex(board.White, board.E1, board.King, board.White, board.E2))
}

func TestGetActiveFeaturesBounds(t *testing.T) {
	pos := board.NewPosition()
	white, black := GetActiveFeatures(pos)

	require.Len(t, white, 30) // 32 pieces minus the two kings
	require.Len(t, black, 30)
	for _, idx := range white {
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, HalfKPSize)
	}
}

func TestGetChangedFeaturesQuietPawnPush(t *testing.T) {
	pos, err := board.ParseFEN(board.StartFEN)
	require.NoError(t, err)

	m := board.NewDoublePush(board.E2, board.E4)
	pos.Make(m)

	whiteAdd, whiteRem, blackAdd, blackRem := GetChangedFeatures(pos, m, board.NoPiece, board.NoSquare)
	require.Len(t, whiteRem, 1)
	require.Len(t, whiteAdd, 1)
	require.Len(t, blackRem, 1)
	require.Len(t, blackAdd, 1)
}
