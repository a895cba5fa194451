package nnue

import "github.com/chessposcore/chessboard/internal/board"

// PieceIndex maps (PieceType, Color) to a 0-9 index for HalfKP.
// White: P=0, N=1, B=2, R=3, Q=4
// Black: p=5, n=6, b=7, r=8, q=9
func PieceIndex(pt board.PieceType, c board.Color) int {
	if pt == board.King || pt > board.Queen {
		return -1 // Kings not included in features
	}
	base := int(pt) // Pawn=0, Knight=1, Bishop=2, Rook=3, Queen=4
	if c == board.Black {
		base += 5
	}
	return base
}

// HalfKPIndex computes the feature index for a piece from a perspective.
// perspective: the side whose perspective we're computing (their king square matters)
// kingSquare: where the perspective's king is located
// pieceType: type of the non-king piece
// pieceColor: color of the non-king piece
// pieceSquare: where the non-king piece is located
func HalfKPIndex(perspective board.Color, kingSquare board.Square,
	pieceType board.PieceType, pieceColor board.Color,
	pieceSquare board.Square) int {

	// No square mirroring: feature_index = king_square*640 + offset*64 + square,
	// applied literally from the perspective's own king square.
	pc := pieceColor
	if perspective == board.Black {
		// own/opp flip only; squares are never mirrored.
		pc = pieceColor.Other()
	}

	pi := PieceIndex(pieceType, pc)
	if pi < 0 {
		return -1 // Invalid (king or invalid piece type)
	}

	return int(kingSquare)*(NumPieceTypes*NumPieceSquares) + pi*NumPieceSquares + int(pieceSquare)
}

// GetActiveFeatures returns all active feature indices for a position from both perspectives.
func GetActiveFeatures(pos *board.Position) (white, black []int) {
	white = make([]int, 0, 32) // Typical piece count
	black = make([]int, 0, 32)

	whiteKingSq := pos.KingSquare[board.White]
	blackKingSq := pos.KingSquare[board.Black]

	// Iterate all pieces except kings
	for color := board.White; color <= board.Black; color++ {
		for pt := board.Pawn; pt < board.King; pt++ {
			pieces := pos.Pieces[color][pt]
			for pieces != 0 {
				sq := pieces.PopLSB()

				// White's perspective
				idx := HalfKPIndex(board.White, whiteKingSq, pt, color, sq)
				if idx >= 0 && idx < HalfKPSize {
					white = append(white, idx)
				}

				// Black's perspective
				idx = HalfKPIndex(board.Black, blackKingSq, pt, color, sq)
				if idx >= 0 && idx < HalfKPSize {
					black = append(black, idx)
				}
			}
		}
	}

	return white, black
}

// GetChangedFeatures returns features that need to be added/removed for a move.
// This is used for incremental accumulator updates. capturedSq is the square
// the captured piece actually sat on — equal to m.To() except for en passant,
// where it is one rank behind. Passed explicitly rather than re-derived from
// pos.EnPassant, since pos here is the position AFTER Make has already
// overwritten the en-passant target with this move's own.
// Returns: (whiteAdded, whiteRemoved, blackAdded, blackRemoved)
func GetChangedFeatures(pos *board.Position, m board.Move, captured board.Piece, capturedSq board.Square) (
	whiteAdd, whiteRem, blackAdd, blackRem []int) {

	whiteKingSq := pos.KingSquare[board.White]
	blackKingSq := pos.KingSquare[board.Black]

	from := m.From()
	to := m.To()
	movedPiece := pos.PieceAt(to) // Piece after move was made

	if movedPiece == board.NoPiece {
		return // Invalid state
	}

	movingPT := movedPiece.Type()
	movingColor := movedPiece.Color()

	// A king move changes its own perspective's king square, so that side
	// needs a full refresh rather than a feature delta -- the king itself
	// isn't a tracked feature (PieceIndex excludes it), but every other
	// feature's index is keyed on the king square and must be recomputed.
	// The other perspective's king hasn't moved, though, so it still only
	// needs the ordinary capture-removal / castling-rook-move delta; compute
	// that here and let the caller skip the moving side's add/remove pass.
	if movingPT == board.King {
		return kingMoveOtherSideFeatures(pos, m, captured, capturedSq, movingColor, whiteKingSq, blackKingSq)
	}

	// Remove feature for piece at old square (from)
	idxW := HalfKPIndex(board.White, whiteKingSq, movingPT, movingColor, from)
	idxB := HalfKPIndex(board.Black, blackKingSq, movingPT, movingColor, from)
	if idxW >= 0 && idxW < HalfKPSize {
		whiteRem = append(whiteRem, idxW)
	}
	if idxB >= 0 && idxB < HalfKPSize {
		blackRem = append(blackRem, idxB)
	}

	// Add feature for piece at new square (to)
	// Handle promotion: use promoted piece type
	addPT := movingPT
	if m.IsPromotion() {
		addPT = m.Promotion()
	}

	idxW = HalfKPIndex(board.White, whiteKingSq, addPT, movingColor, to)
	idxB = HalfKPIndex(board.Black, blackKingSq, addPT, movingColor, to)
	if idxW >= 0 && idxW < HalfKPSize {
		whiteAdd = append(whiteAdd, idxW)
	}
	if idxB >= 0 && idxB < HalfKPSize {
		blackAdd = append(blackAdd, idxB)
	}

	// Handle capture
	if captured != board.NoPiece && captured.Type() != board.King {
		capturedPT := captured.Type()
		capturedColor := captured.Color()

		idxW = HalfKPIndex(board.White, whiteKingSq, capturedPT, capturedColor, capturedSq)
		idxB = HalfKPIndex(board.Black, blackKingSq, capturedPT, capturedColor, capturedSq)
		if idxW >= 0 && idxW < HalfKPSize {
			whiteRem = append(whiteRem, idxW)
		}
		if idxB >= 0 && idxB < HalfKPSize {
			blackRem = append(blackRem, idxB)
		}
	}

	return
}

// kingMoveOtherSideFeatures computes the feature delta a king move still
// causes for the perspective whose own king didn't move: a capture removes
// the captured piece's feature, and castling moves the rook's feature from
// its old square to its new one. The mover's own perspective is refreshed
// wholesale by the caller instead, since every one of its feature indices is
// keyed on the king square that just changed.
func kingMoveOtherSideFeatures(pos *board.Position, m board.Move, captured board.Piece, capturedSq board.Square,
	movingColor board.Color, whiteKingSq, blackKingSq board.Square) (
	whiteAdd, whiteRem, blackAdd, blackRem []int) {

	other := movingColor.Other()
	otherKingSq := whiteKingSq
	remSlot, addSlot := &whiteRem, &whiteAdd
	if other == board.Black {
		otherKingSq = blackKingSq
		remSlot, addSlot = &blackRem, &blackAdd
	}

	addIdx := func(slot *[]int, pt board.PieceType, c board.Color, sq board.Square) {
		idx := HalfKPIndex(other, otherKingSq, pt, c, sq)
		if idx >= 0 && idx < HalfKPSize {
			*slot = append(*slot, idx)
		}
	}

	if captured != board.NoPiece && captured.Type() != board.King {
		addIdx(remSlot, captured.Type(), captured.Color(), capturedSq)
	}

	if m.IsCastling() {
		rookFrom, rookTo := board.CastlingRookSquares(m)
		addIdx(remSlot, board.Rook, movingColor, rookFrom)
		addIdx(addSlot, board.Rook, movingColor, rookTo)
	}

	return
}
