package board

import "fmt"

// MaxPly bounds the fixed-capacity undo stack (spec §3). 256 plies covers
// any game length a perft run or search will reach; make() panics rather
// than growing the stack if it is ever exceeded, per §7's treatment of
// stack misuse as a programming error.
const MaxPly = 256

// undoEntry captures everything make() mutates that unmake() must restore.
// The undo stack is a fixed array of these structs, one per ply (an
// array of structs, not a struct of parallel per-field arrays), rather
// than the teacher's single most-recent-move UndoInfo.
type undoEntry struct {
	Move           Move
	CapturedPiece  Piece
	CapturedSquare Square // where CapturedPiece sat; differs from Move.To() only for en passant
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	PawnKey        uint64

	pins       pinState
	checks     checkState
	pinsValid  bool
	wasInCheck bool

	AttacksBy    [2][6]Bitboard
	AttacksByAll [2]Bitboard
}

type undoStack struct {
	entries [MaxPly]undoEntry
	top     int
}

// Make applies m to the position, per spec §4.6's ten-step protocol:
// snapshot undo state, update castling rights, handle capture (incl. en
// passant), move the piece (incl. promotion and the castling rook hop),
// update the en-passant target, update Zobrist hashes, refresh attack
// caches, invalidate pins/checks, and toggle the side to move.
func (p *Position) Make(m Move) {
	if p.undo.top >= MaxPly {
		panic(fmt.Sprintf("board: undo stack overflow at ply %d", p.undo.top))
	}

	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()

	entry := &p.undo.entries[p.undo.top]
	entry.Move = m
	entry.CastlingRights = p.CastlingRights
	entry.EnPassant = p.EnPassant
	entry.HalfMoveClock = p.HalfMoveClock
	entry.Hash = p.Hash
	entry.PawnKey = p.PawnKey
	entry.pins = p.pins
	entry.checks = p.checks
	entry.pinsValid = p.pinsValid
	entry.wasInCheck = p.inCheck
	entry.AttacksBy = p.AttacksBy
	entry.AttacksByAll = p.AttacksByAll
	p.undo.top++

	if p.Accum != nil {
		p.Accum.Push()
	}

	movingPiece := p.PieceAt(from)
	movingType := movingPiece.Type()
	isEnPassant := m.IsEnPassant(p)
	isCastle := m.IsCastling()

	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != 0 {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	var captured Piece = NoPiece
	var capturedSq Square
	if isEnPassant {
		if us == White {
			capturedSq = to - 8
		} else {
			capturedSq = to + 8
		}
		captured = p.removePiece(capturedSq)
	} else if !isCastle {
		capturedSq = to
		captured = p.PieceAt(to)
		if captured != NoPiece {
			p.removePiece(capturedSq)
		}
	}
	entry.CapturedPiece = captured
	entry.CapturedSquare = capturedSq

	if captured != NoPiece {
		p.Hash ^= zobristPiece[captured.Color()][captured.Type()][capturedSq]
		if captured.Type() == Pawn {
			p.PawnKey ^= zobristPiece[captured.Color()][Pawn][capturedSq]
		}
	}

	p.updateCastlingRights(from, to, movingType)

	if isCastle {
		p.movePiece(from, to)
		p.Hash ^= zobristPiece[us][King][from] ^ zobristPiece[us][King][to]
		rookFrom, rookTo := castlingRookSquares(m)
		p.movePiece(rookFrom, rookTo)
		p.Hash ^= zobristPiece[us][Rook][rookFrom] ^ zobristPiece[us][Rook][rookTo]
	} else if m.IsPromotion() {
		p.removePiece(from)
		promo := m.Promotion()
		p.setPiece(NewPiece(promo, us), to)
		p.Hash ^= zobristPiece[us][Pawn][from] ^ zobristPiece[us][promo][to]
		p.PawnKey ^= zobristPiece[us][Pawn][from]
	} else {
		p.movePiece(from, to)
		p.Hash ^= zobristPiece[us][movingType][from] ^ zobristPiece[us][movingType][to]
		if movingType == Pawn {
			p.PawnKey ^= zobristPiece[us][Pawn][from] ^ zobristPiece[us][Pawn][to]
		}
	}

	if m.IsDoublePush() {
		if us == White {
			p.EnPassant = from + 8
		} else {
			p.EnPassant = from - 8
		}
	} else {
		p.EnPassant = 0
	}

	if movingType == Pawn || captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}

	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != 0 {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.Hash ^= zobristSideToMove

	changed := SquareBB(from) | SquareBB(to)
	if isEnPassant {
		changed |= SquareBB(capturedSq)
	}
	forced := []pieceKind{{us, movingType}}
	if m.IsPromotion() {
		forced = append(forced, pieceKind{us, m.Promotion()})
	}
	if isCastle {
		forced = append(forced, pieceKind{us, Rook})
	}
	if captured != NoPiece {
		forced = append(forced, pieceKind{them, captured.Type()})
	}
	p.updateAttackCaches(changed, forced)

	// The side about to move (them) is in check iff the side that just moved
	// (us) now attacks its king. AttacksByAll[us] is already current from the
	// call above, so this stays true to InCheck's "backed by the
	// incrementally-maintained AttacksByAll cache" contract instead of
	// leaving inCheck stale until the next pin/check scan.
	p.inCheck = p.AttacksByAll[us]&SquareBB(p.KingSquare[them]) != 0

	if p.Accum != nil {
		// King squares and piece placement are already current, satisfying
		// §5's ordering requirement that a king-move refresh sees the new
		// king square.
		p.Accum.Update(p, m, captured, capturedSq)
	}

	p.SideToMove = them
	p.pins = pinState{}
	p.checks = checkState{}
	p.pinsValid = false
	p.Ply++
}

// Unmake reverses the most recent Make call. m must be the same move most
// recently passed to Make; calling Unmake out of order or on a position
// with an empty undo stack is a programming error handled per §7 via panic.
func (p *Position) Unmake(m Move) {
	if p.undo.top == 0 {
		panic("board: unmake called with empty undo stack")
	}
	p.undo.top--
	entry := &p.undo.entries[p.undo.top]
	if entry.Move != m {
		panic(fmt.Sprintf("board: unmake move mismatch: expected %v, got %v", entry.Move, m))
	}

	them := p.SideToMove
	us := them.Other()
	from, to := m.From(), m.To()

	if m.IsCastling() {
		p.movePiece(to, from)
		rookFrom, rookTo := castlingRookSquares(m)
		p.movePiece(rookTo, rookFrom)
	} else if m.IsPromotion() {
		p.removePiece(to)
		p.setPiece(NewPiece(Pawn, us), from)
	} else {
		p.movePiece(to, from)
	}

	if entry.CapturedPiece != NoPiece {
		p.setPiece(entry.CapturedPiece, entry.CapturedSquare)
	}

	p.CastlingRights = entry.CastlingRights
	p.EnPassant = entry.EnPassant
	p.HalfMoveClock = entry.HalfMoveClock
	p.Hash = entry.Hash
	p.PawnKey = entry.PawnKey
	p.pins = entry.pins
	p.checks = entry.checks
	p.pinsValid = entry.pinsValid
	p.inCheck = entry.wasInCheck
	p.AttacksBy = entry.AttacksBy
	p.AttacksByAll = entry.AttacksByAll

	if p.Accum != nil {
		p.Accum.Pop()
	}

	if us == Black {
		p.FullMoveNumber--
	}
	p.SideToMove = us
	p.Ply--
}

// CastlingRookSquares returns the rook's (from, to) squares for a castling
// move, or (NoSquare, NoSquare) if m isn't one of the four castling moves.
// Exported for callers (e.g. the NNUE feature layer) that need to track the
// rook's displacement alongside the king's.
func CastlingRookSquares(m Move) (Square, Square) {
	return castlingRookSquares(m)
}

// castlingRookSquares returns the rook's (from, to) squares for a
// castling move.
func castlingRookSquares(m Move) (Square, Square) {
	switch m {
	case CastleWhiteKingside:
		return H1, F1
	case CastleWhiteQueenside:
		return A1, D1
	case CastleBlackKingside:
		return H8, F8
	case CastleBlackQueenside:
		return A8, D8
	}
	return NoSquare, NoSquare
}

// updateCastlingRights clears rights when a king or rook moves, or when a
// rook's home square is captured on.
func (p *Position) updateCastlingRights(from, to Square, movingType PieceType) {
	if movingType == King {
		if p.SideToMove == White {
			p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	clearIfCorner := func(sq Square) {
		switch sq {
		case A1:
			p.CastlingRights &^= WhiteQueenSideCastle
		case H1:
			p.CastlingRights &^= WhiteKingSideCastle
		case A8:
			p.CastlingRights &^= BlackQueenSideCastle
		case H8:
			p.CastlingRights &^= BlackKingSideCastle
		}
	}
	clearIfCorner(from)
	clearIfCorner(to)
}
