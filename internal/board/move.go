package board

import "fmt"

// Move encodes a chess move in 16 bits:
//
//	bits 0-5:   origin square (0-63)
//	bits 6-11:  destination square (0-63)
//	bits 12-15: flags
//	  0000       quiet move, ordinary capture, or en-passant capture
//	             (en passant is detected contextually: a pawn move whose
//	             destination equals the position's current EnPassant square)
//	  01pp       promotion, pp in {00=Knight, 01=Bishop, 10=Rook, 11=Queen},
//	             or one of the four castling moves below (pp=00 collides
//	             bit-for-bit with a knight promotion; castling moves are
//	             never ambiguous in practice since no promotion starts
//	             on e1 or e8, but castling detection here still goes
//	             through the literal constants for certainty)
//	  1000       double pawn push (sets the en-passant target)
//
// The four castling encodings are fixed literals preserved bit-exactly
// across ports because tests compare raw values.
type Move uint16

const (
	flagQuiet      uint16 = 0 << 14
	flagPromotion  uint16 = 1 << 14
	flagDoublePush uint16 = 2 << 14
)

const promoPieceMask uint16 = 0x3000

// NoMove represents an invalid or null move.
const NoMove Move = 0

// Canonical castling encodings. Bit-exact across ports; do not derive these
// from NewCastling at runtime in a way that could drift.
const (
	CastleWhiteKingside  Move = 16772
	CastleWhiteQueenside Move = 16516
	CastleBlackKingside  Move = 20412
	CastleBlackQueenside Move = 20156
)

// NewMove creates a quiet move or ordinary capture.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(flagQuiet)
}

// NewDoublePush creates a double pawn push, which sets the en-passant target.
func NewDoublePush(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(flagDoublePush)
}

// NewPromotion creates a promotion move. promo must be Knight, Bishop, Rook or Queen.
func NewPromotion(from, to Square, promo PieceType) Move {
	pp := Move(promo - Knight)
	return Move(from) | Move(to)<<6 | pp<<12 | Move(flagPromotion)
}

// NewCastling returns the canonical castling move for a king moving from->to.
// from/to must be one of the four legal king castling hops.
func NewCastling(from, to Square) Move {
	switch {
	case from == E1 && to == G1:
		return CastleWhiteKingside
	case from == E1 && to == C1:
		return CastleWhiteQueenside
	case from == E8 && to == G8:
		return CastleBlackKingside
	case from == E8 && to == C8:
		return CastleBlackQueenside
	default:
		return NoMove
	}
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

func (m Move) flagGroup() uint16 {
	return uint16(m) & 0xC000
}

// IsCastling returns true if this move is one of the four canonical castling moves.
func (m Move) IsCastling() bool {
	return m == CastleWhiteKingside || m == CastleWhiteQueenside ||
		m == CastleBlackKingside || m == CastleBlackQueenside
}

// IsPromotion returns true if this is a pawn promotion (never true for castling,
// even though castling shares the same flag group bit-for-bit).
func (m Move) IsPromotion() bool {
	return m.flagGroup() == flagPromotion && !m.IsCastling()
}

// IsDoublePush returns true if this is a two-square pawn push.
func (m Move) IsDoublePush() bool {
	return m.flagGroup() == flagDoublePush
}

// Promotion returns the promotion piece type; only meaningful if IsPromotion().
func (m Move) Promotion() PieceType {
	return Knight + PieceType((uint16(m)&promoPieceMask)>>12)
}

// IsEnPassant reports whether m is an en-passant capture given the position
// it is about to be applied to. Not encoded in the move itself: per the
// make/unmake contract, it is detected contextually (pawn moving to the
// position's current en-passant target).
func (m Move) IsEnPassant(pos *Position) bool {
	if pos.EnPassant == 0 || m.To() != pos.EnPassant {
		return false
	}
	piece := pos.PieceAt(m.From())
	return piece.Type() == Pawn
}

// IsCapture reports whether m captures a piece in pos (before the move is applied).
func (m Move) IsCapture(pos *Position) bool {
	if m.IsEnPassant(pos) {
		return true
	}
	return !pos.IsEmpty(m.To())
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		promoChars := []byte{'n', 'b', 'r', 'q'}
		s += string(promoChars[m.Promotion()-Knight])
	}
	return s
}

// ParseMove parses a UCI format move string against pos to recover flags
// that aren't present in the string (double push, castling).
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}
	pt := piece.Type()

	if pt == King && absInt(int(to)-int(from)) == 2 {
		return NewCastling(from, to), nil
	}
	if pt == Pawn && absInt(int(to)-int(from)) == 16 {
		return NewDoublePush(from, to), nil
	}
	return NewMove(from, to), nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set sets the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list without releasing its backing array.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list's array.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
