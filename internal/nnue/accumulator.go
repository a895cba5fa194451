package nnue

import "github.com/chessposcore/chessboard/internal/board"

// stackCapacity is the root entry plus one entry per board.MaxPly ply, so
// the accumulator stack never falls out of sync with the position's own
// undo stack under Push/Pop.
const stackCapacity = board.MaxPly + 1

// Accumulator stores the accumulated hidden layer values for incremental updates.
// Each side has its own accumulator from its perspective.
type Accumulator struct {
	// Hidden layer values for white and black perspectives
	// Stored as int16 for quantized arithmetic
	White [L1Size]int16
	Black [L1Size]int16

	// Track if accumulator is computed
	Computed bool
}

// AccumulatorStack manages accumulators during search.
type AccumulatorStack struct {
	stack [stackCapacity]Accumulator // root plus one per ply, mirrors the position's undo stack
	top   int
}

// NewAccumulatorStack creates a new accumulator stack.
func NewAccumulatorStack() *AccumulatorStack {
	return &AccumulatorStack{}
}

// Push saves current accumulator state.
func (s *AccumulatorStack) Push() {
	if s.top < stackCapacity-1 {
		s.stack[s.top+1] = s.stack[s.top]
		s.top++
	}
}

// Pop restores previous accumulator state.
func (s *AccumulatorStack) Pop() {
	if s.top > 0 {
		s.top--
	}
}

// Current returns the current accumulator.
func (s *AccumulatorStack) Current() *Accumulator {
	return &s.stack[s.top]
}

// Reset resets the stack to initial state.
func (s *AccumulatorStack) Reset() {
	s.top = 0
	s.stack[0].Computed = false
}

// AddFeature adds a HalfKP feature's weight column to the given
// perspective's half of the accumulator. Named per spec §4.7's
// add_feature operation (grounded on original_source's
// addOnWhiteInput/addOnBlackInput).
func (acc *Accumulator) AddFeature(perspective board.Color, idx int, net *Network) {
	if idx < 0 || idx >= HalfKPSize {
		return
	}
	side := acc.sideFor(perspective)
	for i := 0; i < L1Size; i++ {
		side[i] += net.L1Weights[idx][i]
	}
}

// RemoveFeature subtracts a HalfKP feature's weight column, the inverse of
// AddFeature (remove_feature in spec §4.7).
func (acc *Accumulator) RemoveFeature(perspective board.Color, idx int, net *Network) {
	if idx < 0 || idx >= HalfKPSize {
		return
	}
	side := acc.sideFor(perspective)
	for i := 0; i < L1Size; i++ {
		side[i] -= net.L1Weights[idx][i]
	}
}

func (acc *Accumulator) sideFor(perspective board.Color) *[L1Size]int16 {
	if perspective == board.White {
		return &acc.White
	}
	return &acc.Black
}

// RefreshWhiteSide recomputes White's half of the accumulator from scratch
// (refresh_white_side in spec §4.7), used when white's king moves.
func (acc *Accumulator) RefreshWhiteSide(pos *board.Position, net *Network) {
	whiteFeatures, _ := GetActiveFeatures(pos)
	copy(acc.White[:], net.L1Bias[:])
	for _, idx := range whiteFeatures {
		acc.AddFeature(board.White, idx, net)
	}
}

// RefreshBlackSide recomputes Black's half of the accumulator from scratch
// (refresh_black_side in spec §4.7), used when black's king moves.
func (acc *Accumulator) RefreshBlackSide(pos *board.Position, net *Network) {
	_, blackFeatures := GetActiveFeatures(pos)
	copy(acc.Black[:], net.L1Bias[:])
	for _, idx := range blackFeatures {
		acc.AddFeature(board.Black, idx, net)
	}
}

// ComputeFull computes both perspectives of the accumulator from scratch
// for a position.
func (acc *Accumulator) ComputeFull(pos *board.Position, net *Network) {
	acc.RefreshWhiteSide(pos, net)
	acc.RefreshBlackSide(pos, net)
	acc.Computed = true
}

// UpdateIncremental updates the accumulator incrementally for a move.
// This is the key efficiency optimization - O(changed pieces) instead of O(all pieces).
// Should be called AFTER the move has been made on the position. capturedSq is
// the square the captured piece sat on (m.To() except for en passant).
func (acc *Accumulator) UpdateIncremental(pos *board.Position, m board.Move, captured board.Piece, capturedSq board.Square, net *Network) {
	if !acc.Computed {
		acc.ComputeFull(pos, net)
		return
	}

	movedPiece := pos.PieceAt(m.To())
	if movedPiece == board.NoPiece {
		// Invalid state, recompute
		acc.Computed = false
		return
	}

	// A king move changes that perspective's own king square, so every one of
	// its feature indices needs recomputing; refresh it wholesale. The other
	// perspective's king hasn't moved, but a capture or castling rook move
	// still changes its features, so fall through to apply that delta below
	// rather than returning -- GetChangedFeatures yields only the other
	// side's delta for a king move, leaving the mover's side empty.
	if movedPiece.Type() == board.King {
		if movedPiece.Color() == board.White {
			acc.RefreshWhiteSide(pos, net)
		} else {
			acc.RefreshBlackSide(pos, net)
		}
	}

	whiteAdd, whiteRem, blackAdd, blackRem := GetChangedFeatures(pos, m, captured, capturedSq)

	for _, idx := range whiteRem {
		acc.RemoveFeature(board.White, idx, net)
	}
	for _, idx := range blackRem {
		acc.RemoveFeature(board.Black, idx, net)
	}
	for _, idx := range whiteAdd {
		acc.AddFeature(board.White, idx, net)
	}
	for _, idx := range blackAdd {
		acc.AddFeature(board.Black, idx, net)
	}
}
