package board

// FeatureAccumulator lets a Position drive an external NNUE evaluator's
// incremental feature updates from inside Make/Unmake, satisfying spec
// §4.6 step 9 ("call into the NNUE accumulator with the corresponding
// feature-index add/remove operations") and the §9 redesign note that the
// accumulator be "owned and updated alongside" the position rather than
// left as free-standing global state.
//
// internal/nnue already imports internal/board (it reads Position fields
// to compute feature indices), so board cannot import nnue back without a
// cycle. Defining the seam here and implementing it in nnue.Evaluator is
// the standard inversion: Position depends only on this interface, never
// on the concrete network/weights types.
//
// A Position whose Accum is nil behaves exactly as before (e.g. perft runs
// that never attach an evaluator pay no NNUE cost at all).
type FeatureAccumulator interface {
	// Push snapshots accumulator state before a move is applied.
	Push()
	// Pop restores the snapshot taken by the matching Push, undoing
	// whatever Update did.
	Pop()
	// Update applies the incremental (or, on a king move, full-refresh)
	// feature delta for move m just applied to pos, which captured
	// captured (NoPiece if none) on capturedSq (equal to m.To() except for
	// en passant, where it is one rank behind). Called after pos's
	// bitboards, king squares, and occupancy have already been updated,
	// per §5's ordering requirement that a king move's refresh sees the
	// new king square.
	Update(pos *Position, m Move, captured Piece, capturedSq Square)
}

// AttachAccumulator wires an external NNUE evaluator into the position so
// Make/Unmake maintain it automatically. Passing nil detaches it.
func (p *Position) AttachAccumulator(a FeatureAccumulator) {
	p.Accum = a
}
