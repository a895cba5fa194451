package board

// pieceKind identifies one (color, piece type) attack cache slot.
type pieceKind struct {
	c  Color
	pt PieceType
}

// refreshAttacksFor recomputes p.AttacksBy[c][pt] from scratch, using the
// position's current occupancy.
func (p *Position) refreshAttacksFor(c Color, pt PieceType) {
	var attacks Bitboard
	pieces := p.Pieces[c][pt]
	switch pt {
	case Pawn:
		for pieces != 0 {
			attacks |= pawnAttacks[c][pieces.PopLSB()]
		}
	case Knight:
		for pieces != 0 {
			attacks |= knightAttacks[pieces.PopLSB()]
		}
	case Bishop:
		for pieces != 0 {
			attacks |= BishopAttacks(pieces.PopLSB(), p.AllOccupied)
		}
	case Rook:
		for pieces != 0 {
			attacks |= RookAttacks(pieces.PopLSB(), p.AllOccupied)
		}
	case Queen:
		for pieces != 0 {
			attacks |= QueenAttacks(pieces.PopLSB(), p.AllOccupied)
		}
	case King:
		for pieces != 0 {
			attacks |= kingAttacks[pieces.PopLSB()]
		}
	}
	p.AttacksBy[c][pt] = attacks
}

// refreshAttacksByAll rebuilds AttacksByAll from the per-kind caches.
func (p *Position) refreshAttacksByAll() {
	for c := White; c <= Black; c++ {
		var all Bitboard
		for pt := Pawn; pt <= King; pt++ {
			all |= p.AttacksBy[c][pt]
		}
		p.AttacksByAll[c] = all
	}
}

// refreshAllAttacks rebuilds every per-kind cache and AttacksByAll from
// scratch. Used on position construction.
func (p *Position) refreshAllAttacks() {
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			p.refreshAttacksFor(c, pt)
		}
	}
	p.refreshAttacksByAll()
}

// updateAttackCaches selectively refreshes the per-(color,kind) attack
// caches after a move, per spec §4.4's incremental-maintenance contract.
//
// forced names the (color,kind) slots that must be recomputed regardless
// of rays: the piece kind that moved, its resulting kind on promotion, and
// any captured piece's kind. changed is the {origin,destination,captured
// square} bitboard; any OTHER slider cache whose OLD attack bitboard
// intersects changed is also recomputed, since a piece moving through a
// slider's ray can open or close it without the slider itself moving.
func (p *Position) updateAttackCaches(changed Bitboard, forced []pieceKind) {
	dirty := make(map[pieceKind]bool, len(forced)+4)
	for _, k := range forced {
		dirty[k] = true
	}

	for c := White; c <= Black; c++ {
		for pt := Bishop; pt <= Queen; pt++ {
			if p.AttacksBy[c][pt]&changed != 0 {
				dirty[pieceKind{c, pt}] = true
			}
		}
	}

	for k := range dirty {
		p.refreshAttacksFor(k.c, k.pt)
	}
	p.refreshAttacksByAll()
}
