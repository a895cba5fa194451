package board

// setPinsAndChecks recomputes p.pins and p.checks for the side to move
// (spec §4.3). It is the single entry point move generation uses before
// producing legal moves; setPins (below) is the cheaper variant that
// computes pin information only.
//
// Grounded on original_source's setChecksAndPinsBits / setPinsBits split.
func (p *Position) setPinsAndChecks() {
	us := p.SideToMove
	them := us.Other()
	kingSq := p.KingSquare[us]

	p.pins = pinState{}
	p.checks = checkState{}

	// Contact checks: pawns and knights can only ever give a contact check,
	// never a blockable one, so check_rays stays empty for them.
	p.checks.PawnChecks = pawnAttacks[us][kingSq] & p.Pieces[them][Pawn]
	p.checks.KnightChecks = knightAttacks[kingSq] & p.Pieces[them][Knight]

	// Slider checks and pins: walk every ray from the king outward. A
	// candidate slider is only examined if it lies on one of the king's
	// full (unoccupied-board) rays at all -- this is the §4.3 prefilter.
	diagCandidates := (p.Pieces[them][Bishop] | p.Pieces[them][Queen]) & BishopFullRays(kingSq)
	straightCandidates := (p.Pieces[them][Rook] | p.Pieces[them][Queen]) & RookFullRays(kingSq)

	p.scanSliderRays(kingSq, diagCandidates, us, true)
	p.scanSliderRays(kingSq, straightCandidates, us, false)

	p.checks.NumChecks = p.checks.PawnChecks.PopCount() +
		p.checks.KnightChecks.PopCount() +
		p.checks.BishopChecks.PopCount() +
		p.checks.RookChecks.PopCount() +
		p.checks.QueenChecks.PopCount()

	p.inCheck = p.checks.NumChecks > 0
	p.pinsValid = true
}

// scanSliderRays walks from the king toward each ray-aligned enemy slider
// candidate. If nothing but friendly/enemy pieces sit between them and
// exactly one friendly piece sits in between, that piece is pinned. If
// nothing sits between them, the slider gives check.
func (p *Position) scanSliderRays(kingSq Square, candidates Bitboard, us Color, diagonal bool) {
	for candidates != 0 {
		sliderSq := candidates.PopLSB()
		between := Between(kingSq, sliderSq)
		blockers := between & p.AllOccupied

		switch blockers.PopCount() {
		case 0:
			// Nothing between: direct check. check_rays is the set of
			// valid blocker destinations, so it excludes both the king's
			// own square and the slider's square (capturing the slider is
			// handled separately via p.checks.allCheckers()).
			ray := Between(sliderSq, kingSq)
			piece := p.PieceAt(sliderSq)
			if piece.Type() == Queen {
				p.checks.QueenChecks |= SquareBB(sliderSq)
			} else if diagonal {
				p.checks.BishopChecks |= SquareBB(sliderSq)
			} else {
				p.checks.RookChecks |= SquareBB(sliderSq)
			}
			p.checks.CheckRays |= ray
		case 1:
			if p.Occupied[us]&blockers != 0 {
				// Exactly one friendly piece between: it is pinned. The pin
				// bitboard holds both the pinning ray and the pinned piece's
				// own square; the other squares in `between` are necessarily
				// empty (blockers.PopCount() == 1), so widening past the
				// blocker square never misattributes an unrelated piece.
				ray := between | SquareBB(sliderSq)
				if diagonal {
					p.pins.DiagonalPins |= ray
				} else {
					p.pins.StraightPins |= ray
				}
			}
			// A lone enemy piece between blocks its own slider; no pin, no check.
		default:
			// Two or more blockers: ray fully obstructed.
		}
	}
}

// setPins recomputes only p.pins, skipping the check computation. Nothing
// in this package calls it; move generation goes through
// ensurePinsAndChecks.
func (p *Position) setPins() {
	us := p.SideToMove
	them := us.Other()
	kingSq := p.KingSquare[us]

	p.pins = pinState{}

	diagCandidates := (p.Pieces[them][Bishop] | p.Pieces[them][Queen]) & BishopFullRays(kingSq)
	straightCandidates := (p.Pieces[them][Rook] | p.Pieces[them][Queen]) & RookFullRays(kingSq)

	for candidates, diagonal := diagCandidates, true; ; {
		for candidates != 0 {
			sliderSq := candidates.PopLSB()
			between := Between(kingSq, sliderSq)
			blockers := between & p.AllOccupied
			if blockers.PopCount() == 1 && p.Occupied[us]&blockers != 0 {
				ray := between | SquareBB(sliderSq)
				if diagonal {
					p.pins.DiagonalPins |= ray
				} else {
					p.pins.StraightPins |= ray
				}
			}
		}
		if !diagonal {
			break
		}
		candidates, diagonal = straightCandidates, false
	}
}

// AllPins returns the union of straight and diagonal pins for the side to
// move. Valid only after ensurePinsAndChecks or setPins has run.
func (p *Position) AllPins() Bitboard {
	return p.pins.all()
}

// ensurePinsAndChecks lazily (re)computes pin/check state if it was
// invalidated by the most recent make/unmake.
func (p *Position) ensurePinsAndChecks() {
	if !p.pinsValid {
		p.setPinsAndChecks()
	}
}
