package board

// This file implements legal move generation per spec §4.5: moves are
// filtered to be legal AT GENERATION TIME using pin masks and king-safety
// tests, rather than generated pseudo-legally and filtered afterward by
// trying and reverting each one (contrast the teacher's original
// filterLegalMoves/IsLegal, which this replaces).
//
// Grounded primarily on Bubblyworld-dragontoothmg's GenerateLegalMoves2 /
// countAttacks / kingPushes / kingMoves pattern of excluding the king's own
// square from occupancy before testing destination safety.

// kingIsSafeFromSliders reports whether dest is free of attack for us's
// king, recomputing the full attacker set against dest with the king's
// ORIGIN square removed from occupancy. Removing the king (rather than
// reusing AttacksByAll[them]) is what lets this same helper correctly
// handle both ordinary king moves and king moves away from a checking
// ray: a naive x-ray through the king's old square would otherwise judge
// a square "safe" when it still lies on the checking ray.
func (p *Position) kingIsSafeFromSliders(us Color, dest Square) bool {
	them := us.Other()
	occ := p.AllOccupied &^ SquareBB(p.KingSquare[us])

	if pawnAttacks[us][dest]&p.Pieces[them][Pawn] != 0 {
		return false
	}
	if knightAttacks[dest]&p.Pieces[them][Knight] != 0 {
		return false
	}
	if kingAttacks[dest]&p.Pieces[them][King] != 0 {
		return false
	}
	if BishopAttacks(dest, occ)&(p.Pieces[them][Bishop]|p.Pieces[them][Queen]) != 0 {
		return false
	}
	if RookAttacks(dest, occ)&(p.Pieces[them][Rook]|p.Pieces[them][Queen]) != 0 {
		return false
	}
	return true
}

// GenerateAllLegal returns every legal move for the side to move.
func (p *Position) GenerateAllLegal() *MoveList {
	p.ensurePinsAndChecks()
	list := NewMoveList()

	switch p.checks.NumChecks {
	case 0:
		p.generateNotInCheck(list, false)
	case 1:
		p.generateSingleCheck(list, false)
	default:
		p.generateKingMoves(list, false)
	}
	return list
}

// GenerateLegalCaptures returns every legal capturing move (spec's
// generate_legal_captures), including en-passant and capture-promotions.
func (p *Position) GenerateLegalCaptures() *MoveList {
	p.ensurePinsAndChecks()
	list := NewMoveList()

	switch p.checks.NumChecks {
	case 0:
		p.generateNotInCheck(list, true)
	case 1:
		p.generateSingleCheck(list, true)
	default:
		p.generateKingMoves(list, true)
	}
	return list
}

// QuietMoves returns every legal non-capturing move. Supplemental sibling
// of GenerateLegalCaptures, grounded on original_source's nonCaptureMoves.
func (p *Position) QuietMoves() *MoveList {
	all := p.GenerateAllLegal()
	quiet := NewMoveList()
	for i := 0; i < all.Len(); i++ {
		m := all.Get(i)
		if !m.IsCapture(p) {
			quiet.Add(m)
		}
	}
	return quiet
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	return p.GenerateAllLegal().Len() > 0
}

func (p *Position) generateKingMoves(list *MoveList, capturesOnly bool) {
	us := p.SideToMove
	them := us.Other()
	from := p.KingSquare[us]
	targets := kingAttacks[from] &^ p.Occupied[us]
	if capturesOnly {
		targets &= p.Occupied[them]
	}
	for targets != 0 {
		to := targets.PopLSB()
		if p.kingIsSafeFromSliders(us, to) {
			list.Add(NewMove(from, to))
		}
	}
}

// generateNotInCheck generates every legal move when the side to move is
// not in check: non-king moves are restricted by the Line() pin mask
// (spec §4.3's on_line table, doubling as the uniform pin-restriction
// mechanism for every piece kind), castling is considered, and king moves
// go through kingIsSafeFromSliders.
func (p *Position) generateNotInCheck(list *MoveList, capturesOnly bool) {
	us := p.SideToMove
	them := us.Other()
	kingSq := p.KingSquare[us]
	allPins := p.AllPins()

	targetMask := ^p.Occupied[us]
	if capturesOnly {
		targetMask = p.Occupied[them]
	}

	p.generateKnightMoves(list, targetMask, allPins)
	p.generateSliderMoves(list, Bishop, targetMask, allPins, kingSq)
	p.generateSliderMoves(list, Rook, targetMask, allPins, kingSq)
	p.generateSliderMoves(list, Queen, targetMask, allPins, kingSq)
	p.generatePawnMoves(list, targetMask, allPins, kingSq, capturesOnly)
	p.generateKingMoves(list, capturesOnly)
	if !capturesOnly {
		p.generateCastling(list)
	}
}

// generateSingleCheck generates legal moves when exactly one piece gives
// check: king moves (always available), plus non-king moves that capture
// the checker or block check_rays, still subject to the pin mask.
func (p *Position) generateSingleCheck(list *MoveList, capturesOnly bool) {
	us := p.SideToMove
	kingSq := p.KingSquare[us]
	allPins := p.AllPins()
	checker := p.checks.allCheckers()

	var rescueMask Bitboard
	if capturesOnly {
		rescueMask = checker
	} else {
		rescueMask = checker | p.checks.CheckRays
	}
	// checker and CheckRays are themselves always disjoint from our own
	// pieces (the checker square holds an opponent piece; CheckRays squares
	// are empty by construction), but mask explicitly anyway so this stays
	// correct even if that invariant is ever weakened, matching the
	// not-in-check path's explicit ^p.Occupied[us] targetMask.
	rescueMask &^= p.Occupied[us]

	p.generateKnightMoves(list, rescueMask, allPins)
	p.generateSliderMoves(list, Bishop, rescueMask, allPins, kingSq)
	p.generateSliderMoves(list, Rook, rescueMask, allPins, kingSq)
	p.generateSliderMoves(list, Queen, rescueMask, allPins, kingSq)
	p.generatePawnMoves(list, rescueMask, allPins, kingSq, capturesOnly)
	p.generateKingMoves(list, capturesOnly)

	// En-passant can rescue from check only by capturing the checking
	// pawn itself; generatePawnMoves handles this by testing the captured
	// pawn's square against the checkers rather than against rescueMask.
}

func (p *Position) generateKnightMoves(list *MoveList, targetMask, allPins Bitboard) {
	us := p.SideToMove
	knights := p.Pieces[us][Knight] &^ allPins // a pinned knight can never move legally
	for knights != 0 {
		from := knights.PopLSB()
		targets := knightAttacks[from] & targetMask
		for targets != 0 {
			list.Add(NewMove(from, targets.PopLSB()))
		}
	}
}

func (p *Position) generateSliderMoves(list *MoveList, pt PieceType, targetMask, allPins Bitboard, kingSq Square) {
	us := p.SideToMove
	pieces := p.Pieces[us][pt]
	for pieces != 0 {
		from := pieces.PopLSB()
		var attacks Bitboard
		switch pt {
		case Bishop:
			attacks = BishopAttacks(from, p.AllOccupied)
		case Rook:
			attacks = RookAttacks(from, p.AllOccupied)
		case Queen:
			attacks = QueenAttacks(from, p.AllOccupied)
		}
		targets := attacks & targetMask
		if allPins.IsSet(from) {
			targets &= Line(kingSq, from)
		}
		for targets != 0 {
			list.Add(NewMove(from, targets.PopLSB()))
		}
	}
}

func (p *Position) generatePawnMoves(list *MoveList, targetMask, allPins Bitboard, kingSq Square, capturesOnly bool) {
	us := p.SideToMove
	them := us.Other()
	pawns := p.Pieces[us][Pawn]

	promoRank := Rank8
	startRank := Rank2
	if us == Black {
		promoRank = Rank1
		startRank = Rank7
	}

	for pawns != 0 {
		from := pawns.PopLSB()
		pinMask := Universe
		if allPins.IsSet(from) {
			pinMask = Line(kingSq, from)
		}

		// Captures (incl. promotion-captures).
		captures := pawnAttacks[us][from] & p.Occupied[them] & targetMask & pinMask
		for captures != 0 {
			to := captures.PopLSB()
			p.addPawnMove(list, from, to, SquareBB(to)&promoRank != 0)
		}

		if !capturesOnly {
			// Single and double pushes.
			single := pawnPushes[us][from] &^ p.AllOccupied
			if single != 0 {
				if single&targetMask != 0 && single&pinMask != 0 {
					to := single.LSB()
					p.addPawnMove(list, from, to, single&promoRank != 0)
				}
				if SquareBB(from)&startRank != 0 {
					var double Bitboard
					if us == White {
						double = single.North()
					} else {
						double = single.South()
					}
					double &^= p.AllOccupied
					if double&targetMask != 0 && double&pinMask != 0 {
						list.Add(NewDoublePush(from, double.LSB()))
					}
				}
			}
		}

		// En passant: the square actually vacated is the captured pawn's
		// square, not the destination, so check-evasion is judged against
		// that square rather than targetMask/to.
		if p.EnPassant != 0 && pawnAttacks[us][from].IsSet(p.EnPassant) {
			to := p.EnPassant
			var capturedSq Square
			if us == White {
				capturedSq = to - 8
			} else {
				capturedSq = to + 8
			}
			rescuesCheck := p.checks.NumChecks == 0 || SquareBB(capturedSq)&p.checks.allCheckers() != 0
			if SquareBB(to)&pinMask != 0 && rescuesCheck && p.isEnPassantLegal(us, from, to) {
				list.Add(NewMove(from, to))
			}
		}
	}
}

func (p *Position) addPawnMove(list *MoveList, from, to Square, isPromotion bool) {
	if isPromotion {
		list.Add(NewPromotion(from, to, Queen))
		list.Add(NewPromotion(from, to, Rook))
		list.Add(NewPromotion(from, to, Bishop))
		list.Add(NewPromotion(from, to, Knight))
		return
	}
	list.Add(NewMove(from, to))
}

// isEnPassantLegal handles the special "horizontal pin" case: removing
// both the capturing pawn and the captured pawn from the same rank can
// expose the king to a rook/queen along that rank, a case the ordinary
// pin mask cannot see because neither pawn is itself pinned beforehand.
// Grounded on original_source's kingIsSafeAfterPassant.
func (p *Position) isEnPassantLegal(us Color, from, to Square) bool {
	them := us.Other()
	kingSq := p.KingSquare[us]

	var capturedSq Square
	if us == White {
		capturedSq = to - 8
	} else {
		capturedSq = to + 8
	}

	occ := p.AllOccupied
	occ &^= SquareBB(from)
	occ &^= SquareBB(capturedSq)
	occ |= SquareBB(to)

	attackers := (RookAttacks(kingSq, occ) & (p.Pieces[them][Rook] | p.Pieces[them][Queen])) |
		(BishopAttacks(kingSq, occ) & (p.Pieces[them][Bishop] | p.Pieces[them][Queen]))
	return attackers == 0
}

// generateCastling adds legal castling moves. The king is guaranteed not
// to be in check here (only called from generateNotInCheck); the transit
// and destination squares are checked for safety explicitly.
func (p *Position) generateCastling(list *MoveList) {
	us := p.SideToMove
	them := us.Other()

	if us == White {
		if p.CastlingRights.CanCastle(White, true) &&
			p.AllOccupied&(SquareBB(F1)|SquareBB(G1)) == 0 &&
			!p.IsSquareAttacked(F1, them) && !p.IsSquareAttacked(G1, them) {
			list.Add(CastleWhiteKingside)
		}
		if p.CastlingRights.CanCastle(White, false) &&
			p.AllOccupied&(SquareBB(B1)|SquareBB(C1)|SquareBB(D1)) == 0 &&
			!p.IsSquareAttacked(D1, them) && !p.IsSquareAttacked(C1, them) {
			list.Add(CastleWhiteQueenside)
		}
	} else {
		if p.CastlingRights.CanCastle(Black, true) &&
			p.AllOccupied&(SquareBB(F8)|SquareBB(G8)) == 0 &&
			!p.IsSquareAttacked(F8, them) && !p.IsSquareAttacked(G8, them) {
			list.Add(CastleBlackKingside)
		}
		if p.CastlingRights.CanCastle(Black, false) &&
			p.AllOccupied&(SquareBB(B8)|SquareBB(C8)|SquareBB(D8)) == 0 &&
			!p.IsSquareAttacked(D8, them) && !p.IsSquareAttacked(C8, them) {
			list.Add(CastleBlackQueenside)
		}
	}
}

// capturedPieceKindRank returns the captured piece kind's rank used by
// MVV-LVA-style ordering (pawn=1 ... queen=5), per spec §4.5.
func capturedPieceKindRank(p *Position, m Move) int {
	if m.IsEnPassant(p) {
		return int(Pawn) + 1
	}
	return int(p.PieceAt(m.To()).Type()) + 1
}

// unsafeDestinationPenalty scores the §4.5 "unsafe destination" rule: moving
// a piece onto a square an opponent already attacks with something cheap
// enough to make the destination a bad one, independent of whether the move
// is itself a capture.
func (p *Position) unsafeDestinationPenalty(m Move) int {
	us := p.SideToMove
	them := us.Other()
	to := m.To()
	moving := p.PieceAt(m.From()).Type()

	switch moving {
	case Knight, Bishop:
		if p.AttacksBy[them][Pawn].IsSet(to) {
			return -2
		}
	case Rook:
		attackedByMinorOrPawn := p.AttacksBy[them][Pawn] | p.AttacksBy[them][Knight] | p.AttacksBy[them][Bishop]
		if attackedByMinorOrPawn.IsSet(to) {
			return -3
		}
	case Queen:
		attackedUpToRook := p.AttacksBy[them][Pawn] | p.AttacksBy[them][Knight] |
			p.AttacksBy[them][Bishop] | p.AttacksBy[them][Rook]
		if attackedUpToRook.IsSet(to) {
			return -3
		}
	}
	return 0
}

// OrderAll scores and sorts moves in place per spec §4.5's order_all
// contract: TT-hint move → 63, capture score = captured-piece kind rank,
// unsafe-destination penalties for knight/bishop/rook/queen moves, quiet
// moves otherwise 0. ttHint may be NoMove. Grounded on original_source's
// orderAllMoves.
func (p *Position) OrderAll(list *MoveList, ttHint Move) {
	scores := make([]int, list.Len())
	for i := 0; i < list.Len(); i++ {
		m := list.Get(i)
		switch {
		case m == ttHint:
			scores[i] = 63
		case m.IsCapture(p):
			scores[i] = capturedPieceKindRank(p, m)
		default:
			scores[i] = p.unsafeDestinationPenalty(m)
		}
	}
	sortByScoreDescending(list, scores)
}

// sortByScoreDescending insertion-sorts list by scores, descending. Move
// lists are small (well under a few hundred entries) so this stays fast
// without pulling in sort.Slice's reflection-driven comparator for a hot
// path.
func sortByScoreDescending(list *MoveList, scores []int) {
	for i := 1; i < list.Len(); i++ {
		j := i
		for j > 0 && scores[j-1] < scores[j] {
			scores[j-1], scores[j] = scores[j], scores[j-1]
			list.Swap(j-1, j)
			j--
		}
	}
}

// OrderedCaptures returns legal captures ordered MVV-LVA-style: victim kind
// rank plus a promotion bonus (promoted piece's raw kind value) for
// promoting captures, per spec §4.5. Grounded on original_source's
// orderedCaptures / inCheckOrderedCaptures split, which adds the promoted
// piece's index directly onto the victim-index score.
func (p *Position) OrderedCaptures() *MoveList {
	list := p.GenerateLegalCaptures()
	scores := make([]int, list.Len())
	for i := 0; i < list.Len(); i++ {
		m := list.Get(i)
		scores[i] = capturedPieceKindRank(p, m)
		if m.IsPromotion() {
			scores[i] += int(m.Promotion())
		}
	}
	sortByScoreDescending(list, scores)
	return list
}
