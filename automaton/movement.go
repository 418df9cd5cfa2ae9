package automaton

import (
	"github.com/ardentgrid/powdersim/cell"
	"github.com/ardentgrid/powdersim/rng"
)

const (
	saltMoveGate = iota + 100
	saltGravityLeft
	saltGravityRight
	saltDiagonal
	saltDispersion
	saltYoungFire
	saltLateralWater
	saltLateralWaterOil
	saltLateralOil
	saltLateralLava
	saltLateralAcid
	saltLateralSteam
	saltLateralSmoke
	saltLateralFire
	saltSandSmoothing
	saltWaterErosion
)

// applyMovement runs the gravity phase (unless lateralOnly or the
// block's skip gate fires) followed by the lateral phase, exactly as
// ordered in §4.5/§4.6.
func applyMovement(b *Block, stream *rng.Stream, lateralOnly bool) {
	skip := stream.Sub(saltMoveGate).Chance(25, 100)
	if !lateralOnly && !skip {
		applyGravity(b, stream)
	}
	applyLateral(b, stream)
}

type youngFireOutcome int

const (
	outcomeSink youngFireOutcome = iota
	outcomeStall
	outcomeRise
)

func rollYoungFire(s *rng.Stream) youngFireOutcome {
	roll := s.Next() % 100
	switch {
	case roll < 20:
		return outcomeSink
	case roll < 60:
		return outcomeStall
	default:
		return outcomeRise
	}
}

// gasRiseChance returns the base (non-young-fire) rise probability for a
// gas element, out of 100.
func gasRiseChance(e cell.Element) (uint32, bool) {
	switch e {
	case cell.FIRE:
		return 20, true
	case cell.STEAM:
		return 35, true
	case cell.SMOKE:
		return 30, true
	}
	return 0, false
}

// columnSwapGate decides whether a baseline-eligible vertical swap
// (density(top) > density(bottom), neither immovable) actually fires,
// applying the sand/liquid, lava-viscosity, and gas-rise drag gates
// from §4.5 step 2. It returns fire=true when the swap should happen.
// For a young FIRE cell involved in a gas-rise pair, it additionally
// returns the rolled outcome so the caller can resolve rise/stall/sink.
func columnSwapGate(top, bottom cell.Cell, s *rng.Stream) (fire bool, youngOutcome youngFireOutcome, isYoung bool) {
	involvesSandLiquid := (top.Element() == cell.SAND && cell.IsLiquid(bottom.Element())) ||
		(bottom.Element() == cell.SAND && cell.IsLiquid(top.Element()))
	involvesLava := top.Element() == cell.LAVA || bottom.Element() == cell.LAVA

	ok := true
	if involvesSandLiquid {
		ok = ok && s.Chance(35, 100)
	}
	if involvesLava {
		ok = ok && s.Chance(50, 100)
	}

	var gasCell cell.Cell
	isGasPair := false
	if top.Element() == cell.EMPTY && cell.IsGas(bottom.Element()) {
		gasCell = bottom
		isGasPair = true
	}
	if isGasPair {
		if gasCell.Element() == cell.FIRE && gasCell.Aux() > 100 {
			outcome := rollYoungFire(s)
			return outcome == outcomeRise, outcome, true
		}
		prob, _ := gasRiseChance(gasCell.Element())
		return ok && s.Chance(prob, 100), outcomeStall, false
	}
	return ok, outcomeStall, false
}

func baselineSwap(top, bottom cell.Cell) bool {
	if cell.Immovable(top.Element()) || cell.Immovable(bottom.Element()) {
		return false
	}
	return cell.Density(top.Element()) > cell.Density(bottom.Element())
}

func applyGravity(b *Block, stream *rng.Stream) {
	leftFire, leftYoung, leftOutcome := false, false, outcomeStall
	rightFire, rightYoung, rightOutcome := false, false, outcomeStall

	if baselineSwap(b.TL(), b.BL()) {
		s := stream.Sub(saltGravityLeft)
		leftFire, leftOutcome, leftYoung = columnSwapGate(b.TL(), b.BL(), s)
	}
	if baselineSwap(b.TR(), b.BR()) {
		s := stream.Sub(saltGravityRight)
		rightFire, rightOutcome, rightYoung = columnSwapGate(b.TR(), b.BR(), s)
	}

	if leftFire {
		tl, bl := b.TL(), b.BL()
		b.SetTL(bl)
		b.SetBL(tl)
	}
	if rightFire {
		tr, br := b.TR(), b.BR()
		b.SetTR(br)
		b.SetBR(tr)
	}
	_ = leftYoung
	_ = rightYoung
	_ = leftOutcome
	_ = rightOutcome

	if !leftFire && !rightFire {
		applyDiagonalSlide(b, stream)
	}

	applyYoungFireSink(b, stream)
}

// applyDiagonalSlide implements §4.5 step 3-4: when neither vertical
// swap fired, a corner cell may slide into the diagonally-opposite
// bottom cell.
func applyDiagonalSlide(b *Block, stream *rng.Stream) {
	s := stream.Sub(saltDiagonal)

	tlEligible := diagonalEligible(b.TL(), b.BR(), b.BL(), b.TR(), s.Sub(1))
	trEligible := diagonalEligible(b.TR(), b.BL(), b.BR(), b.TL(), s.Sub(2))

	switch {
	case tlEligible && trEligible:
		if s.Bool() {
			doDiagonalSwap(b, posTL, posBR)
		} else {
			doDiagonalSwap(b, posTR, posBL)
		}
	case tlEligible:
		doDiagonalSwap(b, posTL, posBR)
	case trEligible:
		doDiagonalSwap(b, posTR, posBL)
	}
}

// diagonalEligible tests whether src may slide into dst (its diagonal
// opposite), where below is src's directly-below neighbor (blocked
// vertical target) and sibling is the other cell in src's own row.
//
// SAND sliding into a liquid dst has two independent paths: resting on
// (or denser than) below, gated by the 35% drag roll (§4.5 step 3-4a),
// or — per §4.5 step 4's dispersion rule — not resting at all, still
// allowed to disperse diagonally into the liquid at a flat 50%.
func diagonalEligible(src, dst, below, sibling cell.Cell, s *rng.Stream) bool {
	if cell.Immovable(src.Element()) {
		return false
	}
	if !(cell.Density(src.Element()) > cell.Density(dst.Element())) {
		return false
	}

	resting := cell.Density(src.Element()) >= cell.Density(below.Element())
	sandIntoLiquid := src.Element() == cell.SAND && cell.IsLiquid(dst.Element())
	dispersing := sandIntoLiquid && !resting

	if !resting && !dispersing {
		return false
	}

	if src.Element() == cell.WATER {
		if !(cell.Density(sibling.Element()) < cell.Density(src.Element())) {
			return false
		}
		if !s.Chance(25, 100) {
			return false
		}
	}

	if sandIntoLiquid {
		if dispersing {
			if !s.Sub(saltDispersion).Chance(50, 100) {
				return false
			}
		} else if !s.Chance(35, 100) {
			return false
		}
	}

	return true
}

func doDiagonalSwap(b *Block, a, c int) {
	ca, cc := b.Get(a), b.Get(c)
	b.Set(a, cc)
	b.Set(c, ca)
}

// applyYoungFireSink implements §4.5 step 5: a young FIRE already on top
// of an EMPTY cell below may drift back down when the young-fire roll
// (shared with the rise gate that put it there) lands "sink". Since the
// roll already happened inside columnSwapGate when evaluating the
// rise candidate, a fresh independent roll is used here for the
// opposite (already-risen) configuration, keeping the rule block-local
// and not dependent on history across passes.
func applyYoungFireSink(b *Block, stream *rng.Stream) {
	s := stream.Sub(saltYoungFire)
	trySinkColumn(b, posTL, posBL, s.Sub(1))
	trySinkColumn(b, posTR, posBR, s.Sub(2))
}

func trySinkColumn(b *Block, topPos, bottomPos int, s *rng.Stream) {
	top := b.Get(topPos)
	bottom := b.Get(bottomPos)
	if top.Element() != cell.FIRE || bottom.Element() != cell.EMPTY {
		return
	}
	if top.Aux() <= 100 {
		return
	}
	if rollYoungFire(s) == outcomeSink {
		b.Set(topPos, bottom)
		b.Set(bottomPos, top)
	}
}

// divingBeet swaps a and c when exactly one of the pair is want and the
// other is EMPTY, the opposite row is fully occupied, and the gate
// (out of 100) fires. want==cell.Element(0) (EMPTY) is never passed.
func divingBeet(b *Block, a, c int, want cell.Element, opp1, opp2 int, gateNum uint32, s *rng.Stream) {
	ca, cc := b.Get(a), b.Get(c)
	var srcPos, dstPos int
	switch {
	case ca.Element() == want && cc.Element() == cell.EMPTY:
		srcPos, dstPos = a, c
	case cc.Element() == want && ca.Element() == cell.EMPTY:
		srcPos, dstPos = c, a
	default:
		return
	}
	if !b.Get(opp1).Occupied() || !b.Get(opp2).Occupied() {
		return
	}
	if gateNum < 100 && !s.Chance(gateNum, 100) {
		return
	}
	src, dst := b.Get(srcPos), b.Get(dstPos)
	b.Set(srcPos, dst)
	b.Set(dstPos, src)
}

// divingBeetSwap is the water-displaces-oil variant: swaps a liquid-A
// cell with a liquid-B cell (rather than with EMPTY) in the same row,
// gated by probability, when the opposite row is fully occupied.
func divingBeetSwap(b *Block, a, c int, wantA, wantB cell.Element, opp1, opp2 int, gateNum uint32, s *rng.Stream) {
	ca, cc := b.Get(a), b.Get(c)
	matches := (ca.Element() == wantA && cc.Element() == wantB) || (ca.Element() == wantB && cc.Element() == wantA)
	if !matches {
		return
	}
	if !b.Get(opp1).Occupied() || !b.Get(opp2).Occupied() {
		return
	}
	if !s.Chance(gateNum, 100) {
		return
	}
	va, vc := b.Get(a), b.Get(c)
	b.Set(a, vc)
	b.Set(c, va)
}

func applyLateral(b *Block, stream *rng.Stream) {
	// Water lateral spread (diving-beet), both rows.
	sw := stream.Sub(saltLateralWater)
	divingBeet(b, posTL, posTR, cell.WATER, posBL, posBR, 100, sw.Sub(1))
	divingBeet(b, posBL, posBR, cell.WATER, posTL, posTR, 100, sw.Sub(2))

	// Water displaces oil laterally, ~40%.
	swo := stream.Sub(saltLateralWaterOil)
	divingBeetSwap(b, posTL, posTR, cell.WATER, cell.OIL, posBL, posBR, 40, swo.Sub(1))
	divingBeetSwap(b, posBL, posBR, cell.WATER, cell.OIL, posTL, posTR, 40, swo.Sub(2))

	// Oil lateral spread, unconditional.
	so := stream.Sub(saltLateralOil)
	divingBeet(b, posTL, posTR, cell.OIL, posBL, posBR, 100, so.Sub(1))
	divingBeet(b, posBL, posBR, cell.OIL, posTL, posTR, 100, so.Sub(2))

	// Lava lateral spread, gated 30%.
	sl := stream.Sub(saltLateralLava)
	divingBeet(b, posTL, posTR, cell.LAVA, posBL, posBR, 30, sl.Sub(1))
	divingBeet(b, posBL, posBR, cell.LAVA, posTL, posTR, 30, sl.Sub(2))

	// Acid lateral spread, identical to water.
	sa := stream.Sub(saltLateralAcid)
	divingBeet(b, posTL, posTR, cell.ACID, posBL, posBR, 100, sa.Sub(1))
	divingBeet(b, posBL, posBR, cell.ACID, posTL, posTR, 100, sa.Sub(2))

	// Steam lateral spread: against-surface always, free-floating ~12.5%.
	applyGasLateral(b, cell.STEAM, stream.Sub(saltLateralSteam), 125, 1000)

	// Smoke lateral spread: same as steam.
	applyGasLateral(b, cell.SMOKE, stream.Sub(saltLateralSmoke), 125, 1000)

	// Fire lateral spread: against-surface always, free-floating ~3%.
	applyGasLateral(b, cell.FIRE, stream.Sub(saltLateralFire), 30, 1000)

	applySandSmoothing(b, stream.Sub(saltSandSmoothing))
	applyWaterErosion(b, stream.Sub(saltWaterErosion))
}

// applyGasLateral implements the "against-surface always, free-floating
// with probability gatePerMille/1000" gas lateral rule. A row is
// "against a surface" when the opposite row is fully occupied (the only
// block-local signal available for "something is blocking it below");
// otherwise the row is free-floating and the gate applies.
func applyGasLateral(b *Block, want cell.Element, s *rng.Stream, gateNumerator, gateDenominator uint32) {
	gasLateralRow(b, posTL, posTR, posBL, posBR, want, s.Sub(1), gateNumerator, gateDenominator)
	gasLateralRow(b, posBL, posBR, posTL, posTR, want, s.Sub(2), gateNumerator, gateDenominator)
}

func gasLateralRow(b *Block, a, c, opp1, opp2 int, want cell.Element, s *rng.Stream, gateNumerator, gateDenominator uint32) {
	ca, cc := b.Get(a), b.Get(c)
	var srcPos, dstPos int
	switch {
	case ca.Element() == want && cc.Element() == cell.EMPTY:
		srcPos, dstPos = a, c
	case cc.Element() == want && ca.Element() == cell.EMPTY:
		srcPos, dstPos = c, a
	default:
		return
	}
	againstSurface := b.Get(opp1).Occupied() && b.Get(opp2).Occupied()
	if !againstSurface {
		if !s.Chance(gateNumerator, gateDenominator) {
			return
		}
	}
	src, dst := b.Get(srcPos), b.Get(dstPos)
	b.Set(srcPos, dst)
	b.Set(dstPos, src)
}

// applySandSmoothing implements submerged sand smoothing (§4.5): when
// a bottom SAND cell is flanked by liquid on one side and has liquid
// directly above, it may swap with its liquid sibling for a lower
// angle of repose.
func applySandSmoothing(b *Block, s *rng.Stream) {
	trySandSmoothingColumn(b, posBL, posBR, posTL, s.Sub(1))
	trySandSmoothingColumn(b, posBR, posBL, posTR, s.Sub(2))
}

func trySandSmoothingColumn(b *Block, sandPos, siblingPos, abovePos int, s *rng.Stream) {
	sand := b.Get(sandPos)
	if sand.Element() != cell.SAND {
		return
	}
	sibling := b.Get(siblingPos)
	above := b.Get(abovePos)
	if !cell.IsLiquid(sibling.Element()) || !cell.IsLiquid(above.Element()) {
		return
	}
	if !s.Chance(1, 32) {
		return
	}
	b.Set(sandPos, sibling)
	b.Set(siblingPos, sand)
}

// applyWaterErosion implements §4.5's 1/512 erosion rule: a bottom
// WATER+SAND pair with an EMPTY-or-WATER corner above the SAND lifts
// the SAND up by one cell.
func applyWaterErosion(b *Block, s *rng.Stream) {
	tryWaterErosionColumn(b, posBL, posBR, posTL, s.Sub(1))
	tryWaterErosionColumn(b, posBR, posBL, posTR, s.Sub(2))
}

func tryWaterErosionColumn(b *Block, sandPos, waterPos, abovePos int, s *rng.Stream) {
	sand := b.Get(sandPos)
	water := b.Get(waterPos)
	if sand.Element() != cell.SAND || water.Element() != cell.WATER {
		return
	}
	above := b.Get(abovePos)
	if above.Element() != cell.EMPTY && above.Element() != cell.WATER {
		return
	}
	if !s.Chance(1, 512) {
		return
	}
	b.Set(sandPos, above)
	b.Set(abovePos, sand)
}
