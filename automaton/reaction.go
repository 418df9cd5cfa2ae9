package automaton

import (
	"github.com/ardentgrid/powdersim/cell"
	"github.com/ardentgrid/powdersim/rng"
)

// Salts used to derive independent child streams for each reaction
// sub-rule from the block's base stream (§4.2, §4.4). Each cell within a
// sub-rule gets its own further child keyed by its block position so
// that, e.g., four FIRE cells in one block don't all decrement their
// lifetime in lockstep.
const (
	saltAging = iota + 1
	saltFireWater
	saltFireWood
	saltFireOil
	saltFireSand
	saltFireBomb
	saltBlastFire
	saltFireGunpowder
	saltLavaWater
	saltLavaSand
	saltLavaWood
	saltLavaOil
	saltLavaGunpowder
	saltAcidFire
	saltAcidLava
	saltAcidWater
	saltAcidDissolve
	saltStoneHeat
)

func cellSalt(base, pos int) uint32 { return uint32(base*16 + pos) }

// applyReactions runs every reaction sub-rule in the fixed order spec'd
// in §4.4/§4.6: aging, then alchemy in fixed order, then stone heat.
func applyReactions(b *Block, stream *rng.Stream) {
	applyAging(b, stream)
	applyFireWater(b, stream)
	applyFireWood(b, stream)
	applyFireOil(b, stream)
	applyFireSand(b, stream)
	applyFireBomb(b, stream)
	applyBlastFire(b, stream)
	applyFireGunpowder(b, stream)
	applyLava(b, stream)
	applyAcid(b, stream)
	applyStoneHeat(b, stream)
}

func applyAging(b *Block, stream *rng.Stream) {
	s := stream.Sub(saltAging)
	for pos := 0; pos < 4; pos++ {
		c := b.Get(pos)
		cs := s.Sub(cellSalt(saltAging, pos))
		switch c.Element() {
		case cell.FIRE:
			if c.Aux() == 0 {
				b.Set(pos, cell.Empty)
				continue
			}
			if cs.Chance(1, 64) {
				next := c.Aux() - 1
				if next == 0 {
					if cs.Bool() {
						b.Set(pos, cell.Make(cell.SMOKE, c.Color(), uint8(cs.IntRange(60, 99))))
					} else {
						b.Set(pos, cell.Empty)
					}
				} else {
					b.Set(pos, c.WithAux(next))
				}
			}
		case cell.STEAM:
			if c.Aux() == 0 {
				b.Set(pos, cell.Make(cell.WATER, uint8(cs.IntRange(0, 255)), 0))
				continue
			}
			if cs.Chance(1, 64) {
				next := c.Aux() - 1
				if next == 0 {
					b.Set(pos, cell.Make(cell.WATER, uint8(cs.IntRange(0, 255)), 0))
				} else {
					b.Set(pos, c.WithAux(next))
				}
			}
		case cell.SMOKE:
			if c.Aux() == 0 {
				b.Set(pos, cell.Empty)
				continue
			}
			if cs.Chance(1, 64) {
				next := c.Aux() - 1
				if next == 0 {
					b.Set(pos, cell.Empty)
				} else {
					b.Set(pos, c.WithAux(next))
				}
			}
		case cell.LAVA:
			if c.Aux() == 0 {
				b.Set(pos, cell.Make(cell.STONE, uint8(cs.IntRange(0, 255)), 0))
				continue
			}
			if cs.Chance(1, 166) {
				b.Set(pos, c.WithAux(c.Aux()-1))
			}
		case cell.ACID:
			if c.Aux() == 0 {
				b.Set(pos, cell.Empty)
				continue
			}
			if cs.Chance(1, 128) {
				next := c.Aux() - 1
				if next == 0 {
					b.Set(pos, cell.Empty)
				} else {
					b.Set(pos, c.WithAux(next))
				}
			}
		}
	}
}

func makeFireLifetime(s *rng.Stream, lo, hi uint32) cell.Cell {
	return cell.Make(cell.FIRE, uint8(s.IntRange(0, 255)), uint8(s.IntRange(lo, hi)))
}

func makeSteamLifetime(s *rng.Stream, color uint8, lo, hi uint32) cell.Cell {
	return cell.Make(cell.STEAM, color, uint8(s.IntRange(lo, hi)))
}

func makeSmokeLifetime(s *rng.Stream, lo, hi uint32) cell.Cell {
	return cell.Make(cell.SMOKE, uint8(s.IntRange(0, 255)), uint8(s.IntRange(lo, hi)))
}

func applyFireWater(b *Block, stream *rng.Stream) {
	if !b.Any(cell.FIRE) || !b.Any(cell.WATER) {
		return
	}
	s := stream.Sub(saltFireWater)
	for pos := 0; pos < 4; pos++ {
		c := b.Get(pos)
		cs := s.Sub(cellSalt(saltFireWater, pos))
		switch c.Element() {
		case cell.FIRE:
			b.Set(pos, makeSteamLifetime(cs, c.Color(), 40, 79))
		case cell.WATER:
			if cs.Chance(30, 100) {
				if cs.Chance(60, 100) {
					b.Set(pos, makeSteamLifetime(cs, c.Color(), 60, 119))
				} else {
					b.Set(pos, cell.Empty)
				}
			}
		}
	}
}

func applyFireWood(b *Block, stream *rng.Stream) {
	if !b.Any(cell.FIRE) || !b.Any(cell.WOOD) {
		return
	}
	s := stream.Sub(saltFireWood)
	for pos := 0; pos < 4; pos++ {
		c := b.Get(pos)
		cs := s.Sub(cellSalt(saltFireWood, pos))
		switch c.Element() {
		case cell.WOOD:
			if cs.Chance(1, 512) {
				b.Set(pos, makeFireLifetime(cs, 100, 159))
			}
		case cell.EMPTY:
			if cs.Chance(1, 64) {
				b.Set(pos, makeSmokeLifetime(cs, 40, 69))
			}
		}
	}
}

func applyFireOil(b *Block, stream *rng.Stream) {
	if !b.Any(cell.FIRE) || !b.Any(cell.OIL) {
		return
	}
	s := stream.Sub(saltFireOil)
	for pos := 0; pos < 4; pos++ {
		c := b.Get(pos)
		cs := s.Sub(cellSalt(saltFireOil, pos))
		switch c.Element() {
		case cell.OIL:
			if cs.Chance(15, 100) {
				b.Set(pos, makeFireLifetime(cs, 80, 139))
			}
		case cell.EMPTY:
			if cs.Chance(1, 32) {
				b.Set(pos, makeSmokeLifetime(cs, 40, 69))
			}
		}
	}
}

func applyFireSand(b *Block, stream *rng.Stream) {
	if !b.Any(cell.FIRE) || !b.Any(cell.SAND) {
		return
	}
	s := stream.Sub(saltFireSand)
	sandCount := b.Count(cell.SAND)
	cost := uint8(7 * sandCount)
	if cost > 255 {
		cost = 255
	}
	for pos := 0; pos < 4; pos++ {
		c := b.Get(pos)
		cs := s.Sub(cellSalt(saltFireSand, pos))
		switch c.Element() {
		case cell.SAND:
			if cs.Chance(2, 100) {
				b.Set(pos, cell.Make(cell.GLASS, c.Color(), 0))
			}
		case cell.FIRE:
			if c.Aux() <= cost {
				b.Set(pos, cell.Empty)
			} else {
				b.Set(pos, c.WithAux(c.Aux()-cost))
			}
		}
	}
}

func applyFireBomb(b *Block, stream *rng.Stream) {
	if !b.Any(cell.FIRE) || !b.Any(cell.BOMB) {
		return
	}
	s := stream.Sub(saltFireBomb)
	for pos := 0; pos < 4; pos++ {
		c := b.Get(pos)
		cs := s.Sub(cellSalt(saltFireBomb, pos))
		switch {
		case c.Element() == cell.BOMB, c.Element() == cell.FIRE:
			b.Set(pos, cell.Make(cell.FIRE, c.Color(), 250))
		case c.Element() == cell.EMPTY:
			b.Set(pos, makeSmokeLifetime(cs, 40, 69))
		case !cell.Immovable(c.Element()):
			b.Set(pos, cell.Make(cell.FIRE, c.Color(), 240))
		}
		// Immovable non-bomb cells (STONE/WOOD/GLASS) are left for the
		// blast-fire propagation step.
	}
}

// applyBlastFire implements §4.4's "blast fire propagation": once any
// FIRE cell in the block exceeds lifetime 200 (a "blast fire" produced
// by detonation), every other cell in the block reacts to the blast.
func applyBlastFire(b *Block, stream *rng.Stream) {
	var maxL uint8
	found := false
	for pos := 0; pos < 4; pos++ {
		c := b.Get(pos)
		if c.Element() == cell.FIRE && c.Aux() > 200 {
			if !found || c.Aux() > maxL {
				maxL = c.Aux()
				found = true
			}
		}
	}
	if !found {
		return
	}
	s := stream.Sub(saltBlastFire)
	for pos := 0; pos < 4; pos++ {
		c := b.Get(pos)
		if c.Element() == cell.FIRE && c.Aux() > 200 {
			continue // blast fire itself, unaffected
		}
		cs := s.Sub(cellSalt(saltBlastFire, pos))
		switch c.Element() {
		case cell.BOMB:
			b.Set(pos, cell.Make(cell.FIRE, c.Color(), 250))
		case cell.GUNPOWDER:
			lt := maxL - uint8(cs.IntRange(5, 8))
			b.Set(pos, cell.Make(cell.FIRE, c.Color(), lt))
		case cell.WATER:
			b.Set(pos, makeSteamLifetime(cs, c.Color(), 80, 139))
		case cell.ACID:
			b.Set(pos, makeSmokeLifetime(cs, 40, 69))
		case cell.STONE:
			next := int(c.Aux()) + 10
			if next > 255 {
				next = 255
			}
			b.Set(pos, c.WithAux(uint8(next)))
		case cell.GLASS, cell.LAVA, cell.SMOKE, cell.STEAM:
			// survive / unchanged
		default:
			// Covers EMPTY, SAND, WOOD, OIL, and FIRE at or below
			// lifetime 200: decaying-radius FIRE.
			decay := uint8(cs.IntRange(8, 12))
			if maxL <= decay {
				b.Set(pos, cell.Empty)
				continue
			}
			b.Set(pos, cell.Make(cell.FIRE, c.Color(), maxL-decay))
		}
	}
}

func applyFireGunpowder(b *Block, stream *rng.Stream) {
	if !b.Any(cell.FIRE) || !b.Any(cell.GUNPOWDER) {
		return
	}
	s := stream.Sub(saltFireGunpowder)
	for pos := 0; pos < 4; pos++ {
		c := b.Get(pos)
		cs := s.Sub(cellSalt(saltFireGunpowder, pos))
		switch c.Element() {
		case cell.GUNPOWDER:
			if cs.Chance(50, 100) {
				b.Set(pos, makeFireLifetime(cs, 120, 179))
			}
		case cell.EMPTY:
			if cs.Chance(10, 100) {
				b.Set(pos, makeSmokeLifetime(cs, 40, 69))
			}
		}
	}
}

// consumeWater implements the Fire+Water-style consumption roll reused
// by the lava and acid sub-rules: on success, 60% STEAM / 40% EMPTY.
func consumeWater(c cell.Cell, s *rng.Stream, steamLo, steamHi uint32) cell.Cell {
	if s.Chance(60, 100) {
		return makeSteamLifetime(s, c.Color(), steamLo, steamHi)
	}
	return cell.Empty
}

func applyLava(b *Block, stream *rng.Stream) {
	if !b.Any(cell.LAVA) {
		return
	}

	// 1. Water.
	waterCount := b.Count(cell.WATER)
	if waterCount > 0 {
		s := stream.Sub(saltLavaWater)
		for pos := 0; pos < 4; pos++ {
			c := b.Get(pos)
			if c.Element() != cell.WATER {
				continue
			}
			cs := s.Sub(cellSalt(saltLavaWater, pos))
			if cs.Chance(50, 100) {
				b.Set(pos, consumeWater(c, cs, 60, 119))
			}
		}
		heatLoss := uint8(s.IntRange(3, 4)) * uint8(waterCount)
		for pos := 0; pos < 4; pos++ {
			c := b.Get(pos)
			if c.Element() == cell.LAVA {
				b.Set(pos, subHeat(c, heatLoss))
			}
		}
	}

	// 2. Sand.
	sandCount := b.Count(cell.SAND)
	if sandCount > 0 {
		s := stream.Sub(saltLavaSand)
		for pos := 0; pos < 4; pos++ {
			c := b.Get(pos)
			if c.Element() != cell.SAND {
				continue
			}
			cs := s.Sub(cellSalt(saltLavaSand, pos))
			if cs.Chance(4, 100) {
				b.Set(pos, cell.Make(cell.GLASS, c.Color(), 0))
			}
		}
		heatLoss := uint8(3 * sandCount)
		for pos := 0; pos < 4; pos++ {
			c := b.Get(pos)
			if c.Element() == cell.LAVA {
				b.Set(pos, subHeat(c, heatLoss))
			}
		}
	}

	// 3. Wood.
	if b.Any(cell.WOOD) {
		s := stream.Sub(saltLavaWood)
		for pos := 0; pos < 4; pos++ {
			c := b.Get(pos)
			if c.Element() != cell.WOOD {
				continue
			}
			cs := s.Sub(cellSalt(saltLavaWood, pos))
			if cs.Chance(8, 100) {
				b.Set(pos, makeFireLifetime(cs, 80, 139))
			}
		}
	}

	// 4. Oil.
	if b.Any(cell.OIL) {
		s := stream.Sub(saltLavaOil)
		for pos := 0; pos < 4; pos++ {
			c := b.Get(pos)
			if c.Element() != cell.OIL {
				continue
			}
			cs := s.Sub(cellSalt(saltLavaOil, pos))
			if cs.Chance(20, 100) {
				b.Set(pos, makeFireLifetime(cs, 80, 139))
			}
		}
	}

	// 5. Gunpowder.
	if b.Any(cell.GUNPOWDER) {
		s := stream.Sub(saltLavaGunpowder)
		for pos := 0; pos < 4; pos++ {
			c := b.Get(pos)
			if c.Element() != cell.GUNPOWDER {
				continue
			}
			cs := s.Sub(cellSalt(saltLavaGunpowder, pos))
			if cs.Chance(30, 100) {
				b.Set(pos, makeFireLifetime(cs, 120, 179))
			}
		}
	}

	// 6. Bomb.
	for pos := 0; pos < 4; pos++ {
		c := b.Get(pos)
		if c.Element() == cell.BOMB {
			b.Set(pos, cell.Make(cell.FIRE, c.Color(), 250))
		}
	}
}

func subHeat(c cell.Cell, amount uint8) cell.Cell {
	if c.Aux() <= amount {
		return c.WithAux(0)
	}
	return c.WithAux(c.Aux() - amount)
}

type acidCost struct {
	element cell.Element
	prob    uint32 // out of 100
	cost    uint8
}

var acidDissolveTable = []acidCost{
	{cell.SAND, 5, 3},
	{cell.STONE, 2, 5},
	{cell.WOOD, 8, 2},
	{cell.GLASS, 1, 8},
	{cell.OIL, 10, 2},
	{cell.GUNPOWDER, 5, 3},
	{cell.BOMB, 3, 5},
}

func applyAcid(b *Block, stream *rng.Stream) {
	if !b.Any(cell.ACID) {
		return
	}

	// 1. Fire.
	if b.Any(cell.FIRE) {
		s := stream.Sub(saltAcidFire)
		for pos := 0; pos < 4; pos++ {
			c := b.Get(pos)
			if c.Element() != cell.ACID {
				continue
			}
			cs := s.Sub(cellSalt(saltAcidFire, pos))
			if cs.Chance(10, 100) {
				b.Set(pos, makeSmokeLifetime(cs, 40, 69))
			}
		}
	}

	// 2. Lava.
	if b.Any(cell.LAVA) {
		s := stream.Sub(saltAcidLava)
		for pos := 0; pos < 4; pos++ {
			c := b.Get(pos)
			if c.Element() != cell.ACID {
				continue
			}
			cs := s.Sub(cellSalt(saltAcidLava, pos))
			if cs.Chance(15, 100) {
				b.Set(pos, makeSmokeLifetime(cs, 40, 69))
			}
		}
	}

	// 3. Water.
	if b.Any(cell.WATER) {
		s := stream.Sub(saltAcidWater)
		for pos := 0; pos < 4; pos++ {
			c := b.Get(pos)
			switch c.Element() {
			case cell.WATER:
				cs := s.Sub(cellSalt(saltAcidWater, pos))
				if cs.Chance(4, 100) {
					b.Set(pos, consumeWater(c, cs, 60, 119))
				}
			case cell.ACID:
				cs := s.Sub(cellSalt(saltAcidWater, pos) + 1000)
				if cs.Chance(3, 100) && c.Aux() > 0 {
					b.Set(pos, c.WithAux(c.Aux()-1))
				}
			}
		}
	}

	// 4. Dissolution: roll per target material, pool the cost equally
	// (minimum 1 each) across the acid cells currently in the block.
	s := stream.Sub(saltAcidDissolve)
	acidPositions := make([]int, 0, 4)
	for pos := 0; pos < 4; pos++ {
		if b.Get(pos).Element() == cell.ACID {
			acidPositions = append(acidPositions, pos)
		}
	}
	if len(acidPositions) == 0 {
		return
	}
	for pos := 0; pos < 4; pos++ {
		c := b.Get(pos)
		for _, rule := range acidDissolveTable {
			if c.Element() != rule.element {
				continue
			}
			cs := s.Sub(cellSalt(saltAcidDissolve, pos) + uint32(rule.element)*97)
			if cs.Chance(rule.prob, 100) {
				b.Set(pos, makeSmokeLifetime(cs, 40, 69))
				perAcid := rule.cost / uint8(len(acidPositions))
				if perAcid < 1 {
					perAcid = 1
				}
				for _, ap := range acidPositions {
					ac := b.Get(ap)
					if ac.Element() != cell.ACID {
						continue
					}
					b.Set(ap, subHeat(ac, perAcid))
				}
			}
			break
		}
	}
}

func applyStoneHeat(b *Block, stream *rng.Stream) {
	if !b.Any(cell.STONE) {
		return
	}
	s := stream.Sub(saltStoneHeat)

	fireLavaCount := b.Count(cell.FIRE) + b.Count(cell.LAVA)
	if fireLavaCount > 0 {
		gainPer := uint32(2 + s.IntRange(0, 1))
		for pos := 0; pos < 4; pos++ {
			c := b.Get(pos)
			if c.Element() != cell.STONE {
				continue
			}
			gain := gainPer * uint32(fireLavaCount)
			next := uint32(c.Aux()) + gain
			if next > 255 {
				next = 255
			}
			b.Set(pos, c.WithAux(uint8(next)))
		}
	}

	for pos := 0; pos < 4; pos++ {
		c := b.Get(pos)
		if c.Element() != cell.STONE {
			continue
		}
		cs := s.Sub(cellSalt(saltStoneHeat, pos))
		if c.Aux() > 0 && cs.Chance(1, 128) {
			b.Set(pos, c.WithAux(c.Aux()-1))
		}
	}

	conductStonePair(b, posTL, posTR)
	conductStonePair(b, posBL, posBR)
	conductStonePair(b, posTL, posBL)
	conductStonePair(b, posTR, posBR)

	var maxHeat uint8
	hasStone := false
	for pos := 0; pos < 4; pos++ {
		c := b.Get(pos)
		if c.Element() == cell.STONE {
			if !hasStone || c.Aux() > maxHeat {
				maxHeat = c.Aux()
				hasStone = true
			}
		}
	}
	if !hasStone {
		return
	}

	if maxHeat > 100 {
		for pos := 0; pos < 4; pos++ {
			c := b.Get(pos)
			if c.Element() != cell.WATER {
				continue
			}
			cs := s.Sub(cellSalt(saltStoneHeat, pos) + 5000)
			if cs.Chance(1, 100) {
				b.Set(pos, consumeWater(c, cs, 60, 119))
			}
		}
	}
	if maxHeat > 150 {
		for pos := 0; pos < 4; pos++ {
			c := b.Get(pos)
			cs := s.Sub(cellSalt(saltStoneHeat, pos) + 6000)
			switch c.Element() {
			case cell.WOOD:
				if cs.Chance(1, 2048) {
					b.Set(pos, makeFireLifetime(cs, 60, 119))
				}
			case cell.GUNPOWDER:
				if cs.Chance(1, 100) {
					b.Set(pos, makeFireLifetime(cs, 120, 179))
				}
			case cell.BOMB:
				if cs.Chance(2, 100) {
					b.Set(pos, cell.Make(cell.FIRE, c.Color(), 250))
				}
			}
		}
	}
	if maxHeat > 200 {
		for pos := 0; pos < 4; pos++ {
			c := b.Get(pos)
			if c.Element() != cell.SAND {
				continue
			}
			cs := s.Sub(cellSalt(saltStoneHeat, pos) + 7000)
			if cs.Chance(1, 200) {
				b.Set(pos, cell.Make(cell.GLASS, c.Color(), 0))
			}
		}
	}
}

// conductStonePair moves one unit of heat from the hotter to the cooler
// of two STONE cells when they differ by more than one unit (§4.4).
func conductStonePair(b *Block, a, c int) {
	ca, cc := b.Get(a), b.Get(c)
	if ca.Element() != cell.STONE || cc.Element() != cell.STONE {
		return
	}
	ha, hc := int(ca.Aux()), int(cc.Aux())
	delta := ha - hc
	if delta > 1 {
		b.Set(a, ca.WithAux(uint8(ha-1)))
		b.Set(c, cc.WithAux(uint8(hc+1)))
	} else if delta < -1 {
		b.Set(a, ca.WithAux(uint8(ha+1)))
		b.Set(c, cc.WithAux(uint8(hc-1)))
	}
}
