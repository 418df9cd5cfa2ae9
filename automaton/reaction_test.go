package automaton

import (
	"testing"

	"github.com/ardentgrid/powdersim/cell"
	"github.com/ardentgrid/powdersim/rng"
)

func streamFor(seed uint32) *rng.Stream { return rng.NewStream(seed) }

func TestAgingFireExpiresAtZeroLifetime(t *testing.T) {
	b := NewBlock(cell.Make(cell.FIRE, 0, 0), cell.Empty, cell.Empty, cell.Empty)
	applyAging(b, streamFor(1))
	if b.TL().Element() != cell.EMPTY {
		t.Fatalf("FIRE with lifetime 0 must expire to EMPTY, got %v", b.TL().Element())
	}
}

func TestAgingSteamExpiresToWater(t *testing.T) {
	b := NewBlock(cell.Make(cell.STEAM, 0, 0), cell.Empty, cell.Empty, cell.Empty)
	applyAging(b, streamFor(2))
	if b.TL().Element() != cell.WATER {
		t.Fatalf("STEAM with lifetime 0 must become WATER, got %v", b.TL().Element())
	}
}

func TestAgingLavaExpiresToStone(t *testing.T) {
	b := NewBlock(cell.Make(cell.LAVA, 0, 0), cell.Empty, cell.Empty, cell.Empty)
	applyAging(b, streamFor(3))
	if b.TL().Element() != cell.STONE {
		t.Fatalf("LAVA with heat 0 must become STONE, got %v", b.TL().Element())
	}
}

// P9: blast fire must not affect cells outside the block it fired in;
// this test only checks the in-block effects are total and internally
// consistent (cross-block containment is a scheduler-level property).
func TestFireBombDetonatesWholeBlock(t *testing.T) {
	b := NewBlock(cell.Make(cell.BOMB, 0, 0), cell.Make(cell.FIRE, 0, 120), cell.Empty, cell.Empty)
	applyFireBomb(b, streamFor(4))
	if b.TL().Element() != cell.FIRE || b.TL().Aux() != 250 {
		t.Errorf("BOMB must become FIRE(250), got %v aux=%d", b.TL().Element(), b.TL().Aux())
	}
	if b.TR().Element() != cell.FIRE || b.TR().Aux() != 250 {
		t.Errorf("pre-existing FIRE must become FIRE(250), got %v aux=%d", b.TR().Element(), b.TR().Aux())
	}
	if b.BL().Element() != cell.SMOKE {
		t.Errorf("EMPTY cells must become SMOKE on detonation, got %v", b.BL().Element())
	}
}

// S5-equivalent: bomb detonation followed by blast-fire propagation in
// one reaction pass should leave no BOMB.
func TestBombDetonationThenBlastPropagation(t *testing.T) {
	b := NewBlock(cell.Make(cell.BOMB, 0, 0), cell.Make(cell.FIRE, 0, 120), cell.Empty, cell.Empty)
	applyFireBomb(b, streamFor(5))
	applyBlastFire(b, streamFor(6))
	for pos := 0; pos < 4; pos++ {
		if b.Get(pos).Element() == cell.BOMB {
			t.Fatalf("no BOMB should survive a detonation+propagation pass")
		}
	}
}

func TestFireSandCostsLifetime(t *testing.T) {
	b := NewBlock(cell.Make(cell.FIRE, 0, 5), cell.Make(cell.SAND, 0, 0), cell.Empty, cell.Empty)
	applyFireSand(b, streamFor(7))
	if b.TL().Element() != cell.EMPTY {
		t.Fatalf("FIRE with lifetime <= cost must expire, got %v aux=%d", b.TL().Element(), b.TL().Aux())
	}
}

// P8: over a single block reaction step, at most 30% of WATER becomes
// non-water under Fire+Water.
func TestFireWaterConservationBounded(t *testing.T) {
	trials := 2000
	converted := 0
	total := 0
	for i := 0; i < trials; i++ {
		b := NewBlock(cell.Make(cell.FIRE, 0, 200), cell.Make(cell.WATER, 0, 0), cell.Make(cell.WATER, 0, 0), cell.Make(cell.WATER, 0, 0))
		applyFireWater(b, streamFor(uint32(1000+i)))
		total += 3
		for _, pos := range []int{posTR, posBL, posBR} {
			if b.Get(pos).Element() != cell.WATER {
				converted++
			}
		}
	}
	rate := float64(converted) / float64(total)
	if rate > 0.35 {
		t.Fatalf("water conversion rate %f exceeds the ~30%% bound (with sampling slack)", rate)
	}
}

func TestAcidDissolutionConsumesPotency(t *testing.T) {
	b := NewBlock(cell.Make(cell.ACID, 0, 10), cell.Make(cell.SAND, 0, 0), cell.Empty, cell.Empty)
	for i := uint32(0); i < 500; i++ {
		applyAcid(b, streamFor(2000+i))
		if b.TR().Element() == cell.SMOKE {
			break
		}
	}
	// Either the sand dissolved (and the acid lost potency) or it never
	// rolled a hit in the sample budget; both are valid, but if it did
	// dissolve the acid must still be present with potency <= original.
	if b.TR().Element() == cell.SMOKE {
		if b.TL().Element() != cell.ACID {
			t.Fatalf("acid must survive a single dissolution event")
		}
		if b.TL().Aux() > 10 {
			t.Fatalf("acid potency must not increase")
		}
	}
}

func TestStoneHeatConductionEqualizes(t *testing.T) {
	b := NewBlock(cell.Make(cell.STONE, 0, 100), cell.Make(cell.STONE, 0, 0), cell.Empty, cell.Empty)
	applyStoneHeat(b, streamFor(3000))
	if !(b.TL().Aux() < 100) {
		t.Fatalf("hotter STONE must lose heat toward the cooler neighbor")
	}
	if !(b.TR().Aux() > 0) {
		t.Fatalf("cooler STONE must gain heat from the hotter neighbor")
	}
}

func TestStoneHeatGainCapsAt255(t *testing.T) {
	b := NewBlock(cell.Make(cell.STONE, 0, 253), cell.Make(cell.LAVA, 0, 200), cell.Make(cell.LAVA, 0, 200), cell.Empty)
	applyStoneHeat(b, streamFor(3001))
	if b.TL().Aux() != 255 {
		t.Fatalf("STONE heat must cap at 255, got %d", b.TL().Aux())
	}
}
