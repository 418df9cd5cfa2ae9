package cell

import "testing"

func TestDensityOrdering(t *testing.T) {
	if !(Density(FIRE) < Density(SMOKE)) && Density(FIRE) != 0 {
		t.Fatalf("FIRE should be the lightest element")
	}
	if Density(SMOKE) != Density(STEAM) {
		t.Fatalf("SMOKE and STEAM should share a density band")
	}
	if !(Density(SMOKE) < Density(EMPTY)) {
		t.Fatalf("gases must be lighter than EMPTY so they rise")
	}
	if !(Density(EMPTY) < Density(OIL)) {
		t.Fatalf("EMPTY must be lighter than OIL so liquids/solids sink through it")
	}
	if !(Density(OIL) < Density(WATER)) || !(Density(WATER) < Density(ACID)) || !(Density(ACID) < Density(LAVA)) {
		t.Fatalf("liquid density ordering violated: oil=%d water=%d acid=%d lava=%d",
			Density(OIL), Density(WATER), Density(ACID), Density(LAVA))
	}
	if !(Density(LAVA) < Density(WOOD)) || !(Density(WOOD) < Density(SAND)) {
		t.Fatalf("lava/wood/sand density ordering violated")
	}
	if Density(SAND) != Density(GUNPOWDER) {
		t.Fatalf("SAND and GUNPOWDER should share a density band")
	}
	if !(Density(SAND) < Density(GLASS)) || !(Density(GLASS) < Density(BOMB)) || Density(BOMB) != Density(STONE) {
		t.Fatalf("glass/bomb/stone density ordering violated")
	}
}

func TestImmovable(t *testing.T) {
	for _, e := range []Element{STONE, WOOD, GLASS, BOMB} {
		if !Immovable(e) {
			t.Errorf("%v should be immovable", e)
		}
	}
	for _, e := range []Element{EMPTY, SAND, WATER, FIRE, STEAM, SMOKE, OIL, LAVA, ACID, GUNPOWDER} {
		if Immovable(e) {
			t.Errorf("%v should not be immovable", e)
		}
	}
}

func TestIsLiquidIsGas(t *testing.T) {
	for _, e := range []Element{WATER, OIL, LAVA, ACID} {
		if !IsLiquid(e) {
			t.Errorf("%v should be a liquid", e)
		}
		if IsGas(e) {
			t.Errorf("%v should not be a gas", e)
		}
	}
	for _, e := range []Element{FIRE, SMOKE, STEAM} {
		if !IsGas(e) {
			t.Errorf("%v should be a gas", e)
		}
		if IsLiquid(e) {
			t.Errorf("%v should not be a liquid", e)
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid(EMPTY) || !Valid(BOMB) {
		t.Fatalf("enumerated elements must be valid")
	}
	if Valid(elementCount) {
		t.Fatalf("one past the last element must be invalid")
	}
}
