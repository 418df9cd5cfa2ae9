package cell

import "testing"

// TestRoundTrip covers P1: for every valid element, every color, and
// every aux, decoding the encoded cell yields the original triple.
func TestRoundTrip(t *testing.T) {
	for e := Element(0); e < elementCount; e++ {
		for color := 0; color < 256; color++ {
			for aux := 0; aux < 256; aux++ {
				c := Make(e, uint8(color), uint8(aux))
				if c.Element() != e {
					t.Fatalf("element mismatch: want %v got %v", e, c.Element())
				}
				if c.Color() != uint8(color) {
					t.Fatalf("color mismatch: want %d got %d", color, c.Color())
				}
				if c.Aux() != uint8(aux) {
					t.Fatalf("aux mismatch: want %d got %d", aux, c.Aux())
				}
			}
		}
	}
}

func TestEmptyIsZero(t *testing.T) {
	if Empty != 0 {
		t.Fatalf("Empty must be the all-zero word")
	}
	if Empty.Occupied() {
		t.Fatalf("Empty must not be occupied")
	}
	c := Make(EMPTY, 0, 0)
	if c != Empty {
		t.Fatalf("Make(EMPTY, 0, 0) must equal Empty, got %x", uint32(c))
	}
}

func TestWithAuxPreservesOtherFields(t *testing.T) {
	c := Make(FIRE, 42, 100)
	c2 := c.WithAux(7)
	if c2.Element() != FIRE || c2.Color() != 42 || c2.Aux() != 7 {
		t.Fatalf("WithAux must only change aux: got element=%v color=%d aux=%d",
			c2.Element(), c2.Color(), c2.Aux())
	}
}

func TestReservedBitsAlwaysZero(t *testing.T) {
	c := Make(BOMB, 255, 255)
	if uint32(c)&0xFF000000 != 0 {
		t.Fatalf("reserved bits must be zero, got %#08x", uint32(c))
	}
}

func TestOccupied(t *testing.T) {
	if Make(EMPTY, 5, 5).Occupied() {
		t.Fatalf("a cell with element EMPTY must not be occupied regardless of other bits")
	}
	if !Make(SAND, 0, 0).Occupied() {
		t.Fatalf("a cell with a non-zero element must be occupied")
	}
}
