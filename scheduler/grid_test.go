package scheduler

import (
	"testing"

	"github.com/ardentgrid/powdersim/cell"
)

// P10: eraser overrides. A pending entry with element==0 overwrites any
// live cell; a pending entry with element!=0 overwrites only if the
// live cell is currently EMPTY.
func TestApplyPendingEraserAlwaysOverwrites(t *testing.T) {
	live := NewGrid(2, 2)
	live.Set(0, 0, cell.Make(cell.SAND, 0, 0))
	pending := NewPendingGrid(2, 2)
	pending.Stage(0, 0, cell.Empty)

	ApplyPending(live, pending)

	if live.At(0, 0).Element() != cell.EMPTY {
		t.Fatalf("eraser stamp must overwrite any live cell, got %v", live.At(0, 0).Element())
	}
}

func TestApplyPendingNonEraserOnlyOverwritesEmpty(t *testing.T) {
	live := NewGrid(2, 2)
	live.Set(0, 0, cell.Make(cell.SAND, 0, 0))
	pending := NewPendingGrid(2, 2)
	pending.Stage(0, 0, cell.Make(cell.WATER, 0, 0))
	pending.Stage(1, 0, cell.Make(cell.WATER, 0, 0)) // (1,0) is EMPTY in live

	ApplyPending(live, pending)

	if live.At(0, 0).Element() != cell.SAND {
		t.Fatalf("non-eraser stamp must not overwrite an occupied cell, got %v", live.At(0, 0).Element())
	}
	if live.At(1, 0).Element() != cell.WATER {
		t.Fatalf("non-eraser stamp must overwrite an EMPTY cell, got %v", live.At(1, 0).Element())
	}
}

func TestApplyPendingClearsSlotsAfterApplying(t *testing.T) {
	live := NewGrid(2, 2)
	pending := NewPendingGrid(2, 2)
	pending.Stage(0, 0, cell.Make(cell.WATER, 0, 0))

	ApplyPending(live, pending)

	if _, set := pending.Peek(0, 0); set {
		t.Fatalf("pending slot must be cleared after application")
	}
}

func TestGridClearZeroesEverything(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(0, 0, cell.Make(cell.SAND, 5, 9))
	g.Clear()
	if g.At(0, 0) != cell.Empty {
		t.Fatalf("Clear must zero every cell")
	}
}
