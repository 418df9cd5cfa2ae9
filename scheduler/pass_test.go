package scheduler

import (
	"testing"

	"github.com/ardentgrid/powdersim/cell"
)

func TestDispatchCountsEvenGrid(t *testing.T) {
	bx, by := DispatchCounts(8, 8, 0, 0)
	if bx != 4 || by != 4 {
		t.Fatalf("expected 4x4 blocks for an 8x8 grid at offset 0, got %dx%d", bx, by)
	}
}

func TestDispatchCountsOffsetOne(t *testing.T) {
	bx, by := DispatchCounts(8, 8, 1, 1)
	// ceil((8-1)/2) = 4
	if bx != 4 || by != 4 {
		t.Fatalf("expected ceil((8-1)/2)=4 blocks, got %dx%d", bx, by)
	}
}

// S6: orphan edge preservation. A 3x3 grid with a single SAND at (0,0);
// with offset (1,1), the cell at (0,0) belongs to no block and must be
// copied through unchanged.
func TestOrphanEdgePreservation(t *testing.T) {
	src := NewGrid(3, 3)
	src.Set(0, 0, cell.Make(cell.SAND, 0, 0))
	dst := NewGrid(3, 3)
	ApplyPassCPU(dst, src, 1, 1, 0, 0, false)
	if dst.At(0, 0).Element() != cell.SAND {
		t.Fatalf("orphan cell at (0,0) must be copied through, got %v", dst.At(0, 0).Element())
	}
}

// P3: after a full pass, every cell has been written exactly once
// (either by a block update or an orphan/bounds copy) — verified here
// as "every source cell appears somewhere sane in dst" via a full
// reconstruction: nothing should be left at its zero value if it had
// content, for an all-STONE grid (STONE never moves or reacts away).
func TestPassWritesEveryCellExactlyOnce(t *testing.T) {
	src := NewGrid(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, cell.Make(cell.STONE, 0, 0))
		}
	}
	dst := NewGrid(4, 4)
	ApplyPassCPU(dst, src, 0, 0, 0, 0, false)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if dst.At(x, y).Element() != cell.STONE {
				t.Fatalf("cell (%d,%d) was not covered by the pass: got %v", x, y, dst.At(x, y).Element())
			}
		}
	}
}

// S1-flavored: a single SAND cell above a vacuum, driven through many
// block passes, must eventually reach the floor and nothing else moves.
func TestSandFallsInVacuumOverManyPasses(t *testing.T) {
	a := NewGrid(4, 4)
	a.Set(1, 0, cell.Make(cell.SAND, 0, 0))
	b := NewGrid(4, 4)

	reached := false
	cur, next := a, b
	for frame := uint32(0); frame < 8 && !reached; frame++ {
		for pass := uint32(0); pass < 24; pass++ {
			sweep := int(pass / 4)
			o := Offsets(frame, sweep)[pass%4]
			lateralOnly := pass >= 12
			ApplyPassCPU(next, cur, o[0], o[1], frame*24+pass, frame, lateralOnly)
			cur, next = next, cur
		}
		if cur.At(1, 3).Element() == cell.SAND {
			reached = true
		}
	}
	if !reached {
		t.Fatalf("SAND never reached the floor row across 8 frames of 24 passes each")
	}
}

func TestPassUniformBytesLayout(t *testing.T) {
	u := PassUniform{Width: 64, Height: 32, OffsetX: 1, OffsetY: 0, FrameAndPass: 99, LateralOnly: 1}
	buf := u.Bytes()
	if len(buf) != UniformSize {
		t.Fatalf("expected %d-byte uniform, got %d", UniformSize, len(buf))
	}
}
