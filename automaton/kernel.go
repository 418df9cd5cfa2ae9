package automaton

import (
	"github.com/ardentgrid/powdersim/cell"
	"github.com/ardentgrid/powdersim/rng"
)

// BlockReader is the minimal read surface UpdateBlock needs from a grid.
// Keeping it this small means the kernel has zero dependency on how the
// grid is stored or dispatched; scheduler.Grid satisfies it directly.
type BlockReader interface {
	Width() int
	Height() int
	At(x, y int) cell.Cell
}

// UpdateBlock is the pure function at the center of the simulation: it
// reads the 2x2 block whose top-left corner is (baseX, baseY), applies
// reactions then movement, and returns the four updated cells in
// TL, TR, BL, BR order. It never reads or writes anything outside the
// block (§4.6).
func UpdateBlock(baseX, baseY int, passIndex, frameCounter uint32, lateralOnly bool, grid BlockReader) (tl, tr, bl, br cell.Cell) {
	b := NewBlock(
		grid.At(baseX, baseY),
		grid.At(baseX+1, baseY),
		grid.At(baseX, baseY+1),
		grid.At(baseX+1, baseY+1),
	)

	combined := frameCounter*4 + passIndex
	seed := rng.Seed(baseX/2, baseY/2, combined, 0)
	stream := rng.NewStream(seed)

	applyReactions(b, stream)
	applyMovement(b, stream, lateralOnly)

	return b.TL(), b.TR(), b.BL(), b.BR()
}
