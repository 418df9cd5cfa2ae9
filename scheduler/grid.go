// Package scheduler implements the per-frame pass orchestration around
// the automaton kernel: ping-pong buffer selection, shuffled Margolus
// offsets, per-pass uniforms, dispatch sizing, orphan-edge copy, and
// brush-ingestion staging. The CPU reference executor in pass.go gives
// the property and scenario tests in §8 a way to exercise the exact
// same rules the GPU path dispatches, without a device.
package scheduler

import "github.com/ardentgrid/powdersim/cell"

// Grid is a row-major 2D buffer of cells. It satisfies automaton.BlockReader.
type Grid struct {
	width, height int
	cells         []cell.Cell
}

// NewGrid allocates a width*height grid, all cells EMPTY.
func NewGrid(width, height int) *Grid {
	return &Grid{width: width, height: height, cells: make([]cell.Cell, width*height)}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// At returns the cell at (x, y), or EMPTY if out of bounds (the kernel
// never reads outside a block's four cells in practice, but bounds
// checking here keeps the type safe for direct use by tests).
func (g *Grid) At(x, y int) cell.Cell {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return cell.Empty
	}
	return g.cells[y*g.width+x]
}

// Set writes the cell at (x, y); out-of-bounds writes are no-ops.
func (g *Grid) Set(x, y int, c cell.Cell) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	g.cells[y*g.width+x] = c
}

// Clear zeroes every cell.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = cell.Empty
	}
}

// CopyFrom overwrites g's contents with src's; both must share dimensions.
func (g *Grid) CopyFrom(src *Grid) {
	copy(g.cells, src.cells)
}

// PendingGrid holds staged-but-unapplied brush writes (§4.8). It is a
// distinct type from Grid so the sentinel high-bit convention can never
// be confused with a plain cell buffer at the type level.
type PendingGrid struct {
	width, height int
	words         []uint32
}

const pendingSentinel = uint32(1) << 31

func NewPendingGrid(width, height int) *PendingGrid {
	return &PendingGrid{width: width, height: height, words: make([]uint32, width*height)}
}

func (p *PendingGrid) Width() int  { return p.width }
func (p *PendingGrid) Height() int { return p.height }

// Stage records a pending write at (x, y), setting the sentinel bit
// internally. Out-of-bounds coordinates are no-ops (clipping happens at
// the Simulation.WriteCells layer; this is the lower-level primitive).
func (p *PendingGrid) Stage(x, y int, c cell.Cell) {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return
	}
	p.words[y*p.width+x] = pendingSentinel | (uint32(c) &^ pendingSentinel)
}

// Peek returns the pending word at (x, y) and whether the sentinel bit
// was set, without clearing it.
func (p *PendingGrid) Peek(x, y int) (cell.Cell, bool) {
	w := p.words[y*p.width+x]
	if w&pendingSentinel == 0 {
		return cell.Empty, false
	}
	return cell.Cell(w &^ pendingSentinel), true
}

// Clear zeroes the pending slot at (x, y).
func (p *PendingGrid) Clear(x, y int) {
	p.words[y*p.width+x] = 0
}

// ClearAll zeroes every pending slot.
func (p *PendingGrid) ClearAll() {
	for i := range p.words {
		p.words[i] = 0
	}
}

// Stamp is the host-facing unit of a brush write (§6 write_cells).
type Stamp struct {
	X, Y int
	Cell cell.Cell
}

// ApplyPending runs the conditional-write kernel (§4.8) over live,
// draining pending as it goes: an eraser word (element byte 0) always
// overwrites; any other word overwrites only when the live cell is
// currently EMPTY.
func ApplyPending(live *Grid, pending *PendingGrid) {
	for y := 0; y < live.height; y++ {
		for x := 0; x < live.width; x++ {
			c, set := pending.Peek(x, y)
			if !set {
				continue
			}
			if c.Element() == cell.EMPTY || live.At(x, y) == cell.Empty {
				live.Set(x, y, c)
			}
			pending.Clear(x, y)
		}
	}
}
