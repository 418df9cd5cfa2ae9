// Package automaton implements the block-local reaction and movement
// rule tables and the pure block kernel that ties them together. Every
// function here reads and writes exactly one 2x2 Margolus block and
// never touches anything outside it (§4.4-§4.6).
package automaton

import "github.com/ardentgrid/powdersim/cell"

// Block positions, matching the tiling in §4.6: (bx,by), (bx+1,by),
// (bx,by+1), (bx+1,by+1).
const (
	posTL = iota
	posTR
	posBL
	posBR
)

// Block holds the four cells of one Margolus block during an update.
type Block struct {
	c [4]cell.Cell
}

func NewBlock(tl, tr, bl, br cell.Cell) *Block {
	return &Block{c: [4]cell.Cell{tl, tr, bl, br}}
}

func (b *Block) TL() cell.Cell { return b.c[posTL] }
func (b *Block) TR() cell.Cell { return b.c[posTR] }
func (b *Block) BL() cell.Cell { return b.c[posBL] }
func (b *Block) BR() cell.Cell { return b.c[posBR] }

func (b *Block) SetTL(v cell.Cell) { b.c[posTL] = v }
func (b *Block) SetTR(v cell.Cell) { b.c[posTR] = v }
func (b *Block) SetBL(v cell.Cell) { b.c[posBL] = v }
func (b *Block) SetBR(v cell.Cell) { b.c[posBR] = v }

// Cells returns the four cells in TL, TR, BL, BR order.
func (b *Block) Cells() [4]cell.Cell { return b.c }

// Get/Set address a cell by its position constant; used by rules that
// iterate over all four cells uniformly (e.g. aging).
func (b *Block) Get(pos int) cell.Cell  { return b.c[pos] }
func (b *Block) Set(pos int, v cell.Cell) { b.c[pos] = v }

// Count returns how many of the four cells hold element e.
func (b *Block) Count(e cell.Element) int {
	n := 0
	for _, c := range b.c {
		if c.Element() == e {
			n++
		}
	}
	return n
}

// Any reports whether any cell in the block holds element e.
func (b *Block) Any(e cell.Element) bool {
	for _, c := range b.c {
		if c.Element() == e {
			return true
		}
	}
	return false
}

// MaxAux returns the maximum aux byte among cells holding element e, and
// whether any such cell exists.
func (b *Block) MaxAux(e cell.Element) (uint8, bool) {
	found := false
	var max uint8
	for _, c := range b.c {
		if c.Element() == e {
			if !found || c.Aux() > max {
				max = c.Aux()
				found = true
			}
		}
	}
	return max, found
}
