// Package golden renders a cell grid to a PNG for visually diffing
// scenario fixtures during development. It is test-only: no runtime
// package imports it.
package golden

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/ardentgrid/powdersim/cell"
)

// Scale is the number of output pixels per grid cell; a 1-pixel cell
// grid is too small to eyeball, so every cell is upscaled via
// draw.NearestNeighbor rather than drawn at native resolution.
const Scale = 8

var palette = map[cell.Element]color.RGBA{
	cell.EMPTY:     {0x10, 0x10, 0x14, 0xff},
	cell.SAND:      {0xd9, 0xb8, 0x5a, 0xff},
	cell.WATER:     {0x3a, 0x7c, 0xd9, 0xff},
	cell.STONE:     {0x6e, 0x6e, 0x72, 0xff},
	cell.FIRE:      {0xe2, 0x5a, 0x1c, 0xff},
	cell.STEAM:     {0xc9, 0xc9, 0xd6, 0xff},
	cell.WOOD:      {0x7a, 0x4a, 0x25, 0xff},
	cell.GLASS:     {0xa0, 0xd8, 0xe8, 0xff},
	cell.SMOKE:     {0x55, 0x55, 0x5c, 0xff},
	cell.OIL:       {0x3a, 0x2f, 0x1c, 0xff},
	cell.LAVA:      {0xf0, 0x7a, 0x10, 0xff},
	cell.ACID:      {0x6a, 0xd9, 0x3a, 0xff},
	cell.GUNPOWDER: {0x40, 0x40, 0x40, 0xff},
	cell.BOMB:      {0x20, 0x20, 0x20, 0xff},
}

// Grid is the minimal read surface golden needs; scheduler.Grid
// satisfies it without golden importing scheduler (keeping this a
// leaf package test code can pull in without pulling in the GPU stack).
type Grid interface {
	Width() int
	Height() int
	At(x, y int) cell.Cell
}

// Render draws g at Scale pixels per cell, one flat color per element,
// and returns the encoded PNG bytes.
func Render(g Grid) ([]byte, error) {
	w, h := g.Width(), g.Height()
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c, ok := palette[g.At(x, y).Element()]
			if !ok {
				c = color.RGBA{0xff, 0x00, 0xff, 0xff} // unmapped element: magenta
			}
			small.SetRGBA(x, y, c)
		}
	}

	big := image.NewRGBA(image.Rect(0, 0, w*Scale, h*Scale))
	draw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, big); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
