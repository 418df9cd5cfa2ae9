package golden

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/ardentgrid/powdersim/cell"
	"github.com/ardentgrid/powdersim/scheduler"
)

func TestRenderProducesDecodablePNG(t *testing.T) {
	g := scheduler.NewGrid(4, 4)
	g.Set(1, 1, cell.Make(cell.SAND, 0, 0))
	g.Set(2, 2, cell.Make(cell.WATER, 0, 0))

	data, err := Render(g)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("encoded output does not decode as PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 4*Scale || bounds.Dy() != 4*Scale {
		t.Fatalf("unexpected dimensions: got %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), 4*Scale, 4*Scale)
	}
}

func TestRenderHandlesUnmappedElementGracefully(t *testing.T) {
	g := scheduler.NewGrid(2, 2)
	g.Set(0, 0, cell.Cell(0xFF)) // element byte 255 has no palette entry
	if _, err := Render(g); err != nil {
		t.Fatalf("Render on a grid with an unmapped element should not error: %v", err)
	}
}
