package scheduler

import (
	"encoding/binary"

	"github.com/ardentgrid/powdersim/automaton"
)

// PassUniform is the exact per-pass uniform record from §4.7:
// {width, height, offset_x, offset_y, frame_and_pass_counter,
// lateral_only}. Six 32-bit fields pack to 24 bytes; UniformSize rounds
// up to 32 to satisfy typical device minimum-uniform-buffer-binding-size
// alignment (a detail left to "aligned per device rules" in §5),
// mirroring how the teacher pads CameraUB to a round byte count in
// manager.go rather than relying on the struct's natural size.
type PassUniform struct {
	Width, Height    uint32
	OffsetX, OffsetY uint32
	FrameAndPass     uint32
	LateralOnly      uint32
}

// UniformSize is the byte size of one PassUniform slot once padded.
const UniformSize = 32

// Bytes serializes u into a UniformSize-byte little-endian buffer
// suitable for writing straight into a uniform buffer binding.
func (u PassUniform) Bytes() []byte {
	buf := make([]byte, UniformSize)
	binary.LittleEndian.PutUint32(buf[0:], u.Width)
	binary.LittleEndian.PutUint32(buf[4:], u.Height)
	binary.LittleEndian.PutUint32(buf[8:], u.OffsetX)
	binary.LittleEndian.PutUint32(buf[12:], u.OffsetY)
	binary.LittleEndian.PutUint32(buf[16:], u.FrameAndPass)
	binary.LittleEndian.PutUint32(buf[20:], u.LateralOnly)
	return buf
}

// DispatchCounts implements the ceil((W-ox)/2) x ceil((H-oy)/2) block
// count from §4.7's dispatch-grid rule.
func DispatchCounts(width, height, offsetX, offsetY int) (blocksX, blocksY int) {
	blocksX = ceilDiv(width-offsetX, 2)
	blocksY = ceilDiv(height-offsetY, 2)
	return
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// ApplyPassCPU is the pure-Go reference executor for one block pass: it
// reads from src, writes to dst, dispatching automaton.UpdateBlock over
// every 2x2 block at the given offset and copying orphan edges through
// unchanged (§4.7, I5, P3). This is the surface the property and
// scenario tests in §8 exercise; the GPU path in the gpu package
// dispatches shaders/block_kernel.wgsl, which applies only FIRE aging
// and the baseline column swap of the automaton rules.
func ApplyPassCPU(dst, src *Grid, offsetX, offsetY int, passIndex, frameCounter uint32, lateralOnly bool) {
	w, h := src.Width(), src.Height()

	// Orphan edges: the row/column at coordinate 0 when offset is 1.
	if offsetX == 1 {
		for y := 0; y < h; y++ {
			dst.Set(0, y, src.At(0, y))
		}
	}
	if offsetY == 1 {
		for x := 0; x < w; x++ {
			dst.Set(x, 0, src.At(x, 0))
		}
	}

	for by := offsetY; by+1 < h; by += 2 {
		for bx := offsetX; bx+1 < w; bx += 2 {
			tl, tr, bl, br := automaton.UpdateBlock(bx, by, passIndex, frameCounter, lateralOnly, src)
			dst.Set(bx, by, tl)
			dst.Set(bx+1, by, tr)
			dst.Set(bx, by+1, bl)
			dst.Set(bx+1, by+1, br)
		}
	}

	// Trailing row/column that falls outside the last full block when
	// (width/height - offset) is odd.
	if (w-offsetX)%2 == 1 {
		x := w - 1
		for y := 0; y < h; y++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
	if (h-offsetY)%2 == 1 {
		y := h - 1
		for x := 0; x < w; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
}
