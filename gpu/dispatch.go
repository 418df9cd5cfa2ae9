package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/ardentgrid/powdersim/scheduler"
)

// ApplyPending records the conditional-write compute pass into encoder,
// merging the pending buffer into the live cell buffer indexed by
// liveIdx (§4.8). It must be recorded before the frame's block passes,
// matching the teacher's FlushEdits-before-render ordering in
// manager_edit.go.
func (m *Manager) ApplyPending(encoder *wgpu.CommandEncoder, liveIdx int) {
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(m.ConditionalPipeline)
	pass.SetBindGroup(0, m.ConditionalBGs[liveIdx], nil)
	workgroups := (uint32(m.Width*m.Height) + 63) / 64
	pass.DispatchWorkgroups(workgroups, 1, 1)
	pass.End()
}

// WriteUniform uploads one pass's uniform record to its precomputed
// slot. The host calls this once per pass before DispatchBlockPass.
func (m *Manager) WriteUniform(pass int, u scheduler.PassUniform) {
	m.Device.GetQueue().WriteBuffer(m.UniformBufs[pass], 0, u.Bytes())
}

// DispatchBlockPass records one block-kernel compute pass reading from
// buffer readIdx and writing to buffer 1-readIdx, covering the dispatch
// grid computed by scheduler.DispatchCounts (§4.7).
func (m *Manager) DispatchBlockPass(encoder *wgpu.CommandEncoder, passIndex, readIdx int, offsetX, offsetY int) {
	blocksX, blocksY := scheduler.DispatchCounts(m.Width, m.Height, offsetX, offsetY)

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(m.BlockPipeline)
	pass.SetBindGroup(0, m.BlockBGs[passIndex][readIdx], nil)
	pass.DispatchWorkgroups(uint32((blocksX+7)/8), uint32((blocksY+7)/8), 1)
	pass.End()
}

// WriteCells uploads brush stamps into the device-side pending buffer.
// The caller (the root Simulation type) is responsible for clipping to
// bounds and serializing the sentinel-bit convention; this just copies
// bytes to the device.
func (m *Manager) WriteCells(offset uint64, data []byte) {
	m.Device.GetQueue().WriteBuffer(m.PendingBuf, offset, data)
}

// Clear zeroes both cell buffers and the pending buffer via device-side
// writes, matching §6's clear() contract.
func (m *Manager) Clear() {
	zeros := make([]byte, m.Width*m.Height*4)
	m.Device.GetQueue().WriteBuffer(m.CellBufs[0], 0, zeros)
	m.Device.GetQueue().WriteBuffer(m.CellBufs[1], 0, zeros)
	m.Device.GetQueue().WriteBuffer(m.PendingBuf, 0, zeros)
}
