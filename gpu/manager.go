// Package gpu wires the automaton and scheduler packages to an actual
// WebGPU device: buffer allocation, compute pipelines, precomputed bind
// groups, the conditional-write dispatch, and the async particle-count
// readback. Apart from the root package's Simulation API, it is the
// only package in this module that imports wgpu — automaton and
// scheduler stay pure Go so they're testable without a device.
package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/ardentgrid/powdersim/scheduler"
	"github.com/ardentgrid/powdersim/shaders"
)

// Manager owns every GPU resource the simulation needs: the ping-pong
// cell buffers, the pending-write buffer, per-pass uniform buffers and
// bind groups, the two compute pipelines, and the readback staging
// buffer. Everything is allocated once in NewManager and released in
// Release, matching the teacher's "acquire in new, release on destroy"
// lifetime (§9).
type Manager struct {
	Device *wgpu.Device

	Width, Height int

	CellBufs   [2]*wgpu.Buffer
	PendingBuf *wgpu.Buffer

	UniformBufs    []*wgpu.Buffer
	BlockBGs       [][2]*wgpu.BindGroup // [passIndex][readBufferIndex]
	ConditionalBGs [2]*wgpu.BindGroup   // indexed by which buffer is currently live

	BlockPipeline       *wgpu.ComputePipeline
	ConditionalPipeline *wgpu.ComputePipeline

	ReadbackBuf      *wgpu.Buffer
	readbackMapped   bool
	readbackInFlight bool
	particleCount    uint32
	dropReason       string

	// Logger receives a warning when an in-flight readback's map fails
	// (§7's ReadbackDropped). Nil is a valid, silent default; Simulation
	// wires its own Logger in here after construction.
	Logger Logger
}

// NewManager allocates every buffer, pipeline, and bind group needed to
// run passesPerFrame block passes over a width x height grid. Buffer
// sizes follow §5: W*H*4 bytes for the cell buffers, the same for
// pending, UniformSize bytes per pass slot.
func NewManager(device *wgpu.Device, width, height, passesPerFrame int) (*Manager, error) {
	m := &Manager{Device: device, Width: width, Height: height}

	cellSize := uint64(width * height * 4)
	for i := range m.CellBufs {
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("CellBuf%d", i),
			Size:  cellSize,
			Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
		})
		if err != nil {
			return nil, fmt.Errorf("allocate cell buffer %d: %w", i, err)
		}
		m.CellBufs[i] = buf
	}

	pendingBuf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "PendingBuf",
		Size:  cellSize,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("allocate pending buffer: %w", err)
	}
	m.PendingBuf = pendingBuf

	readback, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ReadbackBuf",
		Size:  cellSize,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		return nil, fmt.Errorf("allocate readback buffer: %w", err)
	}
	m.ReadbackBuf = readback

	m.UniformBufs = make([]*wgpu.Buffer, passesPerFrame)
	for i := range m.UniformBufs {
		ub, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("PassUniform%d", i),
			Size:  uint64(scheduler.UniformSize),
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("allocate pass uniform %d: %w", i, err)
		}
		m.UniformBufs[i] = ub
	}

	if err := m.createPipelines(); err != nil {
		return nil, err
	}
	if err := m.createBindGroups(passesPerFrame); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) createPipelines() error {
	blockModule, err := m.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "BlockKernel",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: shaders.BlockKernelWGSL,
		},
	})
	if err != nil {
		return fmt.Errorf("compile block kernel shader: %w", err)
	}
	defer blockModule.Release()

	m.BlockPipeline, err = m.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: "BlockKernelPipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     blockModule,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return fmt.Errorf("create block kernel pipeline: %w", err)
	}

	condModule, err := m.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "ConditionalWrite",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: shaders.ConditionalWriteWGSL,
		},
	})
	if err != nil {
		return fmt.Errorf("compile conditional write shader: %w", err)
	}
	defer condModule.Release()

	m.ConditionalPipeline, err = m.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: "ConditionalWritePipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     condModule,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return fmt.Errorf("create conditional write pipeline: %w", err)
	}
	return nil
}

// createBindGroups precomputes one bind group per (pass index,
// ping-pong read-buffer index) pair, and one conditional-write bind
// group per live-buffer index, exactly matching §5's "the scheduler
// owns precomputed bind groups for every (pass-index, ping-pong-
// direction) pair to avoid per-frame allocation".
func (m *Manager) createBindGroups(passesPerFrame int) error {
	blockLayout := m.BlockPipeline.GetBindGroupLayout(0)
	m.BlockBGs = make([][2]*wgpu.BindGroup, passesPerFrame)
	for pass := 0; pass < passesPerFrame; pass++ {
		for readIdx := 0; readIdx < 2; readIdx++ {
			writeIdx := 1 - readIdx
			bg, err := m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
				Label:  fmt.Sprintf("BlockBG pass=%d read=%d", pass, readIdx),
				Layout: blockLayout,
				Entries: []wgpu.BindGroupEntry{
					{Binding: 0, Buffer: m.UniformBufs[pass], Size: wgpu.WholeSize},
					{Binding: 1, Buffer: m.CellBufs[readIdx], Size: wgpu.WholeSize},
					{Binding: 2, Buffer: m.CellBufs[writeIdx], Size: wgpu.WholeSize},
				},
			})
			if err != nil {
				return fmt.Errorf("create block bind group pass=%d read=%d: %w", pass, readIdx, err)
			}
			m.BlockBGs[pass][readIdx] = bg
		}
	}

	condLayout := m.ConditionalPipeline.GetBindGroupLayout(0)
	for liveIdx := 0; liveIdx < 2; liveIdx++ {
		bg, err := m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("ConditionalBG live=%d", liveIdx),
			Layout: condLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: m.CellBufs[liveIdx], Size: wgpu.WholeSize},
				{Binding: 1, Buffer: m.PendingBuf, Size: wgpu.WholeSize},
			},
		})
		if err != nil {
			return fmt.Errorf("create conditional write bind group live=%d: %w", liveIdx, err)
		}
		m.ConditionalBGs[liveIdx] = bg
	}
	return nil
}

// Release frees every GPU resource the manager owns. The host must not
// use the manager afterward.
func (m *Manager) Release() {
	for _, b := range m.CellBufs {
		if b != nil {
			b.Release()
		}
	}
	if m.PendingBuf != nil {
		m.PendingBuf.Release()
	}
	if m.ReadbackBuf != nil {
		m.ReadbackBuf.Release()
	}
	for _, ub := range m.UniformBufs {
		if ub != nil {
			ub.Release()
		}
	}
	for _, pair := range m.BlockBGs {
		for _, bg := range pair {
			if bg != nil {
				bg.Release()
			}
		}
	}
	for _, bg := range m.ConditionalBGs {
		if bg != nil {
			bg.Release()
		}
	}
	if m.BlockPipeline != nil {
		m.BlockPipeline.Release()
	}
	if m.ConditionalPipeline != nil {
		m.ConditionalPipeline.Release()
	}
}
