// Package powdersim implements a GPU-accelerated falling-powder block
// cellular automaton: gravity, liquid flow, gas buoyancy, and
// inter-element reactions over a dense grid of packed 32-bit cells.
package powdersim

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"

	"github.com/ardentgrid/powdersim/gpu"
	"github.com/ardentgrid/powdersim/scheduler"
)

// Simulation drives one grid's worth of GPU state across frames: the
// ping-pong cell buffers, the pending-brush staging area, and the
// per-frame pass schedule (§4.7). It holds no CPU-side copy of the grid
// — the host reads results back only through RequestParticleCount /
// ParticleCount, or by rendering the live buffer directly.
type Simulation struct {
	id uuid.UUID

	cfg Config
	gpu *gpu.Manager

	pending *scheduler.PendingGrid

	liveIdx      int
	frameCounter uint64

	logger       Logger
	onDeviceLost func(*DeviceLost)
	lost         bool

	particleCountRequested bool
}

// New allocates GPU resources for cfg and returns a ready-to-step
// Simulation. device must outlive the Simulation.
func New(device *wgpu.Device, cfg Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mgr, err := gpu.NewManager(device, cfg.Width, cfg.Height, cfg.PassesPerFrame)
	if err != nil {
		return nil, &DeviceInitFailure{Op: "NewManager", Err: err}
	}

	s := &Simulation{
		id:      uuid.New(),
		cfg:     cfg,
		gpu:     mgr,
		pending: scheduler.NewPendingGrid(cfg.Width, cfg.Height),
		logger:  NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	mgr.Logger = s.logger

	s.logger.Infof("simulation %s ready: %dx%d, %d passes/frame", s.id, cfg.Width, cfg.Height, cfg.PassesPerFrame)
	return s, nil
}

// ID returns the simulation's unique identifier, handy for disambiguating
// log lines when a host runs more than one Simulation at once.
func (s *Simulation) ID() uuid.UUID { return s.id }

// Step records one frame's worth of work into encoder: flushing staged
// brush writes, then PassesPerFrame block-kernel dispatches: the first
// half with gravity, the second half lateral-only, each group of four
// using a Fisher-Yates-shuffled order of the Margolus offsets (§4.6,
// §4.7). Step never returns an error — a lost device is
// recorded via the DeviceLost callback and further Steps become no-ops.
func (s *Simulation) Step(encoder *wgpu.CommandEncoder) {
	if s.lost {
		return
	}

	s.gpu.ApplyPending(encoder, s.liveIdx)
	s.pending.ClearAll()

	if s.particleCountRequested {
		s.gpu.RequestParticleCount(encoder, s.liveIdx)
		s.particleCountRequested = false
	}

	half := s.cfg.PassesPerFrame / 2
	for pass := 0; pass < s.cfg.PassesPerFrame; pass++ {
		sweep := pass / 4
		offset := scheduler.Offsets(uint32(s.frameCounter), sweep)[pass%4]
		lateralOnly := pass >= half

		combined := uint32(s.frameCounter)*4 + uint32(pass)
		u := scheduler.PassUniform{
			Width:        uint32(s.cfg.Width),
			Height:       uint32(s.cfg.Height),
			OffsetX:      uint32(offset[0]),
			OffsetY:      uint32(offset[1]),
			FrameAndPass: combined,
		}
		if lateralOnly {
			u.LateralOnly = 1
		}

		s.gpu.WriteUniform(pass, u)
		s.gpu.DispatchBlockPass(encoder, pass, s.liveIdx, offset[0], offset[1])
		s.liveIdx = 1 - s.liveIdx
	}

	s.frameCounter++
}

// WriteCells stages host-provided stamps for ingestion on the next Step,
// clipping to the grid bounds and silently dropping anything outside it
// (§6, §4.8). A Cell whose element is EMPTY is treated as an eraser: it
// always overwrites on apply, regardless of what currently occupies
// that cell.
func (s *Simulation) WriteCells(stamps []scheduler.Stamp) {
	for _, st := range stamps {
		if st.X < 0 || st.X >= s.cfg.Width || st.Y < 0 || st.Y >= s.cfg.Height {
			continue
		}
		s.pending.Stage(st.X, st.Y, st.Cell)
	}
	// gpu is nil only in unit tests exercising clipping/staging directly
	// against a bare Simulation{cfg, pending} (gpu.Manager needs a real
	// device and is only constructed by New).
	if s.gpu != nil {
		s.flushPendingToDevice()
	}
}

// flushPendingToDevice uploads every staged pending word to the device
// pending buffer. It is cheap to call per WriteCells batch since writes
// are coalesced by the host before this call.
func (s *Simulation) flushPendingToDevice() {
	data := make([]byte, s.cfg.Width*s.cfg.Height*4)
	for y := 0; y < s.cfg.Height; y++ {
		for x := 0; x < s.cfg.Width; x++ {
			c, ok := s.pending.Peek(x, y)
			if !ok {
				continue
			}
			idx := (y*s.cfg.Width + x) * 4
			word := uint32(c) | (1 << 31)
			data[idx+0] = byte(word)
			data[idx+1] = byte(word >> 8)
			data[idx+2] = byte(word >> 16)
			data[idx+3] = byte(word >> 24)
		}
	}
	s.gpu.WriteCells(0, data)
}

// Clear zeroes both cell buffers and the pending buffer.
func (s *Simulation) Clear() {
	s.gpu.Clear()
	s.pending.ClearAll()
	s.liveIdx = 0
}

// RequestParticleCount arms a readback of the live buffer for the next
// Step call, which is when a command encoder is actually available to
// record the copy into. The result becomes visible via ParticleCount
// once enough subsequent polls complete the async map. At most one
// readback is ever in flight (§9); a dropped map is logged via Logger
// and simply leaves ParticleCount returning its last value, matching
// §7's ReadbackDropped semantics.
func (s *Simulation) RequestParticleCount() {
	s.particleCountRequested = true
}

// ParticleCount polls the in-flight readback (if any) and returns the
// most recently completed particle count. A dropped map surfaces as a
// logged ReadbackDropped rather than an error return: ParticleCount
// simply keeps reporting its last successful value (§7).
func (s *Simulation) ParticleCount() uint32 {
	s.gpu.PollParticleCount()
	if reason, dropped := s.gpu.TakeDropReason(); dropped {
		s.logger.Warnf("%v", &ReadbackDropped{Reason: reason})
	}
	return s.gpu.ParticleCount()
}

// CurrentBufferIndex returns which of the two ping-pong cell buffers
// currently holds live state, for hosts that render directly from the
// GPU buffer.
func (s *Simulation) CurrentBufferIndex() int { return s.liveIdx }

// FrameCounter returns the number of frames stepped so far.
func (s *Simulation) FrameCounter() uint64 { return s.frameCounter }

// HandleDeviceLost records the device-lost condition and notifies the
// WithOnDeviceLost callback, if any. The host is responsible for
// forwarding its own wgpu device-lost notification here, since the
// *wgpu.Device is constructed and owned outside the Simulation; future
// Steps become no-ops afterward.
func (s *Simulation) HandleDeviceLost(reason string) {
	s.lost = true
	err := &DeviceLost{Reason: reason}
	s.logger.Errorf("%v", err)
	if s.onDeviceLost != nil {
		s.onDeviceLost(err)
	}
}

// Release frees every GPU resource the Simulation owns. The Simulation
// must not be used afterward.
func (s *Simulation) Release() {
	s.gpu.Release()
}
