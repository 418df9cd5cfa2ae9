package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Logger is the minimal logging surface gpu needs. It is defined here
// (rather than imported) so this package never depends on the root
// powdersim package; powdersim.Logger satisfies it structurally.
type Logger interface {
	Warnf(format string, args ...any)
}

// RequestParticleCount issues a copy of the currently-live cell buffer
// into the mappable readback buffer, if no readback is already in
// flight (§4.9, §9: "at most one readback in flight"). The copy itself
// is recorded into encoder; the map/poll/count/unmap sequence happens
// in PollParticleCount.
func (m *Manager) RequestParticleCount(encoder *wgpu.CommandEncoder, liveIdx int) {
	if m.readbackInFlight {
		return
	}
	encoder.CopyBufferToBuffer(m.CellBufs[liveIdx], 0, m.ReadbackBuf, 0, uint64(m.Width*m.Height*4))
	m.readbackInFlight = true
}

// PollParticleCount drives the async map of the readback buffer, exactly
// mirroring manager_hiz.go's ReadbackHiZ: issue MapAsync once, poll the
// device, and when the mapping completes, count non-EMPTY cells and
// unmap. It is safe to call every frame; it is a no-op when no readback
// is in flight or the map hasn't completed yet.
func (m *Manager) PollParticleCount() {
	if !m.readbackInFlight {
		return
	}

	if !m.readbackMapped {
		size := m.ReadbackBuf.GetSize()
		m.ReadbackBuf.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
			if status == wgpu.BufferMapAsyncStatusSuccess {
				m.readbackMapped = true
			} else {
				// ReadbackDropped (§7): leave particleCount untouched,
				// record why so the caller can surface it, and clear the
				// in-flight flag so a future request can retry.
				reason := fmt.Sprintf("map failed with status %v", status)
				m.dropReason = reason
				if m.Logger != nil {
					m.Logger.Warnf("particle-count readback dropped: %s", reason)
				}
				m.readbackInFlight = false
			}
		})
	}

	m.Device.Poll(false, nil)

	if m.readbackMapped {
		size := m.ReadbackBuf.GetSize()
		data := m.ReadbackBuf.GetMappedRange(0, uint(size))

		count := uint32(0)
		for i := 0; i+4 <= len(data); i += 4 {
			if data[i] != 0 { // element byte is the low byte of each little-endian word
				count++
			}
		}
		m.particleCount = count

		m.ReadbackBuf.Unmap()
		m.readbackMapped = false
		m.readbackInFlight = false
	}
}

// ParticleCount returns the most recently completed readback count.
func (m *Manager) ParticleCount() uint32 { return m.particleCount }

// TakeDropReason returns the reason behind the most recent dropped
// readback, if any, clearing it so it is reported only once. Callers
// that want a typed error (e.g. the root package's ReadbackDropped)
// construct it from this string.
func (m *Manager) TakeDropReason() (string, bool) {
	if m.dropReason == "" {
		return "", false
	}
	reason := m.dropReason
	m.dropReason = ""
	return reason, true
}
