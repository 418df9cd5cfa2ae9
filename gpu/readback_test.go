package gpu

import "testing"

// TestReadbackAtMostOneInFlight exercises the in-flight guard without a
// real device: RequestParticleCount must no-op (never touch the
// encoder) once a readback is already in flight, satisfying §9's "at
// most one readback in flight" resource rule.
func TestReadbackAtMostOneInFlight(t *testing.T) {
	m := &Manager{Width: 4, Height: 4, readbackInFlight: true}
	// A nil encoder would panic if RequestParticleCount tried to use it;
	// reaching return without panicking proves the guard short-circuited.
	m.RequestParticleCount(nil, 0)
	if !m.readbackInFlight {
		t.Fatalf("guard must leave readbackInFlight untouched when already in flight")
	}
}

func TestParticleCountInitiallyZero(t *testing.T) {
	m := &Manager{}
	if m.ParticleCount() != 0 {
		t.Fatalf("particle count must start at 0 (§6)")
	}
}

func TestPollParticleCountNoOpWhenNotInFlight(t *testing.T) {
	m := &Manager{particleCount: 7}
	m.PollParticleCount()
	if m.particleCount != 7 {
		t.Fatalf("PollParticleCount must not touch particleCount when nothing is in flight")
	}
}

func TestTakeDropReasonEmptyByDefault(t *testing.T) {
	m := &Manager{}
	if _, dropped := m.TakeDropReason(); dropped {
		t.Fatalf("a fresh Manager must report no dropped readback")
	}
}

type recordingLogger struct {
	warnings []string
}

func (r *recordingLogger) Warnf(format string, args ...any) {
	r.warnings = append(r.warnings, format)
}

func TestTakeDropReasonReturnsAndClearsOnce(t *testing.T) {
	m := &Manager{dropReason: "map failed with status 1"}
	reason, dropped := m.TakeDropReason()
	if !dropped || reason != "map failed with status 1" {
		t.Fatalf("expected the recorded drop reason, got %q dropped=%v", reason, dropped)
	}
	if _, droppedAgain := m.TakeDropReason(); droppedAgain {
		t.Fatalf("TakeDropReason must clear the reason so it is reported only once")
	}
}

func TestManagerAcceptsLogger(t *testing.T) {
	lg := &recordingLogger{}
	m := &Manager{Logger: lg}
	if m.Logger == nil {
		t.Fatalf("Logger field must be settable")
	}
}
