package powdersim

// Config describes the grid a Simulation drives: its dimensions and how
// many block passes run per frame. PassesPerFrame must be a multiple of
// 4 — one Fisher-Yates-shuffled sweep of the four Margolus offsets per
// group of 4, the first half full-simulation and the second
// lateral-only (§4.6, §4.7).
type Config struct {
	Width, Height  int
	PassesPerFrame int
}

// Validate checks the invariants New relies on, returning an
// *InvalidConfig describing the first violation found.
func (c Config) Validate() error {
	if c.Width < 2 {
		return &InvalidConfig{Field: "Width", Reason: "must be at least 2 to hold a single 2x2 block"}
	}
	if c.Height < 2 {
		return &InvalidConfig{Field: "Height", Reason: "must be at least 2 to hold a single 2x2 block"}
	}
	if c.PassesPerFrame <= 0 {
		return &InvalidConfig{Field: "PassesPerFrame", Reason: "must be positive"}
	}
	if c.PassesPerFrame%4 != 0 {
		return &InvalidConfig{Field: "PassesPerFrame", Reason: "must be a multiple of 4"}
	}
	return nil
}
