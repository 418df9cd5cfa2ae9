package powdersim

// Option configures a Simulation at construction time, following the
// same composable-constructor shape the teacher builds App with.
type Option func(*Simulation)

// WithLogger installs a custom Logger, replacing the no-op default.
func WithLogger(logger Logger) Option {
	return func(s *Simulation) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOnDeviceLost installs a callback invoked when the device-lost
// handler fires; the Simulation itself only records a DeviceLost error
// and turns further Steps into no-ops, so hosts that need recovery (re-
// create the device, reload the grid) hook in here.
func WithOnDeviceLost(fn func(*DeviceLost)) Option {
	return func(s *Simulation) {
		s.onDeviceLost = fn
	}
}
