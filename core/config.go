package core

// Config holds the timing parameters of the control loop.
// Zero values are replaced with defaults by ApplyDefaults.
type Config struct {
	// TickMS is the polling period of the control loop
	TickMS uint32

	// DebounceMS is how long a raw level must hold before the
	// debounced state follows it
	DebounceMS uint32

	// LongPressMS is the hold duration that classifies a press as long
	LongPressMS uint32

	// StatusDwellMS is how long a terminal-action status message
	// (saved / loaded / canceled / error) stays on the display
	StatusDwellMS uint32
}

// ApplyDefaults fills in missing configuration values with sensible defaults
func (c *Config) ApplyDefaults() {
	if c.TickMS == 0 {
		c.TickMS = 10
	}
	if c.DebounceMS == 0 {
		c.DebounceMS = 50
	}
	if c.LongPressMS == 0 {
		c.LongPressMS = 1500
	}
	if c.StatusDwellMS == 0 {
		c.StatusDwellMS = 1200
	}
}

// DefaultConfig returns the stock timing configuration
func DefaultConfig() Config {
	var c Config
	c.ApplyDefaults()
	return c
}
