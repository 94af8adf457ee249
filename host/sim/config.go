package sim

import (
	"os"

	"github.com/BurntSushi/toml"

	"patchbay/core"
)

// Config is the simulator configuration, optionally loaded from a TOML
// file. Timings mirror core.Config; the tap durations control how long
// a simulated key press holds its line down.
type Config struct {
	TickMS        uint32 `toml:"tick_ms"`
	DebounceMS    uint32 `toml:"debounce_ms"`
	LongPressMS   uint32 `toml:"long_press_ms"`
	StatusDwellMS uint32 `toml:"status_dwell_ms"`

	ShortTapMS uint32 `toml:"short_tap_ms"`
	LongTapMS  uint32 `toml:"long_tap_ms"`

	StorageDir string `toml:"storage_dir"`
}

// LoadConfig reads a TOML config file. A missing file yields defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.StorageDir == "" {
		c.StorageDir = "patchbay-data"
	}

	// Timing defaults come from the core
	cc := c.Core()
	c.TickMS = cc.TickMS
	c.DebounceMS = cc.DebounceMS
	c.LongPressMS = cc.LongPressMS
	c.StatusDwellMS = cc.StatusDwellMS

	if c.ShortTapMS == 0 {
		// Comfortably past the debounce window
		c.ShortTapMS = c.DebounceMS*2 + 20
	}
	if c.LongTapMS == 0 {
		// Comfortably past the long-press threshold
		c.LongTapMS = c.LongPressMS + c.DebounceMS*2 + 100
	}
}

// Core returns the timing configuration for the controller
func (c *Config) Core() core.Config {
	cc := core.Config{
		TickMS:        c.TickMS,
		DebounceMS:    c.DebounceMS,
		LongPressMS:   c.LongPressMS,
		StatusDwellMS: c.StatusDwellMS,
	}
	cc.ApplyDefaults()
	return cc
}
