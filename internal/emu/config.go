package emu

import "github.com/FabianRolfMatthiasNoll/dmgcore/internal/ppu"

// Config contains settings that affect emulation behavior.
type Config struct {
	Trace  bool      // log every executed instruction
	Shades [4]uint32 // 0xAARRGGBB colors for the four DMG shades, lightest first
}

// DefaultConfig returns tracing off and a gray ramp.
func DefaultConfig() Config {
	return Config{Shades: ppu.DefaultShades}
}

func (c Config) withDefaults() Config {
	if c.Shades == ([4]uint32{}) {
		c.Shades = ppu.DefaultShades
	}
	return c
}
