package emu

import "github.com/FabianRolfMatthiasNoll/dmgcore/internal/bus"

type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

// Mask packs the buttons into the UpdateJoypad bit layout.
func (b Buttons) Mask() byte {
	var mask byte
	set := func(on bool, bit byte) {
		if on {
			mask |= bit
		}
	}
	set(b.A, bus.JoypA)
	set(b.B, bus.JoypB)
	set(b.Select, bus.JoypSelectBtn)
	set(b.Start, bus.JoypStart)
	set(b.Right, bus.JoypRight)
	set(b.Left, bus.JoypLeft)
	set(b.Up, bus.JoypUp)
	set(b.Down, bus.JoypDown)
	return mask
}

func (m *Machine) SetButtons(b Buttons) { m.UpdateJoypad(b.Mask()) }
