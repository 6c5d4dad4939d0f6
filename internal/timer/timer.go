// Package timer implements DIV and the TIMA/TMA/TAC timer.
package timer

import "github.com/FabianRolfMatthiasNoll/dmgcore/internal/bus"

const divPeriod = 256

// TIMA periods in base cycles, indexed by TAC bits 1-0.
var timaPeriods = [4]int{1024, 16, 64, 256}

// Memory is the slice of the memory map the timer needs.
type Memory interface {
	Reg(addr uint16) byte
	SetReg(addr uint16, value byte)
	RequestInterrupt(bit int)
	TakeDIVReset() bool
}

type Timer struct {
	divCycles  int
	timaCycles int
}

func New() *Timer { return &Timer{} }

// Tick advances the timer by the given number of base cycles.
func (t *Timer) Tick(mem Memory, cycles int) {
	if mem.TakeDIVReset() {
		t.divCycles = 0
		t.timaCycles = 0
	}

	t.divCycles += cycles
	for t.divCycles >= divPeriod {
		t.divCycles -= divPeriod
		mem.SetReg(bus.AddrDIV, mem.Reg(bus.AddrDIV)+1)
	}

	tac := mem.Reg(bus.AddrTAC)
	if tac&0x04 == 0 {
		return
	}
	period := timaPeriods[tac&0x03]
	t.timaCycles += cycles
	for t.timaCycles >= period {
		t.timaCycles -= period
		tima := mem.Reg(bus.AddrTIMA)
		if tima == 0xFF {
			mem.SetReg(bus.AddrTIMA, mem.Reg(bus.AddrTMA))
			mem.RequestInterrupt(bus.IntTimer)
			continue
		}
		mem.SetReg(bus.AddrTIMA, tima+1)
	}
}
