// Package cpu implements the SM83 core: a register file, the 256+256 entry
// instruction tables and the fetch/execute step with interrupt servicing.
package cpu

import "math/bits"

// Bus is the memory the CPU executes against.
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
	PendingInterrupts() byte
	AckInterrupt(bit int)
	// IncDecAccess is told about every 16-bit increment or decrement that
	// puts an address on the bus.
	IncDecAccess(addr uint16)
}

const addrDIV = 0xFF04

// CPU is the SM83 core: registers, interrupt master enable and the
// HALT/STOP latches.
type CPU struct {
	Regs Registers
	IME  bool

	halted  bool
	stopped bool
	locked  bool // illegal opcode executed
	haltBug bool // next fetch does not advance PC

	// EI enables IME after the following instruction
	eiPending bool

	operand  uint16 // address of the first operand byte of the current instruction
	retired  uint64
	serviced uint64
}

// New returns a CPU with all registers zeroed, as the boot ROM expects.
func New() *CPU {
	return &CPU{}
}

// ResetPostBoot sets registers to the DMG state after the boot ROM hands
// over to the cartridge.
func (c *CPU) ResetPostBoot() {
	c.Regs.Set(RegA, 0x01)
	c.Regs.Set(RegF, 0xB0)
	c.Regs.SetPair(PairBC, 0x0013)
	c.Regs.SetPair(PairDE, 0x00D8)
	c.Regs.SetPair(PairHL, 0x014D)
	c.Regs.SP = 0xFFFE
	c.Regs.PC = 0x0100
	c.IME = false
	c.halted, c.stopped, c.locked, c.haltBug, c.eiPending = false, false, false, false, false
}

func (c *CPU) Halted() bool  { return c.halted }
func (c *CPU) Stopped() bool { return c.stopped }

// Locked reports whether an illegal opcode froze the CPU.
func (c *CPU) Locked() bool { return c.locked }

// Retired counts executed instructions; interrupt dispatch and idle steps
// do not count.
func (c *CPU) Retired() uint64 { return c.retired }

// Serviced counts interrupt dispatches.
func (c *CPU) Serviced() uint64 { return c.serviced }

// Wake leaves STOP mode; the joypad calls it on a key press.
func (c *CPU) Wake() { c.stopped = false }

// Step services an interrupt or executes one instruction and returns the
// base cycles consumed.
func (c *CPU) Step(mem Bus) int {
	if c.locked {
		return 4
	}
	pending := mem.PendingInterrupts()
	if c.IME && pending != 0 {
		bit := bits.TrailingZeros8(pending)
		mem.AckInterrupt(bit)
		c.IME = false
		c.eiPending = false
		c.halted = false
		c.stopped = false
		ret := c.Regs.PC
		if c.haltBug {
			// EI;HALT with an interrupt already pending: return to the HALT.
			c.haltBug = false
			ret--
		}
		c.push16(mem, ret)
		c.Regs.PC = 0x0040 + uint16(bit)*8
		c.serviced++
		return 20
	}
	if c.halted || c.stopped {
		if pending == 0 {
			return 4
		}
		c.halted = false
		c.stopped = false
	}

	pc := c.Regs.PC
	next := pc + 1
	if c.haltBug {
		next = pc
		c.haltBug = false
	}
	ins := &primary[mem.Read(pc)]
	if ins.Prefix {
		ins = &extended[mem.Read(next)]
	}
	c.operand = next
	c.Regs.PC = next + uint16(ins.Length) - 1

	enable := c.eiPending
	c.retired++
	cycles := ins.Cycles + ins.Exec(c, mem)
	if enable && c.eiPending {
		c.IME = true
		c.eiPending = false
	}
	return cycles
}

func (c *CPU) d8(mem Bus) byte { return mem.Read(c.operand) }

func (c *CPU) d16(mem Bus) uint16 {
	lo := uint16(mem.Read(c.operand))
	hi := uint16(mem.Read(c.operand + 1))
	return lo | hi<<8
}

func read16(mem Bus, addr uint16) uint16 {
	return uint16(mem.Read(addr)) | uint16(mem.Read(addr+1))<<8
}

func write16(mem Bus, addr uint16, v uint16) {
	mem.Write(addr, byte(v))
	mem.Write(addr+1, byte(v>>8))
}

func (c *CPU) push16(mem Bus, v uint16) {
	mem.IncDecAccess(c.Regs.SP)
	c.Regs.SP -= 2
	write16(mem, c.Regs.SP, v)
}

func (c *CPU) pop16(mem Bus) uint16 {
	v := read16(mem, c.Regs.SP)
	mem.IncDecAccess(c.Regs.SP)
	c.Regs.SP += 2
	return v
}

// get8 reads an operand in opcode encoding: B C D E H L (HL) A.
func (c *CPU) get8(mem Bus, idx int) byte {
	if idx == 6 {
		return mem.Read(c.Regs.Pair(PairHL))
	}
	return c.Regs.r[regIndex[idx]]
}

func (c *CPU) set8(mem Bus, idx int, v byte) {
	if idx == 6 {
		mem.Write(c.Regs.Pair(PairHL), v)
		return
	}
	c.Regs.r[regIndex[idx]] = v
}

var regIndex = [8]Reg{RegB, RegC, RegD, RegE, RegH, RegL, RegF, RegA}
