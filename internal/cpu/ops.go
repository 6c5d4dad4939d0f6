package cpu

type cond int

const (
	condNZ cond = iota
	condZ
	condNC
	condC
)

func (c *CPU) test(cc cond) bool {
	switch cc {
	case condNZ:
		return !c.flag(FlagZ)
	case condZ:
		return c.flag(FlagZ)
	case condNC:
		return !c.flag(FlagC)
	default:
		return c.flag(FlagC)
	}
}

type handler = func(c *CPU, mem Bus) int

func nop(*CPU, Bus) int { return 0 }

// illegal freezes the CPU until the machine is rebuilt.
func illegal(c *CPU, _ Bus) int {
	c.locked = true
	return 0
}

// 8-bit loads

func ld8(dst, src int) handler {
	return func(c *CPU, mem Bus) int {
		c.set8(mem, dst, c.get8(mem, src))
		return 0
	}
}

func ld8Imm(dst int) handler {
	return func(c *CPU, mem Bus) int {
		c.set8(mem, dst, c.d8(mem))
		return 0
	}
}

func ldPtrA(p Pair) handler {
	return func(c *CPU, mem Bus) int {
		mem.Write(c.Regs.Pair(p), c.Regs.r[RegA])
		return 0
	}
}

func ldAPtr(p Pair) handler {
	return func(c *CPU, mem Bus) int {
		c.Regs.r[RegA] = mem.Read(c.Regs.Pair(p))
		return 0
	}
}

// stepHL post-increments or post-decrements HL and reports the old value.
func (c *CPU) stepHL(mem Bus, delta int) uint16 {
	hl := c.Regs.Pair(PairHL)
	mem.IncDecAccess(hl)
	c.Regs.SetPair(PairHL, hl+uint16(delta))
	return hl
}

func ldHLStepA(delta int) handler {
	return func(c *CPU, mem Bus) int {
		a := c.Regs.r[RegA]
		mem.Write(c.stepHL(mem, delta), a)
		return 0
	}
}

func ldAHLStep(delta int) handler {
	return func(c *CPU, mem Bus) int {
		addr := c.Regs.Pair(PairHL)
		c.Regs.r[RegA] = mem.Read(addr)
		c.stepHL(mem, delta)
		return 0
	}
}

func ldhA8A(c *CPU, mem Bus) int {
	mem.Write(0xFF00|uint16(c.d8(mem)), c.Regs.r[RegA])
	return 0
}

func ldhAA8(c *CPU, mem Bus) int {
	c.Regs.r[RegA] = mem.Read(0xFF00 | uint16(c.d8(mem)))
	return 0
}

func ldCA(c *CPU, mem Bus) int {
	mem.Write(0xFF00|uint16(c.Regs.r[RegC]), c.Regs.r[RegA])
	return 0
}

func ldAC(c *CPU, mem Bus) int {
	c.Regs.r[RegA] = mem.Read(0xFF00 | uint16(c.Regs.r[RegC]))
	return 0
}

func ldA16A(c *CPU, mem Bus) int {
	mem.Write(c.d16(mem), c.Regs.r[RegA])
	return 0
}

func ldAA16(c *CPU, mem Bus) int {
	c.Regs.r[RegA] = mem.Read(c.d16(mem))
	return 0
}

// 16-bit loads and stack

func ld16Imm(p Pair) handler {
	return func(c *CPU, mem Bus) int {
		c.Regs.SetPair(p, c.d16(mem))
		return 0
	}
}

func ldSPImm(c *CPU, mem Bus) int {
	c.Regs.SP = c.d16(mem)
	return 0
}

func ldA16SP(c *CPU, mem Bus) int {
	write16(mem, c.d16(mem), c.Regs.SP)
	return 0
}

func ldHLSPr8(c *CPU, mem Bus) int {
	c.Regs.SetPair(PairHL, c.addSPSigned(c.d8(mem)))
	return 0
}

func ldSPHL(c *CPU, _ Bus) int {
	c.Regs.SP = c.Regs.Pair(PairHL)
	return 0
}

func push(p Pair) handler {
	return func(c *CPU, mem Bus) int {
		c.push16(mem, c.Regs.Pair(p))
		return 0
	}
}

func pop(p Pair) handler {
	return func(c *CPU, mem Bus) int {
		c.Regs.SetPair(p, c.pop16(mem))
		return 0
	}
}

// 8-bit arithmetic

func aluReg(op, src int) handler {
	return func(c *CPU, mem Bus) int {
		c.alu(op, c.get8(mem, src))
		return 0
	}
}

func aluImm(op int) handler {
	return func(c *CPU, mem Bus) int {
		c.alu(op, c.d8(mem))
		return 0
	}
}

func inc8(idx int) handler {
	return func(c *CPU, mem Bus) int {
		c.set8(mem, idx, c.inc8(c.get8(mem, idx)))
		return 0
	}
}

func dec8(idx int) handler {
	return func(c *CPU, mem Bus) int {
		c.set8(mem, idx, c.dec8(c.get8(mem, idx)))
		return 0
	}
}

func daa(c *CPU, _ Bus) int {
	c.daa()
	return 0
}

func cpl(c *CPU, _ Bus) int {
	c.Regs.r[RegA] = ^c.Regs.r[RegA]
	c.Regs.r[RegF] |= FlagN | FlagH
	return 0
}

func scf(c *CPU, _ Bus) int {
	c.setZNHC(c.flag(FlagZ), false, false, true)
	return 0
}

func ccf(c *CPU, _ Bus) int {
	c.setZNHC(c.flag(FlagZ), false, false, !c.flag(FlagC))
	return 0
}

// accumulator rotates always clear Z
func rotA(op int) handler {
	return func(c *CPU, _ Bus) int {
		c.Regs.r[RegA] = c.rot(op, c.Regs.r[RegA])
		c.Regs.r[RegF] &^= FlagZ
		return 0
	}
}

// 16-bit arithmetic

func inc16(p Pair) handler {
	return func(c *CPU, mem Bus) int {
		v := c.Regs.Pair(p)
		mem.IncDecAccess(v)
		c.Regs.SetPair(p, v+1)
		return 0
	}
}

func dec16(p Pair) handler {
	return func(c *CPU, mem Bus) int {
		v := c.Regs.Pair(p)
		mem.IncDecAccess(v)
		c.Regs.SetPair(p, v-1)
		return 0
	}
}

func incSP(c *CPU, mem Bus) int {
	mem.IncDecAccess(c.Regs.SP)
	c.Regs.SP++
	return 0
}

func decSP(c *CPU, mem Bus) int {
	mem.IncDecAccess(c.Regs.SP)
	c.Regs.SP--
	return 0
}

func addHL(p Pair) handler {
	return func(c *CPU, _ Bus) int {
		c.addHL(c.Regs.Pair(p))
		return 0
	}
}

func addHLSP(c *CPU, _ Bus) int {
	c.addHL(c.Regs.SP)
	return 0
}

func addSPr8(c *CPU, mem Bus) int {
	c.Regs.SP = c.addSPSigned(c.d8(mem))
	return 0
}

// control flow; conditional handlers return the extra cycles of a taken branch

func jr(c *CPU, mem Bus) int {
	c.Regs.PC += uint16(int8(c.d8(mem)))
	return 0
}

func jrCond(cc cond) handler {
	return func(c *CPU, mem Bus) int {
		if !c.test(cc) {
			return 0
		}
		c.Regs.PC += uint16(int8(c.d8(mem)))
		return 4
	}
}

func jp(c *CPU, mem Bus) int {
	c.Regs.PC = c.d16(mem)
	return 0
}

func jpCond(cc cond) handler {
	return func(c *CPU, mem Bus) int {
		if !c.test(cc) {
			return 0
		}
		c.Regs.PC = c.d16(mem)
		return 4
	}
}

func jpHL(c *CPU, _ Bus) int {
	c.Regs.PC = c.Regs.Pair(PairHL)
	return 0
}

func call(c *CPU, mem Bus) int {
	target := c.d16(mem)
	c.push16(mem, c.Regs.PC)
	c.Regs.PC = target
	return 0
}

func callCond(cc cond) handler {
	return func(c *CPU, mem Bus) int {
		if !c.test(cc) {
			return 0
		}
		target := c.d16(mem)
		c.push16(mem, c.Regs.PC)
		c.Regs.PC = target
		return 12
	}
}

func ret(c *CPU, mem Bus) int {
	c.Regs.PC = c.pop16(mem)
	return 0
}

func retCond(cc cond) handler {
	return func(c *CPU, mem Bus) int {
		if !c.test(cc) {
			return 0
		}
		c.Regs.PC = c.pop16(mem)
		return 12
	}
}

func reti(c *CPU, mem Bus) int {
	c.Regs.PC = c.pop16(mem)
	c.IME = true
	return 0
}

func rst(vec uint16) handler {
	return func(c *CPU, mem Bus) int {
		c.push16(mem, c.Regs.PC)
		c.Regs.PC = vec
		return 0
	}
}

// interrupt and power control

func di(c *CPU, _ Bus) int {
	c.IME = false
	c.eiPending = false
	return 0
}

func ei(c *CPU, _ Bus) int {
	c.eiPending = true
	return 0
}

// halt enters HALT mode, unless IME is clear and an interrupt is already
// pending: then the CPU keeps running and fails to advance PC on the next
// fetch.
func halt(c *CPU, mem Bus) int {
	if !c.IME && mem.PendingInterrupts() != 0 {
		c.haltBug = true
		return 0
	}
	c.halted = true
	return 0
}

func stop(c *CPU, mem Bus) int {
	c.stopped = true
	mem.Write(addrDIV, 0)
	return 0
}

// extended table

func cbRot(op, idx int) handler {
	return func(c *CPU, mem Bus) int {
		c.set8(mem, idx, c.rot(op, c.get8(mem, idx)))
		return 0
	}
}

func cbBit(bit uint, idx int) handler {
	return func(c *CPU, mem Bus) int {
		v := c.get8(mem, idx)
		c.setZNHC(v&(1<<bit) == 0, false, true, c.flag(FlagC))
		return 0
	}
}

func cbRes(bit uint, idx int) handler {
	return func(c *CPU, mem Bus) int {
		c.set8(mem, idx, c.get8(mem, idx)&^(1<<bit))
		return 0
	}
}

func cbSet(bit uint, idx int) handler {
	return func(c *CPU, mem Bus) int {
		c.set8(mem, idx, c.get8(mem, idx)|1<<bit)
		return 0
	}
}
