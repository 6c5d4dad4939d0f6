package cpu

func (c *CPU) setZNHC(z, n, h, carry bool) {
	var f byte
	if z {
		f |= FlagZ
	}
	if n {
		f |= FlagN
	}
	if h {
		f |= FlagH
	}
	if carry {
		f |= FlagC
	}
	c.Regs.r[RegF] = f
}

func (c *CPU) flag(f byte) bool { return c.Regs.r[RegF]&f != 0 }

func (c *CPU) carryBit() byte {
	if c.flag(FlagC) {
		return 1
	}
	return 0
}

func add8(a, b, ci byte) (res byte, z, n, h, cy bool) {
	r := uint16(a) + uint16(b) + uint16(ci)
	res = byte(r)
	z = res == 0
	h = (a&0x0F)+(b&0x0F)+ci > 0x0F
	cy = r > 0xFF
	return
}

func sub8(a, b, ci byte) (res byte, z, n, h, cy bool) {
	r := int16(a) - int16(b) - int16(ci)
	res = byte(r)
	z = res == 0
	n = true
	h = int16(a&0x0F)-int16(b&0x0F)-int16(ci) < 0
	cy = r < 0
	return
}

// alu applies one of the eight accumulator operations, in opcode order:
// ADD ADC SUB SBC AND XOR OR CP.
func (c *CPU) alu(op int, v byte) {
	a := c.Regs.r[RegA]
	switch op {
	case 0:
		res, z, n, h, cy := add8(a, v, 0)
		c.Regs.r[RegA] = res
		c.setZNHC(z, n, h, cy)
	case 1:
		res, z, n, h, cy := add8(a, v, c.carryBit())
		c.Regs.r[RegA] = res
		c.setZNHC(z, n, h, cy)
	case 2:
		res, z, n, h, cy := sub8(a, v, 0)
		c.Regs.r[RegA] = res
		c.setZNHC(z, n, h, cy)
	case 3:
		res, z, n, h, cy := sub8(a, v, c.carryBit())
		c.Regs.r[RegA] = res
		c.setZNHC(z, n, h, cy)
	case 4:
		res := a & v
		c.Regs.r[RegA] = res
		c.setZNHC(res == 0, false, true, false)
	case 5:
		res := a ^ v
		c.Regs.r[RegA] = res
		c.setZNHC(res == 0, false, false, false)
	case 6:
		res := a | v
		c.Regs.r[RegA] = res
		c.setZNHC(res == 0, false, false, false)
	case 7:
		_, z, n, h, cy := sub8(a, v, 0)
		c.setZNHC(z, n, h, cy)
	}
}

func (c *CPU) inc8(v byte) byte {
	res := v + 1
	c.setZNHC(res == 0, false, v&0x0F == 0x0F, c.flag(FlagC))
	return res
}

func (c *CPU) dec8(v byte) byte {
	res := v - 1
	c.setZNHC(res == 0, true, v&0x0F == 0x00, c.flag(FlagC))
	return res
}

func (c *CPU) addHL(v uint16) {
	hl := c.Regs.Pair(PairHL)
	r := uint32(hl) + uint32(v)
	h := (hl&0x0FFF)+(v&0x0FFF) > 0x0FFF
	c.Regs.SetPair(PairHL, uint16(r))
	c.setZNHC(c.flag(FlagZ), false, h, r > 0xFFFF)
}

// addSPSigned returns SP+e. Flags come from the unsigned low nibble and low
// byte sums, whatever the sign of e.
func (c *CPU) addSPSigned(e byte) uint16 {
	sp := c.Regs.SP
	h := (sp&0x000F)+uint16(e&0x0F) > 0x000F
	cy := (sp&0x00FF)+uint16(e) > 0x00FF
	c.setZNHC(false, false, h, cy)
	return sp + uint16(int16(int8(e)))
}

func (c *CPU) daa() {
	a := c.Regs.r[RegA]
	carry := c.flag(FlagC)
	n := c.flag(FlagN)
	var adj byte
	if !n {
		if c.flag(FlagH) || a&0x0F > 0x09 {
			adj |= 0x06
		}
		if carry || a > 0x99 {
			adj |= 0x60
			carry = true
		}
		a += adj
	} else {
		if c.flag(FlagH) {
			adj |= 0x06
		}
		if carry {
			adj |= 0x60
		}
		a -= adj
	}
	c.Regs.r[RegA] = a
	c.setZNHC(a == 0, n, false, carry)
}

// rot applies one of the eight CB rotate/shift operations, in opcode order:
// RLC RRC RL RR SLA SRA SWAP SRL.
func (c *CPU) rot(op int, v byte) byte {
	var out byte
	switch op {
	case 0:
		out = v >> 7
		v = v<<1 | out
	case 1:
		out = v & 1
		v = v>>1 | out<<7
	case 2:
		out = v >> 7
		v = v<<1 | c.carryBit()
	case 3:
		out = v & 1
		v = v>>1 | c.carryBit()<<7
	case 4:
		out = v >> 7
		v <<= 1
	case 5:
		out = v & 1
		v = v>>1 | v&0x80
	case 6:
		v = v<<4 | v>>4
	case 7:
		out = v & 1
		v >>= 1
	}
	c.setZNHC(v == 0, false, false, out == 1)
	return v
}
