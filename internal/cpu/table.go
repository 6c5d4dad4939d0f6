package cpu

import "fmt"

// Instruction is one entry of the decode tables.
type Instruction struct {
	Mnemonic string
	Length   int // bytes, including opcode and prefix
	Cycles   int // base cycles; not-taken cost for conditional branches
	Taken    int // cycles when a conditional branch is taken, 0 otherwise
	Exec     func(c *CPU, mem Bus) int
	Prefix   bool
	Illegal  bool
}

func op(m string, length, cycles int, h handler) Instruction {
	return Instruction{Mnemonic: m, Length: length, Cycles: cycles, Exec: h}
}

func branch(m string, length, cycles, taken int, h handler) Instruction {
	return Instruction{Mnemonic: m, Length: length, Cycles: cycles, Taken: taken, Exec: h}
}

func bad(opcode byte) Instruction {
	return Instruction{Mnemonic: fmt.Sprintf("ILLEGAL %02X", opcode), Length: 1, Cycles: 4, Exec: illegal, Illegal: true}
}

var operandNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

var primary = [256]Instruction{
	0x00: op("NOP", 1, 4, nop),
	0x01: op("LD BC,d16", 3, 12, ld16Imm(PairBC)),
	0x02: op("LD (BC),A", 1, 8, ldPtrA(PairBC)),
	0x03: op("INC BC", 1, 8, inc16(PairBC)),
	0x04: op("INC B", 1, 4, inc8(0)),
	0x05: op("DEC B", 1, 4, dec8(0)),
	0x06: op("LD B,d8", 2, 8, ld8Imm(0)),
	0x07: op("RLCA", 1, 4, rotA(0)),
	0x08: op("LD (a16),SP", 3, 20, ldA16SP),
	0x09: op("ADD HL,BC", 1, 8, addHL(PairBC)),
	0x0A: op("LD A,(BC)", 1, 8, ldAPtr(PairBC)),
	0x0B: op("DEC BC", 1, 8, dec16(PairBC)),
	0x0C: op("INC C", 1, 4, inc8(1)),
	0x0D: op("DEC C", 1, 4, dec8(1)),
	0x0E: op("LD C,d8", 2, 8, ld8Imm(1)),
	0x0F: op("RRCA", 1, 4, rotA(1)),

	0x10: op("STOP", 2, 4, stop),
	0x11: op("LD DE,d16", 3, 12, ld16Imm(PairDE)),
	0x12: op("LD (DE),A", 1, 8, ldPtrA(PairDE)),
	0x13: op("INC DE", 1, 8, inc16(PairDE)),
	0x14: op("INC D", 1, 4, inc8(2)),
	0x15: op("DEC D", 1, 4, dec8(2)),
	0x16: op("LD D,d8", 2, 8, ld8Imm(2)),
	0x17: op("RLA", 1, 4, rotA(2)),
	0x18: op("JR r8", 2, 12, jr),
	0x19: op("ADD HL,DE", 1, 8, addHL(PairDE)),
	0x1A: op("LD A,(DE)", 1, 8, ldAPtr(PairDE)),
	0x1B: op("DEC DE", 1, 8, dec16(PairDE)),
	0x1C: op("INC E", 1, 4, inc8(3)),
	0x1D: op("DEC E", 1, 4, dec8(3)),
	0x1E: op("LD E,d8", 2, 8, ld8Imm(3)),
	0x1F: op("RRA", 1, 4, rotA(3)),

	0x20: branch("JR NZ,r8", 2, 8, 12, jrCond(condNZ)),
	0x21: op("LD HL,d16", 3, 12, ld16Imm(PairHL)),
	0x22: op("LD (HL+),A", 1, 8, ldHLStepA(1)),
	0x23: op("INC HL", 1, 8, inc16(PairHL)),
	0x24: op("INC H", 1, 4, inc8(4)),
	0x25: op("DEC H", 1, 4, dec8(4)),
	0x26: op("LD H,d8", 2, 8, ld8Imm(4)),
	0x27: op("DAA", 1, 4, daa),
	0x28: branch("JR Z,r8", 2, 8, 12, jrCond(condZ)),
	0x29: op("ADD HL,HL", 1, 8, addHL(PairHL)),
	0x2A: op("LD A,(HL+)", 1, 8, ldAHLStep(1)),
	0x2B: op("DEC HL", 1, 8, dec16(PairHL)),
	0x2C: op("INC L", 1, 4, inc8(5)),
	0x2D: op("DEC L", 1, 4, dec8(5)),
	0x2E: op("LD L,d8", 2, 8, ld8Imm(5)),
	0x2F: op("CPL", 1, 4, cpl),

	0x30: branch("JR NC,r8", 2, 8, 12, jrCond(condNC)),
	0x31: op("LD SP,d16", 3, 12, ldSPImm),
	0x32: op("LD (HL-),A", 1, 8, ldHLStepA(-1)),
	0x33: op("INC SP", 1, 8, incSP),
	0x34: op("INC (HL)", 1, 12, inc8(6)),
	0x35: op("DEC (HL)", 1, 12, dec8(6)),
	0x36: op("LD (HL),d8", 2, 12, ld8Imm(6)),
	0x37: op("SCF", 1, 4, scf),
	0x38: branch("JR C,r8", 2, 8, 12, jrCond(condC)),
	0x39: op("ADD HL,SP", 1, 8, addHLSP),
	0x3A: op("LD A,(HL-)", 1, 8, ldAHLStep(-1)),
	0x3B: op("DEC SP", 1, 8, decSP),
	0x3C: op("INC A", 1, 4, inc8(7)),
	0x3D: op("DEC A", 1, 4, dec8(7)),
	0x3E: op("LD A,d8", 2, 8, ld8Imm(7)),
	0x3F: op("CCF", 1, 4, ccf),

	// 0x40–0x7F and 0x80–0xBF are regular and filled in by init.
	0x76: op("HALT", 1, 4, halt),

	0xC0: branch("RET NZ", 1, 8, 20, retCond(condNZ)),
	0xC1: op("POP BC", 1, 12, pop(PairBC)),
	0xC2: branch("JP NZ,a16", 3, 12, 16, jpCond(condNZ)),
	0xC3: op("JP a16", 3, 16, jp),
	0xC4: branch("CALL NZ,a16", 3, 12, 24, callCond(condNZ)),
	0xC5: op("PUSH BC", 1, 16, push(PairBC)),
	0xC6: op("ADD A,d8", 2, 8, aluImm(0)),
	0xC7: op("RST 00H", 1, 16, rst(0x00)),
	0xC8: branch("RET Z", 1, 8, 20, retCond(condZ)),
	0xC9: op("RET", 1, 16, ret),
	0xCA: branch("JP Z,a16", 3, 12, 16, jpCond(condZ)),
	0xCB: {Mnemonic: "PREFIX CB", Length: 1, Cycles: 4, Exec: nop, Prefix: true},
	0xCC: branch("CALL Z,a16", 3, 12, 24, callCond(condZ)),
	0xCD: op("CALL a16", 3, 24, call),
	0xCE: op("ADC A,d8", 2, 8, aluImm(1)),
	0xCF: op("RST 08H", 1, 16, rst(0x08)),

	0xD0: branch("RET NC", 1, 8, 20, retCond(condNC)),
	0xD1: op("POP DE", 1, 12, pop(PairDE)),
	0xD2: branch("JP NC,a16", 3, 12, 16, jpCond(condNC)),
	0xD3: bad(0xD3),
	0xD4: branch("CALL NC,a16", 3, 12, 24, callCond(condNC)),
	0xD5: op("PUSH DE", 1, 16, push(PairDE)),
	0xD6: op("SUB d8", 2, 8, aluImm(2)),
	0xD7: op("RST 10H", 1, 16, rst(0x10)),
	0xD8: branch("RET C", 1, 8, 20, retCond(condC)),
	0xD9: op("RETI", 1, 16, reti),
	0xDA: branch("JP C,a16", 3, 12, 16, jpCond(condC)),
	0xDB: bad(0xDB),
	0xDC: branch("CALL C,a16", 3, 12, 24, callCond(condC)),
	0xDD: bad(0xDD),
	0xDE: op("SBC A,d8", 2, 8, aluImm(3)),
	0xDF: op("RST 18H", 1, 16, rst(0x18)),

	0xE0: op("LDH (a8),A", 2, 12, ldhA8A),
	0xE1: op("POP HL", 1, 12, pop(PairHL)),
	0xE2: op("LD (C),A", 1, 8, ldCA),
	0xE3: bad(0xE3),
	0xE4: bad(0xE4),
	0xE5: op("PUSH HL", 1, 16, push(PairHL)),
	0xE6: op("AND d8", 2, 8, aluImm(4)),
	0xE7: op("RST 20H", 1, 16, rst(0x20)),
	0xE8: op("ADD SP,r8", 2, 16, addSPr8),
	0xE9: op("JP HL", 1, 4, jpHL),
	0xEA: op("LD (a16),A", 3, 16, ldA16A),
	0xEB: bad(0xEB),
	0xEC: bad(0xEC),
	0xED: bad(0xED),
	0xEE: op("XOR d8", 2, 8, aluImm(5)),
	0xEF: op("RST 28H", 1, 16, rst(0x28)),

	0xF0: op("LDH A,(a8)", 2, 12, ldhAA8),
	0xF1: op("POP AF", 1, 12, pop(PairAF)),
	0xF2: op("LD A,(C)", 1, 8, ldAC),
	0xF3: op("DI", 1, 4, di),
	0xF4: bad(0xF4),
	0xF5: op("PUSH AF", 1, 16, push(PairAF)),
	0xF6: op("OR d8", 2, 8, aluImm(6)),
	0xF7: op("RST 30H", 1, 16, rst(0x30)),
	0xF8: op("LD HL,SP+r8", 2, 12, ldHLSPr8),
	0xF9: op("LD SP,HL", 1, 8, ldSPHL),
	0xFA: op("LD A,(a16)", 3, 16, ldAA16),
	0xFB: op("EI", 1, 4, ei),
	0xFC: bad(0xFC),
	0xFD: bad(0xFD),
	0xFE: op("CP d8", 2, 8, aluImm(7)),
	0xFF: op("RST 38H", 1, 16, rst(0x38)),
}

var extended [256]Instruction

var (
	aluNames = [8]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}
	rotNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}
)

func init() {
	for opcode := 0x40; opcode < 0x80; opcode++ {
		if opcode == 0x76 {
			continue
		}
		dst, src := (opcode>>3)&7, opcode&7
		cycles := 4
		if dst == 6 || src == 6 {
			cycles = 8
		}
		m := "LD " + operandNames[dst] + "," + operandNames[src]
		primary[opcode] = op(m, 1, cycles, ld8(dst, src))
	}
	for opcode := 0x80; opcode < 0xC0; opcode++ {
		kind, src := (opcode>>3)&7, opcode&7
		cycles := 4
		if src == 6 {
			cycles = 8
		}
		primary[opcode] = op(aluNames[kind]+operandNames[src], 1, cycles, aluReg(kind, src))
	}

	for opcode := 0; opcode < 0x100; opcode++ {
		group, y, idx := opcode>>6, (opcode>>3)&7, opcode&7
		cycles := 8
		if idx == 6 {
			cycles = 16
			if group == 1 {
				cycles = 12
			}
		}
		var m string
		var h handler
		switch group {
		case 0:
			m, h = rotNames[y]+" "+operandNames[idx], cbRot(y, idx)
		case 1:
			m, h = fmt.Sprintf("BIT %d,%s", y, operandNames[idx]), cbBit(uint(y), idx)
		case 2:
			m, h = fmt.Sprintf("RES %d,%s", y, operandNames[idx]), cbRes(uint(y), idx)
		default:
			m, h = fmt.Sprintf("SET %d,%s", y, operandNames[idx]), cbSet(uint(y), idx)
		}
		extended[opcode] = op(m, 2, cycles, h)
	}
}
