package cpu

import (
	"fmt"
	"strings"
)

// Reader is side-effect free memory access for disassembly.
type Reader interface {
	Peek(addr uint16) byte
}

// InstructionInfo describes the instruction at an address.
type InstructionInfo struct {
	Addr     uint16
	Bytes    []byte
	Text     string // mnemonic with operands filled in
	Length   int
	Cycles   int
	Taken    int
	Illegal  bool
	Mnemonic string
}

// Lookup returns the table entry for an opcode; prefixed selects the CB table.
func Lookup(opcode byte, prefixed bool) Instruction {
	if prefixed {
		return extended[opcode]
	}
	return primary[opcode]
}

// Decode reads the instruction at addr without touching machine state.
func Decode(mem Reader, addr uint16) InstructionInfo {
	ins := primary[mem.Peek(addr)]
	if ins.Prefix {
		ins = extended[mem.Peek(addr+1)]
	}
	info := InstructionInfo{
		Addr:     addr,
		Length:   ins.Length,
		Cycles:   ins.Cycles,
		Taken:    ins.Taken,
		Illegal:  ins.Illegal,
		Mnemonic: ins.Mnemonic,
	}
	for i := 0; i < ins.Length; i++ {
		info.Bytes = append(info.Bytes, mem.Peek(addr+uint16(i)))
	}
	info.Text = formatOperands(ins.Mnemonic, info.Bytes, addr)
	return info
}

func formatOperands(m string, raw []byte, addr uint16) string {
	switch {
	case strings.Contains(m, "d16"), strings.Contains(m, "a16"):
		v := uint16(raw[1]) | uint16(raw[2])<<8
		r := strings.NewReplacer("d16", fmt.Sprintf("$%04X", v), "a16", fmt.Sprintf("$%04X", v))
		return r.Replace(m)
	case strings.Contains(m, "d8"):
		return strings.Replace(m, "d8", fmt.Sprintf("$%02X", raw[1]), 1)
	case strings.Contains(m, "a8"):
		return strings.Replace(m, "a8", fmt.Sprintf("$FF%02X", raw[1]), 1)
	case strings.Contains(m, "+r8"):
		return strings.Replace(m, "+r8", fmt.Sprintf("%+d", int8(raw[1])), 1)
	case strings.HasPrefix(m, "JR"):
		target := addr + 2 + uint16(int8(raw[1]))
		return strings.Replace(m, "r8", fmt.Sprintf("$%04X", target), 1)
	case strings.Contains(m, "r8"):
		return strings.Replace(m, "r8", fmt.Sprintf("%d", int8(raw[1])), 1)
	}
	return m
}
