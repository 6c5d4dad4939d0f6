package cpu

import "testing"

var illegalOpcodes = []byte{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD}

func TestTables_Complete(t *testing.T) {
	illegal := map[byte]bool{}
	for _, op := range illegalOpcodes {
		illegal[op] = true
	}
	for i := 0; i < 256; i++ {
		ins := Lookup(byte(i), false)
		if ins.Exec == nil || ins.Length < 1 || ins.Length > 3 || ins.Cycles < 4 {
			t.Fatalf("primary %02X incomplete: %+v", i, ins)
		}
		if ins.Illegal != illegal[byte(i)] {
			t.Fatalf("primary %02X illegal=%v", i, ins.Illegal)
		}
		cb := Lookup(byte(i), true)
		if cb.Exec == nil || cb.Length != 2 || cb.Mnemonic == "" {
			t.Fatalf("extended %02X incomplete: %+v", i, cb)
		}
	}
}

func TestDecode_Deterministic(t *testing.T) {
	mem := &flatMem{}
	for i := 0; i < 256; i++ {
		mem.m[0x0200] = byte(i)
		mem.m[0x0201] = 0x34
		mem.m[0x0202] = 0x12
		a := Decode(mem, 0x0200)
		b := Decode(mem, 0x0200)
		if a.Text != b.Text || a.Length != b.Length || a.Cycles != b.Cycles || string(a.Bytes) != string(b.Bytes) {
			t.Fatalf("opcode %02X decoded differently: %+v vs %+v", i, a, b)
		}
	}
}

func TestDecode_Text(t *testing.T) {
	tests := []struct {
		code []byte
		want string
	}{
		{[]byte{0x00}, "NOP"},
		{[]byte{0x3E, 0x12}, "LD A,$12"},
		{[]byte{0xC3, 0x50, 0x01}, "JP $0150"},
		{[]byte{0xE0, 0x40}, "LDH ($FF40),A"},
		{[]byte{0x18, 0xFE}, "JR $0200"},
		{[]byte{0xE8, 0xF8}, "ADD SP,-8"},
		{[]byte{0xF8, 0x02}, "LD HL,SP+2"},
		{[]byte{0xCB, 0x7C}, "BIT 7,H"},
		{[]byte{0x96}, "SUB (HL)"},
		{[]byte{0x8F}, "ADC A,A"},
		{[]byte{0xDD}, "ILLEGAL DD"},
	}
	for _, tt := range tests {
		mem := &flatMem{}
		copy(mem.m[0x0200:], tt.code)
		info := Decode(mem, 0x0200)
		if info.Text != tt.want {
			t.Errorf("% X: got %q want %q", tt.code, info.Text, tt.want)
		}
		if info.Length != len(tt.code) {
			t.Errorf("% X: length %d want %d", tt.code, info.Length, len(tt.code))
		}
	}
}

// For straight-line instructions the decoded length is how far PC moves.
func TestDecode_LengthMatchesPCAdvance(t *testing.T) {
	for i := 0; i < 256; i++ {
		ins := Lookup(byte(i), false)
		if ins.Illegal || ins.Taken != 0 {
			continue
		}
		switch byte(i) {
		case 0x10, 0x76, 0x18, 0xC3, 0xC9, 0xCD, 0xD9, 0xE9,
			0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF:
			continue
		}
		c, mem := newCPUWithCode(byte(i), 0x00, 0xC0)
		c.Regs.SetPair(PairHL, 0xC000)
		info := Decode(mem, 0x0100)
		c.Step(mem)
		if c.Regs.PC != 0x0100+uint16(info.Length) {
			t.Fatalf("opcode %02X: PC=%04x after length %d", i, c.Regs.PC, info.Length)
		}
	}
}
