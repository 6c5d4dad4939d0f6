package cpu

import "encoding/binary"

// Reg indexes the 8-bit register file. The order puts every pair's high
// register first so that pairs are big-endian slices of the buffer.
type Reg uint8

const (
	RegB Reg = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegA
	RegF
)

// Pair names a 16-bit register pair.
type Pair uint8

const (
	PairBC Pair = iota
	PairDE
	PairHL
	PairAF
)

func (p Pair) String() string {
	return [...]string{"BC", "DE", "HL", "AF"}[p&3]
}

// Registers is the SM83 register file.
type Registers struct {
	r  [8]byte
	SP uint16
	PC uint16
}

func (r *Registers) Get(i Reg) byte { return r.r[i] }

func (r *Registers) Set(i Reg, v byte) {
	if i == RegF {
		v &= 0xF0
	}
	r.r[i] = v
}

func (r *Registers) Pair(p Pair) uint16 {
	return binary.BigEndian.Uint16(r.r[p*2:])
}

func (r *Registers) SetPair(p Pair, v uint16) {
	binary.BigEndian.PutUint16(r.r[p*2:], v)
	r.r[RegF] &= 0xF0
}

func (r *Registers) A() byte { return r.r[RegA] }
func (r *Registers) F() byte { return r.r[RegF] }

// Flag bits in F.
const (
	FlagZ byte = 1 << 7
	FlagN byte = 1 << 6
	FlagH byte = 1 << 5
	FlagC byte = 1 << 4
)

func (r *Registers) Flag(f byte) bool { return r.r[RegF]&f != 0 }
