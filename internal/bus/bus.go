// Package bus implements the DMG memory map: region dispatch, CPU access
// gating, OAM DMA, the OAM corruption bug, the boot ROM overlay, the joypad
// matrix and the interrupt registers.
package bus

import "github.com/FabianRolfMatthiasNoll/dmgcore/internal/cart"

// I/O register addresses.
const (
	AddrJOYP = 0xFF00
	AddrDIV  = 0xFF04
	AddrTIMA = 0xFF05
	AddrTMA  = 0xFF06
	AddrTAC  = 0xFF07
	AddrIF   = 0xFF0F
	AddrLCDC = 0xFF40
	AddrSTAT = 0xFF41
	AddrSCY  = 0xFF42
	AddrSCX  = 0xFF43
	AddrLY   = 0xFF44
	AddrLYC  = 0xFF45
	AddrDMA  = 0xFF46
	AddrBGP  = 0xFF47
	AddrOBP0 = 0xFF48
	AddrOBP1 = 0xFF49
	AddrWY   = 0xFF4A
	AddrWX   = 0xFF4B
	AddrBoot = 0xFF50
	AddrIE   = 0xFFFF
)

// Interrupt bits in IE/IF, in priority order.
const (
	IntVBlank = iota
	IntSTAT
	IntTimer
	IntSerial
	IntJoypad
)

// Write is one entry of the watch log.
type Write struct {
	Addr  uint16
	Value byte
}

// Bus is the DMG memory map shared by the CPU, PPU, timer and DMA.
type Bus struct {
	cart cart.Cartridge

	boot       [0x100]byte
	bootMapped bool

	vram [0x2000]byte // 0x8000–0x9FFF
	wram [0x2000]byte // 0xC000–0xDFFF
	oam  [0xA0]byte   // 0xFE00–0xFE9F
	io   [0x80]byte   // 0xFF00–0xFF7F
	hram [0x7F]byte   // 0xFF80–0xFFFE
	ie   byte

	dmaActive bool
	dmaSource uint16
	dmaIndex  int
	dmaCycles int

	keys       byte // pressed keys, host bit order
	joypSelect byte // bits 4-5 as last written

	divReset bool
	oamRow   int // row the PPU is scanning in mode 2, -1 otherwise

	watch  map[uint16]struct{}
	writes []Write
}

// New builds a memory map around c. A nil cartridge reads as open bus.
func New(c cart.Cartridge) *Bus {
	b := &Bus{cart: c, oamRow: -1}
	b.io[AddrJOYP-0xFF00] = 0xCF
	return b
}

// Cart returns the mapped cartridge, which may be nil.
func (b *Bus) Cart() cart.Cartridge { return b.cart }

// SetBootROM overlays data at 0x0000–0x00FF until it is unmapped.
func (b *Bus) SetBootROM(data []byte) {
	copy(b.boot[:], data)
	b.bootMapped = len(data) > 0
}

func (b *Bus) BootMapped() bool { return b.bootMapped }

// UnmapBoot exposes cartridge bank 0 at 0x0000–0x00FF.
func (b *Bus) UnmapBoot() { b.bootMapped = false }

func (b *Bus) lcdOn() bool { return b.io[AddrLCDC-0xFF00]&0x80 != 0 }
func (b *Bus) mode() byte  { return b.io[AddrSTAT-0xFF00] & 0x03 }

func (b *Bus) vramBlocked() bool { return b.lcdOn() && b.mode() == 3 }

func (b *Bus) oamBlocked() bool {
	m := b.mode()
	return b.lcdOn() && (m == 2 || m == 3)
}

func (b *Bus) dmaBlocks(addr uint16) bool {
	return b.dmaActive && (addr < 0xFF80 || addr == AddrIE)
}

// Read is the CPU view of the address space, including all access gating.
func (b *Bus) Read(addr uint16) byte {
	if b.dmaBlocks(addr) {
		return 0xFF
	}
	switch {
	case addr >= 0x8000 && addr < 0xA000:
		if b.vramBlocked() {
			return 0xFF
		}
	case addr >= 0xFE00 && addr < 0xFF00:
		b.corruptOnAccess(false)
		if addr < 0xFEA0 && b.oamBlocked() {
			return 0xFF
		}
	}
	return b.Peek(addr)
}

// Write is the CPU view of the address space, including all access gating.
func (b *Bus) Write(addr uint16, value byte) {
	if b.dmaBlocks(addr) {
		return
	}
	switch {
	case addr < 0x8000:
		if b.cart != nil {
			b.cart.Write(addr, value)
		}
	case addr < 0xA000:
		if b.vramBlocked() {
			return
		}
		b.vram[addr-0x8000] = value
	case addr < 0xC000:
		if b.cart != nil {
			b.cart.Write(addr, value)
		}
	case addr < 0xE000:
		b.wram[addr-0xC000] = value
	case addr < 0xFE00:
		b.wram[addr-0xE000] = value
	case addr < 0xFEA0:
		b.corruptOnAccess(true)
		if b.oamBlocked() {
			return
		}
		b.oam[addr-0xFE00] = value
	case addr < 0xFF00:
		b.corruptOnAccess(true)
	case addr < 0xFF80:
		b.writeIO(addr, value)
	case addr < 0xFFFF:
		b.hram[addr-0xFF80] = value
	default:
		b.ie = value
	}
	if b.watch != nil {
		if _, ok := b.watch[addr]; ok {
			b.writes = append(b.writes, Write{Addr: addr, Value: value})
		}
	}
}

// Peek reads without gating or side effects (debugger view).
func (b *Bus) Peek(addr uint16) byte {
	switch {
	case addr < 0x8000:
		if b.bootMapped && addr < 0x0100 {
			return b.boot[addr]
		}
		if b.cart == nil {
			return 0xFF
		}
		return b.cart.Read(addr)
	case addr < 0xA000:
		return b.vram[addr-0x8000]
	case addr < 0xC000:
		if b.cart == nil {
			return 0xFF
		}
		return b.cart.Read(addr)
	case addr < 0xE000:
		return b.wram[addr-0xC000]
	case addr < 0xFE00:
		return b.wram[addr-0xE000]
	case addr < 0xFEA0:
		return b.oam[addr-0xFE00]
	case addr < 0xFF00:
		return 0x00
	case addr < 0xFF80:
		return b.readIO(addr)
	case addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	default:
		return 0xE0 | (b.ie & 0x1F)
	}
}

// Poke writes without gating or register side effects (debugger view).
// Writes to the ROM area still reach the bank controller.
func (b *Bus) Poke(addr uint16, value byte) {
	switch {
	case addr < 0x8000, addr >= 0xA000 && addr < 0xC000:
		if b.cart != nil {
			b.cart.Write(addr, value)
		}
	case addr < 0xA000:
		b.vram[addr-0x8000] = value
	case addr < 0xE000:
		b.wram[addr-0xC000] = value
	case addr < 0xFE00:
		b.wram[addr-0xE000] = value
	case addr < 0xFEA0:
		b.oam[addr-0xFE00] = value
	case addr < 0xFF00:
	case addr < 0xFF80:
		b.io[addr-0xFF00] = value
	case addr < 0xFFFF:
		b.hram[addr-0xFF80] = value
	default:
		b.ie = value
	}
}

func (b *Bus) readIO(addr uint16) byte {
	v := b.io[addr-0xFF00]
	switch addr {
	case AddrJOYP:
		return 0xC0 | v
	case AddrTAC:
		return 0xF8 | v
	case AddrIF:
		return 0xE0 | (v & 0x1F)
	case AddrSTAT:
		return 0x80 | v
	default:
		return v
	}
}

func (b *Bus) writeIO(addr uint16, value byte) {
	r := addr - 0xFF00
	switch addr {
	case AddrJOYP:
		b.joypSelect = value & 0x30
		b.io[r] = (b.io[r] & 0x0F) | b.joypSelect
	case AddrDIV:
		b.io[r] = 0
		b.divReset = true
	case AddrTAC:
		b.io[r] = value & 0x07
	case AddrIF:
		b.io[r] = value & 0x1F
	case AddrSTAT:
		b.io[r] = (b.io[r] & 0x07) | (value & 0x78)
	case AddrLY:
		// read-only
	case AddrDMA:
		b.io[r] = value
		b.startDMA(value)
	case AddrBoot:
		b.io[r] = value
		if value != 0 {
			b.bootMapped = false
		}
	default:
		b.io[r] = value
	}
}

// ReadVRAM is the PPU view of video RAM; it bypasses CPU gating.
func (b *Bus) ReadVRAM(addr uint16) byte {
	return b.vram[(addr-0x8000)&0x1FFF]
}

// ReadOAM is the PPU view of object attribute memory.
func (b *Bus) ReadOAM(addr uint16) byte {
	off := addr - 0xFE00
	if off >= uint16(len(b.oam)) {
		return 0xFF
	}
	return b.oam[off]
}

// Reg reads an I/O register's raw storage.
func (b *Bus) Reg(addr uint16) byte {
	if addr == AddrIE {
		return b.ie
	}
	return b.io[addr-0xFF00]
}

// SetReg stores an I/O register without the CPU-side write rules. It is
// how peripherals publish LY, STAT mode bits, DIV and TIMA.
func (b *Bus) SetReg(addr uint16, value byte) {
	switch addr {
	case AddrIE:
		b.ie = value
		return
	case AddrJOYP:
		b.joypSelect = value & 0x30
	}
	b.io[addr-0xFF00] = value
}

func (b *Bus) RequestInterrupt(bit int) {
	b.io[AddrIF-0xFF00] |= 1 << uint(bit)
}

// PendingInterrupts returns IE & IF over the five live bits.
func (b *Bus) PendingInterrupts() byte {
	return b.ie & b.io[AddrIF-0xFF00] & 0x1F
}

func (b *Bus) AckInterrupt(bit int) {
	b.io[AddrIF-0xFF00] &^= 1 << uint(bit)
}

// TakeDIVReset reports and clears a pending DIV reset caused by a CPU write.
func (b *Bus) TakeDIVReset() bool {
	r := b.divReset
	b.divReset = false
	return r
}

// SetOAMScanRow records which OAM row the PPU is reading; -1 outside mode 2.
func (b *Bus) SetOAMScanRow(row int) { b.oamRow = row }

// Watch adds addr to the set of addresses whose CPU writes are logged.
func (b *Bus) Watch(addr uint16) {
	if b.watch == nil {
		b.watch = make(map[uint16]struct{})
	}
	b.watch[addr] = struct{}{}
}

// Unwatch removes addr from the watch set.
func (b *Bus) Unwatch(addr uint16) { delete(b.watch, addr) }

// DrainWrites returns and clears the watch log.
func (b *Bus) DrainWrites() []Write {
	out := b.writes
	b.writes = nil
	return out
}
