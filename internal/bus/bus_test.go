package bus

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/cart"
)

func newBus() *Bus {
	rom := make([]byte, 0x8000)
	rom[0x0100] = 0x42
	return New(cart.NewROMOnly(rom, 0))
}

func setMode(b *Bus, mode byte) {
	b.SetReg(AddrLCDC, 0x91)
	b.SetReg(AddrSTAT, (b.Reg(AddrSTAT)&^0x03)|mode)
}

func TestBus_ROMAndRAM(t *testing.T) {
	b := newBus()

	if got := b.Read(0x0100); got != 0x42 {
		t.Fatalf("ROM read got %02x, want 42", got)
	}

	b.Write(0xC000, 0x99)
	if got := b.Read(0xC000); got != 0x99 {
		t.Fatalf("RAM read got %02x, want 99", got)
	}

	// Echo RAM mirrors C000–DDFF
	b.Write(0xE000, 0x55)
	if got := b.Read(0xC000); got != 0x55 {
		t.Fatalf("Echo write did not mirror to WRAM: got %02x", got)
	}
	b.Write(0xDDFF, 0x66)
	if got := b.Read(0xFDFF); got != 0x66 {
		t.Fatalf("Echo read got %02x, want 66", got)
	}

	b.Write(0xFF80, 0xAB)
	if got := b.Read(0xFF80); got != 0xAB {
		t.Fatalf("HRAM read got %02x, want AB", got)
	}

	// no cartridge RAM
	if got := b.Read(0xA123); got != 0xFF {
		t.Fatalf("Ext RAM (ROM-only) got %02x, want FF", got)
	}

	if got := b.Read(0xFEA0); got != 0x00 {
		t.Fatalf("unusable region got %02x, want 00", got)
	}
}

func TestBus_VRAM_OAM_InterruptRegs(t *testing.T) {
	b := newBus()

	b.Write(0x8000, 0x11)
	if got := b.Read(0x8000); got != 0x11 {
		t.Fatalf("VRAM read got %02x, want 11", got)
	}

	b.Write(0xFE00, 0x22)
	if got := b.Read(0xFE00); got != 0x22 {
		t.Fatalf("OAM read got %02x, want 22", got)
	}

	b.Write(0xFF0F, 0x3F) // bits 5-7 ignored on read
	if got := b.Read(0xFF0F); got != 0xE0|0x1F {
		t.Fatalf("IF read got %02x, want FF (E0|1F)", got)
	}

	b.Write(0xFFFF, 0x1B)
	if got := b.Read(0xFFFF); got != 0xE0|0x1B {
		t.Fatalf("IE read got %02x, want FB", got)
	}
	if got := b.PendingInterrupts(); got != 0x1B {
		t.Fatalf("pending got %02x, want 1B", got)
	}
	b.AckInterrupt(IntSTAT)
	if got := b.PendingInterrupts(); got != 0x19 {
		t.Fatalf("pending after ack got %02x, want 19", got)
	}
}

func TestBus_VRAMBlockedInMode3(t *testing.T) {
	b := newBus()
	b.Write(0x8010, 0x5A)
	setMode(b, 3)

	if got := b.Read(0x8010); got != 0xFF {
		t.Fatalf("VRAM read in mode 3 got %02x, want FF", got)
	}
	b.Write(0x8010, 0x00)
	if got := b.ReadVRAM(0x8010); got != 0x5A {
		t.Fatalf("VRAM write in mode 3 was not dropped: %02x", got)
	}

	setMode(b, 0)
	if got := b.Read(0x8010); got != 0x5A {
		t.Fatalf("VRAM read in mode 0 got %02x, want 5A", got)
	}
}

func TestBus_OAMBlockedInModes2And3(t *testing.T) {
	b := newBus()
	b.Write(0xFE10, 0x77)
	for _, m := range []byte{2, 3} {
		setMode(b, m)
		for addr := uint16(0xFE00); addr < 0xFEA0; addr++ {
			if got := b.Read(addr); got != 0xFF {
				t.Fatalf("mode %d: OAM[%04x] got %02x, want FF", m, addr, got)
			}
		}
	}
	setMode(b, 1)
	if got := b.Read(0xFE10); got != 0x77 {
		t.Fatalf("OAM read in vblank got %02x, want 77", got)
	}

	// LCD off: no gating at all
	b.SetReg(AddrLCDC, 0x00)
	b.SetReg(AddrSTAT, 0x03)
	if got := b.Read(0xFE10); got != 0x77 {
		t.Fatalf("OAM read with LCD off got %02x, want 77", got)
	}
}

func TestBus_DMA(t *testing.T) {
	b := newBus()
	for i := 0; i < 0xA0; i++ {
		b.Write(0xC100+uint16(i), byte(i))
	}
	b.Write(0xFF80, 0x3C)

	b.Write(AddrDMA, 0xC1)
	if !b.DMAActive() {
		t.Fatalf("DMA not active after FF46 write")
	}

	// Only HRAM is reachable while the transfer runs.
	if got := b.Read(0xC100); got != 0xFF {
		t.Fatalf("WRAM read during DMA got %02x, want FF", got)
	}
	if got := b.Read(0xFF80); got != 0x3C {
		t.Fatalf("HRAM read during DMA got %02x, want 3C", got)
	}
	b.Write(0xC000, 0x12)
	if got := b.Peek(0xC000); got != 0x00 {
		t.Fatalf("WRAM write during DMA landed: %02x", got)
	}

	b.TickDMA(80)
	if got := b.ReadOAM(0xFE4F); got != 0x4F {
		t.Fatalf("OAM[4F] after 80 cycles got %02x, want 4F", got)
	}
	if got := b.ReadOAM(0xFE50); got != 0x00 {
		t.Fatalf("OAM[50] copied early: %02x", got)
	}

	b.TickDMA(80)
	if b.DMAActive() {
		t.Fatalf("DMA still active after 160 cycles")
	}
	if got := b.ReadOAM(0xFE9F); got != 0x9F {
		t.Fatalf("OAM[9F] got %02x, want 9F", got)
	}
	if got := b.Read(0xC100); got != 0x00 {
		t.Fatalf("WRAM read after DMA got %02x, want 00", got)
	}
}

func TestBus_JOYP(t *testing.T) {
	b := newBus()

	b.SampleJoypad()
	if got := b.Read(0xFF00); got&0x0F != 0x0F {
		t.Fatalf("JOYP default lower bits got %02x want 0x0F", got)
	}

	// Select D-Pad (P14=0), press Right+Up
	b.Write(0xFF00, 0x20)
	b.SetJoypadState(JoypRight | JoypUp)
	b.SampleJoypad()
	got := b.Read(0xFF00)
	if got&0x0F != 0x0A {
		t.Fatalf("JOYP D-Pad got %02x want 0x0A", got&0x0F)
	}
	if b.Reg(AddrIF)&(1<<IntJoypad) == 0 {
		t.Fatalf("joypad interrupt not requested on falling edge")
	}

	// Select Buttons (P15=0), press A+Start
	b.Write(0xFF00, 0x10)
	b.SetJoypadState(JoypA | JoypStart)
	b.SampleJoypad()
	got = b.Read(0xFF00)
	if got&0x0F != 0x06 {
		t.Fatalf("JOYP Buttons got %02x want 0x06", got&0x0F)
	}
	if got&0x30 != 0x10 {
		t.Fatalf("JOYP select bits got %02x want 10", got&0x30)
	}
}

func TestBus_JoypadInterruptOnlyOnFallingEdge(t *testing.T) {
	b := newBus()
	b.Write(0xFF00, 0x10)
	b.SetJoypadState(JoypB)
	b.SampleJoypad()
	b.AckInterrupt(IntJoypad)

	// Holding the key is not a new edge.
	b.SampleJoypad()
	if b.Reg(AddrIF)&(1<<IntJoypad) != 0 {
		t.Fatalf("joypad interrupt requested without a new edge")
	}
	// Release is a rising edge.
	b.SetJoypadState(0)
	b.SampleJoypad()
	if b.Reg(AddrIF)&(1<<IntJoypad) != 0 {
		t.Fatalf("joypad interrupt requested on release")
	}
}

func TestBus_RegisterWriteRules(t *testing.T) {
	b := newBus()

	b.SetReg(AddrDIV, 0xAB)
	b.Write(AddrDIV, 0x12)
	if got := b.Read(AddrDIV); got != 0x00 {
		t.Fatalf("DIV got %02x want 00", got)
	}
	if !b.TakeDIVReset() {
		t.Fatalf("DIV write did not flag a reset")
	}
	if b.TakeDIVReset() {
		t.Fatalf("DIV reset flag not cleared")
	}

	b.Write(AddrTIMA, 0x77)
	if got := b.Read(AddrTIMA); got != 0x77 {
		t.Fatalf("TIMA got %02x want 77", got)
	}
	b.Write(AddrTAC, 0xFD)
	if got := b.Read(AddrTAC); got != 0xFD {
		t.Fatalf("TAC got %02x want FD", got)
	}

	b.SetReg(AddrLY, 0x42)
	b.Write(AddrLY, 0x00)
	if got := b.Read(AddrLY); got != 0x42 {
		t.Fatalf("LY was writable: %02x", got)
	}

	b.SetReg(AddrSTAT, 0x06) // coincidence + mode 2
	b.Write(AddrSTAT, 0xFF)
	if got := b.Read(AddrSTAT); got != 0xFE {
		t.Fatalf("STAT got %02x want FE", got)
	}
	b.Write(AddrSTAT, 0x00)
	if got := b.Read(AddrSTAT); got != 0x86 {
		t.Fatalf("STAT low bits were writable: %02x", got)
	}
}

func TestBus_BootROMOverlay(t *testing.T) {
	b := newBus()
	boot := make([]byte, 0x100)
	boot[0x0000] = 0x31
	b.SetBootROM(boot)

	if got := b.Read(0x0000); got != 0x31 {
		t.Fatalf("boot overlay got %02x want 31", got)
	}
	if got := b.Read(0x0100); got != 0x42 {
		t.Fatalf("cart above overlay got %02x want 42", got)
	}

	b.Write(AddrBoot, 0x00)
	if !b.BootMapped() {
		t.Fatalf("zero write to FF50 unmapped the boot ROM")
	}
	b.Write(AddrBoot, 0x01)
	if b.BootMapped() {
		t.Fatalf("boot ROM still mapped after FF50 write")
	}
	if got := b.Read(0x0000); got != 0x00 {
		t.Fatalf("cart bank 0 got %02x want 00", got)
	}
}

func TestBus_WatchLog(t *testing.T) {
	b := newBus()
	b.Watch(0xC000)
	b.Write(0xC000, 1)
	b.Write(0xC001, 2)
	b.Write(0xC000, 3)

	got := b.DrainWrites()
	if len(got) != 2 || got[0] != (Write{0xC000, 1}) || got[1] != (Write{0xC000, 3}) {
		t.Fatalf("watch log got %v", got)
	}
	if len(b.DrainWrites()) != 0 {
		t.Fatalf("watch log not drained")
	}
}

func TestBus_SetRegJOYPSetsSelect(t *testing.T) {
	b := newBus()
	b.SetReg(AddrJOYP, 0xDF) // buttons only
	b.SetJoypadState(JoypA | JoypRight)
	b.SampleJoypad()
	if got := b.Read(AddrJOYP); got != 0xDE {
		t.Fatalf("JOYP got %02x want de", got)
	}
}
