package cart

import "testing"

// bankedROM tags the first byte of every bank with its bank number.
func bankedROM(banks int) []byte {
	rom := make([]byte, banks*0x4000)
	for bank := 0; bank < banks; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	return rom
}

func TestMBC1_ROMBanking(t *testing.T) {
	m := NewMBC1(bankedROM(8), 0)

	// Bank0 region reads from bank 0 in mode 0
	if got := m.Read(0x0000); got != 0x00 {
		t.Fatalf("bank0 read got %02X want 00", got)
	}

	// Switchable bank defaults to 1
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank1 read got %02X want 01", got)
	}

	// Select bank 3
	m.Write(0x2000, 0x03)
	if got := m.Read(0x4000); got != 0x03 {
		t.Fatalf("bank3 read got %02X want 03", got)
	}

	// Writing 0 maps to 1
	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank0->1 remap failed: got %02X", got)
	}

	// Bank numbers beyond the ROM are masked to its size
	m.Write(0x2000, 0x0B) // 11 & 7 = 3
	if got := m.Read(0x4000); got != 0x03 {
		t.Fatalf("masked bank got %02X want 03", got)
	}

	// Small ROMs ignore the secondary register
	m.Write(0x4000, 0x01)
	if got := m.Read(0x4000); got != 0x03 {
		t.Fatalf("secondary register leaked into small ROM: got %02X", got)
	}
	if m.ROMBank() != 3 {
		t.Fatalf("ROMBank got %d want 3", m.ROMBank())
	}
}

func TestMBC1_LargeROMSecondaryBits(t *testing.T) {
	m := NewMBC1(bankedROM(128), 0)
	m.Write(0x2000, 0x05)
	m.Write(0x4000, 0x02)
	if got := m.Read(0x4000); got != 0x45 {
		t.Fatalf("bank got %02X want 45", got)
	}
	// Mode 0 keeps bank 0 fixed
	if got := m.Read(0x0000); got != 0x00 {
		t.Fatalf("mode0 low bank got %02X want 00", got)
	}
	// Mode 1 maps secondary<<5 into the low area
	m.Write(0x6000, 0x01)
	if got := m.Read(0x0000); got != 0x40 {
		t.Fatalf("mode1 low bank got %02X want 40", got)
	}
}

func TestMBC1_RAMBanking_Mode1(t *testing.T) {
	rom := make([]byte, 128*1024)
	m := NewMBC1(rom, 32*1024)

	// Disabled RAM reads as FF and drops writes
	m.Write(0xA000, 0x12)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("disabled RAM read got %02X want FF", got)
	}

	// Enable RAM
	m.Write(0x0000, 0x0A)

	// Select mode 1 (RAM banking)
	m.Write(0x6000, 0x01)
	// Select RAM bank 2 via high bits
	m.Write(0x4000, 0x02)

	// Write/read in A000-BFFF should go to bank 2
	m.Write(0xA000, 0x77)
	if got := m.Read(0xA000); got != 0x77 {
		t.Fatalf("RAM bank2 RW failed: got %02X", got)
	}

	// Back in mode 0 bank 0 is visible, which was never written
	m.Write(0x6000, 0x00)
	if got := m.Read(0xA000); got != 0x00 {
		t.Fatalf("RAM bank0 got %02X want 00", got)
	}

	// Any low nibble other than 0xA disables RAM again
	m.Write(0x1000, 0x1B)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("RAM should be disabled, got %02X", got)
	}
}

func TestMBC1_SingleRAMBankIgnoresSecondary(t *testing.T) {
	m := NewMBC1(make([]byte, 64*1024), 8*1024)
	m.Write(0x0000, 0x0A)
	m.Write(0x6000, 0x01)
	m.Write(0x4000, 0x03)
	m.Write(0xA010, 0x5C)
	m.Write(0x4000, 0x00)
	if got := m.Read(0xA010); got != 0x5C {
		t.Fatalf("RAM bank should stay 0, got %02X", got)
	}
}

func TestROMOnly_FixedBanks(t *testing.T) {
	c := NewROMOnly(bankedROM(2), 0)
	c.Write(0x2000, 0x05)
	if got := c.Read(0x4000); got != 0x01 {
		t.Fatalf("bank1 read got %02X want 01", got)
	}
	if got := c.Read(0xA000); got != 0xFF {
		t.Fatalf("missing RAM read got %02X want FF", got)
	}
}
