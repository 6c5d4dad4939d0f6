package cart

// MBC1 implements the simple bank switcher: up to 128 ROM banks and up to
// four 8 KiB RAM banks. Battery persistence is not handled here.
type MBC1 struct {
	rom []byte
	ram []byte

	romBanks int
	ramBanks int

	romBankLow5       byte // lower 5 bits of ROM bank number (0->1 remapped)
	ramBankOrRomHigh2 byte // either RAM bank (mode1) or ROM bank high bits
	ramEnabled        bool
	modeSelect        byte // 0: ROM banking (default), 1: RAM/expanded-ROM banking
}

func NewMBC1(rom []byte, ramSize int) *MBC1 {
	m := &MBC1{rom: rom, romBanks: len(rom) / 0x4000}
	if m.romBanks == 0 {
		m.romBanks = 1
	}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
		m.ramBanks = (ramSize + 0x1FFF) / 0x2000
	}
	m.romBankLow5 = 1
	return m
}

// large reports the >= 1 MiB configuration where the secondary register
// drives ROM address lines.
func (m *MBC1) large() bool { return m.romBanks >= 64 }

func (m *MBC1) mask(bank int) int {
	// romBanks is a power of two for every valid header.
	return bank & (m.romBanks - 1)
}

func (m *MBC1) lowBank() int {
	if m.modeSelect == 1 && m.large() {
		return m.mask(int(m.ramBankOrRomHigh2&0x03) << 5)
	}
	return 0
}

func (m *MBC1) highBank() int {
	bank := int(m.romBankLow5)
	if m.large() {
		bank |= int(m.ramBankOrRomHigh2&0x03) << 5
	}
	return m.mask(bank)
}

func (m *MBC1) ramOffset(addr uint16) int {
	bank := 0
	if m.modeSelect == 1 && m.ramBanks >= 4 {
		bank = int(m.ramBankOrRomHigh2 & 0x03)
	}
	return bank*0x2000 + int(addr-0xA000)
}

func (m *MBC1) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		off := m.lowBank()*0x4000 + int(addr)
		if off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr < 0x8000:
		off := m.highBank()*0x4000 + int(addr-0x4000)
		if off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		if off := m.ramOffset(addr); off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		// RAM enable: low 4 bits must be 0x0A
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x4000:
		// ROM bank low 5 bits (0 maps to 1)
		m.romBankLow5 = value & 0x1F
		if m.romBankLow5 == 0 {
			m.romBankLow5 = 1
		}
	case addr < 0x6000:
		m.ramBankOrRomHigh2 = value & 0x03
	case addr < 0x8000:
		m.modeSelect = value & 0x01
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		if off := m.ramOffset(addr); off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

// ROMBank reports the bank currently mapped at 0x4000 (for debuggers).
func (m *MBC1) ROMBank() int { return m.highBank() }
