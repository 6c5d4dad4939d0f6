package cart

// Cartridge defines the minimal interface the Bus needs for ROM/RAM banking.
// Addresses are CPU addresses.
type Cartridge interface {
	// Read returns a byte for ROM (0x0000–0x7FFF) and external RAM (0xA000–0xBFFF).
	Read(addr uint16) byte
	// Write handles bank control writes (0x0000–0x7FFF) and external RAM writes (0xA000–0xBFFF).
	Write(addr uint16, value byte)
}

// New validates the header and picks the bank controller it names.
func New(rom []byte) (Cartridge, *Header, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, nil, err
	}
	data := make([]byte, len(rom))
	copy(data, rom)
	switch h.Kind {
	case KindMBC1:
		return NewMBC1(data, h.RAMSizeBytes), h, nil
	default:
		return NewROMOnly(data, h.RAMSizeBytes), h, nil
	}
}
