package cart

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const (
	headerStart = 0x0100
	headerEnd   = 0x014F
)

var (
	ErrROMTooSmall         = errors.New("ROM too small to contain header")
	ErrUnsupportedCartType = errors.New("unsupported cartridge type")
	ErrBadROMSize          = errors.New("invalid ROM size code")
	ErrBadRAMSize          = errors.New("invalid RAM size code")
	ErrSizeMismatch        = errors.New("ROM length does not match header")
)

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Kind identifies the bank controller selected from the header.
type Kind int

const (
	KindNone Kind = iota
	KindMBC1
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ROM ONLY"
	case KindMBC1:
		return "MBC1"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type Header struct {
	Title          string // (trimmed ASCII)
	CartType       byte   // 0x0147
	ROMSizeCode    byte   // 0x0148
	RAMSizeCode    byte   // 0x0149
	HeaderChecksum byte   // 0x014D
	GlobalChecksum uint16 // 0x014E-0x014F

	// Decoded helpers
	Kind         Kind
	ROMSizeBytes int
	ROMBanks     int
	RAMSizeBytes int
	RAMBanks     int
}

// ParseHeader decodes and validates the cartridge header. Only the plain
// mapping (0x00) and the MBC1 family (0x01-0x03) are accepted.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd+1 {
		return nil, ErrROMTooSmall
	}

	rawTitle := rom[0x0134:0x0144]
	title := strings.TrimRight(string(rawTitle), "\x00")

	h := &Header{
		Title:          title,
		CartType:       rom[0x0147],
		ROMSizeCode:    rom[0x0148],
		RAMSizeCode:    rom[0x0149],
		HeaderChecksum: rom[0x014D],
		GlobalChecksum: binary.BigEndian.Uint16(rom[0x014E:0x0150]),
	}

	switch h.CartType {
	case 0x00:
		h.Kind = KindNone
	case 0x01, 0x02, 0x03:
		h.Kind = KindMBC1
	default:
		return nil, fmt.Errorf("%w: %#02x", ErrUnsupportedCartType, h.CartType)
	}

	var ok bool
	h.ROMSizeBytes, h.ROMBanks, ok = decodeROMSize(h.ROMSizeCode)
	if !ok {
		return nil, fmt.Errorf("%w: %#02x", ErrBadROMSize, h.ROMSizeCode)
	}
	h.RAMBanks, ok = decodeRAMBanks(h.RAMSizeCode)
	if !ok {
		return nil, fmt.Errorf("%w: %#02x", ErrBadRAMSize, h.RAMSizeCode)
	}
	h.RAMSizeBytes = h.RAMBanks * 0x2000

	// Combinations the selected controller cannot address.
	switch h.Kind {
	case KindNone:
		if h.ROMBanks != 2 {
			return nil, fmt.Errorf("%w: %d banks without a bank controller", ErrBadROMSize, h.ROMBanks)
		}
		if h.RAMBanks > 1 {
			return nil, fmt.Errorf("%w: %d RAM banks without a bank controller", ErrBadRAMSize, h.RAMBanks)
		}
	case KindMBC1:
		if h.ROMBanks > 128 {
			return nil, fmt.Errorf("%w: %d banks exceeds MBC1 range", ErrBadROMSize, h.ROMBanks)
		}
		if h.RAMBanks > 4 {
			return nil, fmt.Errorf("%w: %d RAM banks exceeds MBC1 range", ErrBadRAMSize, h.RAMBanks)
		}
	}

	if len(rom) != h.ROMSizeBytes {
		return nil, fmt.Errorf("%w: have %d bytes, header says %d", ErrSizeMismatch, len(rom), h.ROMSizeBytes)
	}
	return h, nil
}

// LogoOK reports whether the boot logo bytes match. The core does not require it.
func LogoOK(rom []byte) bool {
	if len(rom) < 0x0104+len(nintendoLogo) {
		return false
	}
	for i := range nintendoLogo {
		if rom[0x0104+i] != nintendoLogo[i] {
			return false
		}
	}
	return true
}

func HeaderChecksumOK(rom []byte) bool {
	if len(rom) < 0x014E {
		return false
	}
	var sum byte = 0
	for addr := 0x0134; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum == rom[0x014D]
}

// size = 32 KiB << code, up to 8 MiB.
func decodeROMSize(code byte) (size, banks int, ok bool) {
	if code > 0x08 {
		return 0, 0, false
	}
	size = (32 * 1024) << code
	return size, size / 0x4000, true
}

func decodeRAMBanks(code byte) (int, bool) {
	switch code {
	case 0x00:
		return 0, true
	case 0x02:
		return 1, true
	case 0x03:
		return 4, true
	case 0x04:
		return 16, true
	case 0x05:
		return 8, true
	default:
		return 0, false
	}
}
