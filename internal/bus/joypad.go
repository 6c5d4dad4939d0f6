package bus

// Key bits in the host bitmask.
const (
	JoypA byte = 1 << iota
	JoypB
	JoypSelectBtn
	JoypStart
	JoypRight
	JoypLeft
	JoypUp
	JoypDown
)

// SetJoypadState stores the currently pressed keys; the matrix is
// re-sampled by SampleJoypad.
func (b *Bus) SetJoypadState(mask byte) { b.keys = mask }

func (b *Bus) Keys() byte { return b.keys }

// SampleJoypad refreshes the JOYP input lines from the selected group and
// requests the joypad interrupt on any high-to-low transition.
func (b *Bus) SampleJoypad() {
	low := byte(0x0F)
	if b.joypSelect&0x10 == 0 { // P14: d-pad
		low &^= (b.keys >> 4) & 0x0F
	}
	if b.joypSelect&0x20 == 0 { // P15: buttons
		low &^= b.keys & 0x0F
	}
	r := AddrJOYP - 0xFF00
	prev := b.io[r] & 0x0F
	if prev&^low != 0 {
		b.RequestInterrupt(IntJoypad)
	}
	b.io[r] = b.joypSelect | low
}
