package bus

const dmaLength = 160

func (b *Bus) startDMA(value byte) {
	b.dmaSource = uint16(value) << 8
	b.dmaIndex = 0
	b.dmaCycles = dmaLength
	b.dmaActive = true
}

// DMAActive reports whether an OAM DMA transfer is in progress.
func (b *Bus) DMAActive() bool { return b.dmaActive }

// TickDMA copies one byte per base cycle and clears the active flag once the
// 160-cycle window is over.
func (b *Bus) TickDMA(cycles int) {
	for i := 0; i < cycles && b.dmaActive; i++ {
		if b.dmaIndex < dmaLength {
			b.oam[b.dmaIndex] = b.dmaRead(b.dmaSource + uint16(b.dmaIndex))
			b.dmaIndex++
		}
		b.dmaCycles--
		if b.dmaCycles <= 0 {
			b.dmaActive = false
		}
	}
}

// dmaRead is the DMA unit's view: no gating, sources above 0xDFFF fold
// onto work RAM.
func (b *Bus) dmaRead(addr uint16) byte {
	if addr >= 0xE000 {
		addr -= 0x2000
	}
	return b.Peek(addr)
}
