package bus

// OAM corruption. OAM is 20 rows of 8 bytes (four 16-bit words). While the
// PPU scans row r in mode 2, certain CPU accesses rewrite that row from its
// neighbours. Row 0 is never affected.

func (b *Bus) oamWord(row, word int) uint16 {
	i := row*8 + word*2
	return uint16(b.oam[i]) | uint16(b.oam[i+1])<<8
}

func (b *Bus) setOAMWord(row, word int, v uint16) {
	i := row*8 + word*2
	b.oam[i] = byte(v)
	b.oam[i+1] = byte(v >> 8)
}

func (b *Bus) copyRowTail(dst, src int) {
	for w := 1; w < 4; w++ {
		b.setOAMWord(dst, w, b.oamWord(src, w))
	}
}

func (b *Bus) corruptionRow() int {
	if !b.lcdOn() || b.mode() != 2 || b.oamRow < 1 || b.oamRow >= 20 {
		return -1
	}
	return b.oamRow
}

func (b *Bus) corruptOnAccess(write bool) {
	row := b.corruptionRow()
	if row < 0 || b.dmaActive {
		return
	}
	if write {
		b.writeCorruption(row)
	} else {
		b.readCorruption(row)
	}
}

func (b *Bus) writeCorruption(row int) {
	a := b.oamWord(row, 0)
	prev := row - 1
	bw := b.oamWord(prev, 0)
	c := b.oamWord(prev, 2)
	b.setOAMWord(row, 0, ((a^c)&(bw^c))^c)
	b.copyRowTail(row, prev)
}

func (b *Bus) readCorruption(row int) {
	a := b.oamWord(row, 0)
	prev := row - 1
	bw := b.oamWord(prev, 0)
	c := b.oamWord(prev, 2)
	b.setOAMWord(row, 0, bw|(a&c))
	b.copyRowTail(row, prev)
}

// IncDecAccess is called by the CPU whenever a 16-bit increment or
// decrement unit operation puts addr on the bus.
func (b *Bus) IncDecAccess(addr uint16) {
	if addr < 0xFE00 || addr >= 0xFF00 {
		return
	}
	row := b.corruptionRow()
	if row < 0 {
		return
	}
	if row >= 4 && row < 19 {
		prev, prev2 := row-1, row-2
		a := b.oamWord(prev2, 0)
		bw := b.oamWord(prev, 0)
		c := b.oamWord(row, 0)
		d := b.oamWord(prev, 2)
		b.setOAMWord(prev, 0, (bw&(a|c|d))|(a&c&d))
		for w := 0; w < 4; w++ {
			v := b.oamWord(prev, w)
			b.setOAMWord(row, w, v)
			b.setOAMWord(prev2, w, v)
		}
	}
	b.readCorruption(row)
}
