package ppu

import "github.com/FabianRolfMatthiasNoll/dmgcore/internal/bus"

type fetchState int

const (
	fetchTile fetchState = iota
	fetchLow
	fetchHigh
	fetchSleep
	fetchPush
)

// fetcher pulls one 8-pixel tile row into the BG FIFO. The first four
// states take two dots each; Push retries every dot until the FIFO has room.
type fetcher struct {
	state  fetchState
	ticks  int
	x      int // pixels fetched so far on this line (or in the window)
	window bool
	tile   byte
	lo, hi byte
}

func (f *fetcher) reset(window bool) {
	*f = fetcher{window: window}
}

func tileDataAddr(lcdc, tile, fineY byte) uint16 {
	if lcdc&0x10 != 0 {
		return 0x8000 + uint16(tile)*16 + uint16(fineY)*2
	}
	return uint16(0x9000+int(int8(tile))*16) + uint16(fineY)*2
}

// fetchCoords returns the tile map address and the row within the tile for the
// fetcher's current position.
func (p *PPU) fetchCoords(mem Memory) (mapAddr uint16, fineY byte) {
	lcdc := mem.Reg(bus.AddrLCDC)
	f := &p.fetch
	if f.window {
		base := uint16(0x9800)
		if lcdc&0x40 != 0 {
			base = 0x9C00
		}
		col := uint16(f.x/8) & 31
		row := uint16(p.winLine / 8)
		return base + row*32 + col, p.winLine & 7
	}
	base := uint16(0x9800)
	if lcdc&0x08 != 0 {
		base = 0x9C00
	}
	y := p.ly + mem.Reg(bus.AddrSCY)
	col := (uint16(mem.Reg(bus.AddrSCX))/8 + uint16(f.x/8)) & 31
	return base + uint16(y/8)*32 + col, y & 7
}

func (p *PPU) fetchDot(mem Memory) {
	f := &p.fetch
	if f.state == fetchPush {
		p.pushTile()
		return
	}

	f.ticks++
	if f.ticks < 2 {
		return
	}
	f.ticks = 0
	lcdc := mem.Reg(bus.AddrLCDC)
	mapAddr, fineY := p.fetchCoords(mem)
	switch f.state {
	case fetchTile:
		f.tile = mem.ReadVRAM(mapAddr)
	case fetchLow:
		f.lo = mem.ReadVRAM(tileDataAddr(lcdc, f.tile, fineY))
	case fetchHigh:
		f.hi = mem.ReadVRAM(tileDataAddr(lcdc, f.tile, fineY) + 1)
	}
	f.state++
	if f.state == fetchPush {
		p.pushTile()
	}
}

// pushTile moves the fetched row into the BG FIFO once it has room for 8.
func (p *PPU) pushTile() {
	f := &p.fetch
	if p.bg.Len() > 8 {
		return
	}
	src := srcBG
	if f.window {
		src = srcWindow
	}
	for bit := 7; bit >= 0; bit-- {
		ci := (f.hi>>uint(bit))&1<<1 | (f.lo>>uint(bit))&1
		p.bg.Push(pixel{color: ci, source: src})
	}
	f.x += 8
	f.state = fetchTile
}
