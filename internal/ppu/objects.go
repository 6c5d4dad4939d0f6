package ppu

import (
	"sort"

	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/bus"
)

const maxObjectsPerLine = 10

// Object is one OAM entry.
type Object struct {
	Y, X  byte
	Tile  byte
	Attrs byte
	Index int // position in OAM
}

func objectHeight(lcdc byte) byte {
	if lcdc&0x04 != 0 {
		return 16
	}
	return 8
}

// scanOAM selects up to ten objects covering the current line, ordered so
// that the next one to fetch is last.
func (p *PPU) scanOAM(mem Memory) {
	p.objects = p.objects[:0]
	h := objectHeight(mem.Reg(bus.AddrLCDC))
	line := int(p.ly) + 16
	for i := 0; i < 40 && len(p.objects) < maxObjectsPerLine; i++ {
		addr := uint16(0xFE00 + i*4)
		y := int(mem.ReadOAM(addr))
		if line < y || line >= y+int(h) {
			continue
		}
		p.objects = append(p.objects, Object{
			Y:     byte(y),
			X:     mem.ReadOAM(addr + 1),
			Tile:  mem.ReadOAM(addr + 2),
			Attrs: mem.ReadOAM(addr + 3),
			Index: i,
		})
	}
	sort.Slice(p.objects, func(a, b int) bool {
		oa, ob := p.objects[a], p.objects[b]
		if oa.X != ob.X {
			return oa.X > ob.X
		}
		return oa.Index > ob.Index
	})
}

// Objects returns the selection made by the last OAM scan.
func (p *PPU) Objects() []Object { return p.objects }

// nextObjectDue reports whether the nearest pending object starts at or
// before the pixel about to be emitted.
func (p *PPU) nextObjectDue() bool {
	n := len(p.objects)
	return n > 0 && int(p.objects[n-1].X) <= p.lx+8
}

// objectRow fetches the 8 pixels of obj on the current line.
func (p *PPU) objectRow(mem Memory, obj Object) [8]pixel {
	lcdc := mem.Reg(bus.AddrLCDC)
	h := objectHeight(lcdc)
	row := p.ly + 16 - obj.Y
	if obj.Attrs&0x40 != 0 {
		row = h - 1 - row
	}
	tile := obj.Tile
	if h == 16 {
		tile &= 0xFE
	}
	addr := 0x8000 + uint16(tile)*16 + uint16(row)*2
	lo := mem.ReadVRAM(addr)
	hi := mem.ReadVRAM(addr + 1)

	src := srcOBJ0
	if obj.Attrs&0x10 != 0 {
		src = srcOBJ1
	}
	var out [8]pixel
	for i := 0; i < 8; i++ {
		bit := uint(7 - i)
		if obj.Attrs&0x20 != 0 {
			bit = uint(i)
		}
		out[i] = pixel{
			color:      (hi>>bit)&1<<1 | (lo>>bit)&1,
			source:     src,
			bgPriority: obj.Attrs&0x80 != 0,
		}
	}
	return out
}

// finishObjectFetch merges the pending object into the OBJ FIFO, clipping
// pixels left of the current screen position.
func (p *PPU) finishObjectFetch(mem Memory) {
	n := len(p.objects)
	obj := p.objects[n-1]
	p.objects = p.objects[:n-1]
	p.obj.mergeObject(p.objectRow(mem, obj), int(obj.X)-8-p.lx)
}
