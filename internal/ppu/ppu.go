// Package ppu implements the DMG picture processing unit: the mode state
// machine, OAM scan, the background fetcher, the pixel FIFOs and the
// palette stage that writes the framebuffer.
package ppu

import "github.com/FabianRolfMatthiasNoll/dmgcore/internal/bus"

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	dotsPerLine   = 456
	linesPerFrame = 154
	oamScanDots   = 80
)

// Memory is the PPU's view of the memory map. VRAM and OAM reads bypass
// CPU gating; Reg and SetReg reach I/O register storage directly.
type Memory interface {
	ReadVRAM(addr uint16) byte
	ReadOAM(addr uint16) byte
	Reg(addr uint16) byte
	SetReg(addr uint16, value byte)
	RequestInterrupt(bit int)
	SetOAMScanRow(row int)
}

// DefaultShades is a four-step gray ramp in 0xAARRGGBB.
var DefaultShades = [4]uint32{0xFFFFFFFF, 0xFFC0C0C0, 0xFF606060, 0xFF000000}

type PPU struct {
	shades [4]uint32
	frame  [ScreenWidth * ScreenHeight]uint32

	lcdOn     bool
	skipFrame bool // first frame after the LCD is switched on emits nothing
	mode      byte
	ly        byte
	dot       int
	frames    uint64

	coincidence bool

	// mode 3
	lx       int // next screen x to emit
	discard  int // pixels still to drop from the BG FIFO
	bg       fifo
	obj      fifo
	fetch    fetcher
	objTicks int // dots left in an object fetch, 0 when none is running
	objects  []Object

	winActive bool
	winLine   byte
}

func New(shades [4]uint32) *PPU {
	p := &PPU{shades: shades, mode: 2, skipFrame: true}
	p.objects = make([]Object, 0, maxObjectsPerLine)
	p.clear()
	return p
}

// Frame returns the framebuffer, row-major, one 0xAARRGGBB value per pixel.
// It is only stable between Tick calls.
func (p *PPU) Frame() []uint32 { return p.frame[:] }

// Frames counts completed frames (V-Blank entries).
func (p *PPU) Frames() uint64 { return p.frames }

func (p *PPU) LY() byte   { return p.ly }
func (p *PPU) Mode() byte { return p.mode }
func (p *PPU) Dot() int   { return p.dot }

func (p *PPU) clear() {
	for i := range p.frame {
		p.frame[i] = p.shades[0]
	}
}

// Tick advances the PPU by the given number of dots.
func (p *PPU) Tick(mem Memory, dots int) {
	for i := 0; i < dots; i++ {
		p.step(mem)
	}
}

func (p *PPU) step(mem Memory) {
	if mem.Reg(bus.AddrLCDC)&0x80 == 0 {
		if p.lcdOn {
			p.turnOff(mem)
		}
		return
	}
	if !p.lcdOn {
		p.turnOn(mem)
	}

	switch p.mode {
	case 2:
		mem.SetOAMScanRow(p.dot / 4)
		if p.dot == oamScanDots-1 {
			mem.SetOAMScanRow(-1)
			p.startTransfer(mem)
		}
	case 3:
		p.transferDot(mem)
		if p.lx >= ScreenWidth {
			p.setMode(mem, 0)
		}
	}

	p.dot++
	if p.dot == dotsPerLine {
		p.dot = 0
		p.endLine(mem)
	}
}

func (p *PPU) turnOff(mem Memory) {
	p.lcdOn = false
	p.clear()
	p.ly = 0
	p.dot = 0
	p.mode = 2
	p.winLine = 0
	p.coincidence = false
	mem.SetReg(bus.AddrLY, 0)
	mem.SetReg(bus.AddrSTAT, mem.Reg(bus.AddrSTAT)&^0x07)
	mem.SetOAMScanRow(-1)
}

func (p *PPU) turnOn(mem Memory) {
	p.lcdOn = true
	p.skipFrame = true
	p.ly = 0
	p.dot = 0
	p.winLine = 0
	p.startLine(mem)
}

// startLine publishes LY, refreshes the coincidence flag and enters the
// line's first mode.
func (p *PPU) startLine(mem Memory) {
	mem.SetReg(bus.AddrLY, p.ly)
	p.updateLYC(mem)
	p.winActive = false
	if p.ly >= ScreenHeight {
		return
	}
	p.setMode(mem, 2)
	p.scanOAM(mem)
}

func (p *PPU) endLine(mem Memory) {
	if p.ly < ScreenHeight && p.winActive {
		p.winLine++
	}
	p.ly++
	switch {
	case p.ly == ScreenHeight:
		p.winLine = 0
		p.frames++
		p.setMode(mem, 1)
	case p.ly == linesPerFrame:
		p.ly = 0
		p.skipFrame = false
	}
	p.startLine(mem)
}

func (p *PPU) setMode(mem Memory, mode byte) {
	p.mode = mode
	stat := mem.Reg(bus.AddrSTAT)
	mem.SetReg(bus.AddrSTAT, stat&^0x03|mode)
	switch mode {
	case 0:
		if stat&(1<<3) != 0 {
			mem.RequestInterrupt(bus.IntSTAT)
		}
	case 1:
		mem.RequestInterrupt(bus.IntVBlank)
		if stat&(1<<4) != 0 {
			mem.RequestInterrupt(bus.IntSTAT)
		}
	case 2:
		if stat&(1<<5) != 0 {
			mem.RequestInterrupt(bus.IntSTAT)
		}
	}
}

func (p *PPU) updateLYC(mem Memory) {
	stat := mem.Reg(bus.AddrSTAT)
	match := p.ly == mem.Reg(bus.AddrLYC)
	if match {
		stat |= 1 << 2
		if !p.coincidence && stat&(1<<6) != 0 {
			mem.RequestInterrupt(bus.IntSTAT)
		}
	} else {
		stat &^= 1 << 2
	}
	p.coincidence = match
	mem.SetReg(bus.AddrSTAT, stat)
}

func (p *PPU) startTransfer(mem Memory) {
	p.setMode(mem, 3)
	p.lx = 0
	p.discard = int(mem.Reg(bus.AddrSCX) & 7)
	p.bg.Clear()
	p.obj.Clear()
	p.fetch.reset(false)
	p.objTicks = 0
}

// transferDot runs one dot of mode 3: an object fetch if one is due,
// otherwise the window check, one fetcher step and one pixel pump step.
func (p *PPU) transferDot(mem Memory) {
	lcdc := mem.Reg(bus.AddrLCDC)

	if p.objTicks > 0 {
		p.objTicks--
		if p.objTicks == 0 {
			p.finishObjectFetch(mem)
		}
		return
	}
	if lcdc&0x02 != 0 && p.discard == 0 && p.nextObjectDue() {
		p.objTicks = 6
		return
	}

	if !p.winActive && lcdc&0x20 != 0 && p.ly >= mem.Reg(bus.AddrWY) {
		wx := int(mem.Reg(bus.AddrWX))
		if p.lx+7 >= wx {
			p.winActive = true
			p.bg.Clear()
			p.fetch.reset(true)
			p.discard = 0
			if wx < 7 {
				p.discard = 7 - wx
			}
		}
	}

	p.fetchDot(mem)

	if p.bg.Len() <= 8 {
		return
	}
	bgPx, _ := p.bg.Pop()
	if p.discard > 0 {
		p.discard--
		return
	}
	objPx, hasObj := p.obj.Pop()
	color := p.compose(mem, lcdc, bgPx, objPx, hasObj)
	if !p.skipFrame {
		p.frame[int(p.ly)*ScreenWidth+p.lx] = color
	}
	p.lx++
}

// compose applies object priority and the palettes to one pixel.
func (p *PPU) compose(mem Memory, lcdc byte, bgPx, objPx pixel, hasObj bool) uint32 {
	bgColor := bgPx.color
	if lcdc&0x01 == 0 {
		bgColor = 0
	}
	if hasObj && lcdc&0x02 != 0 && objPx.color != 0 && (!objPx.bgPriority || bgColor == 0) {
		pal := mem.Reg(bus.AddrOBP0)
		if objPx.source == srcOBJ1 {
			pal = mem.Reg(bus.AddrOBP1)
		}
		return p.shade(pal, objPx.color)
	}
	return p.shade(mem.Reg(bus.AddrBGP), bgColor)
}

func (p *PPU) shade(pal, color byte) uint32 {
	return p.shades[(pal>>(color*2))&3]
}
