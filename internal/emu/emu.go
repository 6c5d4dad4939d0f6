// Package emu wires the CPU, memory map, PPU and timer together and drives
// them from a shared 4 194 304 Hz base clock.
package emu

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/bus"
	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/timer"
)

// ClockHz is the base clock: one cycle per PPU dot.
const ClockHz = 4194304

const (
	quantum        = 4
	bootROMSize    = 0x100
	CyclesPerFrame = 70224
)

type Machine struct {
	cfg Config

	bus   *bus.Bus
	cpu   *cpu.CPU
	ppu   *ppu.PPU
	timer *timer.Timer

	header  *cart.Header
	romPath string
	bootROM []byte

	debt      int   // cycles the CPU has run ahead of the peripherals
	pending   int   // budgeted cycles not yet spent, always < quantum
	remainder int64 // sub-cycle budget carried between Advance calls, in ns·Hz
	cycles    uint64

	lastPC uint16
}

// NewPostBoot returns a machine in the state the boot ROM leaves behind:
// PC=0x0100 and the DMG register and I/O defaults. No cartridge is mapped.
func NewPostBoot(cfg Config) *Machine {
	m := &Machine{cfg: cfg.withDefaults()}
	m.rebuild(nil)
	return m
}

// NewWithBootROM loads a 256-byte boot ROM and starts execution at 0x0000.
func NewWithBootROM(path string, cfg Config) (*Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boot rom: %w", err)
	}
	if len(data) != bootROMSize {
		return nil, fmt.Errorf("boot rom %s: %d bytes, want %d", path, len(data), bootROMSize)
	}
	m := &Machine{cfg: cfg.withDefaults(), bootROM: data}
	m.rebuild(nil)
	return m, nil
}

// LoadCartridge replaces the cartridge and rebuilds every component. On
// error the machine is left as it was.
func (m *Machine) LoadCartridge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rom: %w", err)
	}
	if err := m.LoadROM(data); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	m.romPath = path
	return nil
}

// LoadROM is LoadCartridge for an image already in memory.
func (m *Machine) LoadROM(rom []byte) error {
	c, h, err := cart.New(rom)
	if err != nil {
		return err
	}
	m.header = h
	m.romPath = ""
	m.rebuild(c)
	log.Printf("cartridge %q: %s, %d ROM banks, %d RAM banks", h.Title, h.Kind, h.ROMBanks, h.RAMBanks)
	return nil
}

// Reset restarts the machine with the current cartridge.
func (m *Machine) Reset() { m.rebuild(m.bus.Cart()) }

func (m *Machine) rebuild(c cart.Cartridge) {
	m.bus = bus.New(c)
	m.cpu = cpu.New()
	m.ppu = ppu.New(m.cfg.Shades)
	m.timer = timer.New()
	m.debt, m.pending, m.remainder, m.cycles = 0, 0, 0, 0
	if m.bootROM != nil {
		m.bus.SetBootROM(m.bootROM)
		return
	}
	m.cpu.ResetPostBoot()
	m.applyDMGPostBootIO()
}

// applyDMGPostBootIO sets the I/O registers the DMG boot ROM leaves behind.
func (m *Machine) applyDMGPostBootIO() {
	b := m.bus
	b.SetReg(bus.AddrJOYP, 0xCF)
	b.SetReg(bus.AddrDIV, 0xAB)
	b.SetReg(bus.AddrTIMA, 0x00)
	b.SetReg(bus.AddrTMA, 0x00)
	b.SetReg(bus.AddrTAC, 0x00)
	b.SetReg(bus.AddrIF, 0x01)
	b.SetReg(bus.AddrLCDC, 0x91)
	b.SetReg(bus.AddrSTAT, 0x05)
	b.SetReg(bus.AddrSCY, 0x00)
	b.SetReg(bus.AddrSCX, 0x00)
	b.SetReg(bus.AddrLYC, 0x00)
	b.SetReg(bus.AddrDMA, 0xFF)
	b.SetReg(bus.AddrBGP, 0xFC)
	b.SetReg(bus.AddrOBP0, 0xFF)
	b.SetReg(bus.AddrOBP1, 0xFF)
	b.SetReg(bus.AddrWY, 0x00)
	b.SetReg(bus.AddrWX, 0x00)
	b.SetReg(bus.AddrIE, 0x00)
}

// budget converts d to base cycles, carrying the fractional part.
func (m *Machine) budget(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	secs := int64(d / time.Second)
	frac := int64(d%time.Second)*ClockHz + m.remainder
	m.remainder = frac % int64(time.Second)
	return secs*ClockHz + frac/int64(time.Second)
}

// Advance runs d of emulated time.
func (m *Machine) Advance(d time.Duration) {
	m.AdvanceWithBreakpoint(d, nil)
}

// AdvanceWithBreakpoint runs d of emulated time, stopping early after the
// first instruction for which stop returns true. It reports whether stop
// fired.
func (m *Machine) AdvanceWithBreakpoint(d time.Duration, stop func(*Machine) bool) bool {
	total := m.budget(d) + int64(m.pending)
	for total >= quantum {
		total -= quantum
		if m.tick(stop) {
			m.pending = 0
			return true
		}
	}
	m.pending = int(total)
	return false
}

// StepInstruction runs until the CPU executes one instruction or services
// one interrupt. A CPU that stays halted, stopped or locked gives up after
// one frame's worth of cycles.
func (m *Machine) StepInstruction() {
	retired, serviced := m.cpu.Retired(), m.cpu.Serviced()
	progressed := func(m *Machine) bool {
		return m.cpu.Retired() != retired || m.cpu.Serviced() != serviced
	}
	for i := 0; i < CyclesPerFrame/quantum; i++ {
		if m.tick(progressed) {
			return
		}
	}
}

// RunFrame advances one frame's worth of cycles.
func (m *Machine) RunFrame() {
	for i := 0; i < CyclesPerFrame/quantum; i++ {
		m.tick(nil)
	}
}

// tick runs one quantum: peripherals first, then any CPU steps that are
// due, then DMA and the boot ROM check.
func (m *Machine) tick(stop func(*Machine) bool) bool {
	m.bus.SampleJoypad()
	if m.cpu.Stopped() && m.bus.Keys() != 0 {
		m.cpu.Wake()
	}
	m.timer.Tick(m.bus, quantum)
	m.ppu.Tick(m.bus, quantum)
	m.cycles += quantum

	hit := false
	m.debt -= quantum
	for m.debt < 0 {
		m.debt += m.stepCPU()
		if stop != nil && stop(m) {
			hit = true
			break
		}
	}

	m.bus.TickDMA(quantum)
	if m.bus.BootMapped() && m.cpu.Regs.PC >= 0x0100 {
		m.bus.UnmapBoot()
	}
	return hit
}

func (m *Machine) stepCPU() int {
	pc := m.cpu.Regs.PC
	retired := m.cpu.Retired()
	var info cpu.InstructionInfo
	if m.cfg.Trace {
		info = cpu.Decode(m.bus, pc)
	}
	cycles := m.cpu.Step(m.bus)
	if m.cpu.Retired() != retired {
		m.lastPC = pc
		if m.cfg.Trace {
			r := &m.cpu.Regs
			log.Printf("%04X  %-16s A=%02X F=%02X BC=%04X DE=%04X HL=%04X SP=%04X cyc=%d",
				pc, info.Text, r.A(), r.F(), r.Pair(cpu.PairBC), r.Pair(cpu.PairDE), r.Pair(cpu.PairHL), r.SP, cycles)
		}
	}
	return cycles
}

// UpdateJoypad sets the pressed keys: bit 0..7 = A, B, Select, Start,
// Right, Left, Up, Down.
func (m *Machine) UpdateJoypad(keys byte) { m.bus.SetJoypadState(keys) }

// Framebuffer returns the 160×144 frame in 0xAARRGGBB, row-major. The slice
// is owned by the machine and only stable between Advance calls.
func (m *Machine) Framebuffer() []uint32 { return m.ppu.Frame() }

// Decode disassembles the instruction at addr without side effects.
func (m *Machine) Decode(addr uint16) cpu.InstructionInfo { return cpu.Decode(m.bus, addr) }

// MemoryRead and MemoryWrite bypass CPU access gating.
func (m *Machine) MemoryRead(addr uint16) byte         { return m.bus.Peek(addr) }
func (m *Machine) MemoryWrite(addr uint16, value byte) { m.bus.Poke(addr, value) }

// Registers returns a copy of the CPU register file.
func (m *Machine) Registers() cpu.Registers { return m.cpu.Regs }

func (m *Machine) PC() uint16 { return m.cpu.Regs.PC }
func (m *Machine) IME() bool  { return m.cpu.IME }

// LastPC is the address of the most recently executed instruction.
func (m *Machine) LastPC() uint16 { return m.lastPC }

// Locked reports whether the CPU hit an illegal opcode.
func (m *Machine) Locked() bool { return m.cpu.Locked() }

// Cycles is the number of base cycles elapsed since the last rebuild.
func (m *Machine) Cycles() uint64 { return m.cycles }

// Frames is the number of V-Blank periods entered since the last rebuild.
func (m *Machine) Frames() uint64 { return m.ppu.Frames() }

func (m *Machine) LY() byte { return m.ppu.LY() }

// Header describes the loaded cartridge, or nil.
func (m *Machine) Header() *cart.Header { return m.header }

func (m *Machine) ROMPath() string { return m.romPath }

// BootROMMapped reports whether the boot ROM still overlays 0x0000–0x00FF.
func (m *Machine) BootROMMapped() bool { return m.bus.BootMapped() }

// Watch logs CPU writes to addr; DrainWrites collects them.
func (m *Machine) Watch(addr uint16)        { m.bus.Watch(addr) }
func (m *Machine) Unwatch(addr uint16)      { m.bus.Unwatch(addr) }
func (m *Machine) DrainWrites() []bus.Write { return m.bus.DrainWrites() }
