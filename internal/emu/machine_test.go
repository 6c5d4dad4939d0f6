package emu_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/bus"
	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/emu"
)

// romWith builds a 32 KiB ROM-only image with code at 0x0100 and any extra
// chunks placed at their addresses.
func romWith(code []byte, extra map[uint16][]byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x0134:], "TEST")
	copy(rom[0x0100:], code)
	for addr, b := range extra {
		copy(rom[addr:], b)
	}
	return rom
}

var spin = []byte{0x18, 0xFE} // JR -2

var fibonacciProgram = []byte{
	0x06, 3, // LD B,3
	0x0E, 5, // LD C,5
	0x16, 8, // LD D,8
	0x1E, 13, // LD E,13
	0x26, 21, // LD H,21
	0x2E, 34, // LD L,34
	0x40,       // LD B,B
	0x18, 0xFE, // JR -2
}

func loadedMachine(code []byte, extra map[uint16][]byte) *emu.Machine {
	m := emu.NewPostBoot(emu.DefaultConfig())
	Expect(m.LoadROM(romWith(code, extra))).To(Succeed())
	return m
}

func writeFile(name string, data []byte) string {
	path := filepath.Join(GinkgoT().TempDir(), name)
	Expect(os.WriteFile(path, data, 0o644)).To(Succeed())
	return path
}

var _ = Describe("Machine", func() {
	Describe("post-boot state", func() {
		It("starts at 0x0100 with the DMG register defaults", func() {
			m := emu.NewPostBoot(emu.DefaultConfig())
			r := m.Registers()
			Expect(r.PC).To(Equal(uint16(0x0100)))
			Expect(r.SP).To(Equal(uint16(0xFFFE)))
			Expect(r.A()).To(Equal(byte(0x01)))
			Expect(r.F()).To(Equal(byte(0xB0)))
			Expect(r.Pair(cpu.PairHL)).To(Equal(uint16(0x014D)))
			Expect(m.IME()).To(BeFalse())
		})

		It("leaves the I/O registers as the boot ROM would", func() {
			m := emu.NewPostBoot(emu.DefaultConfig())
			Expect(m.MemoryRead(bus.AddrLCDC)).To(Equal(byte(0x91)))
			Expect(m.MemoryRead(bus.AddrBGP)).To(Equal(byte(0xFC)))
			Expect(m.MemoryRead(bus.AddrIF)).To(Equal(byte(0xE1)))
			Expect(m.MemoryRead(bus.AddrIE)).To(Equal(byte(0xE0)))
			Expect(m.BootROMMapped()).To(BeFalse())
		})

		It("keeps JOYP at its post-boot value once the joypad is sampled", func() {
			m := loadedMachine(spin, nil)
			m.Advance(time.Millisecond)
			Expect(m.MemoryRead(bus.AddrJOYP)).To(Equal(byte(0xCF)))
		})
	})

	Describe("time budget", func() {
		It("runs exactly one second of cycles across many small slices", func() {
			m := loadedMachine(spin, nil)
			for i := 0; i < 1000; i++ {
				m.Advance(time.Millisecond)
			}
			Expect(m.Cycles()).To(Equal(uint64(emu.ClockHz)))
		})

		It("stays within one quantum of the requested budget", func() {
			m := loadedMachine(spin, nil)
			m.Advance(12345 * time.Microsecond)
			Expect(m.Cycles()).To(BeNumerically("~", 51778, 4))
		})

		It("ignores non-positive durations", func() {
			m := loadedMachine(spin, nil)
			m.Advance(0)
			m.Advance(-time.Second)
			Expect(m.Cycles()).To(BeZero())
		})

		It("produces about sixty frames per second", func() {
			m := loadedMachine(spin, nil)
			m.Advance(time.Second)
			Expect(m.Frames()).To(BeNumerically("~", 59, 1))
		})
	})

	Describe("breakpoints", func() {
		It("stops right after the matching instruction", func() {
			m := loadedMachine(fibonacciProgram, nil)
			hit := m.AdvanceWithBreakpoint(time.Second, func(m *emu.Machine) bool {
				return m.PC() == 0x010D
			})
			Expect(hit).To(BeTrue())
			Expect(m.LastPC()).To(Equal(uint16(0x010C)))
			r := m.Registers()
			Expect(r.Get(cpu.RegL)).To(Equal(byte(34)))
			Expect(m.Cycles()).To(BeNumerically("<", 100))
		})

		It("reports a miss when the predicate never fires", func() {
			m := loadedMachine(spin, nil)
			hit := m.AdvanceWithBreakpoint(time.Millisecond, func(m *emu.Machine) bool {
				return m.PC() == 0x4000
			})
			Expect(hit).To(BeFalse())
		})

		It("steps a single instruction", func() {
			m := loadedMachine(fibonacciProgram, nil)
			m.StepInstruction()
			Expect(m.PC()).To(Equal(uint16(0x0102)))
			r := m.Registers()
			Expect(r.Get(cpu.RegB)).To(Equal(byte(3)))
			m.StepInstruction()
			Expect(m.PC()).To(Equal(uint16(0x0104)))
		})

		It("keeps stepping through HALT until an instruction runs", func() {
			program := []byte{
				0x3E, 0x01, // LD A,1
				0xE0, 0xFF, // LDH (IE),A
				0xAF,       // XOR A
				0xE0, 0x0F, // LDH (IF),A
				0x76,       // HALT
				0x3E, 0x42, // LD A,$42
				0x18, 0xFE, // JR -2
			}
			m := loadedMachine(program, nil)
			for i := 0; i < 5; i++ {
				m.StepInstruction()
			}
			Expect(m.PC()).To(Equal(uint16(0x0108)))

			m.StepInstruction()
			r := m.Registers()
			Expect(r.A()).To(Equal(byte(0x42)))
			Expect(m.PC()).To(Equal(uint16(0x010A)))
		})

		It("gives up on a CPU that never wakes", func() {
			m := loadedMachine([]byte{0x76, 0x00}, nil) // HALT; NOP with IE=0
			m.StepInstruction()
			before := m.Cycles()
			m.StepInstruction()
			Expect(m.PC()).To(Equal(uint16(0x0101)))
			Expect(m.Cycles() - before).To(Equal(uint64(emu.CyclesPerFrame)))
		})
	})

	Describe("test ROM protocol", func() {
		It("passes on the Fibonacci registers", func() {
			m := loadedMachine(fibonacciProgram, nil)
			Expect(m.RunTestROM(time.Second)).To(Equal(emu.OutcomePass))
		})

		It("fails on other register values", func() {
			m := loadedMachine([]byte{0x06, 0x42, 0x40, 0x18, 0xFE}, nil)
			Expect(m.RunTestROM(time.Second)).To(Equal(emu.OutcomeFail))
		})

		It("times out without a breakpoint", func() {
			m := loadedMachine(spin, nil)
			Expect(m.RunTestROM(10 * time.Millisecond)).To(Equal(emu.OutcomeTimeout))
		})
	})

	Describe("cartridge loading", func() {
		It("reads the header from disk", func() {
			m := emu.NewPostBoot(emu.DefaultConfig())
			path := writeFile("test.gb", romWith(spin, nil))
			Expect(m.LoadCartridge(path)).To(Succeed())
			Expect(m.Header().Title).To(Equal("TEST"))
			Expect(m.ROMPath()).To(Equal(path))
			Expect(m.MemoryRead(0x0100)).To(Equal(byte(0x18)))
		})

		It("keeps the running machine on a bad header", func() {
			m := loadedMachine(fibonacciProgram, nil)
			m.StepInstruction()
			bad := romWith(spin, nil)
			bad[0x0147] = 0x19
			err := m.LoadCartridge(writeFile("bad.gb", bad))
			Expect(err).To(MatchError(cart.ErrUnsupportedCartType))
			Expect(m.PC()).To(Equal(uint16(0x0102)))
			Expect(m.Header().Title).To(Equal("TEST"))
		})

		It("reports a missing file", func() {
			m := emu.NewPostBoot(emu.DefaultConfig())
			Expect(m.LoadCartridge(filepath.Join(GinkgoT().TempDir(), "nope.gb"))).NotTo(Succeed())
			Expect(m.Header()).To(BeNil())
		})

		It("restarts the same cartridge on reset", func() {
			m := loadedMachine(fibonacciProgram, nil)
			m.Advance(time.Millisecond)
			m.Reset()
			Expect(m.PC()).To(Equal(uint16(0x0100)))
			Expect(m.Cycles()).To(BeZero())
			Expect(m.MemoryRead(0x0100)).To(Equal(byte(0x06)))
		})
	})

	Describe("boot ROM", func() {
		bootJump := func() []byte {
			boot := make([]byte, 0x100)
			copy(boot, []byte{0xC3, 0x00, 0x01}) // JP $0100
			return boot
		}

		It("rejects images that are not 256 bytes", func() {
			_, err := emu.NewWithBootROM(writeFile("boot.bin", make([]byte, 200)), emu.DefaultConfig())
			Expect(err).To(HaveOccurred())
		})

		It("overlays the cartridge until execution reaches 0x0100", func() {
			m, err := emu.NewWithBootROM(writeFile("boot.bin", bootJump()), emu.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(m.LoadROM(romWith(spin, map[uint16][]byte{0x0000: {0x76}}))).To(Succeed())
			Expect(m.PC()).To(BeZero())
			Expect(m.BootROMMapped()).To(BeTrue())
			Expect(m.MemoryRead(0x0000)).To(Equal(byte(0xC3)))

			m.Advance(time.Millisecond)
			Expect(m.BootROMMapped()).To(BeFalse())
			Expect(m.MemoryRead(0x0000)).To(Equal(byte(0x76)))
		})
	})

	Describe("interrupts", func() {
		It("services the timer interrupt out of HALT", func() {
			program := []byte{
				0x3E, 0x05, // LD A,5 (timer on, 16-cycle period)
				0xE0, 0x07, // LDH (TAC),A
				0x3E, 0x04, // LD A,4
				0xE0, 0xFF, // LDH (IE),A
				0xAF,       // XOR A
				0xE0, 0x0F, // LDH (IF),A
				0xFB,       // EI
				0x76,       // HALT
				0x18, 0xFE, // JR -2
			}
			handler := []byte{
				0x3E, 0x77, // LD A,$77
				0xEA, 0x00, 0xC0, // LD ($C000),A
				0xD9, // RETI
			}
			m := loadedMachine(program, map[uint16][]byte{0x0050: handler})
			m.Advance(10 * time.Millisecond)
			Expect(m.MemoryRead(0xC000)).To(Equal(byte(0x77)))
		})

		It("logs watched writes", func() {
			program := []byte{0x3E, 0x99, 0xEA, 0x10, 0xC0, 0x18, 0xFE} // LD A,$99; LD ($C010),A
			m := loadedMachine(program, nil)
			m.Watch(0xC010)
			m.Advance(time.Millisecond)
			Expect(m.DrainWrites()).To(Equal([]bus.Write{{Addr: 0xC010, Value: 0x99}}))
			Expect(m.DrainWrites()).To(BeEmpty())
		})
	})

	Describe("joypad", func() {
		It("wakes from STOP on a key press", func() {
			program := []byte{0x10, 0x00, 0x3E, 0x42, 0x18, 0xFE} // STOP; LD A,$42
			m := loadedMachine(program, nil)
			m.Advance(time.Millisecond)
			r := m.Registers()
			Expect(r.A()).NotTo(Equal(byte(0x42)))

			m.SetButtons(emu.Buttons{Start: true})
			m.Advance(time.Millisecond)
			r = m.Registers()
			Expect(r.A()).To(Equal(byte(0x42)))
		})

		It("packs buttons into the joypad mask", func() {
			Expect(emu.Buttons{A: true, Down: true}.Mask()).To(Equal(byte(bus.JoypA | bus.JoypDown)))
			Expect(emu.Buttons{}.Mask()).To(BeZero())
		})
	})

	Describe("framebuffer", func() {
		It("is 160x144 and blank for the suppressed first frame", func() {
			m := loadedMachine(spin, nil)
			m.Advance(5 * time.Millisecond)
			fb := m.Framebuffer()
			Expect(fb).To(HaveLen(160 * 144))
			Expect(fb[0]).To(Equal(emu.DefaultConfig().Shades[0]))
		})

		It("decodes without side effects", func() {
			m := loadedMachine(fibonacciProgram, nil)
			info := m.Decode(0x0100)
			Expect(info.Text).To(Equal("LD B,$03"))
			Expect(info.Length).To(Equal(2))
			Expect(m.PC()).To(Equal(uint16(0x0100)))
		})
	})
})

var _ = Describe("Config", func() {
	It("falls back to the gray ramp when no shades are given", func() {
		m := emu.NewPostBoot(emu.Config{})
		Expect(m.Framebuffer()[0]).To(Equal(uint32(0xFFFFFFFF)))
	})
})
