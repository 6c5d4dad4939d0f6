package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/frame"
	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/ui"
)

type CLIFlags struct {
	ROMPath string
	BootROM string
	Config  string
	Scale   int
	Title   string
	Palette string
	Trace   bool

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	Expect   string // expected framebuffer CRC32 hex (e.g., "1a2b3c4d")
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.gb)")
	flag.StringVar(&f.BootROM, "bootrom", "", "optional 256-byte DMG boot ROM")
	flag.StringVar(&f.Config, "config", "gbemu.json", "settings file")
	flag.IntVar(&f.Scale, "scale", 0, "window scale (overrides settings)")
	flag.StringVar(&f.Title, "title", "", "window title (overrides settings)")
	flag.StringVar(&f.Palette, "palette", "", "shade palette: "+strings.Join(frame.PaletteNames(), ", "))
	flag.BoolVar(&f.Trace, "trace", false, "CPU trace log")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()
	return f
}

func runHeadless(m *emu.Machine, frames int, pngPath, expectCRC string) error {
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		m.RunFrame()
	}
	dur := time.Since(start)

	fb := m.Framebuffer()
	crc := frame.Checksum(fb)
	fps := float64(frames) / dur.Seconds()

	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		frames, dur.Truncate(time.Millisecond), fps, crc)

	if pngPath != "" {
		if err := frame.SavePNG(pngPath, fb); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func newMachine(f CLIFlags, shades [4]uint32) (*emu.Machine, error) {
	cfg := emu.Config{Trace: f.Trace, Shades: shades}
	if f.BootROM == "" {
		return emu.NewPostBoot(cfg), nil
	}
	return emu.NewWithBootROM(f.BootROM, cfg)
}

func main() {
	f := parseFlags()

	uiCfg, err := ui.LoadConfig(f.Config)
	if err != nil {
		log.Fatal(err)
	}
	if f.Scale > 0 {
		uiCfg.Scale = f.Scale
	}
	if f.Title != "" {
		uiCfg.Title = f.Title
	}
	if f.Palette != "" {
		uiCfg.Palette = f.Palette
	}
	shades, err := frame.Shades(uiCfg.Palette)
	if err != nil {
		log.Fatal(err)
	}

	m, err := newMachine(f, shades)
	if err != nil {
		log.Fatal(err)
	}
	if f.ROMPath != "" {
		if err := m.LoadCartridge(f.ROMPath); err != nil {
			log.Fatalf("load cart: %v", err)
		}
	}

	if f.Headless {
		if err := runHeadless(m, f.Frames, f.PNGOut, f.Expect); err != nil {
			log.Fatal(err)
		}
		return
	}

	app := ui.NewApp(uiCfg, m)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
