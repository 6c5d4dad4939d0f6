// Command gbdebug is a terminal debugger: registers, disassembly and a
// memory dump, with single-step, frame-step and breakpoints.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/emu"
	"github.com/jroimartin/gocui"
)

const continueLimit = 10 * time.Second

func (s *session) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	split := maxX / 3
	views := []struct {
		name, title    string
		x0, y0, x1, y1 int
		lines          func(rows int) []string
	}{
		{"regs", "Registers", 0, 0, split - 1, 10, func(int) []string { return s.registerLines() }},
		{"mem", "Memory (PgUp/PgDn)", 0, 11, split - 1, maxY - 4, s.memoryLines},
		{"code", "Disassembly", split, 0, maxX - 1, maxY - 4, s.disasmLines},
		{"status", "s step  n frame  c continue  b break at PC  q quit", 0, maxY - 3, maxX - 1, maxY - 1, func(int) []string {
			return []string{s.status + "   breaks: " + s.breakList()}
		}},
	}
	for _, vd := range views {
		v, err := g.SetView(vd.name, vd.x0, vd.y0, vd.x1, vd.y1)
		if err != nil && !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = vd.title
		v.Clear()
		rows := vd.y1 - vd.y0 - 1
		if rows < 1 {
			rows = 1
		}
		fmt.Fprint(v, strings.Join(vd.lines(rows), "\n"))
	}
	return nil
}

func (s *session) bind(g *gocui.Gui) error {
	act := func(f func()) func(*gocui.Gui, *gocui.View) error {
		return func(*gocui.Gui, *gocui.View) error {
			f()
			return nil
		}
	}
	quit := func(*gocui.Gui, *gocui.View) error { return gocui.ErrQuit }
	bindings := []struct {
		key     interface{}
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{'s', act(s.step)},
		{'n', act(s.frame)},
		{'c', act(func() { s.cont(continueLimit) })},
		{'b', act(func() { s.toggleBreak(s.m.PC()) })},
		{gocui.KeyPgup, act(func() { s.memAddr -= 0x40 })},
		{gocui.KeyPgdn, act(func() { s.memAddr += 0x40 })},
		{'q', quit},
		{gocui.KeyCtrlC, quit},
	}
	for _, b := range bindings {
		if err := g.SetKeybinding("", b.key, gocui.ModNone, b.handler); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	bootROM := flag.String("bootrom", "", "optional DMG boot ROM")
	breaks := flag.String("break", "", "comma-separated hex breakpoint addresses")
	mem := flag.Uint("mem", 0xC000, "initial memory view address")
	flag.Parse()

	var m *emu.Machine
	if *bootROM != "" {
		var err error
		if m, err = emu.NewWithBootROM(*bootROM, emu.DefaultConfig()); err != nil {
			log.Fatal(err)
		}
	} else {
		m = emu.NewPostBoot(emu.DefaultConfig())
	}
	if *romPath != "" {
		if err := m.LoadCartridge(*romPath); err != nil {
			log.Fatalf("load cart: %v", err)
		}
	}

	s := newSession(m)
	s.memAddr = uint16(*mem)
	addrs, err := parseBreaks(*breaks)
	if err != nil {
		log.Fatal(err)
	}
	for _, a := range addrs {
		s.breaks[a] = true
	}

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()
	g.SetManagerFunc(s.layout)
	if err := s.bind(g); err != nil {
		log.Fatal(err)
	}
	if err := g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		log.Fatal(err)
	}
}
