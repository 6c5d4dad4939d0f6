// Command romcheck runs hardware test ROMs headlessly and reports each one
// as passed, failed or timed out. ROMs signal completion by executing
// LD B,B with the Fibonacci numbers 3, 5, 8, 13, 21, 34 in B..L on success.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/emu"
	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

func label(o emu.Outcome) string {
	switch o {
	case emu.OutcomePass:
		return green("passed")
	case emu.OutcomeFail:
		return red("failed")
	default:
		return yellow("timed out")
	}
}

func run(path, bootROM string, limit time.Duration) (emu.Outcome, error) {
	var m *emu.Machine
	if bootROM != "" {
		var err error
		if m, err = emu.NewWithBootROM(bootROM, emu.DefaultConfig()); err != nil {
			return emu.OutcomeFail, err
		}
	} else {
		m = emu.NewPostBoot(emu.DefaultConfig())
	}
	if err := m.LoadCartridge(path); err != nil {
		return emu.OutcomeFail, err
	}
	out := m.RunTestROM(limit)
	if out != emu.OutcomePass {
		r := m.Registers()
		log.Printf("%s: PC=%04X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X",
			filepath.Base(path), r.PC, r.Get(cpu.RegB), r.Get(cpu.RegC), r.Get(cpu.RegD),
			r.Get(cpu.RegE), r.Get(cpu.RegH), r.Get(cpu.RegL))
	}
	return out, nil
}

func main() {
	log.SetFlags(log.Lshortfile | log.Lmicroseconds)
	bootROM := flag.String("bootrom", "", "optional DMG boot ROM")
	limit := flag.Duration("limit", 20*time.Second, "emulated time allowed per ROM")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] rom.gb|dir ...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var roms []string
	for _, arg := range flag.Args() {
		found, err := emu.FindROMs(arg)
		if err != nil {
			log.Fatalf("scan %s: %v", arg, err)
		}
		roms = append(roms, found...)
	}

	passed := 0
	for _, path := range roms {
		out, err := run(path, *bootROM, *limit)
		if err != nil {
			log.Printf("%s: %v", filepath.Base(path), err)
		}
		if out == emu.OutcomePass {
			passed++
		}
		fmt.Printf("%s %s\n", path, label(out))
	}
	fmt.Printf("%d/%d passed\n", passed, len(roms))
	if passed != len(roms) {
		os.Exit(1)
	}
}
