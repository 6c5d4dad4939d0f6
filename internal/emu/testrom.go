package emu

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/cpu"
)

// Outcome is the verdict of a test ROM using the LD B,B debug protocol.
type Outcome int

const (
	OutcomeTimeout Outcome = iota
	OutcomePass
	OutcomeFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomePass:
		return "PASS"
	case OutcomeFail:
		return "FAIL"
	default:
		return "TIMEOUT"
	}
}

const opLDBB = 0x40

var fibonacci = [6]byte{3, 5, 8, 13, 21, 34}

// RunTestROM runs until the program executes LD B,B or limit elapses. The
// ROM signals success by loading B, C, D, E, H and L with 3, 5, 8, 13, 21,
// 34 before the breakpoint; anything else counts as failure.
func (m *Machine) RunTestROM(limit time.Duration) Outcome {
	hit := m.AdvanceWithBreakpoint(limit, func(m *Machine) bool {
		return m.MemoryRead(m.LastPC()) == opLDBB
	})
	if !hit {
		return OutcomeTimeout
	}
	return Verdict(m.Registers())
}

// Verdict applies the Fibonacci check to a register file.
func Verdict(r cpu.Registers) Outcome {
	regs := [6]cpu.Reg{cpu.RegB, cpu.RegC, cpu.RegD, cpu.RegE, cpu.RegH, cpu.RegL}
	for i, reg := range regs {
		if r.Get(reg) != fibonacci[i] {
			return OutcomeFail
		}
	}
	return OutcomePass
}

// FindROMs recursively collects .gb files under dir, in lexical order.
func FindROMs(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(d.Name()), ".gb") {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}
