package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/emu"
)

// session is the debugger state shared by the views.
type session struct {
	m       *emu.Machine
	breaks  map[uint16]bool
	memAddr uint16
	status  string
}

func newSession(m *emu.Machine) *session {
	return &session{m: m, breaks: make(map[uint16]bool), memAddr: 0xC000, status: "ready"}
}

// parseBreaks reads a comma-separated list of hex addresses.
func parseBreaks(list string) ([]uint16, error) {
	var out []uint16
	for _, f := range strings.Split(list, ",") {
		f = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(f)), "0x")
		f = strings.TrimPrefix(f, "$")
		if f == "" {
			continue
		}
		v, err := strconv.ParseUint(f, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("breakpoint %q: %w", f, err)
		}
		out = append(out, uint16(v))
	}
	return out, nil
}

func (s *session) toggleBreak(addr uint16) {
	if s.breaks[addr] {
		delete(s.breaks, addr)
		s.status = fmt.Sprintf("breakpoint $%04X cleared", addr)
		return
	}
	s.breaks[addr] = true
	s.status = fmt.Sprintf("breakpoint $%04X set", addr)
}

func (s *session) step() {
	s.m.StepInstruction()
	s.status = fmt.Sprintf("stepped to $%04X", s.m.PC())
}

func (s *session) frame() {
	s.m.RunFrame()
	s.status = fmt.Sprintf("frame %d", s.m.Frames())
}

// cont runs until a breakpoint is reached or limit of emulated time passes.
func (s *session) cont(limit time.Duration) bool {
	hit := s.m.AdvanceWithBreakpoint(limit, func(m *emu.Machine) bool {
		return s.breaks[m.PC()] || m.Locked()
	})
	switch {
	case s.m.Locked():
		s.status = fmt.Sprintf("CPU locked at $%04X", s.m.LastPC())
	case hit:
		s.status = fmt.Sprintf("break at $%04X", s.m.PC())
	default:
		s.status = fmt.Sprintf("ran %s, no breakpoint", limit)
	}
	return hit
}

func (s *session) registerLines() []string {
	r := s.m.Registers()
	flags := []byte("----")
	for i, f := range []byte{cpu.FlagZ, cpu.FlagN, cpu.FlagH, cpu.FlagC} {
		if r.Flag(f) {
			flags[i] = "ZNHC"[i]
		}
	}
	return []string{
		fmt.Sprintf("AF %04X  %s", r.Pair(cpu.PairAF), flags),
		fmt.Sprintf("BC %04X", r.Pair(cpu.PairBC)),
		fmt.Sprintf("DE %04X", r.Pair(cpu.PairDE)),
		fmt.Sprintf("HL %04X", r.Pair(cpu.PairHL)),
		fmt.Sprintf("SP %04X", r.SP),
		fmt.Sprintf("PC %04X  IME %v", r.PC, s.m.IME()),
		fmt.Sprintf("LY %3d   frame %d", s.m.LY(), s.m.Frames()),
		fmt.Sprintf("cycles %d", s.m.Cycles()),
	}
}

// disasmLines decodes n instructions starting at PC.
func (s *session) disasmLines(n int) []string {
	lines := make([]string, 0, n)
	addr := s.m.PC()
	for i := 0; i < n; i++ {
		info := s.m.Decode(addr)
		marker := "  "
		if s.breaks[addr] {
			marker = "* "
		}
		if addr == s.m.PC() && i == 0 {
			marker = marker[:1] + ">"
		}
		lines = append(lines, fmt.Sprintf("%s%04X  % -9X %s", marker, addr, info.Bytes, info.Text))
		addr += uint16(info.Length)
	}
	return lines
}

// memoryLines dumps rows of 8 bytes from memAddr.
func (s *session) memoryLines(rows int) []string {
	lines := make([]string, 0, rows)
	for row := 0; row < rows; row++ {
		base := s.memAddr + uint16(row*8)
		var b strings.Builder
		fmt.Fprintf(&b, "%04X ", base)
		for i := uint16(0); i < 8; i++ {
			fmt.Fprintf(&b, " %02X", s.m.MemoryRead(base+i))
		}
		lines = append(lines, b.String())
	}
	return lines
}

func (s *session) breakList() string {
	addrs := make([]int, 0, len(s.breaks))
	for a := range s.breaks {
		addrs = append(addrs, int(a))
	}
	sort.Ints(addrs)
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = fmt.Sprintf("$%04X", a)
	}
	return strings.Join(parts, " ")
}
