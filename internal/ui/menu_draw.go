package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	glyphWidth = 6
	romListY   = 40
)

// maxCharsForText is how many debug-font glyphs fit right of x.
func (a *App) maxCharsForText(x int) int {
	n := (160 - x) / glyphWidth
	if n < 1 {
		return 1
	}
	return n
}

func (a *App) truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func (a *App) wrapText(s string, n int) []string {
	var lines []string
	line := ""
	for _, w := range strings.Fields(s) {
		switch {
		case line == "":
			line = w
		case len(line)+1+len(w) <= n:
			line += " " + w
		default:
			lines = append(lines, line)
			line = w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func (a *App) drawMainMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Menu:", 10, 10)
	for i, s := range mainItems {
		prefix := "  "
		if i == a.menuIdx {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 10, 24+i*14)
	}
}

func (a *App) drawRomMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Select ROM", 10, 10)
	ebitenutil.DebugPrintAt(screen, a.truncateText("Dir: "+a.cfg.ROMsDir, a.maxCharsForText(10)), 10, 24)
	if len(a.romList) == 0 {
		ebitenutil.DebugPrintAt(screen, "No ROMs found", 10, romListY)
		return
	}
	maxRows := (a.curH - romListY) / 14
	if maxRows < 1 {
		maxRows = 1
	}
	end := a.romOff + maxRows
	if end > len(a.romList) {
		end = len(a.romList)
	}
	maxChars := a.maxCharsForText(10) - 2 // account for "> " prefix
	for i, p := range a.romList[a.romOff:end] {
		prefix := "  "
		if a.romOff+i == a.romSel {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+a.truncateText(filepath.Base(p), maxChars), 10, romListY+i*14)
	}
	// scroll indicators
	if a.romOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, romListY)
	}
	if end < len(a.romList) {
		ebitenutil.DebugPrintAt(screen, "v", 2, romListY+(maxRows-1)*14)
	}
}

var buttonOrder = []string{"A", "B", "Start", "Select", "Up", "Down", "Left", "Right"}

var actionRows = []string{
	"P: Pause",
	"N: Step frame (paused)",
	"Tab: Fast-forward",
	"R: Reset",
	"F12: Screenshot",
	"Esc: Menu",
}

func (a *App) keyRows() []string {
	rows := make([]string, 0, len(buttonOrder)+len(actionRows))
	for _, b := range buttonOrder {
		rows = append(rows, a.cfg.Keys[b]+": "+b)
	}
	return append(rows, actionRows...)
}

func (a *App) drawKeysMenu(screen *ebiten.Image) {
	cursorY := 10
	for _, w := range a.wrapText("Keybindings (Up/Down scroll, Esc back)", a.maxCharsForText(10)) {
		ebitenutil.DebugPrintAt(screen, w, 10, cursorY)
		cursorY += 14
	}
	keyRows := a.keyRows()
	baseY := cursorY + 4
	maxRows := (a.curH - baseY) / 14
	if maxRows < 1 {
		maxRows = 1
	}
	if a.keysOff > len(keyRows)-1 {
		a.keysOff = len(keyRows) - 1
	}
	end := a.keysOff + maxRows
	if end > len(keyRows) {
		end = len(keyRows)
	}
	for i := a.keysOff; i < end; i++ {
		ebitenutil.DebugPrintAt(screen, a.truncateText(keyRows[i], a.maxCharsForText(10)), 10, baseY+(i-a.keysOff)*14)
	}
}

func (a *App) drawSettingsMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Settings", 10, 10)
	items := []string{
		fmt.Sprintf("Scale: %dx", a.cfg.Scale),
		fmt.Sprintf("Palette: %s", a.cfg.Palette),
	}
	for i, s := range items {
		prefix := "  "
		if i == a.menuIdx {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, a.truncateText(prefix+s, a.maxCharsForText(10)), 10, 24+i*14)
	}
}
