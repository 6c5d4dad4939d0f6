package ui

import (
	"path/filepath"

	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/frame"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var mainItems = []string{"Resume", "Switch ROM", "Reset", "Settings", "Keybindings"}

func back() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace)
}

func (a *App) updateMainMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < len(mainItems)-1 {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		switch a.menuIdx {
		case 0:
			a.showMenu = false
		case 1:
			a.romList = a.findROMs()
			a.romSel = 0
			a.romOff = 0
			a.menuMode = "rom"
		case 2:
			a.m.Reset()
			a.showMenu = false
			a.toast("Reset")
		case 3:
			a.menuMode = "settings"
			a.menuIdx = 0
		case 4:
			a.menuMode = "keys"
			a.keysOff = 0
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
}

func (a *App) findROMs() []string {
	roms, err := emu.FindROMs(a.cfg.ROMsDir)
	if err != nil {
		a.toast("ROM scan failed: " + err.Error())
	}
	return roms
}

func (a *App) updateRomMenu() {
	n := len(a.romList)
	if n == 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || back() {
			a.menuMode = "main"
		}
		return
	}
	// compute window to maintain selection visibility
	maxRows := (a.curH - romListY) / 14
	if maxRows < 1 {
		maxRows = 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.romSel > 0 {
		a.romSel--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.romSel < n-1 {
		a.romSel++
	}
	if a.romSel < a.romOff {
		a.romOff = a.romSel
	}
	if a.romSel >= a.romOff+maxRows {
		a.romOff = a.romSel - maxRows + 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		path := a.romList[a.romSel]
		if err := a.m.LoadCartridge(path); err != nil {
			a.toast("ROM load failed: " + err.Error())
		} else {
			a.toast("Loaded ROM: " + filepath.Base(path))
			a.applyTitle()
			a.showMenu = false
		}
		a.menuMode = "main"
		return
	}
	if back() {
		a.menuMode = "main"
	}
}

func (a *App) updateKeysMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.keysOff > 0 {
		a.keysOff--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		a.keysOff++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || back() {
		a.menuMode = "main"
	}
}

// Settings rows: 0 Scale, 1 Palette.
func (a *App) updateSettingsMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < 1 {
		a.menuIdx++
	}
	left := inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft)
	right := inpututil.IsKeyJustPressed(ebiten.KeyArrowRight)
	switch {
	case a.menuIdx == 0 && left && a.cfg.Scale > 1:
		a.cfg.Scale--
		a.applyWindowSize()
		a.saveSettings()
	case a.menuIdx == 0 && right && a.cfg.Scale < 10:
		a.cfg.Scale++
		a.applyWindowSize()
		a.saveSettings()
	case a.menuIdx == 1 && (left || right):
		names := frame.PaletteNames()
		idx := 0
		for i, n := range names {
			if n == a.cfg.Palette {
				idx = i
			}
		}
		if left {
			idx = (idx - 1 + len(names)) % len(names)
		} else {
			idx = (idx + 1) % len(names)
		}
		a.cfg.Palette = names[idx]
		a.saveSettings()
		a.toast("Palette " + a.cfg.Palette + " applies after restart")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || back() {
		a.menuMode = "main"
		a.menuIdx = 3
	}
}

func (a *App) saveSettings() {
	if err := a.cfg.Save(); err != nil {
		a.toast("Settings not saved: " + err.Error())
	}
}
