package ui

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/frame"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const frameTime = time.Second / 60

type App struct {
	cfg    Config
	keys   keyMap
	m      *emu.Machine
	tex    *ebiten.Image
	shade  *ebiten.Image
	pix    []byte
	paused bool
	fast   bool

	// overlay/menu
	showMenu bool
	menuMode string // "main", "rom", "settings", "keys"
	menuIdx  int
	romList  []string
	romSel   int
	romOff   int
	keysOff  int
	curH     int

	toastMsg   string
	toastUntil time.Time
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	a := &App{cfg: cfg, m: m, menuMode: "main", curH: frame.Height}
	a.pix = make([]byte, frame.Width*frame.Height*4)
	km, err := resolveKeys(cfg.Keys)
	if err != nil {
		log.Printf("key map: %v, using defaults", err)
		km, _ = resolveKeys(nil)
	}
	a.keys = km
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	a.applyWindowSize()
	a.applyTitle()
	return a
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) applyWindowSize() {
	ebiten.SetWindowSize(frame.Width*a.cfg.Scale, frame.Height*a.cfg.Scale)
}

func (a *App) applyTitle() {
	title := a.cfg.Title
	if h := a.m.Header(); h != nil && h.Title != "" {
		title += " - [" + h.Title + "]"
	}
	ebiten.SetWindowTitle(title)
}

func (a *App) toast(msg string) {
	log.Print(msg)
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}

func (a *App) Update() error {
	// Toggle menu (Escape)
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && (!a.showMenu || a.menuMode == "main") {
		a.showMenu = !a.showMenu
		a.menuMode = "main"
		a.menuIdx = 0
		return nil
	}
	if a.showMenu {
		// Game input is held while the menu owns the keyboard.
		a.m.SetButtons(emu.Buttons{})
		switch a.menuMode {
		case "rom":
			a.updateRomMenu()
		case "settings":
			a.updateSettingsMenu()
		case "keys":
			a.updateKeysMenu()
		default:
			a.updateMainMenu()
		}
		return nil
	}

	a.m.SetButtons(a.keys.buttons())

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	// Fast-forward (Tab): while held, run multiple frames per Ebiten update
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.m.Reset()
		a.toast("Reset")
	}
	// Frame-step when paused (N)
	if a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.m.Advance(frameTime)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		a.saveScreenshot()
	}

	if !a.paused {
		if a.fast {
			a.m.Advance(5 * frameTime)
		} else {
			a.m.Advance(frameTime)
		}
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(frame.Width, frame.Height)
	}
	frame.ToRGBA(a.pix, a.m.Framebuffer())
	a.tex.WritePixels(a.pix)
	screen.DrawImage(a.tex, nil)

	if a.showMenu {
		if a.shade == nil {
			a.shade = ebiten.NewImage(frame.Width, frame.Height)
			a.shade.Fill(color.RGBA{0, 0, 0, 0xC0})
		}
		screen.DrawImage(a.shade, nil)
		switch a.menuMode {
		case "rom":
			a.drawRomMenu(screen)
		case "settings":
			a.drawSettingsMenu(screen)
		case "keys":
			a.drawKeysMenu(screen)
		default:
			a.drawMainMenu(screen)
		}
	} else if a.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", 2, 2)
	}
	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		ebitenutil.DebugPrintAt(screen, a.truncateText(a.toastMsg, a.maxCharsForText(2)), 2, frame.Height-16)
	}
}

func (a *App) Layout(outW, outH int) (int, int) { return frame.Width, frame.Height }

func (a *App) saveScreenshot() {
	name := fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	if err := frame.SavePNG(name, a.m.Framebuffer()); err != nil {
		a.toast("Screenshot failed: " + err.Error())
		return
	}
	a.toast("Saved " + name)
}
