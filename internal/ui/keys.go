package ui

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/dmgcore/internal/emu"
	"github.com/hajimehoshi/ebiten/v2"
)

// keyMap is Config.Keys resolved to ebiten keys.
type keyMap struct {
	A, B, Start, Select   ebiten.Key
	Up, Down, Left, Right ebiten.Key
}

func keyByName() map[string]ebiten.Key {
	names := make(map[string]ebiten.Key)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		names[k.String()] = k
	}
	return names
}

func resolveKeys(cfg map[string]string) (keyMap, error) {
	names := keyByName()
	var km keyMap
	slots := map[string]*ebiten.Key{
		"A": &km.A, "B": &km.B, "Start": &km.Start, "Select": &km.Select,
		"Up": &km.Up, "Down": &km.Down, "Left": &km.Left, "Right": &km.Right,
	}
	for button, dst := range slots {
		name := cfg[button]
		if name == "" {
			name = defaultKeys[button]
		}
		k, ok := names[name]
		if !ok {
			return km, fmt.Errorf("button %s: unknown key %q", button, name)
		}
		*dst = k
	}
	return km, nil
}

func (km keyMap) buttons() emu.Buttons {
	return emu.Buttons{
		A:      ebiten.IsKeyPressed(km.A),
		B:      ebiten.IsKeyPressed(km.B),
		Start:  ebiten.IsKeyPressed(km.Start),
		Select: ebiten.IsKeyPressed(km.Select),
		Up:     ebiten.IsKeyPressed(km.Up),
		Down:   ebiten.IsKeyPressed(km.Down),
		Left:   ebiten.IsKeyPressed(km.Left),
		Right:  ebiten.IsKeyPressed(km.Right),
	}
}
