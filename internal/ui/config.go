package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Config contains window and input related settings.
type Config struct {
	Title   string `json:"title"`   // window title
	Scale   int    `json:"scale"`   // integer upscaling factor
	ROMsDir string `json:"romsDir"` // directory to browse for ROMs
	Palette string `json:"palette"` // shade set, see frame.Palettes
	// Keys maps a button (A, B, Start, Select, Up, Down, Left, Right) to
	// an ebiten key name such as "Z" or "ArrowUp".
	Keys map[string]string `json:"keys"`
	// Settings file the menu writes back to; empty disables saving.
	SettingsPath string `json:"-"`
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.ROMsDir == "" {
		c.ROMsDir = "roms"
	}
	if c.Palette == "" {
		c.Palette = "gray"
	}
	if c.Keys == nil {
		c.Keys = make(map[string]string)
	}
	for button, key := range defaultKeys {
		if c.Keys[button] == "" {
			c.Keys[button] = key
		}
	}
}

var defaultKeys = map[string]string{
	"A":      "Z",
	"B":      "X",
	"Start":  "Enter",
	"Select": "ShiftRight",
	"Up":     "ArrowUp",
	"Down":   "ArrowDown",
	"Left":   "ArrowLeft",
	"Right":  "ArrowRight",
}

// LoadConfig reads a JSON settings file. A missing file yields defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Config{SettingsPath: path}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read settings: %w", err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse settings %s: %w", path, err)
		}
	}
	cfg.Defaults()
	return cfg, nil
}

// Save writes the settings back to SettingsPath.
func (c Config) Save() error {
	if c.SettingsPath == "" {
		return nil
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.SettingsPath, data, 0o644)
}
