// Package frame converts emulator framebuffers for display and storage.
package frame

import (
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"os"
	"sort"
)

const (
	Width  = 160
	Height = 144
)

// Palettes maps a palette name to its four shades, lightest first.
var Palettes = map[string][4]uint32{
	"gray":   {0xFFFFFFFF, 0xFFC0C0C0, 0xFF606060, 0xFF000000},
	"green":  {0xFF9BBC0F, 0xFF8BAC0F, 0xFF306230, 0xFF0F380F},
	"pocket": {0xFFE3E6C9, 0xFFC3C4A5, 0xFF8E8B61, 0xFF6C6C4E},
}

// PaletteNames lists the known palettes in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(Palettes))
	for n := range Palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Shades looks up a palette by name.
func Shades(name string) ([4]uint32, error) {
	s, ok := Palettes[name]
	if !ok {
		return s, fmt.Errorf("unknown palette %q", name)
	}
	return s, nil
}

// ToRGBA writes 0xAARRGGBB pixels into dst as RGBA bytes. dst must hold
// 4*len(src) bytes.
func ToRGBA(dst []byte, src []uint32) {
	for i, px := range src {
		o := i * 4
		dst[o+0] = byte(px >> 16)
		dst[o+1] = byte(px >> 8)
		dst[o+2] = byte(px)
		dst[o+3] = byte(px >> 24)
	}
}

// Image copies a 160×144 framebuffer into a new RGBA image.
func Image(fb []uint32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	ToRGBA(img.Pix, fb)
	return img
}

// SavePNG encodes fb to path.
func SavePNG(path string, fb []uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, Image(fb)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Checksum is the CRC32 (IEEE) of the framebuffer's RGBA bytes. It is
// stable across runs and lets headless tests compare frames.
func Checksum(fb []uint32) uint32 {
	buf := make([]byte, len(fb)*4)
	ToRGBA(buf, fb)
	return crc32.ChecksumIEEE(buf)
}
