// Package palette resolves the colours used around the image: the surface
// background that shows wherever the image does not cover the surface.
package palette

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultBackground is the background used when none is configured.
const DefaultBackground = "#1e1e1e"

// Background is the colour the surface is cleared to before every paint.
type Background struct {
	c colorful.Color
}

// ParseBackground parses a hex colour such as "#202020" or "#fff".
func ParseBackground(hex string) (Background, error) {
	if hex == "" {
		hex = DefaultBackground
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Background{}, fmt.Errorf("parsing background colour %q: %w", hex, err)
	}
	return Background{c: c.Clamped()}, nil
}

// RGBA returns the background as an opaque 8-bit colour.
func (b Background) RGBA() color.RGBA {
	red, green, blue := b.c.RGB255()
	return color.RGBA{R: red, G: green, B: blue, A: 255}
}

// GL returns the background as normalized components for glClearColor.
func (b Background) GL() (r, g, bl, a float32) {
	return float32(b.c.R), float32(b.c.G), float32(b.c.B), 1
}

// Hex returns the background in "#rrggbb" form.
func (b Background) Hex() string { return b.c.Hex() }
