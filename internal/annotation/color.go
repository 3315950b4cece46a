package annotation

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// PaletteColor is a named drawing colour.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var palette = []PaletteColor{
	{"lime", color.RGBA{0xCC, 0xFF, 0x00, 0xFF}},
	{"neon-green", color.RGBA{0x39, 0xFF, 0x14, 0xFF}},
	{"cyan", color.RGBA{0x00, 0xFF, 0xFF, 0xFF}},
	{"blue", color.RGBA{0x1F, 0x51, 0xFF, 0xFF}},
	{"purple", color.RGBA{0xBC, 0x13, 0xFE, 0xFF}},
	{"pink", color.RGBA{0xFF, 0x44, 0xCC, 0xFF}},
	{"red", color.RGBA{0xFF, 0x07, 0x3A, 0xFF}},
	{"orange", color.RGBA{0xFF, 0x67, 0x00, 0xFF}},
}

// DefaultColorIndex selects pink.
const DefaultColorIndex = 5

// Palette returns a copy of the built-in drawing colours.
func Palette() []PaletteColor {
	return append([]PaletteColor(nil), palette...)
}

// DefaultColor is the colour new annotations start with.
func DefaultColor() color.RGBA {
	return palette[DefaultColorIndex].Color
}

// ParseColor accepts palette names, CSS colour names and #RRGGBB[AA].
// Palette names win over CSS names so "cyan" and "red" map to the neon set.
func ParseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	for _, entry := range palette {
		if entry.Name == spec {
			return entry.Color, nil
		}
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if strings.HasPrefix(spec, "#") && (len(spec) == 7 || len(spec) == 9) {
		var parts [4]uint8
		parts[3] = 0xFF
		for i := 0; i < (len(spec)-1)/2; i++ {
			v, err := strconv.ParseUint(spec[1+2*i:3+2*i], 16, 8)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("invalid color %q", s)
			}
			parts[i] = uint8(v)
		}
		return color.RGBA{parts[0], parts[1], parts[2], parts[3]}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

// Hex formats c as #RRGGBB, appending alpha only when it is not opaque.
func Hex(c color.RGBA) string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
