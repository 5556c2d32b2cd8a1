package cellstyle

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB colour. An Auto colour stands for "whatever the context
// decides"; its RGB is the value currently resolved for that context.
type Color struct {
	R, G, B uint8
	Auto    bool
}

// NewColor creates a concrete colour.
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// AutoBackColor is the automatic cell background (white).
func AutoBackColor() Color { return Color{R: 0xff, G: 0xff, B: 0xff, Auto: true} }

// AutoPatternColor is the automatic pattern and border colour (black).
func AutoPatternColor() Color { return Color{Auto: true} }

// AutoFontColor is the automatic font colour (black).
func AutoFontColor() Color { return Color{Auto: true} }

// ParseHexColor parses "RRGGBB", "#RRGGBB" or the excel "AARRGGBB" form.
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 8 {
		s = s[2:]
	}
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid colour %q", s)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return NewColor(uint8(n>>16), uint8(n>>8), uint8(n)), nil
}

// Hex formats the colour as "RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// String formats the colour for diagnostics.
func (c Color) String() string {
	if c.Auto {
		return "auto(" + c.Hex() + ")"
	}
	return c.Hex()
}

// Equal compares colours. Two automatic colours are always equal, whatever
// they currently resolve to.
func (c Color) Equal(o Color) bool {
	if c.Auto && o.Auto {
		return true
	}
	return c == o
}

func (c Color) hash() uint32 {
	if c.Auto {
		return 0xa070c010
	}
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
