package render

import (
	"image/color"
	"strconv"
	"strings"
)

// parseColor decodes a #rgb / #rrggbb / #rrggbbaa hex color and multiplies
// its alpha by opacity. Unparseable input falls back to opaque black.
func parseColor(hex string, opacity float64) color.Color {
	r, g, b, a := uint8(0), uint8(0), uint8(0), uint8(255)

	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	switch len(s) {
	case 3:
		r = hexNibble(s[0])
		g = hexNibble(s[1])
		b = hexNibble(s[2])
	case 6, 8:
		r = hexByte(s[0:2])
		g = hexByte(s[2:4])
		b = hexByte(s[4:6])
		if len(s) == 8 {
			a = hexByte(s[6:8])
		}
	}

	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	a = uint8(float64(a) * opacity)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

func hexNibble(c byte) uint8 {
	v, err := strconv.ParseUint(string([]byte{c, c}), 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

func hexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}
