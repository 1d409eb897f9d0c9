package render

import (
	"image/color"
	"strconv"
	"strings"
)

var namedColors = map[string]color.NRGBA{
	"black":  {0x00, 0x00, 0x00, 0xff},
	"white":  {0xff, 0xff, 0xff, 0xff},
	"red":    {0xff, 0x00, 0x00, 0xff},
	"green":  {0x00, 0x80, 0x00, 0xff},
	"blue":   {0x00, 0x00, 0xff, 0xff},
	"yellow": {0xff, 0xff, 0x00, 0xff},
	"gray":   {0x80, 0x80, 0x80, 0xff},
	"grey":   {0x80, 0x80, 0x80, 0xff},
	"orange": {0xff, 0xa5, 0x00, 0xff},
	"purple": {0x80, 0x00, 0x80, 0xff},
}

// parseColor понимает #rgb, #rrggbb, #rrggbbaa и несколько имён CSS.
// "", "none" и "transparent" означают отсутствие краски.
func parseColor(s string, opacity float64) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none", "transparent":
		return color.NRGBA{}, false
	}
	if c, ok := namedColors[s]; ok {
		return withAlpha(c, opacity), true
	}
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, false
	}

	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	c := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return withAlpha(c, opacity), true
}

func withAlpha(c color.NRGBA, opacity float64) color.NRGBA {
	opacity = min(max(opacity, 0), 1)
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}
