// Package graphics holds the value types shared by the compiler, the runtime
// items and rendering backends: colors, geometry, resources, path data and
// rendering primitives.
package graphics

import (
	"fmt"
	"strconv"
)

// Color is a color in ARGB order, 8 bits per channel.
type Color uint32

// RGBA returns the color with the given components.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Components returns the red, green, blue and alpha components.
func (c Color) Components() (r, g, b, a uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}

func (c Color) String() string {
	r, g, b, a := c.Components()
	if a == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

// Lerp interpolates between c and to. t is clamped to [0, 1].
func (c Color) Lerp(to Color, t float64) Color {
	t = max(0, min(1, t))
	r1, g1, b1, a1 := c.Components()
	r2, g2, b2, a2 := to.Components()
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return RGBA(mix(r1, r2), mix(g1, g2), mix(b1, b2), mix(a1, a2))
}

// Transparent is the zero Color.
const Transparent Color = 0

var namedColors = map[string]Color{
	"transparent": Transparent,
	"black":       RGBA(0, 0, 0, 0xff),
	"white":       RGBA(0xff, 0xff, 0xff, 0xff),
	"red":         RGBA(0xff, 0, 0, 0xff),
	"green":       RGBA(0, 0x80, 0, 0xff),
	"blue":        RGBA(0, 0, 0xff, 0xff),
	"yellow":      RGBA(0xff, 0xff, 0, 0xff),
	"cyan":        RGBA(0, 0xff, 0xff, 0xff),
	"magenta":     RGBA(0xff, 0, 0xff, 0xff),
	"gray":        RGBA(0x80, 0x80, 0x80, 0xff),
	"grey":        RGBA(0x80, 0x80, 0x80, 0xff),
	"lightgray":   RGBA(0xd3, 0xd3, 0xd3, 0xff),
	"darkgray":    RGBA(0xa9, 0xa9, 0xa9, 0xff),
	"orange":      RGBA(0xff, 0xa5, 0, 0xff),
	"purple":      RGBA(0x80, 0, 0x80, 0xff),
	"brown":       RGBA(0xa5, 0x2a, 0x2a, 0xff),
	"pink":        RGBA(0xff, 0xc0, 0xcb, 0xff),
	"navy":        RGBA(0, 0, 0x80, 0xff),
}

// NamedColor returns the color with the given CSS-like name.
func NamedColor(name string) (Color, bool) {
	c, ok := namedColors[name]
	return c, ok
}

// ParseColorLiteral parses the hexadecimal digits of a color literal, without
// the leading '#'. It accepts rgb, rgba, rrggbb and rrggbbaa.
func ParseColorLiteral(digits string) (Color, error) {
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || digits == "" || digits[0] == '+' {
		return 0, fmt.Errorf("invalid color literal #%s", digits)
	}
	n := uint32(v)
	expand := func(x uint32) uint8 { return uint8(x<<4 | x) }
	switch len(digits) {
	case 3:
		return RGBA(expand(n>>8&0xf), expand(n>>4&0xf), expand(n&0xf), 0xff), nil
	case 4:
		return RGBA(expand(n>>12&0xf), expand(n>>8&0xf), expand(n>>4&0xf), expand(n&0xf)), nil
	case 6:
		return Color(0xff000000 | n), nil
	case 8:
		return RGBA(uint8(n>>24), uint8(n>>16), uint8(n>>8), uint8(n)), nil
	}
	return 0, fmt.Errorf("invalid color literal #%s", digits)
}
