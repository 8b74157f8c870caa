package motion

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit per channel RGBA color. Not premultiplied.
type Color struct {
	R, G, B, A uint8
}

// ColorWhite is the default tint of a new Node.
var ColorWhite = Color{255, 255, 255, 255}

// ColorTransparent is fully transparent black.
var ColorTransparent = Color{}

// RGBA returns the color with the given channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// ParseHex parses "#rrggbb" or "#rrggbbaa". Alpha defaults to 255.
func ParseHex(s string) (Color, error) {
	alpha := uint8(255)
	if len(s) == 9 {
		a, err := colorful.Hex("#" + s[7:9] + "0000")
		if err != nil {
			return Color{}, err
		}
		alpha = uint8(math.Round(a.R * 255))
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	out := fromColorful(c)
	out.A = alpha
	return out, nil
}

// Hex formats the color as "#rrggbbaa".
func (c Color) Hex() string {
	h := c.colorful().Hex()
	const digits = "0123456789abcdef"
	return h + string([]byte{digits[c.A>>4], digits[c.A&0x0f]})
}

// colorful returns the RGB channels as a go-colorful color. Alpha is dropped.
func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// fromColorful converts a go-colorful color, clamping out-of-gamut channels.
// Alpha is set to 255.
func fromColorful(c colorful.Color) Color {
	c = c.Clamped()
	return Color{
		R: uint8(math.Round(c.R * 255)),
		G: uint8(math.Round(c.G * 255)),
		B: uint8(math.Round(c.B * 255)),
		A: 255,
	}
}

// Point is a 2D point or vector.
type Point struct {
	X, Y float64
}

// Thickness describes the four edges of a frame (margin, padding, border).
type Thickness struct {
	Left, Top, Right, Bottom float64
}

// UniformThickness returns a Thickness with all four edges set to v.
func UniformThickness(v float64) Thickness {
	return Thickness{v, v, v, v}
}

// clampChannel rounds v and clamps it into [0, 255].
func clampChannel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FillBehavior selects what a timeline contributes after its active period.
type FillBehavior uint8

const (
	FillHoldEnd FillBehavior = iota // freeze at the final value (default)
	FillStop                        // contribute nothing; the lane reverts
)

// HandoffBehavior is applied when a storyboard begins on a lane that is
// already animated by another instance.
type HandoffBehavior uint8

const (
	HandoffCompose            HandoffBehavior = iota // layer the new animation over the existing ones
	HandoffSnapshotAndReplace                        // stop every other instance on the lane
)

// SeekOrigin selects what a seek offset is measured from.
type SeekOrigin uint8

const (
	SeekFromBeginning SeekOrigin = iota // offset counts from the instance start
	SeekFromEnd                         // offset counts back from the total resolved duration
)
