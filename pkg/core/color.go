package core

import (
	"fmt"
	"math"
	"strconv"
)

// Color is a linear RGB triple. Channels may exceed 1.0 until Quantize.
type Color struct {
	R, G, B float64
}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Predefined colors
var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
)

// ParseHexColor parses a color of the form "#RRGGBB"
func ParseHexColor(desc string) (Color, error) {
	if len(desc) != 7 || desc[0] != '#' {
		return Color{}, fmt.Errorf("unknown color format %q", desc)
	}
	value, err := strconv.ParseUint(desc[1:], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("unknown color format %q: %w", desc, err)
	}
	return Color{
		R: float64((value>>16)&0xFF) / 255.0,
		G: float64((value>>8)&0xFF) / 255.0,
		B: float64(value&0xFF) / 255.0,
	}, nil
}

// Add returns the channel-wise sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Scale multiplies every channel by factor
func (c Color) Scale(factor float64) Color {
	return Color{c.R * factor, c.G * factor, c.B * factor}
}

// Mix returns the channel-wise product of two colors
func (c Color) Mix(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Lerp blends linearly from c (t=0) to other (t=1)
func (c Color) Lerp(other Color, t float64) Color {
	return c.Scale(1.0 - t).Add(other.Scale(t))
}

// Transform applies fn to each channel
func (c Color) Transform(fn func(float64) float64) Color {
	return Color{fn(c.R), fn(c.G), fn(c.B)}
}

// Sqrt returns the channel-wise square root
func (c Color) Sqrt() Color {
	return c.Transform(math.Sqrt)
}

// Quantize clips each channel to 8 bits and packs them as R<<16 | G<<8 | B
func (c Color) Quantize() uint32 {
	return quantizeChannel(c.R)<<16 | quantizeChannel(c.G)<<8 | quantizeChannel(c.B)
}

func quantizeChannel(v float64) uint32 {
	// NaN collapses to zero along with negatives
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint32(v * 255)
}

// String formats the quantized color as #RRGGBB
func (c Color) String() string {
	return fmt.Sprintf("#%06X", c.Quantize())
}
