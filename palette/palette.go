// Package palette derives a five-color HSL palette from an identity key.
//
// A palette depends on the key only. Token index, phase, and name never
// influence it, so every token minted under one key shares its colors.
package palette

import (
	"strconv"

	"clawid.dev/claw/entropy"
)

// Size is the number of colors in a palette.
const Size = 5

// Key byte offsets read by Derive.
const (
	offsetHueHi     = 1
	offsetHueLo     = 2
	offsetHarmony   = 3
	offsetSat       = 4
	offsetLight     = 5
	offsetSatVar    = 6
	offsetLightVar  = 7
	lightnessFloor  = 5
	lightnessCeil   = 95
	saturationFloor = 5
	saturationCeil  = 100
)

// HSL is a color with hue in [0,360) and saturation and lightness in percent.
type HSL struct {
	Hue        uint
	Saturation uint
	Lightness  uint
}

// String formats the color as a CSS hsl() value, e.g. "hsl(210,70%,50%)".
func (c HSL) String() string {
	b := make([]byte, 0, 20)
	b = append(b, "hsl("...)
	b = strconv.AppendUint(b, uint64(c.Hue), 10)
	b = append(b, ',')
	b = strconv.AppendUint(b, uint64(c.Saturation), 10)
	b = append(b, "%,"...)
	b = strconv.AppendUint(b, uint64(c.Lightness), 10)
	b = append(b, "%)"...)
	return string(b)
}

// Lighten returns c with lightness raised by amt, capped at 95.
func (c HSL) Lighten(amt uint) HSL {
	c.Lightness = min(c.Lightness+amt, lightnessCeil)
	return c
}

// Darken returns c with lightness lowered by amt, floored at 5.
func (c HSL) Darken(amt uint) HSL {
	if c.Lightness < amt+lightnessFloor {
		c.Lightness = lightnessFloor
		return c
	}
	c.Lightness -= amt
	return c
}

// Saturate returns c with saturation raised by amt, capped at 100.
func (c HSL) Saturate(amt uint) HSL {
	c.Saturation = min(c.Saturation+amt, saturationCeil)
	return c
}

// Desaturate returns c with saturation lowered by amt, floored at 5.
func (c HSL) Desaturate(amt uint) HSL {
	if c.Saturation < amt+saturationFloor {
		c.Saturation = saturationFloor
		return c
	}
	c.Saturation -= amt
	return c
}

// Palette is an ordered, fixed-size set of colors.
type Palette [Size]HSL

// At returns the color at slot i mod Size.
func (p Palette) At(i uint) HSL {
	return p[i%Size]
}

// Params are the key-derived inputs of the harmony table.
type Params struct {
	BaseHue        uint
	Harmony        Harmony
	Saturation     uint
	Lightness      uint
	SatVariation   uint
	LightVariation uint
}

// DeriveParams reads the palette parameters from fixed key offsets.
func DeriveParams(k entropy.Key) Params {
	return Params{
		BaseHue:        k.Word(offsetHueHi, offsetHueLo) % 360,
		Harmony:        Harmony(k.ByteMod(offsetHarmony, harmonyCount)),
		Saturation:     50 + k.ByteMod(offsetSat, 41),
		Lightness:      35 + k.ByteMod(offsetLight, 31),
		SatVariation:   k.ByteMod(offsetSatVar, 15),
		LightVariation: k.ByteMod(offsetLightVar, 15),
	}
}

// Derive returns the palette for a key.
func Derive(k entropy.Key) Palette {
	return Generate(DeriveParams(k))
}

// Generate expands params into five colors using the harmony table.
func Generate(p Params) Palette {
	slots := p.Harmony.slots()
	var out Palette
	for i, s := range slots {
		out[i] = HSL{
			Hue:        (p.BaseHue + s.hueOffset) % 360,
			Saturation: clamp(int(p.Saturation)+s.sat.apply(p.SatVariation), 0, saturationCeil),
			Lightness:  clamp(int(p.Lightness)+s.light.apply(p.LightVariation), lightnessFloor, lightnessCeil),
		}
	}
	return out
}

func clamp(v, lo, hi int) uint {
	if v < lo {
		return uint(lo)
	}
	if v > hi {
		return uint(hi)
	}
	return uint(v)
}
