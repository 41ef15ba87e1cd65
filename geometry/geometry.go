// Package geometry implements the four core shape families.
//
// Every generator is a pure function of the identity key and its palette.
// Counts, radii, and rotations come from modulo reductions of fixed key
// bytes; there is no rejection sampling, so the distributions are exactly
// the modulo ranges.
package geometry

import (
	"fmt"

	"clawid.dev/claw/entropy"
	"clawid.dev/claw/palette"
	"clawid.dev/claw/svg"
)

// Family is a shape family selected once per identity key.
type Family uint

const (
	Hexagonal Family = iota
	Spiral
	Crystalline
	Organic

	familyCount = 4
)

// Key byte offsets shared by the generators.
const (
	offsetFamily = 0
	offsetCount  = 8
	offsetTwist  = 9
	offsetParams = 10
)

var familyNames = [familyCount]string{"Hexagonal", "Spiral", "Crystalline", "Organic"}

func (f Family) String() string {
	if f >= familyCount {
		return fmt.Sprintf("Family(%d)", uint(f))
	}
	return familyNames[f]
}

// class is the lowercase group class written into markup.
func (f Family) class() string {
	switch f {
	case Hexagonal:
		return "hexagonal"
	case Spiral:
		return "spiral"
	case Crystalline:
		return "crystalline"
	case Organic:
		return "organic"
	default:
		panic("geometry: family out of range")
	}
}

// FamilyOf returns the shape family of a key: k[0] mod 4.
func FamilyOf(k entropy.Key) Family {
	return Family(k.ByteMod(offsetFamily, familyCount))
}

// Shape is one styled primitive. Attrs are emitted in order.
type Shape struct {
	Element string
	Attrs   []svg.Attr
}

// Layer is the core geometry of a render: the family shapes followed by the
// central accent.
type Layer struct {
	Family Family
	Shapes []Shape
	Core   Shape
}

// WriteTo appends the layer as one group.
func (l Layer) WriteTo(b *svg.Builder) {
	b.Open("g", svg.A("id", "geometry"), svg.A("class", l.Family.class()))
	for _, s := range l.Shapes {
		b.Empty(s.Element, s.Attrs...)
	}
	b.Empty(l.Core.Element, l.Core.Attrs...)
	b.Close("g")
}

// Generate builds the core geometry layer for a key.
func Generate(k entropy.Key, p palette.Palette) Layer {
	f := FamilyOf(k)
	var l Layer
	switch f {
	case Hexagonal:
		l = hexagonal(k, p)
	case Spiral:
		l = spiral(k, p)
	case Crystalline:
		l = crystalline(k, p)
	case Organic:
		l = organic(k, p)
	default:
		panic("geometry: family out of range")
	}
	l.Family = f
	return l
}

// Paint server and filter ids defined by the compositor.
const (
	CoreGradient  = "core"
	GlowFilter    = "glow"
	OrganicFilter = "organic"
)

func coreAttrs(attrs ...svg.Attr) []svg.Attr {
	return append(attrs,
		svg.A("fill", svg.URL(CoreGradient)),
		svg.A("filter", svg.URL(GlowFilter)),
	)
}
