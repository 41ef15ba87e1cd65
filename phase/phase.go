// Package phase models the evolution phase that gates optional render layers.
//
// Phase transitions are owned by an external oracle. This package only
// interprets a phase snapshot: every uint is accepted and anything above
// Transcendence clamps down to it.
package phase

import "fmt"

// Phase is an evolution phase in [Genesis, Transcendence].
type Phase uint

const (
	Genesis Phase = iota
	Awakening
	Growth
	Maturity
	Transcendence

	// Max is the terminal phase.
	Max = Transcendence
)

var names = [Max + 1]string{"Genesis", "Awakening", "Growth", "Maturity", "Transcendence"}

// Clamp converts a caller-supplied phase to a Phase, mapping values above Max
// to Max. It never fails.
func Clamp(p uint) Phase {
	if p > uint(Max) {
		return Max
	}
	return Phase(p)
}

// Name returns the literal phase name.
func (p Phase) Name() string {
	if p > Max {
		return names[Max]
	}
	return names[p]
}

func (p Phase) String() string {
	if p > Max {
		return fmt.Sprintf("Phase(%d)", uint(p))
	}
	return names[p]
}

// Tier tables indexed by phase. Values in hundredths are opacities.
var (
	glowBlur      = [Max + 1]uint{6, 10, 14, 18, 24}
	auraOpacity   = [Max + 1]uint{0, 15, 20, 30, 40}
	extraPolygons = [Max + 1]uint{0, 0, 2, 3, 4}
)

// GlowBlur is the stdDeviation of the glow filter.
func (p Phase) GlowBlur() uint { return glowBlur[Clamp(uint(p))] }

// AuraBlur is the stdDeviation of the aura filter present from Awakening on.
func (p Phase) AuraBlur() uint { return 8 + 4*uint(Clamp(uint(p))) }

// AuraOpacity is the aura ring opacity in hundredths; zero below Awakening.
func (p Phase) AuraOpacity() uint { return auraOpacity[Clamp(uint(p))] }

// AuraRadius is the aura ring radius.
func (p Phase) AuraRadius() uint { return 80 + 20*uint(Clamp(uint(p))) }

// ExtraPolygons is the number of rotated polygon accents.
func (p Phase) ExtraPolygons() uint { return extraPolygons[Clamp(uint(p))] }

// BorderWidth is the frame stroke width in tenths.
func (p Phase) BorderWidth() uint {
	if p >= Transcendence {
		return 25
	}
	return 15
}

// BorderOpacity is the frame opacity in hundredths.
func (p Phase) BorderOpacity() uint {
	if p >= Maturity {
		return 70
	}
	return 50
}

// Has reports whether features unlocked at gate are active.
func (p Phase) Has(gate Phase) bool { return p >= gate }
