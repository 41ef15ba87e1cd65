package renderer

import (
	"strconv"

	"clawid.dev/claw/entropy"
	"clawid.dev/claw/geometry"
	"clawid.dev/claw/palette"
	"clawid.dev/claw/phase"
	"clawid.dev/claw/svg"
	"clawid.dev/claw/trig"
)

const (
	cx = svg.CenterX
	cy = svg.CenterY

	// Key byte offsets read directly by the compositor.
	offsetDetailCount = 11
	offsetGlowX       = 12
	offsetGlowY       = 13

	particleCount   = 12
	particleSpacing = 30

	// DomainSuffix is appended to the name in the label and metadata.
	DomainSuffix = ".claw"
)

// Paint server and filter ids.
const (
	idBackground = "bg"
	idHalo       = "halo"
	idNoise      = "noise"
	idAura       = "aura"
	idComplex    = "complex"
	idPulse      = "pulse"
)

// scene carries the inputs shared by every layer of one render.
type scene struct {
	key      entropy.Key
	pal      palette.Palette
	phase    phase.Phase
	token    uint64
	counter  uint64
	name     string
	geometry geometry.Layer

	b svg.Builder
}

func (s *scene) color(i uint) palette.HSL { return s.pal.At(i) }

func stop(b *svg.Builder, offset string, c palette.HSL, opacity ...uint) {
	attrs := []svg.Attr{svg.A("offset", offset), svg.A("stop-color", c.String())}
	for _, o := range opacity {
		attrs = append(attrs, svg.Hundredths("stop-opacity", o))
	}
	b.Empty("stop", attrs...)
}

func wideFilterRegion(id string) []svg.Attr {
	return []svg.Attr{
		svg.A("id", id),
		svg.A("x", "-50%"),
		svg.A("y", "-50%"),
		svg.A("width", "200%"),
		svg.A("height", "200%"),
	}
}

func centered() []svg.Attr {
	return []svg.Attr{svg.A("cx", "50%"), svg.A("cy", "50%"), svg.A("r", "50%")}
}

// defs writes gradients and filters. The set grows with phase.
func (s *scene) defs() {
	b := &s.b
	b.Open("defs")

	b.Open("linearGradient", svg.A("id", idBackground), svg.A("x1", "0%"), svg.A("y1", "0%"), svg.A("x2", "100%"), svg.A("y2", "100%"))
	stop(b, "0%", s.color(0).Darken(25))
	stop(b, "100%", s.color(4).Darken(30))
	b.Close("linearGradient")

	b.Open("radialGradient", append([]svg.Attr{svg.A("id", geometry.CoreGradient)}, centered()...)...)
	stop(b, "0%", s.color(0).Lighten(35))
	stop(b, "60%", s.color(0))
	stop(b, "100%", s.color(2).Darken(10))
	b.Close("radialGradient")

	b.Open("radialGradient", append([]svg.Attr{svg.A("id", idHalo)}, centered()...)...)
	stop(b, "0%", s.color(1).Lighten(20), 60)
	stop(b, "100%", s.color(1), 0)
	b.Close("radialGradient")

	b.Open("filter", wideFilterRegion(geometry.GlowFilter)...)
	b.Empty("feGaussianBlur", svg.Uint("stdDeviation", s.phase.GlowBlur()), svg.A("result", "blur"))
	b.Open("feMerge")
	b.Empty("feMergeNode", svg.A("in", "blur"))
	b.Empty("feMergeNode", svg.A("in", "SourceGraphic"))
	b.Close("feMerge")
	b.Close("filter")

	b.Open("filter", svg.A("id", idNoise))
	b.Empty("feTurbulence",
		svg.A("type", "fractalNoise"),
		svg.A("baseFrequency", "0.9"),
		svg.Int("numOctaves", 3),
		svg.A("seed", strconv.FormatUint(s.counter%1000, 10)),
		svg.A("stitchTiles", "stitch"),
	)
	b.Empty("feColorMatrix", svg.A("type", "saturate"), svg.A("values", "0"))
	b.Close("filter")

	freq, octaves, scale := uint(15), 2, 12
	if s.phase.Has(phase.Maturity) {
		freq, octaves, scale = 25, 4, 18
	}
	b.Open("filter", svg.A("id", geometry.OrganicFilter))
	b.Empty("feTurbulence",
		svg.A("type", "turbulence"),
		svg.A("baseFrequency", svg.Fixed(freq, 3)),
		svg.Int("numOctaves", octaves),
		svg.A("result", "warp"),
	)
	b.Empty("feDisplacementMap", svg.A("in", "SourceGraphic"), svg.A("in2", "warp"), svg.Int("scale", scale))
	b.Close("filter")

	if s.phase.Has(phase.Awakening) {
		b.Open("filter", wideFilterRegion(idAura)...)
		b.Empty("feGaussianBlur", svg.Uint("stdDeviation", s.phase.AuraBlur()))
		b.Close("filter")
	}

	if s.phase.Has(phase.Maturity) {
		b.Open("filter", svg.A("id", idComplex))
		b.Empty("feTurbulence",
			svg.A("type", "fractalNoise"),
			svg.A("baseFrequency", "0.02"),
			svg.Int("numOctaves", 5),
			svg.Uint("seed", s.key.Byte(offsetGlowX)),
			svg.A("result", "n"),
		)
		b.Empty("feDisplacementMap",
			svg.A("in", "SourceGraphic"),
			svg.A("in2", "n"),
			svg.Int("scale", 20),
			svg.A("xChannelSelector", "R"),
			svg.A("yChannelSelector", "G"),
		)
		b.Close("filter")
	}

	if s.phase.Has(phase.Transcendence) {
		b.Open("radialGradient", append([]svg.Attr{svg.A("id", idPulse)}, centered()...)...)
		stop(b, "0%", s.color(3).Lighten(20), 80)
		stop(b, "100%", s.color(3), 0)
		b.Close("radialGradient")
	}

	b.Close("defs")
}

func (s *scene) background() {
	b := &s.b
	b.Open("g", svg.A("id", "background"))
	b.Empty("rect", svg.Int("width", svg.Width), svg.Int("height", svg.Height), svg.A("fill", svg.URL(idBackground)))
	b.Empty("rect", svg.Int("width", svg.Width), svg.Int("height", svg.Height), svg.A("filter", svg.URL(idNoise)), svg.Hundredths("opacity", 8))
	if s.phase.Has(phase.Maturity) {
		b.Empty("circle", svg.Int("cx", 110), svg.Int("cy", 120), svg.Int("r", 90),
			svg.A("fill", s.color(1).String()), svg.Hundredths("opacity", 12), svg.A("filter", svg.URL(idAura)))
		b.Empty("circle", svg.Int("cx", 300), svg.Int("cy", 290), svg.Int("r", 110),
			svg.A("fill", s.color(3).String()), svg.Hundredths("opacity", 10), svg.A("filter", svg.URL(idAura)))
	}
	b.Close("g")
}

// extraLayers writes the rotated polygon accents unlocked at Growth.
func (s *scene) extraLayers() {
	if !s.phase.Has(phase.Growth) {
		return
	}
	b := &s.b
	b.Open("g", svg.A("id", "layers"))
	for i := uint(0); i < s.phase.ExtraPolygons(); i++ {
		r := entropy.NewReader(entropy.Hash(s.key, entropy.Uint(s.token), entropy.String("layer"), entropy.Uint(uint64(i))))
		rot := r.Next(360)
		radius := 60 + int(r.Next(80))
		sides := 3 + r.Next(4)
		c := s.color(r.Next(palette.Size))

		pts := make([]trig.Point, sides)
		for j := range pts {
			pts[j] = trig.OnCircle(cx, cy, radius, rot+uint(j)*360/sides)
		}
		b.Empty("polygon",
			svg.A("points", svg.Points(pts...)),
			svg.A("fill", "none"),
			svg.A("stroke", c.Lighten(15).String()),
			svg.Tenths("stroke-width", 10),
			svg.Hundredths("stroke-opacity", 35),
		)
	}
	if s.phase.Has(phase.Maturity) {
		for i, radius := range []int{170, 182} {
			b.Empty("circle",
				svg.Int("cx", cx), svg.Int("cy", cy), svg.Int("r", radius),
				svg.A("fill", "none"),
				svg.A("stroke", s.color(uint(1+2*i)).String()),
				svg.Hundredths("stroke-width", 75),
				svg.Hundredths("opacity", 30),
				svg.A("filter", svg.URL(idComplex)),
			)
		}
	}
	b.Close("g")
}

// motif is the detail speckle element type, cycled by index.
type motif uint

const (
	motifDot motif = iota
	motifDiamond
	motifRing

	motifCount = 3
)

func (s *scene) details() {
	b := &s.b
	n := 6 + s.key.ByteMod(offsetDetailCount, 8)
	b.Open("g", svg.A("id", "details"))
	for i := uint(0); i < n; i++ {
		r := entropy.NewReader(entropy.Hash(s.key, entropy.Uint(s.token), entropy.String("detail"), entropy.Uint(uint64(i))))
		x := 40 + int(r.Next(320))
		y := 40 + int(r.Next(320))
		size := 2 + int(r.Next(4))
		c := s.color(r.Next(palette.Size))

		switch motif(i % motifCount) {
		case motifDot:
			b.Empty("circle", svg.Int("cx", x), svg.Int("cy", y), svg.Int("r", size),
				svg.A("fill", c.Lighten(20).String()), svg.Hundredths("opacity", 60))
		case motifDiamond:
			pts := svg.Points(
				trig.Point{X: x, Y: y - 2*size},
				trig.Point{X: x + size, Y: y},
				trig.Point{X: x, Y: y + 2*size},
				trig.Point{X: x - size, Y: y},
			)
			b.Empty("polygon", svg.A("points", pts), svg.A("fill", c.String()), svg.Hundredths("opacity", 50),
				svg.A("stroke", c.Lighten(30).String()), svg.Tenths("stroke-width", 5))
		case motifRing:
			b.Empty("circle", svg.Int("cx", x), svg.Int("cy", y), svg.Int("r", size+2), svg.A("fill", "none"),
				svg.A("stroke", c.Lighten(30).String()), svg.Tenths("stroke-width", 8), svg.Hundredths("opacity", 50))
		default:
			panic("renderer: motif out of range")
		}
	}
	b.Close("g")
}

func (s *scene) glow() {
	b := &s.b
	b.Open("g", svg.A("id", "glow"))
	b.Empty("circle", svg.Int("cx", cx), svg.Int("cy", cy), svg.Int("r", 120),
		svg.A("fill", svg.URL(idHalo)), svg.Hundredths("opacity", 50))
	b.Empty("circle",
		svg.Uint("cx", 160+s.key.ByteMod(offsetGlowX, 80)),
		svg.Uint("cy", 160+s.key.ByteMod(offsetGlowY, 80)),
		svg.Int("r", 70),
		svg.A("fill", s.color(2).Lighten(10).String()),
		svg.Hundredths("opacity", 12),
		svg.A("filter", svg.URL(geometry.GlowFilter)),
	)
	if s.phase.Has(phase.Awakening) {
		b.Empty("circle", svg.Int("cx", cx), svg.Int("cy", cy), svg.Uint("r", s.phase.AuraRadius()),
			svg.A("fill", "none"),
			svg.A("stroke", s.color(1).Lighten(15).String()),
			svg.Int("stroke-width", 6),
			svg.Hundredths("opacity", s.phase.AuraOpacity()),
			svg.A("filter", svg.URL(idAura)),
		)
	}
	if s.phase.Has(phase.Transcendence) {
		b.Empty("circle", svg.Int("cx", cx), svg.Int("cy", cy), svg.Int("r", 150),
			svg.A("fill", svg.URL(idPulse)), svg.Hundredths("opacity", 50))
	}
	b.Close("g")
}

func (s *scene) particles() {
	if !s.phase.Has(phase.Transcendence) {
		return
	}
	b := &s.b
	b.Open("g", svg.A("id", "particles"))
	for i := uint(0); i < particleCount; i++ {
		r := entropy.NewReader(entropy.Hash(s.key, entropy.Uint(s.token), entropy.Uint(s.counter), entropy.String("particle"), entropy.Uint(uint64(i))))
		angle := (i*particleSpacing + 355 + r.Next(11)) % 360
		radius := 150 + int(r.Next(30))
		size := 1 + r.Next(3)
		c := s.color(r.Next(palette.Size)).Lighten(25)
		p := trig.OnCircle(cx, cy, radius, angle)
		b.Empty("circle", svg.Int("cx", p.X), svg.Int("cy", p.Y), svg.Uint("r", size),
			svg.A("fill", c.String()), svg.Hundredths("opacity", 80))
	}
	b.Close("g")
}

func (s *scene) frame() {
	b := &s.b
	width := s.phase.BorderWidth()
	opacity := s.phase.BorderOpacity()
	b.Open("g", svg.A("id", "frame"))
	b.Empty("rect", svg.Int("x", 8), svg.Int("y", 8), svg.Int("width", 384), svg.Int("height", 384), svg.Int("rx", 24),
		svg.A("fill", "none"), svg.A("stroke", s.color(0).Lighten(10).String()),
		svg.Tenths("stroke-width", width), svg.Hundredths("opacity", opacity))
	b.Empty("rect", svg.Int("x", 16), svg.Int("y", 16), svg.Int("width", 368), svg.Int("height", 368), svg.Int("rx", 18),
		svg.A("fill", "none"), svg.A("stroke", s.color(2).Lighten(10).String()),
		svg.Tenths("stroke-width", width), svg.Hundredths("opacity", opacity))
	if s.phase.Has(phase.Transcendence) {
		b.Empty("rect", svg.Int("x", 4), svg.Int("y", 4), svg.Int("width", 392), svg.Int("height", 392), svg.Int("rx", 28),
			svg.A("fill", "none"), svg.A("stroke", s.color(3).Lighten(20).String()),
			svg.Tenths("stroke-width", 10), svg.Hundredths("opacity", 80), svg.A("filter", svg.URL(geometry.GlowFilter)))
	}
	b.Close("g")
}

func rotate(b *svg.Builder, from, to, dur string) {
	b.Empty("animateTransform",
		svg.A("attributeName", "transform"),
		svg.A("type", "rotate"),
		svg.A("from", from+" 200 200"),
		svg.A("to", to+" 200 200"),
		svg.A("dur", dur),
		svg.A("repeatCount", "indefinite"),
	)
}

func pulse(b *svg.Builder, attr, values string) {
	b.Empty("animate",
		svg.A("attributeName", attr),
		svg.A("values", values),
		svg.A("dur", "4s"),
		svg.A("repeatCount", "indefinite"),
	)
}

func (s *scene) animation() {
	if !s.phase.Has(phase.Transcendence) {
		return
	}
	b := &s.b
	b.Open("g", svg.A("id", "animation"))

	b.Open("circle", svg.Int("cx", cx), svg.Int("cy", cy), svg.Int("r", 130), svg.A("fill", "none"),
		svg.A("stroke", s.color(1).Lighten(20).String()), svg.Int("stroke-width", 1),
		svg.A("stroke-dasharray", "4 8"), svg.Hundredths("opacity", 50))
	rotate(b, "0", "360", "30s")
	b.Close("circle")

	b.Open("circle", svg.Int("cx", cx), svg.Int("cy", cy), svg.Int("r", 30), svg.A("fill", svg.URL(idPulse)))
	pulse(b, "r", "26;38;26")
	pulse(b, "opacity", "0.6;1;0.6")
	b.Close("circle")

	b.Open("circle", svg.Int("cx", cx), svg.Int("cy", cy), svg.Int("r", 175), svg.A("fill", "none"),
		svg.A("stroke", s.color(3).Lighten(15).String()), svg.Int("stroke-width", 1),
		svg.A("stroke-dasharray", "2 10"), svg.Hundredths("opacity", 40))
	rotate(b, "360", "0", "45s")
	b.Close("circle")

	b.Close("g")
}

// Pip geometry of the phase progress indicator.
const (
	pipCount   = 5
	pipStartX  = 176
	pipSpacing = 12
	pipY       = 348
)

func (s *scene) label() {
	b := &s.b
	domain := s.name + DomainSuffix
	width := min(max(len(domain)*9+60, 140), 360)

	b.Open("g", svg.A("id", "label"))
	b.Empty("rect", svg.Int("x", cx-width/2), svg.Int("y", 336), svg.Int("width", width), svg.Int("height", 40), svg.Int("rx", 20),
		svg.A("fill", "#000000"), svg.Hundredths("fill-opacity", 45),
		svg.A("stroke", s.color(0).Lighten(20).String()), svg.Hundredths("stroke-opacity", 50))
	for j := 0; j < pipCount; j++ {
		attrs := []svg.Attr{svg.Int("cx", pipStartX+j*pipSpacing), svg.Int("cy", pipY), svg.Int("r", 3)}
		if phase.Phase(j) <= s.phase {
			attrs = append(attrs, svg.A("fill", s.color(0).Lighten(25).String()), svg.Hundredths("opacity", 100))
		} else {
			attrs = append(attrs, svg.A("fill", "#ffffff"), svg.Hundredths("opacity", 20))
		}
		b.Empty("circle", attrs...)
	}
	b.Open("text", svg.Int("x", cx), svg.Int("y", 368), svg.A("text-anchor", "middle"),
		svg.A("font-family", "monospace"), svg.Int("font-size", 14), svg.A("fill", "#ffffff"))
	b.Text(domain)
	b.Close("text")
	b.Close("g")
}

// compose writes every layer in the fixed order and returns the inner
// markup of the root element.
func (s *scene) compose() string {
	s.defs()
	s.background()
	s.geometry.WriteTo(&s.b)
	s.extraLayers()
	s.details()
	s.glow()
	s.particles()
	s.frame()
	s.animation()
	s.label()
	return s.b.String()
}
