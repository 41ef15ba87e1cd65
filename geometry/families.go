package geometry

import (
	"strconv"

	"clawid.dev/claw/entropy"
	"clawid.dev/claw/palette"
	"clawid.dev/claw/svg"
	"clawid.dev/claw/trig"
)

const (
	cx = svg.CenterX
	cy = svg.CenterY

	hexOuterRadius = 150
	hexRadiusStep  = 28
	hexTwistStep   = 30

	spiralGoldenAngle = 137
	spiralMaxRadius   = 160
)

func hexagonal(k entropy.Key, p palette.Palette) Layer {
	n := 3 + k.ByteMod(offsetCount, 3)
	rot := k.ByteMod(offsetTwist, 60)

	shapes := make([]Shape, 0, n)
	for i := uint(0); i < n; i++ {
		r := hexOuterRadius - hexRadiusStep*int(i)
		a := rot + hexTwistStep*i
		pts := make([]trig.Point, 6)
		for j := range pts {
			pts[j] = trig.OnCircle(cx, cy, r, a+60*uint(j))
		}
		c := p.At(i)
		shapes = append(shapes, Shape{Element: "polygon", Attrs: []svg.Attr{
			svg.A("points", svg.Points(pts...)),
			svg.A("fill", c.String()),
			svg.Hundredths("fill-opacity", 40+20*i/(n-1)),
			svg.A("stroke", c.Lighten(20).String()),
			svg.Tenths("stroke-width", 15),
		}})
	}
	return Layer{
		Shapes: shapes,
		Core:   Shape{Element: "circle", Attrs: coreAttrs(svg.Int("cx", cx), svg.Int("cy", cy), svg.Int("r", 22))},
	}
}

func spiral(k entropy.Key, p palette.Palette) Layer {
	n := 12 + k.ByteMod(offsetCount, 12)
	tightness := 3 + k.ByteMod(offsetTwist, 5)

	shapes := make([]Shape, 0, n)
	for i := uint(0); i < n; i++ {
		dist := min(16+2*i*tightness, spiralMaxRadius)
		pos := trig.OnCircle(cx, cy, int(dist), (i*spiralGoldenAngle)%360)
		var opacity uint
		switch {
		case i < n/3:
			opacity = 70
		case i < 2*n/3:
			opacity = 50
		default:
			opacity = 35
		}
		shapes = append(shapes, Shape{Element: "circle", Attrs: []svg.Attr{
			svg.Int("cx", pos.X),
			svg.Int("cy", pos.Y),
			svg.Uint("r", 3+i*9/n),
			svg.A("fill", p.At(i).Lighten(10).String()),
			svg.Hundredths("opacity", opacity),
		}})
	}
	return Layer{
		Shapes: shapes,
		Core:   Shape{Element: "circle", Attrs: coreAttrs(svg.Int("cx", cx), svg.Int("cy", cy), svg.Int("r", 18))},
	}
}

func crystalline(k entropy.Key, p palette.Palette) Layer {
	n := 4 + k.ByteMod(offsetCount, 4)
	base := k.ByteMod(offsetTwist, 90)
	center := trig.Point{X: cx, Y: cy}

	shapes := make([]Shape, 0, n)
	for i := uint(0); i < n; i++ {
		angle := base + i*360/n
		length := 90 + int(k.ByteMod(offsetParams+int(i), 60))
		tip := trig.OnCircle(cx, cy, length, angle)
		side := trig.OnCircle(cx, cy, length*2/3, angle+15)
		c := p.At(i)
		shapes = append(shapes, Shape{Element: "polygon", Attrs: []svg.Attr{
			svg.A("points", svg.Points(center, tip, side)),
			svg.A("fill", c.String()),
			svg.Hundredths("fill-opacity", 55),
			svg.A("stroke", c.Lighten(25).String()),
			svg.Tenths("stroke-width", 10),
		}})
	}
	diamond := svg.Points(
		trig.Point{X: cx, Y: cy - 32},
		trig.Point{X: cx + 24, Y: cy},
		trig.Point{X: cx, Y: cy + 32},
		trig.Point{X: cx - 24, Y: cy},
	)
	return Layer{
		Shapes: shapes,
		Core:   Shape{Element: "polygon", Attrs: coreAttrs(svg.A("points", diamond))},
	}
}

func organic(k entropy.Key, p palette.Palette) Layer {
	n := 3 + k.ByteMod(offsetCount, 3)
	twist := k.Byte(offsetTwist)

	shapes := make([]Shape, 0, n)
	for i := uint(0); i < n; i++ {
		j := int(i)
		ex := 170 + int(k.ByteMod(offsetParams+j, 60))
		ey := 170 + int(k.ByteMod(offsetParams+3+j, 60))
		rx := 50 + k.ByteMod(offsetParams+5+j, 60)
		ry := 40 + k.ByteMod(offsetParams+2*j, 50)
		rot := (twist + i*72) % 360
		shapes = append(shapes, Shape{Element: "ellipse", Attrs: []svg.Attr{
			svg.Int("cx", ex),
			svg.Int("cy", ey),
			svg.Uint("rx", rx),
			svg.Uint("ry", ry),
			svg.A("fill", p.At(i).String()),
			svg.Hundredths("fill-opacity", 45),
			svg.A("filter", svg.URL(OrganicFilter)),
			svg.A("transform", "rotate("+strconv.FormatUint(uint64(rot), 10)+" "+strconv.Itoa(ex)+" "+strconv.Itoa(ey)+")"),
		}})
	}
	return Layer{
		Shapes: shapes,
		Core: Shape{Element: "ellipse", Attrs: coreAttrs(
			svg.Int("cx", cx), svg.Int("cy", cy), svg.Int("rx", 46), svg.Int("ry", 38),
		)},
	}
}
