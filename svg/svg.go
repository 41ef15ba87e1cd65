// Package svg builds vector markup with a fixed, byte-exact serialization.
//
// Elements and attributes are written in call order; nothing is sorted or
// reordered, because the emitted bytes are part of the render contract.
package svg

import (
	"strconv"
	"strings"

	"clawid.dev/claw/trig"
)

// Canvas dimensions of the rendered document.
const (
	Width   = 400
	Height  = 400
	CenterX = Width / 2
	CenterY = Height / 2
)

// Namespace is the SVG XML namespace.
const Namespace = "http://www.w3.org/2000/svg"

// Attr is a single name="value" pair. Values are written verbatim.
type Attr struct {
	Name  string
	Value string
}

// A returns a string attribute.
func A(name, value string) Attr { return Attr{Name: name, Value: value} }

// Int returns an integer attribute.
func Int(name string, v int) Attr { return Attr{Name: name, Value: strconv.Itoa(v)} }

// Uint returns an unsigned integer attribute.
func Uint(name string, v uint) Attr {
	return Attr{Name: name, Value: strconv.FormatUint(uint64(v), 10)}
}

// Hundredths returns an attribute whose value is v/100, e.g. opacities.
func Hundredths(name string, v uint) Attr { return Attr{Name: name, Value: Fixed(v, 2)} }

// Tenths returns an attribute whose value is v/10, e.g. stroke widths.
func Tenths(name string, v uint) Attr { return Attr{Name: name, Value: Fixed(v, 1)} }

// Fixed formats v / 10^decimals with trailing fractional zeros removed:
// Fixed(40, 2) is "0.4", Fixed(100, 2) is "1", Fixed(15, 3) is "0.015".
func Fixed(v uint, decimals int) string {
	s := strconv.FormatUint(uint64(v), 10)
	if decimals <= 0 {
		return s
	}
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	whole, frac := s[:len(s)-decimals], strings.TrimRight(s[len(s)-decimals:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// Points formats a polygon point list: "x1,y1 x2,y2 ...".
func Points(pts ...trig.Point) string {
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(p.X))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(p.Y))
	}
	return sb.String()
}

// URL returns a "url(#id)" paint or filter reference.
func URL(id string) string { return "url(#" + id + ")" }

// Builder accumulates markup.
type Builder struct {
	sb strings.Builder
}

func (b *Builder) tag(name string, attrs []Attr) {
	b.sb.WriteByte('<')
	b.sb.WriteString(name)
	for _, a := range attrs {
		b.sb.WriteByte(' ')
		b.sb.WriteString(a.Name)
		b.sb.WriteString(`="`)
		b.sb.WriteString(a.Value)
		b.sb.WriteByte('"')
	}
}

// Open writes a start tag.
func (b *Builder) Open(name string, attrs ...Attr) {
	b.tag(name, attrs)
	b.sb.WriteByte('>')
}

// Empty writes a self-closing element.
func (b *Builder) Empty(name string, attrs ...Attr) {
	b.tag(name, attrs)
	b.sb.WriteString("/>")
}

// Close writes an end tag.
func (b *Builder) Close(name string) {
	b.sb.WriteString("</")
	b.sb.WriteString(name)
	b.sb.WriteByte('>')
}

// Text writes character data, escaping XML reserved characters.
func (b *Builder) Text(s string) {
	b.sb.WriteString(EscapeText(s))
}

// Raw writes s unmodified.
func (b *Builder) Raw(s string) {
	b.sb.WriteString(s)
}

// Len returns the number of bytes written so far.
func (b *Builder) Len() int { return b.sb.Len() }

func (b *Builder) String() string { return b.sb.String() }

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeText escapes XML reserved characters. Strings drawn from
// [a-z0-9-] pass through unchanged.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// Document wraps inner markup in the root svg element with the canonical
// 400x400 viewport.
func Document(inner string) string {
	var b Builder
	b.Open("svg",
		A("xmlns", Namespace),
		A("viewBox", "0 0 400 400"),
		Int("width", Width),
		Int("height", Height),
	)
	b.Raw(inner)
	b.Close("svg")
	return b.String()
}
