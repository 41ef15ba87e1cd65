package svg

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"clawid.dev/claw/trig"
)

func TestFixed(t *testing.T) {
	cases := []struct {
		v    uint
		dec  int
		want string
	}{
		{40, 2, "0.4"},
		{35, 2, "0.35"},
		{5, 2, "0.05"},
		{100, 2, "1"},
		{0, 2, "0"},
		{15, 1, "1.5"},
		{25, 1, "2.5"},
		{10, 1, "1"},
		{15, 3, "0.015"},
		{7, 0, "7"},
	}
	for _, tc := range cases {
		if got := Fixed(tc.v, tc.dec); got != tc.want {
			t.Fatalf("Fixed(%d, %d) = %q, want %q", tc.v, tc.dec, got, tc.want)
		}
	}
}

func TestBuilder_WritesInCallOrder(t *testing.T) {
	var b Builder
	b.Open("g", A("id", "x"), Hundredths("opacity", 40))
	b.Empty("circle", Int("cx", 200), Uint("r", 3), Tenths("stroke-width", 15))
	b.Open("text")
	b.Text(`a<b & "c"`)
	b.Close("text")
	b.Close("g")

	want := `<g id="x" opacity="0.4"><circle cx="200" r="3" stroke-width="1.5"/><text>a&lt;b &amp; &quot;c&quot;</text></g>`
	if got := b.String(); got != want {
		t.Fatalf("markup mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestPoints(t *testing.T) {
	got := Points(trig.Point{X: 1, Y: 2}, trig.Point{X: 30, Y: 40})
	if got != "1,2 30,40" {
		t.Fatalf("Points = %q", got)
	}
	if Points() != "" {
		t.Fatalf("empty Points must be empty")
	}
}

func TestDocument_WellFormed(t *testing.T) {
	doc := Document(`<rect width="400" height="400"/>`)
	if !strings.HasPrefix(doc, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 400 400" width="400" height="400">`) {
		t.Fatalf("unexpected root: %s", doc)
	}
	d := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("not well-formed: %v", err)
		}
	}
}

func TestEscapeText_PassesRegistryNames(t *testing.T) {
	for _, s := range []string{"test", "claw-01", "abc"} {
		if EscapeText(s) != s {
			t.Fatalf("EscapeText(%q) changed a registry-safe name", s)
		}
	}
}
