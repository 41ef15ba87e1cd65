package renderer

import (
	"encoding/xml"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"clawid.dev/claw/entropy"
	"clawid.dev/claw/metadata"
)

type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []node     `xml:",any"`
}

func (n node) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (n node) walk(fn func(node)) {
	fn(n)
	for _, c := range n.Nodes {
		c.walk(fn)
	}
}

func (n node) group(id string) (node, bool) {
	var found node
	ok := false
	n.walk(func(c node) {
		if !ok && c.XMLName.Local == "g" && c.attr("id") == id {
			found, ok = c, true
		}
	})
	return found, ok
}

func parseMarkup(t *testing.T, markup string) node {
	t.Helper()
	var root node
	if err := xml.Unmarshal([]byte(markup), &root); err != nil {
		t.Fatalf("markup is not well-formed XML: %v", err)
	}
	return root
}

func kinds(t *testing.T, markup string) map[string]bool {
	t.Helper()
	out := map[string]bool{}
	parseMarkup(t, markup).walk(func(n node) { out[n.XMLName.Local] = true })
	return out
}

func decodeDocument(t *testing.T, uri string) metadata.Document {
	t.Helper()
	mt, b, err := metadata.DecodeDataURI(uri)
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	if mt != metadata.JSON {
		t.Fatalf("media type = %s", mt)
	}
	d, err := metadata.Parse(b)
	if err != nil {
		t.Fatalf("metadata.Parse: %v", err)
	}
	return d
}

func sampleKeys() []entropy.Key {
	keys := make([]entropy.Key, 0, 8)
	for f := 0; f < 8; f++ {
		var k entropy.Key
		for i := range k {
			k[i] = byte(f*41 + i*29 + 7)
		}
		k[0] = byte(f)
		keys = append(keys, k)
	}
	return keys
}

func TestScenario_ZeroKeyGenesis(t *testing.T) {
	var k entropy.Key
	m := RenderMarkup(k, 1, 1000000, "test")

	if !strings.HasPrefix(m, "<svg") || !strings.Contains(m, `viewBox="0 0 400 400"`) {
		t.Fatalf("missing root element: %.120s", m)
	}
	root := parseMarkup(t, m)
	geo, ok := root.group("geometry")
	if !ok || geo.attr("class") != "hexagonal" {
		t.Fatalf("expected hexagonal geometry group")
	}
	polygons := 0
	for _, c := range geo.Nodes {
		if c.XMLName.Local != "polygon" {
			continue
		}
		polygons++
		pts := strings.Fields(c.attr("points"))
		if len(pts) != 6 {
			t.Fatalf("hexagon has %d points", len(pts))
		}
		sx, sy := 0, 0
		for _, p := range pts {
			var x, y int
			if _, err := fmt.Sscanf(p, "%d,%d", &x, &y); err != nil {
				t.Fatalf("bad point %q: %v", p, err)
			}
			sx += x
			sy += y
		}
		if sx != 6*200 || sy != 6*200 {
			t.Fatalf("hexagon not centered on 200,200: %s", c.attr("points"))
		}
	}
	if polygons < 3 || polygons > 5 {
		t.Fatalf("expected 3-5 hexagons, got %d", polygons)
	}
	if strings.Count(m, "test.claw") != 1 {
		t.Fatalf("label must contain test.claw exactly once")
	}
	if _, ok := root.group("particles"); ok {
		t.Fatalf("particles must not render at Genesis")
	}

	d := decodeDocument(t, RenderDocument(k, 1, 1000000, "test", ""))
	if v, _ := d.Trait("Phase"); v != "Genesis" {
		t.Fatalf("Phase trait = %v", v)
	}
	if d.Name != "test.claw" || d.Description != DefaultDescription {
		t.Fatalf("unexpected name/description: %q %q", d.Name, d.Description)
	}
	if v, _ := d.Trait("Shape"); v != "Hexagonal" {
		t.Fatalf("Shape trait = %v", v)
	}
}

func TestScenario_ZeroKeyTranscendence(t *testing.T) {
	var k entropy.Key
	m := RenderMarkupWithPhase(k, 1, 1000000, "test", 4, 50)
	root := parseMarkup(t, m)

	particles, ok := root.group("particles")
	if !ok {
		t.Fatalf("missing particle group")
	}
	if len(particles.Nodes) != 12 {
		t.Fatalf("expected 12 particles, got %d", len(particles.Nodes))
	}
	anim, ok := root.group("animation")
	if !ok {
		t.Fatalf("missing animation group")
	}
	looped := 0
	anim.walk(func(n node) {
		if strings.HasPrefix(n.XMLName.Local, "animate") && n.attr("repeatCount") == "indefinite" {
			looped++
		}
	})
	if looped == 0 {
		t.Fatalf("expected looped animation directives")
	}

	d := decodeDocument(t, RenderDocumentWithPhase(k, 1, 1000000, "test", "", 4, 50))
	if v, _ := d.Trait("Phase"); v != "Transcendence" {
		t.Fatalf("Phase trait = %v", v)
	}
	if v, _ := d.Trait("Activity"); v != float64(50) {
		t.Fatalf("Activity trait = %v", v)
	}
}

func TestPhaseClamp(t *testing.T) {
	for _, k := range sampleKeys() {
		for _, p := range []uint{5, 7, 99} {
			if RenderMarkupWithPhase(k, 3, 42, "clamp", p, 9) != RenderMarkupWithPhase(k, 3, 42, "clamp", 4, 9) {
				t.Fatalf("phase %d markup differs from phase 4", p)
			}
			if RenderDocumentWithPhase(k, 3, 42, "clamp", "x", p, 9) != RenderDocumentWithPhase(k, 3, 42, "clamp", "x", 4, 9) {
				t.Fatalf("phase %d document differs from phase 4", p)
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	for _, k := range sampleKeys() {
		req := Request{Key: k, TokenIndex: 9, CreationCounter: 123456, Name: "det", Phase: 3, ActivityCount: 7}
		a, b := Render(req), Render(req)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Fatalf("render not deterministic (-a +b):\n%s", diff)
		}
	}
}

func TestBaseRenderEqualsPhaseZero(t *testing.T) {
	for _, k := range sampleKeys() {
		if RenderMarkup(k, 1, 2, "base") != RenderMarkupWithPhase(k, 1, 2, "base", 0, 0) {
			t.Fatalf("RenderMarkup differs from phase 0")
		}
		if RenderDocument(k, 1, 2, "base", "") != RenderDocumentWithPhase(k, 1, 2, "base", "", 0, 0) {
			t.Fatalf("RenderDocument differs from phase 0")
		}
	}
}

func between(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	j := strings.Index(s[i:], end)
	if j < 0 {
		return ""
	}
	return s[i : i+j+len(end)]
}

func TestKeyOnlyTraits(t *testing.T) {
	for _, k := range sampleKeys() {
		if diff := cmp.Diff(DeriveTraits(k), DeriveTraits(k)); diff != "" {
			t.Fatalf("traits not stable:\n%s", diff)
		}
		a := RenderMarkupWithPhase(k, 1, 100, "same", 2, 0)
		b := RenderMarkupWithPhase(k, 2, 100, "same", 2, 0)
		if between(a, `<g id="geometry"`, "</g>") != between(b, `<g id="geometry"`, "</g>") {
			t.Fatalf("core geometry depends on token index")
		}
		if between(a, `<g id="details"`, "</g>") == between(b, `<g id="details"`, "</g>") {
			t.Fatalf("detail speckle should vary with token index")
		}
		if between(a, "<defs>", "</linearGradient>") != between(b, "<defs>", "</linearGradient>") {
			t.Fatalf("palette depends on token index")
		}
	}
}

func TestPhaseMonotonicFeatures(t *testing.T) {
	for _, k := range sampleKeys() {
		prev := kinds(t, RenderMarkupWithPhase(k, 5, 77, "grow", 0, 0))
		for p := uint(1); p <= 4; p++ {
			cur := kinds(t, RenderMarkupWithPhase(k, 5, 77, "grow", p, 0))
			for kind := range prev {
				if !cur[kind] {
					t.Fatalf("phase %d dropped element kind %q", p, kind)
				}
			}
			prev = cur
		}
	}
}

func TestPhaseGatedGroups(t *testing.T) {
	var k entropy.Key
	k[0] = 2
	cases := []struct {
		phase uint
		ids   map[string]bool
	}{
		{0, map[string]bool{"layers": false, "particles": false, "animation": false}},
		{1, map[string]bool{"layers": false, "particles": false, "animation": false}},
		{2, map[string]bool{"layers": true, "particles": false, "animation": false}},
		{4, map[string]bool{"layers": true, "particles": true, "animation": true}},
	}
	for _, tc := range cases {
		root := parseMarkup(t, RenderMarkupWithPhase(k, 1, 1, "gate", tc.phase, 0))
		for id, want := range tc.ids {
			if _, ok := root.group(id); ok != want {
				t.Fatalf("phase %d group %q present=%v, want %v", tc.phase, id, ok, want)
			}
		}
	}

	m := RenderMarkupWithPhase(k, 1, 1, "gate", 0, 0)
	if strings.Contains(m, `id="aura"`) {
		t.Fatalf("aura filter must not exist at Genesis")
	}
	m = RenderMarkupWithPhase(k, 1, 1, "gate", 1, 0)
	if !strings.Contains(m, `<filter id="aura"`) || strings.Contains(m, `id="complex"`) {
		t.Fatalf("Awakening must add aura only")
	}
	m = RenderMarkupWithPhase(k, 1, 1, "gate", 3, 0)
	if !strings.Contains(m, `<filter id="complex"`) || strings.Contains(m, `id="pulse"`) {
		t.Fatalf("Maturity must add complex only")
	}
}

func TestExtraPolygonCount(t *testing.T) {
	k := sampleKeys()[1]
	for p, want := range map[uint]int{2: 2, 3: 3, 4: 4} {
		root := parseMarkup(t, RenderMarkupWithPhase(k, 1, 1, "poly", p, 0))
		layers, _ := root.group("layers")
		got := 0
		for _, c := range layers.Nodes {
			if c.XMLName.Local == "polygon" {
				got++
			}
		}
		if got != want {
			t.Fatalf("phase %d: %d extra polygons, want %d", p, got, want)
		}
	}
}

func TestGlowBlurScalesWithPhase(t *testing.T) {
	var k entropy.Key
	for p, want := range []string{"6", "10", "14", "18", "24"} {
		m := RenderMarkupWithPhase(k, 1, 1, "blur", uint(p), 0)
		if !strings.Contains(m, `<filter id="glow" x="-50%" y="-50%" width="200%" height="200%"><feGaussianBlur stdDeviation="`+want+`"`) {
			t.Fatalf("phase %d: expected glow blur %s", p, want)
		}
	}
}

func TestDetailCountAndMotifs(t *testing.T) {
	for b := 0; b < 8; b++ {
		var k entropy.Key
		k[11] = byte(b)
		root := parseMarkup(t, RenderMarkup(k, 1, 1, "dots"))
		details, _ := root.group("details")
		if len(details.Nodes) != 6+b {
			t.Fatalf("k[11]=%d: %d details, want %d", b, len(details.Nodes), 6+b)
		}
		for i, c := range details.Nodes {
			want := []string{"circle", "polygon", "circle"}[i%3]
			if c.XMLName.Local != want {
				t.Fatalf("detail %d is %s, want %s", i, c.XMLName.Local, want)
			}
			if i%3 == 2 && c.attr("fill") != "none" {
				t.Fatalf("ring motif must be an outline")
			}
		}
	}
}

func TestPhasePips(t *testing.T) {
	var k entropy.Key
	for p := uint(0); p <= 6; p++ {
		root := parseMarkup(t, RenderMarkupWithPhase(k, 1, 1, "pips", p, 0))
		label, ok := root.group("label")
		if !ok {
			t.Fatalf("missing label group")
		}
		pips, lit := 0, 0
		for _, c := range label.Nodes {
			if c.XMLName.Local != "circle" {
				continue
			}
			pips++
			if c.attr("opacity") == "1" {
				lit++
			}
		}
		if pips != 5 {
			t.Fatalf("phase %d: %d pips", p, pips)
		}
		if want := int(min(p, 4)) + 1; lit != want {
			t.Fatalf("phase %d: %d lit pips, want %d", p, lit, want)
		}
	}
}

func TestNameEscaping(t *testing.T) {
	var k entropy.Key
	m := RenderMarkup(k, 1, 1, `x"/><script>`)
	parseMarkup(t, m)
	if strings.Contains(m, "<script>") {
		t.Fatalf("name was embedded unescaped")
	}
	d := decodeDocument(t, RenderDocument(k, 1, 1, `q"u`, ""))
	if d.Name != `q"u.claw` {
		t.Fatalf("name = %q", d.Name)
	}
}

func TestMetadataAttributes(t *testing.T) {
	k := sampleKeys()[3]
	res := Render(Request{Key: k, TokenIndex: 1, CreationCounter: 1, Name: "attrs", Description: "custom", Phase: 2, ActivityCount: 11})
	d, err := metadata.Parse(res.Metadata)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var traits []string
	for _, a := range d.Attributes {
		traits = append(traits, a.TraitType)
	}
	want := []string{"Shape", "Harmony", "Hue", "Phase", "Activity", "Domain"}
	if diff := cmp.Diff(want, traits); diff != "" {
		t.Fatalf("trait order (-want +got):\n%s", diff)
	}
	traitsK := DeriveTraits(k)
	if v, _ := d.Trait("Hue"); v != float64(traitsK.Palette[0].Hue) {
		t.Fatalf("Hue trait = %v", v)
	}
	if v, _ := d.Trait("Domain"); v != "attrs.claw" {
		t.Fatalf("Domain trait = %v", v)
	}
	if d.Description != "custom" {
		t.Fatalf("description = %q", d.Description)
	}
	mt, img, err := metadata.DecodeDataURI(d.Image)
	if err != nil || mt != metadata.SVG || string(img) != res.Markup {
		t.Fatalf("image does not embed the markup")
	}
	if res.MarkupCID == "" || res.MetadataCID == "" || res.MarkupCID == res.MetadataCID {
		t.Fatalf("unexpected CIDs %q %q", res.MarkupCID, res.MetadataCID)
	}
}

func TestRender_Concurrent(t *testing.T) {
	req := Request{Key: sampleKeys()[5], TokenIndex: 4, CreationCounter: 99, Name: "par", Phase: 4, ActivityCount: 3}
	want := Render(req)
	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Render(req); got.Document != want.Document {
				errs <- "concurrent render differs"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatal(e)
	}
}
