package palette

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"clawid.dev/claw/entropy"
)

func TestDerive_Triadic(t *testing.T) {
	var k entropy.Key
	k[1], k[2] = 1, 44 // 300
	k[3] = 1           // Triadic
	k[4] = 10          // s = 60
	k[5] = 3           // l = 38
	k[6] = 9           // sv = 9
	k[7] = 14          // lv = 14

	got := Derive(k)
	want := Palette{
		{Hue: 300, Saturation: 60, Lightness: 38},
		{Hue: 60, Saturation: 56, Lightness: 45},
		{Hue: 180, Saturation: 51, Lightness: 31},
		{Hue: 0, Saturation: 64, Lightness: 52},
		{Hue: 120, Saturation: 56, Lightness: 24},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("palette mismatch (-want +got):\n%s", diff)
	}
}

func TestDerive_AnalogousSaturationClamps(t *testing.T) {
	var k entropy.Key
	k[3] = 0  // Analogous
	k[4] = 40 // s = 90
	k[5] = 0  // l = 35
	k[6] = 14 // sv = 14
	k[7] = 0

	p := Derive(k)
	// slot2 = s + sv/2 = 97, under the cap; slot3 = s - sv = 76.
	if p[2].Saturation != 97 || p[3].Saturation != 76 {
		t.Fatalf("unexpected saturations: %+v", p)
	}
	if p[2].Hue != 350 || p[4].Hue != 340 {
		t.Fatalf("negative offsets must wrap: %+v", p)
	}
}

func TestDerive_Bounds(t *testing.T) {
	for seed := 0; seed < 2048; seed++ {
		var k entropy.Key
		for i := range k {
			k[i] = byte(seed*31 + i*seed + i)
		}
		k[1] = byte(seed >> 3)
		p := Derive(k)
		for i, c := range p {
			if c.Hue >= 360 {
				t.Fatalf("seed %d slot %d hue %d", seed, i, c.Hue)
			}
			if c.Saturation > 100 {
				t.Fatalf("seed %d slot %d saturation %d", seed, i, c.Saturation)
			}
			if c.Lightness < 5 || c.Lightness > 95 {
				t.Fatalf("seed %d slot %d lightness %d", seed, i, c.Lightness)
			}
			chained := c.Lighten(60).Darken(200).Lighten(30).Desaturate(300).Saturate(7)
			if chained.Lightness < 5 || chained.Lightness > 95 || chained.Saturation > 100 {
				t.Fatalf("transform chain escaped bounds: %+v", chained)
			}
		}
	}
}

func TestTransforms(t *testing.T) {
	c := HSL{Hue: 10, Saturation: 50, Lightness: 50}
	if got := c.Lighten(60).Lightness; got != 95 {
		t.Fatalf("Lighten cap = %d", got)
	}
	if got := c.Darken(46).Lightness; got != 5 {
		t.Fatalf("Darken floor = %d", got)
	}
	if got := c.Darken(45).Lightness; got != 5 {
		t.Fatalf("Darken exact floor = %d", got)
	}
	if got := c.Darken(10).Lightness; got != 40 {
		t.Fatalf("Darken = %d", got)
	}
	if got := c.Saturate(70).Saturation; got != 100 {
		t.Fatalf("Saturate cap = %d", got)
	}
	if got := c.Desaturate(90).Saturation; got != 5 {
		t.Fatalf("Desaturate floor = %d", got)
	}
	if c.Lightness != 50 || c.Saturation != 50 {
		t.Fatalf("transforms must not mutate the receiver")
	}
}

func TestHSLString(t *testing.T) {
	c := HSL{Hue: 210, Saturation: 70, Lightness: 5}
	if got := c.String(); got != "hsl(210,70%,5%)" {
		t.Fatalf("String = %q", got)
	}
}

func TestHarmonyString(t *testing.T) {
	if SplitComplementary.String() != "Split-Complementary" {
		t.Fatalf("name = %s", SplitComplementary)
	}
	if Harmony(9).String() != "Harmony(9)" {
		t.Fatalf("out of range name = %s", Harmony(9))
	}
}
