package palette

import "fmt"

// Harmony is the hue relationship used to spread a base hue over the palette.
type Harmony uint

const (
	Analogous Harmony = iota
	Triadic
	SplitComplementary
	Tetradic

	harmonyCount = 4
)

var harmonyNames = [harmonyCount]string{"Analogous", "Triadic", "Split-Complementary", "Tetradic"}

func (h Harmony) String() string {
	if h >= harmonyCount {
		return fmt.Sprintf("Harmony(%d)", uint(h))
	}
	return harmonyNames[h]
}

// delta is a signed perturbation of a base value by a variation v:
// mul*v/div, with div 1 or 2 and integer division.
type delta struct {
	mul int
	div int
}

func (d delta) apply(v uint) int {
	if d.mul == 0 {
		return 0
	}
	return d.mul * (int(v) / d.div)
}

var (
	zero     = delta{0, 1}
	plus     = delta{1, 1}
	minus    = delta{-1, 1}
	plusHalf = delta{1, 2}
	minHalf  = delta{-1, 2}
)

type slot struct {
	hueOffset uint
	sat       delta
	light     delta
}

// Hue offsets are pre-normalized to [0,360): -10 is 350, -20 is 340.
var harmonyTable = [harmonyCount][Size]slot{
	Analogous: {
		{0, zero, zero},
		{25, minHalf, plus},
		{350, plusHalf, minHalf},
		{15, minus, plusHalf},
		{340, zero, minus},
	},
	Triadic: {
		{0, zero, zero},
		{120, minHalf, plusHalf},
		{240, minus, minHalf},
		{60, plusHalf, plus},
		{180, minHalf, minus},
	},
	SplitComplementary: {
		{0, zero, zero},
		{150, zero, plusHalf},
		{210, minHalf, minHalf},
		{30, plusHalf, plus},
		{180, minus, zero},
	},
	Tetradic: {
		{0, zero, zero},
		{90, minHalf, plusHalf},
		{180, zero, minHalf},
		{270, minus, plus},
		{45, plusHalf, minus},
	},
}

func (h Harmony) slots() [Size]slot {
	if h >= harmonyCount {
		panic("palette: harmony out of range")
	}
	return harmonyTable[h]
}
