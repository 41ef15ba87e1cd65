// Package trig implements integer-only trigonometry scaled by 1000.
//
// Results are bit-exact across platforms: sine is a piecewise-linear
// interpolation over a fixed 5-degree table and every division truncates
// toward zero.
package trig

// Scale is the fixed-point scale factor of Sin and Cos results.
const Scale = 1000

// sinTable holds sin(5*i degrees) * Scale for i in [0,18].
var sinTable = [19]int{
	0, 87, 174, 259, 342, 423, 500, 574, 643, 707,
	766, 819, 866, 906, 940, 966, 985, 996, 1000,
}

// firstQuadrant interpolates sin(d) for d in [0,90].
func firstQuadrant(d uint) int {
	idx := d / 5
	if idx >= uint(len(sinTable)-1) {
		return sinTable[len(sinTable)-1]
	}
	low := sinTable[idx]
	high := sinTable[idx+1]
	return low + int(d-idx*5)*(high-low)/5
}

// Sin returns sin(degrees) * 1000. The domain is reduced mod 360.
func Sin(degrees uint) int {
	d := degrees % 360
	switch {
	case d <= 90:
		return firstQuadrant(d)
	case d <= 180:
		return firstQuadrant(180 - d)
	case d <= 270:
		return -firstQuadrant(d - 180)
	default:
		return -firstQuadrant(360 - d)
	}
}

// Cos returns cos(degrees) * 1000, defined as Sin(degrees+90).
func Cos(degrees uint) int {
	return Sin(degrees%360 + 90)
}

// CircleX returns the x coordinate of the point at angle degrees on a circle
// of the given radius around cx. Negative results clamp to 0.
func CircleX(cx, radius int, degrees uint) int {
	return clampNonNegative(cx + radius*Cos(degrees)/Scale)
}

// CircleY returns the y coordinate of the point at angle degrees on a circle
// of the given radius around cy. Negative results clamp to 0.
func CircleY(cy, radius int, degrees uint) int {
	return clampNonNegative(cy + radius*Sin(degrees)/Scale)
}

// Point is an integer canvas coordinate.
type Point struct {
	X, Y int
}

// OnCircle returns the point at angle degrees on the circle (cx, cy, radius).
func OnCircle(cx, cy, radius int, degrees uint) Point {
	return Point{X: CircleX(cx, radius, degrees), Y: CircleY(cy, radius, degrees)}
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
