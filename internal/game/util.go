package game

import "math"

// Radius returns the circle radius for a mass. Collision and drawing both use it.
func Radius(mass float64) float64 {
	if mass <= 0 {
		return 0
	}
	return RadiusFactor * math.Sqrt(mass)
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clampInside keeps a circle of radius r inside [0, size]. When the circle is
// wider than the map, the lower bound wins.
func clampInside(v, r, size float64) float64 {
	return math.Max(r, math.Min(size-r, v))
}

// Distance returns the distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}
