package util

import "math"

// Round rounds half up, so -2.5 becomes -2 and 2.5 becomes 3
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampFloat bounds v to [lo, hi]; NaN maps to lo
func ClampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
