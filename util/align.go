package util

import "math"

const hourSeconds = 3600

// AlignHourDown rounds a unix timestamp down to the nearest hour boundary.
func AlignHourDown(x float64) float64 {
	return math.Floor(x/hourSeconds) * hourSeconds
}

// AlignHourUp rounds a unix timestamp up to the nearest hour boundary.
func AlignHourUp(x float64) float64 {
	return math.Ceil(x/hourSeconds) * hourSeconds
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
