package animation

import "math"

// LerpFloat64 linearly interpolates between two float64 values.
func LerpFloat64(a, b float64, t float64) float64 {
	return a + (b-a)*t
}

// Interpolate returns the integer between from and to at progress t,
// rounded to the nearest value.
func Interpolate(from, to int, t float64) int {
	return from + int(math.Round(float64(to-from)*t))
}
