package utils

// MinFloat returns the smaller of two quantities.
func MinFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
