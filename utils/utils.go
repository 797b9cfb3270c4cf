package utils

import "math"

// FormatFloat rounds f to digits significant digits.
func FormatFloat(f float64, digits int32) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 || digits <= 0 {
		return f
	}
	magnitude := math.Ceil(math.Log10(math.Abs(f)))
	scale := math.Pow(10, float64(digits)-magnitude)
	return math.Round(f*scale) / scale
}

func NaNToNil(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
