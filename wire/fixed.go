package wire

import "math"

// Fixed represents a signed 24.8 fixed-point number.
type Fixed int32

// NewFixed converts v to the nearest fixed-point value.
func NewFixed(v float64) Fixed {
	return Fixed(math.Round(v * 256))
}

// FixedInt converts an integer to fixed-point.
func FixedInt(v int) Fixed {
	return Fixed(v * 256)
}

// Float64 converts f to float64 without loss.
func (f Fixed) Float64() float64 {
	return float64(f) / 256.0
}

// Int returns the integer part of f, rounded toward zero.
func (f Fixed) Int() int {
	return int(f) / 256
}
