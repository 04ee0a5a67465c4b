package wire

import "testing"

func TestFixed(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{1.0, 1.0},
		{0.5, 0.5},
		{123.456, 123.456},
		{-1.5, -1.5},
		{0.0, 0.0},
		{256.0, 256.0},
	}

	for _, test := range tests {
		result := NewFixed(test.input).Float64()

		// one unit is 1/256
		diff := result - test.expected
		if diff < 0 {
			diff = -diff
		}
		if diff > 1.0/256 {
			t.Errorf("Fixed conversion: input=%f, expected=%f, got=%f",
				test.input, test.expected, result)
		}
	}
}

func TestFixedExact(t *testing.T) {
	tests := []struct {
		in   Fixed
		want float64
		int  int
	}{
		{in: 0, want: 0, int: 0},
		{in: 1, want: 1.0 / 256, int: 0},
		{in: 256, want: 1, int: 1},
		{in: -384, want: -1.5, int: -1},
		{in: FixedInt(-7), want: -7, int: -7},
		{in: 0x7fffffff, want: 8388607.99609375, int: 8388607},
	}
	for _, tt := range tests {
		if got := tt.in.Float64(); got != tt.want {
			t.Errorf("Fixed(%d).Float64() = %v, want %v", tt.in, got, tt.want)
		}
		if got := tt.in.Int(); got != tt.int {
			t.Errorf("Fixed(%d).Int() = %d, want %d", tt.in, got, tt.int)
		}
		if back := NewFixed(tt.want); back != tt.in {
			t.Errorf("NewFixed(%v) = %d, want %d", tt.want, back, tt.in)
		}
	}
}

func BenchmarkFixedConversion(b *testing.B) {
	values := []float64{1.0, 0.5, 123.456, -1.5, 256.789}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, v := range values {
			_ = NewFixed(v).Float64()
		}
	}
}
