package money

import "testing"

func TestPercentOf(t *testing.T) {
	tests := []struct {
		name   string
		amount Cents
		pct    int64
		want   Cents
	}{
		{"10% of 100.00", 10000, 10, 1000},
		{"exact division", 5000, 50, 2500},
		{"rounds half up", 999, 10, 100}, // 99.9 → 100
		{"rounds down below half", 994, 10, 99},
		{"zero percent", 10000, 0, 0},
		{"zero amount", 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.amount.PercentOf(tt.pct); got != tt.want {
				t.Errorf("PercentOf(%d) = %d, want %d", tt.pct, got, tt.want)
			}
		})
	}
}

func TestMulKm(t *testing.T) {
	tests := []struct {
		name string
		rate Cents
		km   float64
		want Cents
	}{
		{"whole km", 200, 5, 1000},
		{"fractional km rounds half up", 200, 2.503, 501},
		{"negative distance clamps to zero", 200, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MulKm(tt.rate, tt.km); got != tt.want {
				t.Errorf("MulKm(%d, %v) = %d, want %d", tt.rate, tt.km, got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		amount Cents
		want   string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{12345, "123.45"},
		{-250, "-2.50"},
	}

	for _, tt := range tests {
		if got := tt.amount.String(); got != tt.want {
			t.Errorf("Cents(%d).String() = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
