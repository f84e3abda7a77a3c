package money

import "fmt"

// Cents is a money amount in minor units (centavos). All pricing arithmetic
// in the platform runs on Cents; floats only appear at the presentation edge.
type Cents int64

// FromUnits builds an amount from whole units and remaining cents.
func FromUnits(units, cents int64) Cents {
	return Cents(units*100 + cents)
}

// Mul multiplies the amount by an integer quantity.
func (c Cents) Mul(qty int) Cents {
	return c * Cents(qty)
}

// PercentOf returns pct% of the amount, rounded half-up.
func (c Cents) PercentOf(pct int64) Cents {
	if c <= 0 || pct <= 0 {
		return 0
	}
	return Cents((int64(c)*pct + 50) / 100)
}

// MulKm scales a per-kilometre rate by a distance, rounding half-up.
func MulKm(rate Cents, km float64) Cents {
	if km < 0 {
		return 0
	}
	v := float64(rate)*km + 0.5
	return Cents(int64(v))
}

// String renders the amount as "units.cc" for logs and messages.
func (c Cents) String() string {
	neg := ""
	v := int64(c)
	if v < 0 {
		neg = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", neg, v/100, v%100)
}
