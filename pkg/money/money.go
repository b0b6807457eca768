package money

import "fmt"

// Cents is a money amount in integer minor units. All arithmetic in
// the order domain happens on Cents so totals never drift.
type Cents int64

// Rate is a tax rate in basis points (600 = 6%).
type Rate int64

func (c Cents) String() string {
	neg := ""
	v := int64(c)
	if v < 0 {
		neg = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", neg, v/100, v%100)
}

// Mul scales an amount by an integer quantity.
func (c Cents) Mul(qty int) Cents {
	return c * Cents(qty)
}

// Tax applies a basis-point rate with half-up rounding.
func Tax(amount Cents, rate Rate) Cents {
	raw := int64(amount) * int64(rate)
	if raw >= 0 {
		return Cents((raw + 5000) / 10000)
	}
	return Cents(-((-raw + 5000) / 10000))
}
