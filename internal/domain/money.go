package domain

// MinorUnits is an amount in the smallest denomination of a currency (cents for USD).
// All arithmetic before presentation happens on this type.
type MinorUnits int64

// Money is the Square wire representation of an amount.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

// MinorUnitsOf returns the amount of m, or zero when the field is absent.
func MinorUnitsOf(m *Money) MinorUnits {
	if m == nil {
		return 0
	}
	return MinorUnits(m.Amount)
}
