package marketplace

import (
	"errors"

	"github.com/holiman/uint256"
)

// Amount is a 256-bit unsigned monetary value in the smallest currency unit
// (wei-scale), matching the value range of the settlement environment.
type Amount = *uint256.Int

// ErrInvalidAmount is returned when a decimal string does not parse into an Amount.
var ErrInvalidAmount = errors.New("invalid decimal amount")

// AmountFromDecimal parses a base-10 string into an Amount.
func AmountFromDecimal(s string) (Amount, error) {
	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.Join(ErrInvalidAmount, err)
	}

	return amount, nil
}

// MustAmountFromDecimal parses a base-10 string into an Amount and panics on
// malformed input. Intended for constants in wiring and test code.
func MustAmountFromDecimal(s string) Amount {
	return uint256.MustFromDecimal(s)
}

// NewAmount creates an Amount from a uint64 value.
func NewAmount(v uint64) Amount {
	return uint256.NewInt(v)
}

// cloneOrZero returns a defensive copy of a, treating nil as zero so that
// arithmetic on caller-supplied amounts is always defined.
func cloneOrZero(a Amount) Amount {
	if a == nil {
		return uint256.NewInt(0)
	}

	return a.Clone()
}

// isPositive reports whether a is a non-nil amount greater than zero.
func isPositive(a Amount) bool {
	return a != nil && !a.IsZero()
}
