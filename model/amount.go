package model

import "github.com/pkg/errors"

// ErrOverflow is returned when an arithmetic operation on an Amount
// would exceed the 64-bit unsigned domain.
var ErrOverflow = errors.New("model: amount overflow")

// Amount is a non-negative quantity of the ledger's single unit,
// measured in whatever minor denomination the caller has chosen (cents,
// satoshis, ...). The zero value is a valid, empty amount.
type Amount uint64

// Add returns a+b, or ErrOverflow if the sum does not fit in Amount.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if sum < a {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Sub returns a-b, or ErrOverflow if b is greater than a (Amount has no
// negative values).
func (a Amount) Sub(b Amount) (Amount, error) {
	if b > a {
		return 0, ErrOverflow
	}
	return a - b, nil
}

// SumAmounts adds a slice of amounts left to right, stopping at the
// first overflow.
func SumAmounts(amounts []Amount) (Amount, error) {
	var total Amount
	var err error
	for _, a := range amounts {
		total, err = total.Add(a)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
