package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountAddOverflow(t *testing.T) {
	_, err := Amount(math.MaxUint64).Add(1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestAmountSubUnderflow(t *testing.T) {
	_, err := Amount(5).Sub(6)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestSumAmounts(t *testing.T) {
	total, err := SumAmounts([]Amount{10, 20, 30})
	assert.NoError(t, err)
	assert.Equal(t, Amount(60), total)
}

func TestSumAmountsOverflow(t *testing.T) {
	_, err := SumAmounts([]Amount{math.MaxUint64, 1})
	assert.ErrorIs(t, err, ErrOverflow)
}
