package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionIDStableAcrossRuns(t *testing.T) {
	outputs := []Output{{Account: 1, SubAccount: Main, Amount: 100}}

	tx1 := NewTransaction(nil, outputs, "deposit-1", 1000)
	tx2 := NewTransaction(nil, outputs, "deposit-1", 1000)

	assert.Equal(t, tx1.ID(), tx2.ID())
	assert.False(t, tx1.ID().IsZero())
}

func TestTransactionIDChangesWithAnyField(t *testing.T) {
	base := NewTransaction(nil, []Output{{Account: 1, SubAccount: Main, Amount: 100}}, "deposit-1", 1000)

	differentAmount := NewTransaction(nil, []Output{{Account: 1, SubAccount: Main, Amount: 101}}, "deposit-1", 1000)
	differentRef := NewTransaction(nil, []Output{{Account: 1, SubAccount: Main, Amount: 100}}, "deposit-2", 1000)
	differentTimestamp := NewTransaction(nil, []Output{{Account: 1, SubAccount: Main, Amount: 100}}, "deposit-1", 1001)

	assert.NotEqual(t, base.ID(), differentAmount.ID())
	assert.NotEqual(t, base.ID(), differentRef.ID())
	assert.NotEqual(t, base.ID(), differentTimestamp.ID())
}

func TestTransactionOrderIsSignificant(t *testing.T) {
	outputs := []Output{
		{Account: 1, SubAccount: Main, Amount: 10},
		{Account: 1, SubAccount: Main, Amount: 20},
	}
	reversed := []Output{outputs[1], outputs[0]}

	tx := NewTransaction(nil, outputs, "r", 1000)
	reorderedTx := NewTransaction(nil, reversed, "r", 1000)

	assert.NotEqual(t, tx.ID(), reorderedTx.ID())
}

func TestCreationAndDestructionPredicates(t *testing.T) {
	deposit := NewTransaction(nil, []Output{{Account: 1, Amount: 5}}, "d", 1)
	assert.True(t, deposit.IsCreation())
	assert.False(t, deposit.IsDestruction())

	withdrawal := NewTransaction([]Input{{Output: OutputID{TxID: deposit.ID(), Index: 0}}}, nil, "w", 2)
	assert.False(t, withdrawal.IsCreation())
	assert.True(t, withdrawal.IsDestruction())
}

func TestTransactionAccessorsReturnDefensiveCopies(t *testing.T) {
	tx := NewTransaction(nil, []Output{{Account: 1, Amount: 5}}, "d", 1)

	outputs := tx.Outputs()
	outputs[0].Amount = 999

	assert.Equal(t, Amount(5), tx.Outputs()[0].Amount)
}
