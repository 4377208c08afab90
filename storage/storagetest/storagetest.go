// Package storagetest is a reusable test suite for storage.Storage
// implementations. Adding a new backend should require writing zero new
// tests: call Run from that backend's own _test.go with a constructor.
package storagetest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oroshi/ledger/model"
	"github.com/oroshi/ledger/storage"
)

// Run exercises every universal storage property (P1, P2, P4, P6 of the
// ledger's testable-properties list) against a freshly constructed
// backend. newStore is called once per sub-test so each gets an empty store.
func Run(t *testing.T, newStore func() storage.Storage) {
	t.Run("NoDoubleSpend", func(t *testing.T) { testNoDoubleSpend(t, newStore()) })
	t.Run("InputNotFoundRejected", func(t *testing.T) { testInputNotFound(t, newStore()) })
	t.Run("EmptyInputsIsCreation", func(t *testing.T) { testEmptyInputs(t, newStore()) })
	t.Run("EmptyOutputsIsDestruction", func(t *testing.T) { testEmptyOutputs(t, newStore()) })
	t.Run("ReferenceLookupRecency", func(t *testing.T) { testReferenceRecency(t, newStore()) })
	t.Run("UnspentOrderIsInsertionOrder", func(t *testing.T) { testUnspentOrder(t, newStore()) })
	t.Run("AccountsOrderedAndStable", func(t *testing.T) { testAccountsOrder(t, newStore()) })
	t.Run("BalanceLaw", func(t *testing.T) { testBalanceLaw(t, newStore()) })
}

func deposit(account model.AccountID, ref string, amount model.Amount, ts uint64) model.Transaction {
	return model.NewTransaction(nil, []model.Output{{Account: account, SubAccount: model.Main, Amount: amount}}, ref, ts)
}

func testNoDoubleSpend(t *testing.T, s storage.Storage) {
	d := deposit(1, "d1", 100, 1)
	require.NoError(t, s.Store(d))

	spend := model.NewTransaction([]model.Input{{Output: model.OutputID{TxID: d.ID(), Index: 0}}}, nil, "w1", 2)
	require.NoError(t, s.Store(spend))

	again := model.NewTransaction([]model.Input{{Output: model.OutputID{TxID: d.ID(), Index: 0}}}, nil, "w2", 3)
	err := s.Store(again)
	require.ErrorIs(t, err, storage.ErrDoubleSpend)
}

func testInputNotFound(t *testing.T, s storage.Storage) {
	phantom := model.NewTransaction([]model.Input{{Output: model.OutputID{TxID: model.Hash{1}, Index: 0}}}, nil, "w1", 1)
	err := s.Store(phantom)
	require.ErrorIs(t, err, storage.ErrInputNotFound)
}

func testEmptyInputs(t *testing.T, s storage.Storage) {
	d := deposit(1, "d1", 50, 1)
	require.NoError(t, s.Store(d))

	unspent, err := s.GetUnspent(1, model.Main)
	require.NoError(t, err)
	require.Len(t, unspent, 1)
	require.Equal(t, model.Amount(50), unspent[0].Amount)
}

func testEmptyOutputs(t *testing.T, s storage.Storage) {
	d := deposit(1, "d1", 50, 1)
	require.NoError(t, s.Store(d))

	w := model.NewTransaction([]model.Input{{Output: model.OutputID{TxID: d.ID(), Index: 0}}}, nil, "w1", 2)
	require.NoError(t, s.Store(w))

	unspent, err := s.GetUnspent(1, model.Main)
	require.NoError(t, err)
	require.Empty(t, unspent)
}

func testReferenceRecency(t *testing.T, s storage.Storage) {
	first := deposit(1, "same", 10, 1)
	require.NoError(t, s.Store(first))
	second := deposit(1, "same", 7, 2)
	require.NoError(t, s.Store(second))

	got, err := s.GetTxByReference("same")
	require.NoError(t, err)
	require.Equal(t, second.ID(), got.ID())
}

func testUnspentOrder(t *testing.T, s storage.Storage) {
	a := deposit(1, "a", 10, 1)
	b := deposit(1, "b", 5, 2)
	c := deposit(1, "c", 4, 3)
	require.NoError(t, s.Store(a))
	require.NoError(t, s.Store(b))
	require.NoError(t, s.Store(c))

	unspent, err := s.GetUnspent(1, model.Main)
	require.NoError(t, err)
	require.Len(t, unspent, 3)
	require.Equal(t, a.ID(), unspent[0].OutputID.TxID)
	require.Equal(t, b.ID(), unspent[1].OutputID.TxID)
	require.Equal(t, c.ID(), unspent[2].OutputID.TxID)
}

func testAccountsOrder(t *testing.T, s storage.Storage) {
	ids := []model.AccountID{5, 2, 8, 1}
	for i, id := range ids {
		require.NoError(t, s.Store(deposit(id, "d", model.Amount(100+i), uint64(i+1))))
	}

	accounts, err := s.GetAccounts()
	require.NoError(t, err)

	var seenAccounts []model.AccountID
	for _, ab := range accounts {
		if len(seenAccounts) == 0 || seenAccounts[len(seenAccounts)-1] != ab.Account {
			seenAccounts = append(seenAccounts, ab.Account)
		}
	}
	require.Equal(t, []model.AccountID{1, 2, 5, 8}, seenAccounts)

	// Every account reports all three sub-accounts, in fixed order.
	require.Len(t, accounts, len(ids)*3)
	for i := 0; i < len(accounts); i += 3 {
		require.Equal(t, model.Main, accounts[i].SubAccount)
		require.Equal(t, model.Disputed, accounts[i+1].SubAccount)
		require.Equal(t, model.Chargeback, accounts[i+2].SubAccount)
	}
}

func testBalanceLaw(t *testing.T, s storage.Storage) {
	d1 := deposit(1, "d1", 100, 1)
	require.NoError(t, s.Store(d1))
	w := model.NewTransaction([]model.Input{{Output: model.OutputID{TxID: d1.ID(), Index: 0}}},
		[]model.Output{{Account: 1, SubAccount: model.Main, Amount: 40}}, "w1", 2)
	require.NoError(t, s.Store(w))

	unspent, err := s.GetUnspent(1, model.Main)
	require.NoError(t, err)

	var total model.Amount
	for _, u := range unspent {
		total, _ = total.Add(u.Amount)
	}
	require.Equal(t, model.Amount(40), total)
}
