package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oroshi/ledger/ledger"
	"github.com/oroshi/ledger/model"
	"github.com/oroshi/ledger/storage"
)

func newLedger() (*ledger.Ledger, storage.Storage) {
	s := storage.NewMemory()
	return ledger.New(s), s
}

func mainBalance(t *testing.T, l *ledger.Ledger, account model.AccountID) model.Amount {
	balances, err := l.GetBalances()
	require.NoError(t, err)
	return balances[account]
}

// S1: a deposit credits the account's Main balance.
func TestDepositCreditsMain(t *testing.T) {
	l, _ := newLedger()
	_, err := l.Deposit(1, "d1", 100)
	require.NoError(t, err)
	require.Equal(t, model.Amount(100), mainBalance(t, l, 1))
}

// S2: a withdrawal that exactly matches a single unspent output
// consumes it without producing an exchange transaction.
func TestWithdrawExactMatch(t *testing.T) {
	l, s := newLedger()
	_, err := l.Deposit(1, "d1", 100)
	require.NoError(t, err)

	_, err = l.Withdraw(1, "w1", 100)
	require.NoError(t, err)
	require.Equal(t, model.Amount(0), mainBalance(t, l, 1))

	unspent, err := s.GetUnspent(1, model.Main)
	require.NoError(t, err)
	require.Empty(t, unspent)
}

// S3: a withdrawal smaller than the selected coins produces an
// exchange transaction and leaves the change spendable on Main.
func TestWithdrawWithChange(t *testing.T) {
	l, s := newLedger()
	_, err := l.Deposit(1, "d1", 100)
	require.NoError(t, err)

	withdrawalID, err := l.Withdraw(1, "w1", 40)
	require.NoError(t, err)
	require.Equal(t, model.Amount(60), mainBalance(t, l, 1))

	withdrawalTx, err := s.GetTx(withdrawalID)
	require.NoError(t, err)
	require.Len(t, withdrawalTx.Inputs(), 1)
	require.Empty(t, withdrawalTx.Outputs())

	unspent, err := s.GetUnspent(1, model.Main)
	require.NoError(t, err)
	require.Len(t, unspent, 1)
	require.Equal(t, model.Amount(60), unspent[0].Amount)
}

// Withdrawing more than the account's Main balance fails without
// mutating storage.
func TestWithdrawInsufficientBalance(t *testing.T) {
	l, s := newLedger()
	_, err := l.Deposit(1, "d1", 50)
	require.NoError(t, err)

	_, err = l.Withdraw(1, "w1", 100)
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	require.Equal(t, model.Amount(50), mainBalance(t, l, 1))
	unspent, err := s.GetUnspent(1, model.Main)
	require.NoError(t, err)
	require.Len(t, unspent, 1)
}

// Disputing a deposit whose own output is still unspent moves its
// funds from Main to Disputed and excludes them from GetBalances. See
// TestDisputeAfterShuffle for the S4 case where the disputed
// reference's own output has already been spent and replaced.
func TestDisputeMovesFundsOutOfMain(t *testing.T) {
	l, s := newLedger()
	_, err := l.Deposit(1, "d1", 100)
	require.NoError(t, err)

	_, err = l.Dispute(1, "d1")
	require.NoError(t, err)

	require.Equal(t, model.Amount(0), mainBalance(t, l, 1))

	disputed, err := s.GetUnspent(1, model.Disputed)
	require.NoError(t, err)
	require.Len(t, disputed, 1)
	require.Equal(t, model.Amount(100), disputed[0].Amount)
}

// S4 (dispute after shuffle): a withdrawal between two deposits
// consumes and replaces both of an account's original outputs with an
// exchange transaction's change and a later deposit, so by the time
// "b" is disputed, none of the account's current Main UTXOs are "b"'s
// own output. Dispute must still find 5 by reading "b"'s deposit
// transaction's amount and select that much from whatever Main UTXOs
// exist now, not from "b"'s (already spent) output directly.
func TestDisputeAfterShuffle(t *testing.T) {
	l, s := newLedger()
	_, err := l.Deposit(1, "a", 10)
	require.NoError(t, err)
	_, err = l.Deposit(1, "b", 5)
	require.NoError(t, err)
	_, err = l.Withdraw(1, "w1", 11)
	require.NoError(t, err)
	_, err = l.Deposit(1, "c", 4)
	require.NoError(t, err)

	_, err = l.Dispute(1, "b")
	require.NoError(t, err)

	require.Equal(t, model.Amount(3), mainBalance(t, l, 1))

	disputed, err := s.GetUnspent(1, model.Disputed)
	require.NoError(t, err)
	require.Len(t, disputed, 1)
	require.Equal(t, model.Amount(5), disputed[0].Amount)
}

// S5: resolving a dispute moves the funds back to Main.
func TestResolveReturnsFundsToMain(t *testing.T) {
	l, s := newLedger()
	_, err := l.Deposit(1, "d1", 100)
	require.NoError(t, err)
	_, err = l.Dispute(1, "d1")
	require.NoError(t, err)

	_, err = l.Resolve(1, "d1")
	require.NoError(t, err)

	require.Equal(t, model.Amount(100), mainBalance(t, l, 1))
	disputed, err := s.GetUnspent(1, model.Disputed)
	require.NoError(t, err)
	require.Empty(t, disputed)
}

// S6: a chargeback terminally moves disputed funds to Chargeback and
// they never return to Main.
func TestChargebackMovesFundsToChargeback(t *testing.T) {
	l, s := newLedger()
	_, err := l.Deposit(1, "d1", 100)
	require.NoError(t, err)
	_, err = l.Dispute(1, "d1")
	require.NoError(t, err)

	_, err = l.Chargeback(1, "d1")
	require.NoError(t, err)

	require.Equal(t, model.Amount(0), mainBalance(t, l, 1))
	chargeback, err := s.GetUnspent(1, model.Chargeback)
	require.NoError(t, err)
	require.Len(t, chargeback, 1)
	require.Equal(t, model.Amount(100), chargeback[0].Amount)
}

// S7: disputing, resolving or charging back an unknown reference
// fails without mutating any balance.
func TestDisputeUnknownReference(t *testing.T) {
	l, _ := newLedger()
	_, err := l.Dispute(1, "nope")
	require.ErrorIs(t, err, ledger.ErrUnknownReference)
}

func TestResolveUnknownReference(t *testing.T) {
	l, _ := newLedger()
	_, err := l.Resolve(1, "nope")
	require.ErrorIs(t, err, ledger.ErrUnknownReference)
}

func TestChargebackUnknownReference(t *testing.T) {
	l, _ := newLedger()
	_, err := l.Chargeback(1, "nope")
	require.ErrorIs(t, err, ledger.ErrUnknownReference)
}

// Dispute, resolve and chargeback all key off the caller's reference,
// which each step reuses, so the chain can be followed end to end by
// one reference string.
func TestDisputeResolveChargebackReuseReference(t *testing.T) {
	l, s := newLedger()
	_, err := l.Deposit(7, "ref-x", 30)
	require.NoError(t, err)

	disputeID, err := l.Dispute(7, "ref-x")
	require.NoError(t, err)

	byRef, err := s.GetTxByReference("ref-x")
	require.NoError(t, err)
	require.Equal(t, disputeID, byRef.ID())

	chargebackID, err := l.Chargeback(7, "ref-x")
	require.NoError(t, err)

	byRef, err = s.GetTxByReference("ref-x")
	require.NoError(t, err)
	require.Equal(t, chargebackID, byRef.ID())
}

// Disputing only part of an account's Main balance leaves the
// remainder spendable on Main. First-fit selects d1's own 100 output
// exactly, so no change output is produced.
func TestDisputePartialBalanceLeavesRemainderOnMain(t *testing.T) {
	l, s := newLedger()
	_, err := l.Deposit(1, "d1", 100)
	require.NoError(t, err)
	_, err = l.Deposit(1, "d2", 50)
	require.NoError(t, err)

	_, err = l.Dispute(1, "d1")
	require.NoError(t, err)

	// Only d1's 100 moved; d2's 50 remains untouched on Main.
	require.Equal(t, model.Amount(50), mainBalance(t, l, 1))
	disputed, err := s.GetUnspent(1, model.Disputed)
	require.NoError(t, err)
	require.Len(t, disputed, 1)
	require.Equal(t, model.Amount(100), disputed[0].Amount)
}
