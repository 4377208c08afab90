// Package storage defines the contract the Ledger uses to persist and
// query transactions, independent of any particular backend. It plays
// the same role here that the network package's Send/Listen interface
// plays for the teaching blockchain: a narrow seam the business logic
// depends on instead of a concrete implementation.
package storage

import (
	"github.com/pkg/errors"

	"github.com/oroshi/ledger/model"
)

// Sentinel errors returned by Storage implementations. Wrap them with
// github.com/pkg/errors for call-site context and compare with
// errors.Is.
var (
	// ErrInputNotFound means a transaction referenced an OutputId that
	// no stored transaction ever produced.
	ErrInputNotFound = errors.New("storage: input not found")
	// ErrDoubleSpend means a transaction referenced an OutputId that a
	// previously stored transaction already spent.
	ErrDoubleSpend = errors.New("storage: output already spent")
	// ErrNotFound means a lookup by TxId or reference found nothing.
	ErrNotFound = errors.New("storage: not found")
)

// UnspentOutput is one entry of a GetUnspent result: an output's
// identity and the amount it carries.
type UnspentOutput struct {
	OutputID model.OutputID
	Amount   model.Amount
}

// AccountBalance is one entry of a GetAccounts result.
type AccountBalance struct {
	Account    model.AccountID
	SubAccount model.SubAccount
	Balance    model.Amount
}

// Storage is the contract a ledger backend must satisfy. Store must be
// atomic: either every input is marked spent and every output becomes
// unspent, or nothing changes. Implementations must preserve the
// "most recent store wins" rule for GetTxByReference, and the ordering
// guarantees documented on GetUnspent and GetAccounts below.
type Storage interface {
	// Store commits tx. It fails with ErrInputNotFound or
	// ErrDoubleSpend without mutating any state if any input is
	// invalid.
	Store(tx model.Transaction) error

	// GetUnspent returns the unspent outputs of (account, sub) in the
	// order they were produced (oldest first). Coin selection depends
	// on this order.
	GetUnspent(account model.AccountID, sub model.SubAccount) ([]UnspentOutput, error)

	// GetTx looks up a transaction by its identity hash.
	GetTx(id model.Hash) (model.Transaction, error)

	// GetTxByReference returns the most recently stored transaction
	// bearing the given reference.
	GetTxByReference(reference string) (model.Transaction, error)

	// GetAccounts returns every (account, sub-account, balance) triple
	// for every account that has ever received an output, ordered by
	// ascending AccountID and then by the fixed sub-account order
	// (Main, Disputed, Chargeback).
	GetAccounts() ([]AccountBalance, error)
}
