package ledger

import "github.com/pkg/errors"

// Sentinel errors returned by Ledger operations, matching the error
// kinds the core is specified to surface. InputNotFound, DoubleSpend
// and Overflow originate in storage/model and are propagated unchanged
// (see Deposit/Withdraw/...); they are not redeclared here: compare
// against storage.ErrInputNotFound, storage.ErrDoubleSpend and
// model.ErrOverflow.
var (
	// ErrInsufficientBalance means a withdrawal or dispute requested
	// more than the account's available unspent amount on the
	// required sub-account.
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")

	// ErrUnknownReference means dispute/resolve/chargeback cited a
	// reference storage has no record of.
	ErrUnknownReference = errors.New("ledger: unknown reference")

	// ErrHashingFailure is reserved; no normal code path returns it.
	ErrHashingFailure = errors.New("ledger: hashing failure")
)
