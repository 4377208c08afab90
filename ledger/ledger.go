// Package ledger implements the business rules layered on top of
// storage.Storage: deposit, withdraw, dispute, resolve and chargeback,
// plus a read-only balance report. It plays the role the teaching
// full node's transaction-validation methods play over its ledger
// map, but every mutation here goes through Storage.Store instead of
// touching a map directly, and coin selection is shared by withdraw
// and dispute instead of being wallet-only.
//
// Every write operation takes an AccountID and a client-supplied
// Reference and returns the Hash of the primary transaction it
// produced. Deposit's primary transaction is the deposit itself.
// Withdraw's primary transaction is the final withdrawal transaction,
// not the exchange transaction that precedes it when the withdrawal
// does not consume its inputs exactly. Dispute, resolve and chargeback
// each produce one transaction that carries the caller's reference,
// so a later call can find it again with GetTxByReference.
//
// Composite operations (withdraw's two commits, in particular) are
// not atomic across the whole operation: a crash between the two
// Store calls leaves the exchange transaction committed and its
// change spendable, which is itself a consistent state. Only a single
// Storage.Store call is guaranteed atomic.
package ledger

import (
	"github.com/pkg/errors"

	"github.com/oroshi/ledger/model"
	"github.com/oroshi/ledger/storage"
)

// Ledger applies deposit/withdraw/dispute/resolve/chargeback business
// rules on top of a Storage backend.
type Ledger struct {
	store storage.Storage
}

// New wraps store in a Ledger.
func New(store storage.Storage) *Ledger {
	return &Ledger{store: store}
}

// Deposit creates an unconditional output of amount on (account,
// Main). It has no inputs, making it a creation transaction.
func (l *Ledger) Deposit(account model.AccountID, reference string, amount model.Amount) (model.Hash, error) {
	tx := model.NewTransaction(nil, []model.Output{
		{Account: account, SubAccount: model.Main, Amount: amount},
	}, reference, 0)

	if err := l.store.Store(tx); err != nil {
		return model.Hash{}, err
	}
	return tx.ID(), nil
}

// Withdraw removes amount from (account, Main). It selects unspent
// outputs with selectCoins; if their total equals amount exactly, it
// commits one destruction transaction consuming them. Otherwise it
// first commits an exchange transaction that splits the selected
// total into amount and change, both back on (account, Main), then
// commits a second transaction consuming only the amount output. The
// returned Hash identifies the final transaction: the single
// destruction transaction, or the second one when change was produced.
func (l *Ledger) Withdraw(account model.AccountID, reference string, amount model.Amount) (model.Hash, error) {
	unspent, err := l.store.GetUnspent(account, model.Main)
	if err != nil {
		return model.Hash{}, err
	}

	selected, total, err := selectCoins(unspent, amount)
	if err != nil {
		return model.Hash{}, err
	}

	inputs := inputsFrom(selected)

	if total == amount {
		tx := model.NewTransaction(inputs, nil, reference, 0)
		if err := l.store.Store(tx); err != nil {
			return model.Hash{}, err
		}
		return tx.ID(), nil
	}

	change, err := total.Sub(amount)
	if err != nil {
		return model.Hash{}, err
	}

	exchange := model.NewTransaction(inputs, []model.Output{
		{Account: account, SubAccount: model.Main, Amount: amount},
		{Account: account, SubAccount: model.Main, Amount: change},
	}, "Exchange for "+reference, 0)
	if err := l.store.Store(exchange); err != nil {
		return model.Hash{}, err
	}

	withdrawal := model.NewTransaction([]model.Input{
		{Output: model.OutputID{TxID: exchange.ID(), Index: 0}},
	}, nil, reference, 0)
	if err := l.store.Store(withdrawal); err != nil {
		return model.Hash{}, err
	}
	return withdrawal.ID(), nil
}

// Dispute moves amount from (account, Main) to (account, Disputed),
// where amount is the total the referenced transaction credited to
// (account, Main). It looks up that transaction by reference, then
// selects amount's worth of the account's current Main coins with
// selectCoins — not literally the referenced transaction's own
// outputs, since those may since have been spent and replaced by
// exchange change. The produced transaction carries reference, so a
// later Resolve or Chargeback on the same reference finds it instead
// of the original deposit.
func (l *Ledger) Dispute(account model.AccountID, reference string) (model.Hash, error) {
	return l.moveSubAccount(account, reference, model.Main, model.Disputed, disputedAmount)
}

// Resolve reverses a Dispute, moving the disputed amount back from
// (account, Disputed) to (account, Main). It looks up the dispute
// transaction by reference — the same reference the original Dispute
// call was given — and reads the amount it moved into Disputed.
func (l *Ledger) Resolve(account model.AccountID, reference string) (model.Hash, error) {
	return l.moveSubAccount(account, reference, model.Disputed, model.Main, subAccountAmount(model.Disputed))
}

// Chargeback terminally moves a disputed amount from (account,
// Disputed) to (account, Chargeback). Like Resolve, it locates the
// amount by reading the dispute transaction found via reference.
func (l *Ledger) Chargeback(account model.AccountID, reference string) (model.Hash, error) {
	return l.moveSubAccount(account, reference, model.Disputed, model.Chargeback, subAccountAmount(model.Disputed))
}

// amountSelector computes, from the transaction located by reference,
// the amount that should move between sub-accounts.
type amountSelector func(account model.AccountID, tx model.Transaction) (model.Amount, error)

func disputedAmount(account model.AccountID, tx model.Transaction) (model.Amount, error) {
	return subAccountAmount(model.Main)(account, tx)
}

func subAccountAmount(sub model.SubAccount) amountSelector {
	return func(account model.AccountID, tx model.Transaction) (model.Amount, error) {
		var total model.Amount
		for _, out := range tx.Outputs() {
			if out.Account != account || out.SubAccount != sub {
				continue
			}
			var err error
			total, err = total.Add(out.Amount)
			if err != nil {
				return 0, err
			}
		}
		return total, nil
	}
}

// moveSubAccount is the shared implementation behind Dispute, Resolve
// and Chargeback: locate the transaction bearing reference, compute
// how much to move with pick, select that much from (account, from),
// and commit a transaction moving it to (account, to) with any
// leftover change returned to (account, from). The new transaction
// carries reference.
func (l *Ledger) moveSubAccount(account model.AccountID, reference string, from, to model.SubAccount, pick amountSelector) (model.Hash, error) {
	located, err := l.store.GetTxByReference(reference)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.Hash{}, errors.Wrapf(ErrUnknownReference, "reference %q", reference)
		}
		return model.Hash{}, err
	}

	amount, err := pick(account, located)
	if err != nil {
		return model.Hash{}, err
	}
	if amount == 0 {
		return model.Hash{}, errors.Wrapf(ErrUnknownReference, "reference %q has no %s amount for account %d", reference, from, account)
	}

	unspent, err := l.store.GetUnspent(account, from)
	if err != nil {
		return model.Hash{}, err
	}

	selected, total, err := selectCoins(unspent, amount)
	if err != nil {
		return model.Hash{}, err
	}

	outputs := []model.Output{{Account: account, SubAccount: to, Amount: amount}}
	if total != amount {
		change, err := total.Sub(amount)
		if err != nil {
			return model.Hash{}, err
		}
		outputs = append(outputs, model.Output{Account: account, SubAccount: from, Amount: change})
	}

	tx := model.NewTransaction(inputsFrom(selected), outputs, reference, 0)
	if err := l.store.Store(tx); err != nil {
		return model.Hash{}, err
	}
	return tx.ID(), nil
}

// GetBalances reports the Main balance of every account storage
// knows about. Disputed and Chargeback funds are never included.
func (l *Ledger) GetBalances() (map[model.AccountID]model.Amount, error) {
	accounts, err := l.store.GetAccounts()
	if err != nil {
		return nil, err
	}

	balances := make(map[model.AccountID]model.Amount)
	for _, ab := range accounts {
		if ab.SubAccount == model.Main {
			balances[ab.Account] = ab.Balance
		}
	}
	return balances, nil
}

// selectCoins accumulates unspent outputs in storage order until
// their total reaches or exceeds amount (first-fit). It returns
// ErrInsufficientBalance if the whole list falls short.
func selectCoins(unspent []storage.UnspentOutput, amount model.Amount) ([]storage.UnspentOutput, model.Amount, error) {
	var selected []storage.UnspentOutput
	var total model.Amount
	for _, u := range unspent {
		selected = append(selected, u)
		var err error
		total, err = total.Add(u.Amount)
		if err != nil {
			return nil, 0, err
		}
		if total >= amount {
			return selected, total, nil
		}
	}
	return nil, 0, errors.Wrapf(ErrInsufficientBalance, "have %d, need %d", total, amount)
}

func inputsFrom(unspent []storage.UnspentOutput) []model.Input {
	inputs := make([]model.Input, len(unspent))
	for i, u := range unspent {
		inputs[i] = model.Input{Output: u.OutputID}
	}
	return inputs
}
