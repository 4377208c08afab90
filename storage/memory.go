package storage

import (
	"sort"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"

	"github.com/oroshi/ledger/model"
)

// Memory is the reference Storage implementation: everything lives in
// process memory, guarded by a single RWMutex the way the teaching
// full node guards its ledger map. It is the backend the shared test
// harness in storagetest is written against first.
type Memory struct {
	mu sync.RWMutex

	log   []model.Transaction
	byID  map[model.Hash]model.Transaction
	byRef map[string]model.Hash

	outputs map[model.OutputID]model.Output
	spent   map[model.OutputID]bool

	unspent map[model.FullAccount][]UnspentOutput
	known   map[model.AccountID]bool
}

// NewMemory constructs an empty in-memory ledger store.
func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[model.Hash]model.Transaction),
		byRef:   make(map[string]model.Hash),
		outputs: make(map[model.OutputID]model.Output),
		spent:   make(map[model.OutputID]bool),
		unspent: make(map[model.FullAccount][]UnspentOutput),
		known:   make(map[model.AccountID]bool),
	}
}

// Store implements Storage. It verifies every input before mutating
// anything: if any input is missing or already spent, the call returns
// an error and the store is left exactly as it was.
func (m *Memory) Store(tx model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inputs := tx.Inputs()
	for _, in := range inputs {
		if _, ok := m.outputs[in.Output]; !ok {
			return errors.Wrapf(ErrInputNotFound, "output %+v", in.Output)
		}
		if m.spent[in.Output] {
			return errors.Wrapf(ErrDoubleSpend, "output %+v", in.Output)
		}
	}

	for _, in := range inputs {
		out := m.outputs[in.Output]
		m.spent[in.Output] = true
		m.removeUnspent(model.FullAccount{Account: out.Account, SubAccount: out.SubAccount}, in.Output)
	}

	for i, out := range tx.Outputs() {
		id := model.OutputID{TxID: tx.ID(), Index: uint32(i)}
		m.outputs[id] = out
		key := model.FullAccount{Account: out.Account, SubAccount: out.SubAccount}
		m.unspent[key] = append(m.unspent[key], UnspentOutput{OutputID: id, Amount: out.Amount})
		m.known[out.Account] = true
	}

	m.byRef[tx.Reference()] = tx.ID()
	m.byID[tx.ID()] = tx
	m.log = append(m.log, tx)

	return nil
}

// removeUnspent deletes one OutputID from a (account, sub) unspent
// list, preserving the relative order of the entries that remain.
func (m *Memory) removeUnspent(key model.FullAccount, id model.OutputID) {
	list := m.unspent[key]
	for i, u := range list {
		if u.OutputID == id {
			m.unspent[key] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// GetUnspent implements Storage. The returned slice is deep-copied
// with copier.Copy the way the teaching full node deep-copies its
// ledger before handing it to code that must not see later mutation.
func (m *Memory) GetUnspent(account model.AccountID, sub model.SubAccount) ([]UnspentOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.unspent[model.FullAccount{Account: account, SubAccount: sub}]
	var out []UnspentOutput
	if err := copier.Copy(&out, &list); err != nil {
		return nil, errors.Wrap(err, "copying unspent outputs")
	}
	return out, nil
}

// GetTx implements Storage.
func (m *Memory) GetTx(id model.Hash) (model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tx, ok := m.byID[id]
	if !ok {
		return model.Transaction{}, errors.Wrapf(ErrNotFound, "tx %x", id)
	}
	return tx, nil
}

// GetTxByReference implements Storage, returning the most recently
// stored transaction bearing reference (write-last-wins).
func (m *Memory) GetTxByReference(reference string) (model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byRef[reference]
	if !ok {
		return model.Transaction{}, errors.Wrapf(ErrNotFound, "reference %q", reference)
	}
	return m.byID[id], nil
}

// GetAccounts implements Storage.
func (m *Memory) GetAccounts() ([]AccountBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	accounts := make([]model.AccountID, 0, len(m.known))
	for a := range m.known {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	balances := make([]AccountBalance, 0, len(accounts)*len(model.SubAccountOrder))
	for _, account := range accounts {
		for _, sub := range model.SubAccountOrder {
			list := m.unspent[model.FullAccount{Account: account, SubAccount: sub}]
			var total model.Amount
			for _, u := range list {
				var err error
				total, err = total.Add(u.Amount)
				if err != nil {
					return nil, errors.Wrapf(err, "summing balance for account %d sub-account %s", account, sub)
				}
			}
			balances = append(balances, AccountBalance{Account: account, SubAccount: sub, Balance: total})
		}
	}
	return balances, nil
}

// Log returns a copy of every transaction ever stored, in commit
// order. Transaction is an immutable value type, so a shallow slice
// copy is enough; copier.Copy is reserved for the exported-field
// value types above (Transaction's fields are private). It exists
// for debugging and the visualize package; the Ledger never calls it.
func (m *Memory) Log() []model.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]model.Transaction(nil), m.log...)
}
