// Package model defines the value objects of the UTXO ledger: amounts,
// accounts, outputs and the content-addressed Transaction that ties
// them together. Nothing here talks to storage; it is pure data plus
// the hashing rules that give a Transaction its identity.
package model

import "time"

// OutputID identifies an Output by the transaction that produced it
// and that output's ordinal position in the transaction's output list.
type OutputID struct {
	TxID  Hash
	Index uint32
}

// Output is a tuple (account, sub-account, amount) produced by a
// transaction. It has no identity of its own; its identity is the
// OutputID of the slot it occupies in its producing transaction.
type Output struct {
	Account    AccountID
	SubAccount SubAccount
	Amount     Amount
}

func (o Output) canonicalBytes() []byte {
	data := make([]byte, 0, 8+1+8)
	data = append(data, uint64LE(uint64(o.Account))...)
	data = append(data, byte(o.SubAccount))
	data = append(data, uint64LE(uint64(o.Amount))...)
	return data
}

// Input spends a previously produced Output by referring to its
// OutputID. A transaction with no inputs is a creation (deposit); one
// with no outputs is a destruction (withdrawal).
type Input struct {
	Output OutputID
}

func (in Input) canonicalBytes() []byte {
	data := make([]byte, 0, HashSize+4)
	data = append(data, in.Output.TxID[:]...)
	data = append(data, uint32LE(in.Output.Index)...)
	return data
}

// Transaction is the immutable unit of the ledger. Its ID is a content
// hash over its inputs, outputs, reference and timestamp — see NewTransaction.
type Transaction struct {
	inputs    []Input
	outputs   []Output
	reference string
	timestamp uint64
	id        Hash
}

// NewTransaction builds an immutable Transaction and computes its
// identity hash. A zero timestamp is replaced with the current time in
// microseconds since the Unix epoch; a non-zero timestamp is used as
// given, which is how tests get deterministic ids.
func NewTransaction(inputs []Input, outputs []Output, reference string, timestampMicros uint64) Transaction {
	if timestampMicros == 0 {
		timestampMicros = uint64(time.Now().UnixMicro())
	}

	tx := Transaction{
		inputs:    append([]Input(nil), inputs...),
		outputs:   append([]Output(nil), outputs...),
		reference: reference,
		timestamp: timestampMicros,
	}
	tx.id = tx.computeID()
	return tx
}

// computeID implements the TxId derivation:
//
//	TxId = h( h(canonical(inputs)) ‖ h(canonical(outputs))
//	         ‖ h(reference_utf8) ‖ h(timestamp_le_u64) )
func (t Transaction) computeID() Hash {
	var inputBytes []byte
	for _, in := range t.inputs {
		inputBytes = append(inputBytes, in.canonicalBytes()...)
	}
	var outputBytes []byte
	for _, out := range t.outputs {
		outputBytes = append(outputBytes, out.canonicalBytes()...)
	}

	inputsDigest := doubleSHA256(inputBytes)
	outputsDigest := doubleSHA256(outputBytes)
	referenceDigest := doubleSHA256([]byte(t.reference))
	timestampDigest := doubleSHA256(uint64LE(t.timestamp))

	final := make([]byte, 0, 4*HashSize)
	final = append(final, inputsDigest[:]...)
	final = append(final, outputsDigest[:]...)
	final = append(final, referenceDigest[:]...)
	final = append(final, timestampDigest[:]...)
	return doubleSHA256(final)
}

// ID returns the transaction's cached identity hash.
func (t Transaction) ID() Hash { return t.id }

// Inputs returns the transaction's inputs in stored order. The slice is
// a defensive copy; mutating it does not affect the transaction.
func (t Transaction) Inputs() []Input {
	return append([]Input(nil), t.inputs...)
}

// Outputs returns the transaction's outputs in stored order. The slice
// is a defensive copy; mutating it does not affect the transaction.
func (t Transaction) Outputs() []Output {
	return append([]Output(nil), t.outputs...)
}

// Reference returns the client-supplied reference string.
func (t Transaction) Reference() string { return t.reference }

// Timestamp returns the transaction's timestamp in microseconds since
// the Unix epoch.
func (t Transaction) Timestamp() uint64 { return t.timestamp }

// IsCreation reports whether the transaction has no inputs (a deposit).
func (t Transaction) IsCreation() bool { return len(t.inputs) == 0 }

// IsDestruction reports whether the transaction has no outputs (a
// withdrawal or the terminal leg of an exchange).
func (t Transaction) IsDestruction() bool { return len(t.outputs) == 0 }
