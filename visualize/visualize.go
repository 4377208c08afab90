// Package visualize renders the chain of transactions touching one
// account as a graph, the way the teaching blockchain rendered a
// block tree: memviz.Map turns a plain Go value into a dot graph,
// which the dot binary then rasterizes to a PNG.
package visualize

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os/exec"

	"github.com/bradleyjkemp/memviz"
	"github.com/pkg/errors"

	"github.com/oroshi/ledger/model"
)

// outputView is a rendering-friendly copy of model.Output.
type outputView struct {
	account    model.AccountID
	subAccount string
	amount     model.Amount
}

// transactionView is a rendering-friendly copy of model.Transaction,
// the same mirror-type trick the teaching blockchain used to keep
// memviz's rendered graph readable instead of dumping the real type's
// full, noisier shape.
type transactionView struct {
	id        string
	reference string
	timestamp uint64
	inputs    []string
	outputs   []outputView
}

// shorten keeps a hex id readable in a rendered graph.
func shorten(s string) string {
	if len(s) < 12 {
		return s
	}
	return fmt.Sprintf("%s..%s", s[:6], s[len(s)-6:])
}

func toView(tx model.Transaction) transactionView {
	v := transactionView{
		id:        shorten(tx.ID().String()),
		reference: tx.Reference(),
		timestamp: tx.Timestamp(),
	}
	for _, in := range tx.Inputs() {
		v.inputs = append(v.inputs, fmt.Sprintf("%s:%d", shorten(in.Output.TxID.String()), in.Output.Index))
	}
	for _, out := range tx.Outputs() {
		v.outputs = append(v.outputs, outputView{
			account:    out.Account,
			subAccount: out.SubAccount.String(),
			amount:     out.Amount,
		})
	}
	return v
}

// touchesAccount reports whether tx moves any funds into or out of
// account. byID resolves each input's source transaction so spends of
// account's outputs count even when tx itself produces none.
func touchesAccount(tx model.Transaction, account model.AccountID, byID map[model.Hash]model.Transaction) bool {
	for _, out := range tx.Outputs() {
		if out.Account == account {
			return true
		}
	}
	for _, in := range tx.Inputs() {
		source, ok := byID[in.Output.TxID]
		if !ok || int(in.Output.Index) >= len(source.Outputs()) {
			continue
		}
		if source.Outputs()[in.Output.Index].Account == account {
			return true
		}
	}
	return false
}

// Render writes a PNG graph of every transaction in log that touches
// account to outputPath, by shelling out to the dot binary. log is
// expected in commit order, typically storage.Memory.Log().
func Render(log []model.Transaction, account model.AccountID, outputPath string) error {
	byID := make(map[model.Hash]model.Transaction, len(log))
	for _, tx := range log {
		byID[tx.ID()] = tx
	}

	var views []transactionView
	for _, tx := range log {
		if touchesAccount(tx, account, byID) {
			views = append(views, toView(tx))
		}
	}

	buf := &bytes.Buffer{}
	memviz.Map(buf, &views)

	dotPath := outputPath + ".dot"
	if err := ioutil.WriteFile(dotPath, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "writing dot file %q", dotPath)
	}

	cmd := exec.Command("dot", "-Tpng", dotPath, "-o", outputPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "running dot: %s", out)
	}
	return nil
}
