// Command ledger is the CLI driver for the UTXO ledger engine: ingest
// a CSV batch, run one operation interactively, print a balance
// report, watch a live dashboard, or dump a graph of the transactions
// touching an account.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/oroshi/ledger/cmd/ledger/cmd"
)

func main() {
	log := logrus.New()
	os.Exit(cmd.Execute(log))
}
