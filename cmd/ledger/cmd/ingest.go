package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/oroshi/ledger/ingest"
	"github.com/oroshi/ledger/ledger"
	"github.com/oroshi/ledger/model"
	"github.com/oroshi/ledger/storage"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.csv>",
	Short: "Run a CSV batch against a fresh ledger and print the balance report.",
	Args:  cobra.ExactArgs(1),
	RunE:  ingestRun,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func ingestRun(cobraCmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrapf(err, "opening %q", args[0])
	}
	defer f.Close()

	store := storage.NewMemory()
	l := ledger.New(store)

	result, err := ingest.Batch(l, f, log, cfg.BatchSize)
	if err != nil {
		return err
	}
	for _, rowErr := range result.Failed {
		log.WithField("row", rowErr.Row).WithError(rowErr.Err).Warn("ingest: row rejected")
	}

	return printBalanceReport(store)
}

// printBalanceReport prints the classic toy-payments-engine balance
// table: available is the Main sub-account, held is Disputed, total
// is their sum, and locked is true once any Chargeback funds exist.
func printBalanceReport(store *storage.Memory) error {
	accounts, err := store.GetAccounts()
	if err != nil {
		return err
	}

	type row struct {
		available, held model.Amount
		locked           bool
	}
	rows := make(map[model.AccountID]*row)
	var ids []model.AccountID
	for _, ab := range accounts {
		r, ok := rows[ab.Account]
		if !ok {
			r = &row{}
			rows[ab.Account] = r
			ids = append(ids, ab.Account)
		}
		switch ab.SubAccount {
		case model.Main:
			r.available = ab.Balance
		case model.Disputed:
			r.held = ab.Balance
		case model.Chargeback:
			r.locked = ab.Balance > 0
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fmt.Println("client,available,held,total,locked")
	for _, account := range ids {
		r := rows[account]
		total, _ := r.available.Add(r.held)
		fmt.Printf("%d,%d,%d,%d,%t\n", account, r.available, r.held, total, r.locked)
	}
	return nil
}
