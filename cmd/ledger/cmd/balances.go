package cmd

import (
	"github.com/spf13/cobra"
)

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Print the current balance report, optionally after replaying --replay.",
	Args:  cobra.NoArgs,
	RunE:  balancesRun,
}

func init() {
	rootCmd.AddCommand(balancesCmd)
}

func balancesRun(cmd *cobra.Command, args []string) error {
	_, store, err := newLedger()
	if err != nil {
		return err
	}
	return printBalanceReport(store)
}
