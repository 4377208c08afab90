package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oroshi/ledger/visualize"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <account> <output.png>",
	Short: "Render the transactions touching an account to PNG via Graphviz.",
	Args:  cobra.ExactArgs(2),
	RunE:  dumpRun,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func dumpRun(cmd *cobra.Command, args []string) error {
	account, err := parseAccount(args[0])
	if err != nil {
		return err
	}

	_, store, err := newLedger()
	if err != nil {
		return err
	}

	return visualize.Render(store.Log(), account, args[1])
}
