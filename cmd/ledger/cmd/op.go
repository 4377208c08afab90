package cmd

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/oroshi/ledger/ledger"
	"github.com/oroshi/ledger/model"
)

func init() {
	rootCmd.AddCommand(
		opCmd("deposit", "<account> <reference> <amount>", cobra.ExactArgs(3), runDeposit),
		opCmd("withdraw", "<account> <reference> <amount>", cobra.ExactArgs(3), runWithdraw),
		opCmd("dispute", "<account> <reference>", cobra.ExactArgs(2), runDispute),
		opCmd("resolve", "<account> <reference>", cobra.ExactArgs(2), runResolve),
		opCmd("chargeback", "<account> <reference>", cobra.ExactArgs(2), runChargeback),
	)
}

func opCmd(use, usageArgs string, args cobra.PositionalArgs, run func(*ledger.Ledger, []string) (model.Hash, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " " + usageArgs,
		Short: "Apply a single " + use + " against a ledger replayed from --replay.",
		Args:  args,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			l, _, err := newLedger()
			if err != nil {
				return err
			}
			id, err := run(l, cmdArgs)
			if err != nil {
				return err
			}
			log.WithField("tx", id.String()).Info(use + " applied")
			return nil
		},
	}
}

func parseAccount(s string) (model.AccountID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing account %q", s)
	}
	return model.AccountID(v), nil
}

func parseAmount(s string) (model.Amount, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing amount %q", s)
	}
	return model.Amount(v), nil
}

func runDeposit(l *ledger.Ledger, args []string) (model.Hash, error) {
	account, err := parseAccount(args[0])
	if err != nil {
		return model.Hash{}, err
	}
	amount, err := parseAmount(args[2])
	if err != nil {
		return model.Hash{}, err
	}
	return l.Deposit(account, args[1], amount)
}

func runWithdraw(l *ledger.Ledger, args []string) (model.Hash, error) {
	account, err := parseAccount(args[0])
	if err != nil {
		return model.Hash{}, err
	}
	amount, err := parseAmount(args[2])
	if err != nil {
		return model.Hash{}, err
	}
	return l.Withdraw(account, args[1], amount)
}

func runDispute(l *ledger.Ledger, args []string) (model.Hash, error) {
	account, err := parseAccount(args[0])
	if err != nil {
		return model.Hash{}, err
	}
	return l.Dispute(account, args[1])
}

func runResolve(l *ledger.Ledger, args []string) (model.Hash, error) {
	account, err := parseAccount(args[0])
	if err != nil {
		return model.Hash{}, err
	}
	return l.Resolve(account, args[1])
}

func runChargeback(l *ledger.Ledger, args []string) (model.Hash, error) {
	account, err := parseAccount(args[0])
	if err != nil {
		return model.Hash{}, err
	}
	return l.Chargeback(account, args[1])
}
