package cmd

import (
	"fmt"

	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newAccountCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Open, reconcile and settle accounts",
	}
	cmd.AddCommand(
		newAccountOpenCmd(opts),
		newAccountReconcileCmd(opts),
		newAccountSettleCmd(opts),
	)
	return cmd
}

func newAccountOpenCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "open <user-id>",
		Short: "Open an account with zero balances for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user ID: %w", err)
			}
			rt, done, err := opts.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer done()
			acc, err := rt.app.LedgerService.OpenAccount(cmd.Context(), userID)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "opened account %s for user %s", acc.ID, acc.UserID)
			return nil
		},
	}
}

func newAccountReconcileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <account-id>",
		Short: "Replay the transaction log and compare with stored balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid account ID: %w", err)
			}
			rt, done, err := opts.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer done()
			rec, err := rt.app.LedgerService.Reconcile(cmd.Context(), accountID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if rec.Consistent {
				success(out, "account %s is consistent over %d entries", rec.AccountID, rec.Entries)
			} else {
				warn(out, "account %s drifted: stored %s / %s g, log %s / %s g",
					rec.AccountID,
					rec.Stored.Cash, rec.Stored.Gold,
					rec.Reconstructed.Cash, rec.Reconstructed.Gold)
			}
			return printJSON(out, rec)
		},
	}
}

func newAccountSettleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "settle <account-id> <entry-id> <completed|failed|cancelled>",
		Short: "Settle a pending withdrawal with the payout outcome",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid account ID: %w", err)
			}
			outcome, err := account.ParseStatus(args[2])
			if err != nil {
				return err
			}
			rt, done, err := opts.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer done()
			res, err := rt.app.LedgerService.SettleWithdrawal(cmd.Context(), accountID, args[1], outcome)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "withdrawal %s is %s; cash balance %s",
				res.Entry.ID, res.Entry.Status, res.Account.Cash)
			return nil
		},
	}
}
