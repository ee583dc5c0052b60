package cmd

import (
	"fmt"

	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRecurringCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Inspect and run recurring investments",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "run <daily|weekly|monthly|yearly>",
			Short: "Invest every rule of the given frequency",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				freq, err := account.ParseFrequency(args[0])
				if err != nil {
					return err
				}
				rt, done, err := opts.bootstrap(cmd)
				if err != nil {
					return err
				}
				defer done()
				report, err := rt.app.RecurringService.RunDue(cmd.Context(), freq)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				success(out, "%s: %d of %d rules invested", report.Frequency, report.Invested, report.Due)
				for _, f := range report.Failures {
					warn(out, "rule %s on account %s: %s", f.RuleID, f.AccountID, f.Message)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "list <account-id>",
			Short: "List an account's rules",
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
				accounts, err := rt.deps.Uow.AccountRepository()
				if err != nil {
					return err
				}
				acc, err := accounts.Get(cmd.Context(), accountID)
				if err != nil {
					return err
				}
				rules, err := rt.app.RecurringService.List(cmd.Context(), accountID, acc.UserID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, r := range rules {
					fmt.Fprintf(out, "%s\t%s\t%s\n", r.ID, r.Frequency, r.Amount)
				}
				return nil
			},
		},
	)
	return cmd
}
