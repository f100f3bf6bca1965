package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/spf13/cobra"
)

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}

func (a *app) peopleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "people",
		Short: "List people and their balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			people, err := a.client.People(cmd.Context())
			if err != nil {
				return err
			}
			if len(people) == 0 {
				fmt.Fprintln(a.out, "No people yet. Add one with 'mtctl add <name>'.")
				return nil
			}
			tw := a.table()
			fmt.Fprintln(tw, "NAME\tBALANCE")
			for _, p := range people {
				fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Balance.StringFixed(domain.MaxAmountScale))
			}
			return tw.Flush()
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := domain.NormalizePersonName(args[0])
			if err != nil {
				return err
			}
			p, err := a.client.AddPerson(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added %s\n", p.Name)
			return nil
		},
	}
}

func (a *app) recordCmd(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <name> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := domain.NormalizePersonName(args[0])
			if err != nil {
				return err
			}
			amount, err := domain.ParseAmount(args[1])
			if err != nil {
				return err
			}
			raw, _ := cmd.Flags().GetString("description")
			description, err := domain.NormalizeDescription(raw)
			if err != nil {
				return err
			}

			record := a.client.Send
			if use == "receive" {
				record = a.client.Receive
			}
			resp, err := record(cmd.Context(), name, amount.String(), description)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Recorded #%d %s %s. %s's balance is now %s\n",
				resp.Transaction.ID, resp.Transaction.Type,
				resp.Transaction.Amount.StringFixed(domain.MaxAmountScale),
				resp.Person.Name, resp.Person.Balance.StringFixed(domain.MaxAmountScale))
			return nil
		},
	}
	cmd.Flags().StringP("description", "d", "", "what it was for")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a person and all their transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			ok, err := a.confirm(yes, fmt.Sprintf("Delete %s and all their transactions?", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(a.out, "Cancelled")
				return nil
			}
			if err := a.client.DeletePerson(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}
