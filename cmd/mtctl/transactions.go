package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/SscSPs/money_tracker/internal/ledger"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func money(t domain.Totals) (string, string, string) {
	return t.Sent.StringFixed(domain.MaxAmountScale),
		t.Received.StringFixed(domain.MaxAmountScale),
		t.Net().StringFixed(domain.MaxAmountScale)
}

func (a *app) transactionsCmd() *cobra.Command {
	var filter ledger.Filter
	var expand string
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Show transactions grouped by person",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if filter.Type != "" {
				t, err := domain.ParseTransactionType(filter.Type)
				if err != nil {
					return err
				}
				filter.Type = string(t)
			}

			d, err := a.client.LoadDashboard(cmd.Context())
			if err != nil {
				return err
			}
			people := d.People
			if filter != (ledger.Filter{}) {
				people = nil
			}
			view := ledger.Build(people, filter.Apply(d.Transactions))
			if expand != "" {
				if view.Group(expand) == nil {
					return fmt.Errorf("no transactions for %q", expand)
				}
				view.Expand(expand)
			}
			return a.renderView(view)
		},
	}
	cmd.Flags().StringVar(&expand, "expand", "", "show the transactions of one person")
	cmd.Flags().StringVar(&filter.Query, "q", "", "match description or person name")
	cmd.Flags().StringVar(&filter.Type, "type", "", "SEND or RECEIVE")
	cmd.Flags().StringVar(&filter.Person, "person", "", "only this person")
	return cmd
}

func (a *app) renderView(v *ledger.View) error {
	if len(v.Groups) == 0 {
		fmt.Fprintln(a.out, "No transactions found")
		return nil
	}
	tw := a.table()
	fmt.Fprintln(tw, "PERSON\tBALANCE\tSENT\tRECEIVED\tNET\tCOUNT")
	for _, g := range v.Groups {
		sent, received, net := money(g.Totals)
		marker := "+"
		if v.Expanded() == g.Person.Name {
			marker = "-"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\t%s\t%d\n", marker, g.Person.Name,
			g.Person.Balance.StringFixed(domain.MaxAmountScale), sent, received, net, g.Totals.Count)
		if v.Expanded() != g.Person.Name {
			continue
		}
		for _, t := range g.Transactions {
			status := ""
			if t.Reversed {
				status = "reversed"
			}
			fmt.Fprintf(tw, "    #%d\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Date.Local().Format(dateLayout),
				t.Type, t.Amount.StringFixed(domain.MaxAmountScale), t.Description, status)
		}
	}
	sent, received, net := money(v.Totals)
	fmt.Fprintf(tw, "TOTAL\t\t%s\t%s\t%s\t%d\n", sent, received, net, v.Totals.Count)
	return tw.Flush()
}

func (a *app) reverseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reverse <id>",
		Short: "Reverse a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}
			yes, _ := cmd.Flags().GetBool("yes")
			ok, err := a.confirm(yes, fmt.Sprintf("Reverse transaction #%d?", id))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(a.out, "Cancelled")
				return nil
			}
			resp, err := a.client.Reverse(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Reversed #%d. %s's balance is now %s\n", resp.Transaction.ID,
				resp.Person.Name, resp.Person.Balance.StringFixed(domain.MaxAmountScale))
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var output, person string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download transactions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var w io.Writer = a.out
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			if err := a.client.Export(cmd.Context(), w, person); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(a.out, "Wrote %s\n", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, stdout when empty")
	cmd.Flags().StringVar(&person, "person", "", "only this person's transactions")
	return cmd
}

func (a *app) summaryCmd() *cobra.Command {
	var from, to string
	var year int
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Totals for a period, or a month-by-month report with --year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if year != 0 {
				return a.monthly(cmd, year)
			}
			s, err := a.client.Summary(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			tw := a.table()
			fmt.Fprintln(tw, "SENT\tRECEIVED\tNET\tCOUNT")
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
				s.Sent.StringFixed(domain.MaxAmountScale),
				s.Received.StringFixed(domain.MaxAmountScale),
				s.Net.StringFixed(domain.MaxAmountScale), s.Count)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "end date (inclusive), YYYY-MM-DD")
	cmd.Flags().IntVar(&year, "year", 0, "report month by month for this year")
	return cmd
}

func (a *app) monthly(cmd *cobra.Command, year int) error {
	if year < 1970 || year > 9999 {
		return fmt.Errorf("year %d is out of range", year)
	}
	months, err := a.client.MonthlyReport(cmd.Context(), year)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "MONTH\tSENT\tRECEIVED\tNET")
	for _, m := range months {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Month,
			m.Sent.StringFixed(domain.MaxAmountScale),
			m.Received.StringFixed(domain.MaxAmountScale),
			m.Net.StringFixed(domain.MaxAmountScale))
	}
	return tw.Flush()
}
