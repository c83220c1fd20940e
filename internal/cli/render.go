package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"oink/internal/core"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderAccounts(w io.Writer, accts []core.Account) error {
	if len(accts) == 0 {
		_, err := fmt.Fprintln(w, "No accounts.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNUMBER\tNAME\tBALANCE\tCREATED")
	for _, a := range accts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			a.ID, a.Number, a.Name, a.Balance, a.CreatedAt.Format(core.DateLayout))
	}
	return tw.Flush()
}

func renderCategories(w io.Writer, cats []core.Category) error {
	if len(cats) == 0 {
		_, err := fmt.Fprintln(w, "No categories.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, c := range cats {
		fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Name)
	}
	return tw.Flush()
}

func renderTransactions(w io.Writer, txs []core.Transaction) error {
	if len(txs) == 0 {
		_, err := fmt.Fprintln(w, "No transactions.")
		return err
	}
	tw := newTable(w)
	writeTransactions(tw, "", txs)
	return tw.Flush()
}

func writeTransactions(w io.Writer, indent string, txs []core.Transaction) {
	fmt.Fprintf(w, "%sID\tDATE\tACCOUNT\tTYPE\tAMOUNT\tCATEGORY\tDESCRIPTION\n", indent)
	for _, t := range txs {
		category := t.CategoryName
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(w, "%s%d\t%s\t%s\t%s\t%s\t%s\t%s\n", indent,
			t.ID,
			t.CreatedAt.Format(core.TimestampLayout),
			t.AccountName,
			t.Type,
			t.Type.Effect(t.Amount).Signed(),
			category,
			t.Description)
	}
}

func renderBudgets(w io.Writer, budgets []core.EvaluatedBudget) error {
	if len(budgets) == 0 {
		_, err := fmt.Fprintln(w, "No budgets.")
		return err
	}
	tw := newTable(w)
	writeBudgets(tw, "", budgets)
	return tw.Flush()
}

func writeBudgets(w io.Writer, indent string, budgets []core.EvaluatedBudget) {
	fmt.Fprintf(w, "%sID\tPERIOD\tACCOUNT\tCATEGORY\tAMOUNT\tREMAINING\t\n", indent)
	for _, b := range budgets {
		flag := ""
		if b.Overspent() {
			flag = "OVERSPENT"
		}
		fmt.Fprintf(w, "%s%d\t%s\t%s\t%s\t%s\t%s\t%s\n", indent,
			b.ID, b.Period, b.AccountName, b.CategoryName, b.Amount, b.Balance, flag)
	}
}

func renderSnapshot(w io.Writer, s *core.Snapshot) error {
	from, to := s.From, s.To
	if from == "" {
		from = "beginning"
	}
	if to == "" {
		to = "now"
	}
	fmt.Fprintf(w, "Report generated %s, %s to %s\n",
		s.GeneratedAt.Format(core.TimestampLayout), from, to)
	if len(s.Accounts) == 0 {
		_, err := fmt.Fprintln(w, "No accounts.")
		return err
	}

	for _, a := range s.Accounts {
		fmt.Fprintf(w, "\n%s (#%d, number %s, opened %s)\n",
			a.Name, a.ID, a.Number, a.CreatedAt.Format(core.DateLayout))
		fmt.Fprintf(w, "  Balance: %s  Income: %s  Expenses: %s  Net: %s\n",
			a.Balance, a.TotalIncome, a.TotalExpenses, a.NetRevenue().Signed())

		tw := newTable(w)
		if len(a.Transactions) > 0 {
			fmt.Fprintln(tw, "\n  Transactions")
			writeTransactions(tw, "  ", a.Transactions)
		}
		if len(a.Budgets) > 0 {
			fmt.Fprintln(tw, "\n  Budgets")
			writeBudgets(tw, "  ", a.Budgets)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
