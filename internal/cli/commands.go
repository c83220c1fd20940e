package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"oink/internal/core"
	"oink/internal/services"
	"oink/internal/storage"
)

func accountAdd(ctx context.Context, a *App, args []string) error {
	fs := a.flagSet("account add")
	number := fs.String("number", "", "account number (positive integer)")
	name := fs.String("name", "", "unique account name")
	balance := fs.String("balance", "0", "starting balance")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs("account add", rest, 0, "-number N -name NAME [-balance AMOUNT]"); err != nil {
		return err
	}
	start, err := core.ParseMoney(*balance)
	if err != nil {
		return err
	}
	acct, err := a.Accounts.Create(ctx, *number, *name, start)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Created account %s (#%d, number %s) with balance %s\n",
		acct.Name, acct.ID, acct.Number, acct.Balance)
	return nil
}

func accountList(ctx context.Context, a *App, args []string) error {
	if err := exactArgs("account list", args, 0, ""); err != nil {
		return err
	}
	accts, err := a.Accounts.List(ctx)
	if err != nil {
		return err
	}
	return renderAccounts(a.Out, accts)
}

func accountShow(ctx context.Context, a *App, args []string) error {
	if err := exactArgs("account show", args, 1, "ACCOUNT"); err != nil {
		return err
	}
	ref, err := ParseAccountRef(args[0])
	if err != nil {
		return err
	}
	acct, err := a.Accounts.Get(ctx, ref)
	if err != nil {
		return err
	}
	return renderAccounts(a.Out, []core.Account{acct})
}

func accountBalance(ctx context.Context, a *App, args []string) error {
	if err := exactArgs("account balance", args, 1, "ACCOUNT"); err != nil {
		return err
	}
	ref, err := ParseAccountRef(args[0])
	if err != nil {
		return err
	}
	bal, err := a.Accounts.GetBalance(ctx, ref)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, bal)
	return nil
}

func accountSetBalance(ctx context.Context, a *App, args []string) error {
	if err := exactArgs("account set-balance", args, 2, "ACCOUNT AMOUNT"); err != nil {
		return err
	}
	ref, err := ParseAccountRef(args[0])
	if err != nil {
		return err
	}
	amount, err := core.ParseMoney(args[1])
	if err != nil {
		return err
	}
	if err := a.Accounts.SetBalance(ctx, ref, amount); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Balance of %s set to %s\n", ref, amount)
	return nil
}

func accountRename(ctx context.Context, a *App, args []string) error {
	if err := exactArgs("account rename", args, 2, "ACCOUNT NEW_NAME"); err != nil {
		return err
	}
	ref, err := ParseAccountRef(args[0])
	if err != nil {
		return err
	}
	acct, err := a.Accounts.Get(ctx, ref)
	if err != nil {
		return err
	}
	renamed, err := a.Accounts.Rename(ctx, acct.ID, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Renamed account #%d from %s to %s\n", renamed.ID, acct.Name, renamed.Name)
	return nil
}

func accountDelete(ctx context.Context, a *App, args []string) error {
	if err := exactArgs("account delete", args, 1, "ACCOUNT"); err != nil {
		return err
	}
	ref, err := ParseAccountRef(args[0])
	if err != nil {
		return err
	}
	acct, err := a.Accounts.Get(ctx, ref)
	if err != nil {
		return err
	}
	if err := a.Accounts.Delete(ctx, acct.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Deleted account %s (#%d) with its transactions and budgets\n", acct.Name, acct.ID)
	return nil
}

func categoryAdd(ctx context.Context, a *App, args []string) error {
	if err := exactArgs("category add", args, 1, "NAME"); err != nil {
		return err
	}
	c, err := a.Categories.Create(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Created category %s (#%d)\n", c.Name, c.ID)
	return nil
}

func categoryList(ctx context.Context, a *App, args []string) error {
	if err := exactArgs("category list", args, 0, ""); err != nil {
		return err
	}
	cats, err := a.Categories.List(ctx)
	if err != nil {
		return err
	}
	return renderCategories(a.Out, cats)
}

func categoryRename(ctx context.Context, a *App, args []string) error {
	if err := exactArgs("category rename", args, 2, "CATEGORY NEW_NAME"); err != nil {
		return err
	}
	ref, err := ParseCategoryRef(args[0])
	if err != nil {
		return err
	}
	c, err := a.Categories.Rename(ctx, ref, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Renamed category #%d to %s\n", c.ID, c.Name)
	return nil
}

func categoryDelete(ctx context.Context, a *App, args []string) error {
	if err := exactArgs("category delete", args, 1, "CATEGORY"); err != nil {
		return err
	}
	ref, err := ParseCategoryRef(args[0])
	if err != nil {
		return err
	}
	c, err := a.Categories.Get(ctx, ref)
	if err != nil {
		return err
	}
	if err := a.Categories.Delete(ctx, c.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Deleted category %s (#%d) with its transactions and budgets\n", c.Name, c.ID)
	return nil
}

func txAdd(ctx context.Context, a *App, args []string) error {
	return recordTransaction(ctx, a, "tx add", nil, args)
}

func txTyped(t core.TransactionType) command {
	verb := "deposit"
	if t == core.Withdrawal {
		verb = "withdraw"
	}
	return func(ctx context.Context, a *App, args []string) error {
		return recordTransaction(ctx, a, "tx "+verb, &t, args)
	}
}

func recordTransaction(ctx context.Context, a *App, name string, fixed *core.TransactionType, args []string) error {
	fs := a.flagSet(name)
	account := fs.String("account", "", "account id or name")
	typ := fs.String("type", "", "deposit or withdrawal")
	amount := fs.String("amount", "", "amount, e.g. 12.50")
	desc := fs.String("desc", "", "description")
	category := fs.String("category", "", "category id or name")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	usage := "-account ACCOUNT -amount AMOUNT [-desc TEXT] [-category CATEGORY]"
	if fixed == nil {
		usage = "-account ACCOUNT -type TYPE -amount AMOUNT [-desc TEXT] [-category CATEGORY]"
	}
	if err := exactArgs(name, rest, 0, usage); err != nil {
		return err
	}
	if *account == "" || *amount == "" {
		return usagef("oink %s %s", name, usage)
	}

	p := services.RecordParams{Description: *desc}
	if p.Account, err = ParseAccountRef(*account); err != nil {
		return err
	}
	if fixed != nil {
		p.Type = *fixed
	} else if p.Type, err = core.ParseTransactionType(*typ); err != nil {
		return err
	}
	if p.Amount, err = core.ParseMoney(*amount); err != nil {
		return err
	}
	if p.Category, err = parseOptionalCategory(*category); err != nil {
		return err
	}

	tx, err := a.Ledger.Record(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Recorded %s #%d of %s on %s\n", tx.Type, tx.ID, tx.Amount, tx.AccountName)
	return nil
}

func txEdit(ctx context.Context, a *App, args []string) error {
	fs := a.flagSet("tx edit")
	typ := fs.String("type", "", "new type")
	amount := fs.String("amount", "", "new amount")
	desc := fs.String("desc", "", "new description")
	category := fs.String("category", "", "new category id or name")
	clearCategory := fs.Bool("clear-category", false, "remove the category")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs("tx edit", rest, 1, "ID [-type TYPE] [-amount AMOUNT] [-desc TEXT] [-category CATEGORY | -clear-category]"); err != nil {
		return err
	}
	id, err := ParseID("transaction", rest[0])
	if err != nil {
		return err
	}

	set := setFlags(fs)
	p := services.EditParams{ClearCategory: *clearCategory}
	if set["type"] {
		t, err := core.ParseTransactionType(*typ)
		if err != nil {
			return err
		}
		p.Type = &t
	}
	if set["amount"] {
		m, err := core.ParseMoney(*amount)
		if err != nil {
			return err
		}
		p.Amount = &m
	}
	if set["desc"] {
		p.Description = desc
	}
	if set["category"] {
		if p.Category, err = parseOptionalCategory(*category); err != nil {
			return err
		}
	}

	tx, err := a.Ledger.Edit(ctx, id, p)
	if err != nil {
		return err
	}
	return renderTransactions(a.Out, []core.Transaction{tx})
}

func txDelete(ctx context.Context, a *App, args []string) error {
	if err := exactArgs("tx delete", args, 1, "ID"); err != nil {
		return err
	}
	id, err := ParseID("transaction", args[0])
	if err != nil {
		return err
	}
	tx, err := a.Ledger.Delete(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Deleted %s #%d of %s on %s\n", tx.Type, tx.ID, tx.Amount, tx.AccountName)
	return nil
}

func txShow(ctx context.Context, a *App, args []string) error {
	if err := exactArgs("tx show", args, 1, "ID"); err != nil {
		return err
	}
	id, err := ParseID("transaction", args[0])
	if err != nil {
		return err
	}
	tx, err := a.Ledger.Get(ctx, id)
	if err != nil {
		return err
	}
	return renderTransactions(a.Out, []core.Transaction{tx})
}

func txList(ctx context.Context, a *App, args []string) error {
	fs := a.flagSet("tx list")
	account := fs.String("account", "", "only this account")
	from := fs.String("from", "", "first date, YYYY-MM-DD")
	to := fs.String("to", "", "last date, YYYY-MM-DD")
	limitFlag := fs.String("limit", "", "maximum rows, or all")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs("tx list", rest, 0, "[-account ACCOUNT] [-from DATE] [-to DATE] [-limit N|all]"); err != nil {
		return err
	}
	dates, err := core.ParseDateRange(*from, *to)
	if err != nil {
		return err
	}
	limit, err := parseLimit(*limitFlag, a.ListLimit)
	if err != nil {
		return err
	}

	var txs []core.Transaction
	if *account != "" {
		ref, err := ParseAccountRef(*account)
		if err != nil {
			return err
		}
		txs, err = a.Ledger.ListForAccount(ctx, ref, dates, limit)
		if err != nil {
			return err
		}
	} else {
		txs, err = a.Ledger.ListAll(ctx, limit, dates)
		if err != nil {
			return err
		}
	}
	return renderTransactions(a.Out, txs)
}

func transfer(ctx context.Context, a *App, args []string) error {
	if err := exactArgs("transfer", args, 3, "AMOUNT SOURCE DEST"); err != nil {
		return err
	}
	amount, err := core.ParseMoney(args[0])
	if err != nil {
		return err
	}
	source, err := ParseAccountRef(args[1])
	if err != nil {
		return err
	}
	dest, err := ParseAccountRef(args[2])
	if err != nil {
		return err
	}
	t, err := a.Ledger.Transfer(ctx, amount, source, dest)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Transferred %s from %s to %s (transactions #%d and #%d)\n",
		amount, t.Withdrawal.AccountName, t.Deposit.AccountName, t.Withdrawal.ID, t.Deposit.ID)
	return nil
}

func budgetAdd(ctx context.Context, a *App, args []string) error {
	fs := a.flagSet("budget add")
	account := fs.String("account", "", "account id or name")
	category := fs.String("category", "", "category id or name")
	amount := fs.String("amount", "", "monthly allotment")
	period := fs.String("period", "", "month, YYYY-MM (default: current month)")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	usage := "-account ACCOUNT -category CATEGORY -amount AMOUNT [-period YYYY-MM]"
	if err := exactArgs("budget add", rest, 0, usage); err != nil {
		return err
	}
	if *account == "" || *category == "" || *amount == "" {
		return usagef("oink budget add %s", usage)
	}

	var p services.CreateBudgetParams
	if p.Account, err = ParseAccountRef(*account); err != nil {
		return err
	}
	if p.Category, err = ParseCategoryRef(*category); err != nil {
		return err
	}
	if p.Amount, err = core.ParseMoney(*amount); err != nil {
		return err
	}
	if p.Period, err = periodOrCurrent(*period); err != nil {
		return err
	}

	b, err := a.Budgets.Create(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Created budget #%d: %s for %s on %s in %s\n",
		b.ID, b.Amount, b.CategoryName, b.AccountName, b.Period)
	return nil
}

func budgetList(ctx context.Context, a *App, args []string) error {
	fs := a.flagSet("budget list")
	from := fs.String("from", "", "first month, YYYY-MM or YYYY")
	to := fs.String("to", "", "last month, YYYY-MM or YYYY")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs("budget list", rest, 1, "ACCOUNT [-from YYYY-MM] [-to YYYY-MM]"); err != nil {
		return err
	}
	ref, err := ParseAccountRef(rest[0])
	if err != nil {
		return err
	}
	var months core.MonthRange
	if months.From, err = core.ParseMonthBound(*from, false); err != nil {
		return err
	}
	if months.To, err = core.ParseMonthBound(*to, true); err != nil {
		return err
	}
	budgets, err := a.Budgets.ListForAccount(ctx, ref, months)
	if err != nil {
		return err
	}
	return renderBudgets(a.Out, budgets)
}

func budgetMonth(ctx context.Context, a *App, args []string) error {
	if len(args) > 1 {
		return usagef("oink budget month [YYYY-MM]")
	}
	var s string
	if len(args) == 1 {
		s = args[0]
	}
	period, err := periodOrCurrent(s)
	if err != nil {
		return err
	}
	budgets, err := a.Budgets.ListForMonth(ctx, period)
	if err != nil {
		return err
	}
	return renderBudgets(a.Out, budgets)
}

func budgetDelete(ctx context.Context, a *App, args []string) error {
	if err := exactArgs("budget delete", args, 1, "ID"); err != nil {
		return err
	}
	id, err := ParseID("budget", args[0])
	if err != nil {
		return err
	}
	if err := a.Budgets.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Deleted budget #%d\n", id)
	return nil
}

func report(ctx context.Context, a *App, args []string) error {
	fs := a.flagSet("report")
	from := fs.String("from", "", "first date, YYYY-MM-DD")
	to := fs.String("to", "", "last date, YYYY-MM-DD")
	asJSON := fs.Bool("json", false, "print the snapshot as JSON")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs("report", rest, 0, "[-from DATE] [-to DATE] [-json]"); err != nil {
		return err
	}
	dates, err := core.ParseDateRange(*from, *to)
	if err != nil {
		return err
	}
	snap, err := a.Reports.Snapshot(ctx, dates)
	if err != nil {
		return err
	}
	if *asJSON {
		enc := json.NewEncoder(a.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return renderSnapshot(a.Out, snap)
}

func dbVersion(_ context.Context, a *App, args []string) error {
	if err := exactArgs("db version", args, 0, ""); err != nil {
		return err
	}
	version, dirty, err := storage.SchemaVersion(a.DBPath)
	if err != nil {
		return err
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(a.Out, "schema version %d (%s)\n", version, state)
	return nil
}

func periodOrCurrent(s string) (core.YearMonth, error) {
	if s == "" {
		return core.YearMonthOf(time.Now()), nil
	}
	return core.ParseYearMonth(s)
}
