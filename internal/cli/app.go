package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"oink/internal/core"
	"oink/internal/middleware/trace"
	"oink/internal/services"
)

// ErrUsage marks a malformed command line.
var ErrUsage = errors.New("usage error")

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUsage}, args...)...)
}

// App wires the ledger services to the command line. Output goes to Out;
// nothing is printed by the services themselves.
type App struct {
	Accounts   *services.AccountStore
	Categories *services.CategoryRegistry
	Ledger     *services.LedgerEngine
	Budgets    *services.BudgetEvaluator
	Reports    *services.ReportAggregator

	DBPath    string
	ListLimit core.Limit

	Out    io.Writer
	Err    io.Writer
	Tracer *trace.Middleware
}

type command func(ctx context.Context, a *App, args []string) error

var commands = map[string]map[string]command{
	"account": {
		"add":         accountAdd,
		"list":        accountList,
		"show":        accountShow,
		"balance":     accountBalance,
		"set-balance": accountSetBalance,
		"rename":      accountRename,
		"delete":      accountDelete,
	},
	"category": {
		"add":    categoryAdd,
		"list":   categoryList,
		"rename": categoryRename,
		"delete": categoryDelete,
	},
	"tx": {
		"add":      txAdd,
		"deposit":  txTyped(core.Deposit),
		"withdraw": txTyped(core.Withdrawal),
		"edit":     txEdit,
		"delete":   txDelete,
		"show":     txShow,
		"list":     txList,
	},
	"budget": {
		"add":    budgetAdd,
		"list":   budgetList,
		"month":  budgetMonth,
		"delete": budgetDelete,
	},
	"db": {
		"version": dbVersion,
	},
}

// Verbless nouns.
var actions = map[string]command{
	"transfer": transfer,
	"report":   report,
}

// Run dispatches `oink <noun> <verb> [args]`.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage()
		if len(args) == 0 {
			return usagef("missing command")
		}
		return nil
	}

	noun, rest := args[0], args[1:]
	if cmd, ok := actions[noun]; ok {
		return a.exec(ctx, noun, cmd, rest)
	}
	verbs, ok := commands[noun]
	if !ok {
		return usagef("unknown command %q", noun)
	}
	if len(rest) == 0 {
		return usagef("%s needs one of: %s", noun, strings.Join(verbNames(verbs), ", "))
	}
	cmd, ok := verbs[rest[0]]
	if !ok {
		return usagef("unknown %s command %q", noun, rest[0])
	}
	return a.exec(ctx, noun+" "+rest[0], cmd, rest[1:])
}

func (a *App) exec(ctx context.Context, name string, cmd command, args []string) error {
	run := trace.Handler(func(ctx context.Context) error { return cmd(ctx, a, args) })
	if a.Tracer != nil {
		run = a.Tracer.Wrap(name, run)
	}
	return run(ctx)
}

func (a *App) usage() {
	fmt.Fprintln(a.Out, "usage: oink <command> [args]")
	fmt.Fprintln(a.Out)
	nouns := make([]string, 0, len(commands))
	for noun := range commands {
		nouns = append(nouns, noun)
	}
	sort.Strings(nouns)
	for _, noun := range nouns {
		fmt.Fprintf(a.Out, "  %-9s %s\n", noun, strings.Join(verbNames(commands[noun]), " | "))
	}
	fmt.Fprintf(a.Out, "  %-9s AMOUNT SOURCE DEST\n", "transfer")
	fmt.Fprintf(a.Out, "  %-9s [-from DATE] [-to DATE] [-json]\n", "report")
}

func verbNames(verbs map[string]command) []string {
	names := make([]string, 0, len(verbs))
	for v := range verbs {
		names = append(names, v)
	}
	sort.Strings(names)
	return names
}

// ExitCode maps an error returned by Run onto a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, ErrUsage), errors.Is(err, core.ErrValidation):
		return 2
	case errors.Is(err, core.ErrNotFound):
		return 3
	case errors.Is(err, core.ErrConflict):
		return 4
	default:
		return 1
	}
}

// Message renders err for the terminal. Help requests print nothing.
func Message(err error) string {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ""
	}
	return "oink: " + err.Error()
}
