package cli

import (
	"flag"
	"strconv"
	"strings"

	"oink/internal/core"
)

// ParseAccountRef reads an account reference: an all-digit token is an id,
// anything else a name. A leading '#' forces the id reading.
func ParseAccountRef(s string) (core.AccountRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.AccountRef{}, core.Validationf("account reference must not be empty")
	}
	if id, ok := parseID(s); ok {
		return core.AccountByID(id), nil
	}
	if strings.HasPrefix(s, "#") {
		return core.AccountRef{}, core.Validationf("invalid account id %q", s)
	}
	return core.AccountByName(s), nil
}

// ParseCategoryRef reads a category reference the way ParseAccountRef does.
func ParseCategoryRef(s string) (core.CategoryRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.CategoryRef{}, core.Validationf("category reference must not be empty")
	}
	if id, ok := parseID(s); ok {
		return core.CategoryByID(id), nil
	}
	if strings.HasPrefix(s, "#") {
		return core.CategoryRef{}, core.Validationf("invalid category id %q", s)
	}
	return core.CategoryByName(s), nil
}

// ParseID reads a row id argument.
func ParseID(what, s string) (int64, error) {
	id, ok := parseID(strings.TrimSpace(s))
	if !ok {
		return 0, core.Validationf("invalid %s id %q", what, s)
	}
	return id, nil
}

func parseID(s string) (int64, bool) {
	s = strings.TrimPrefix(s, "#")
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("oink "+name, flag.ContinueOnError)
	fs.SetOutput(a.Err)
	return fs
}

// parseArgs parses flags that may follow leading positional arguments and
// returns every positional argument in order.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for len(args) > 0 && !isFlag(args[0]) {
		positional = append(positional, args[0])
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, err
		}
		return nil, usagef("%v", err)
	}
	return append(positional, fs.Args()...), nil
}

func isFlag(s string) bool {
	if len(s) < 2 || s[0] != '-' {
		return false
	}
	// Negative amounts are positional values, not flags.
	_, err := strconv.ParseFloat(s, 64)
	return err != nil
}

func exactArgs(name string, args []string, n int, usage string) error {
	if len(args) != n {
		return usagef("oink %s %s", name, usage)
	}
	return nil
}

// setFlags reports which flags were given explicitly.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func parseOptionalCategory(s string) (*core.CategoryRef, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	ref, err := ParseCategoryRef(s)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func parseLimit(s string, fallback core.Limit) (core.Limit, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	return core.ParseLimit(s)
}
