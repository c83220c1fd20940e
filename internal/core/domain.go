package core

import (
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the storage format of created_at columns. It sorts
// lexically in time order, which the range queries rely on.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the user-facing calendar date format.
const DateLayout = "2006-01-02"

const (
	Deposit    TransactionType = 0
	Withdrawal TransactionType = 1
)

type (
	// TransactionType is the closed set of transaction kinds. The values
	// match the seeded rows of the transaction_types table.
	TransactionType int

	Money struct {
		Cents int64
	}

	Account struct {
		ID        int64     `json:"id"`
		Number    string    `json:"account_number"`
		Name      string    `json:"name"`
		Balance   Money     `json:"balance"`
		CreatedAt time.Time `json:"created_at"`
	}

	Category struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	Transaction struct {
		ID           int64           `json:"id"`
		AccountID    int64           `json:"account_id"`
		AccountName  string          `json:"account_name"`
		Type         TransactionType `json:"type"`
		Description  string          `json:"description"`
		Amount       Money           `json:"amount"`
		CategoryID   *int64          `json:"category_id"`
		CategoryName string          `json:"category_name,omitempty"`
		CreatedAt    time.Time       `json:"created_at"`
	}

	// Transfer holds both legs of a transfer between accounts.
	Transfer struct {
		Withdrawal Transaction `json:"withdrawal"`
		Deposit    Transaction `json:"deposit"`
	}

	Budget struct {
		ID           int64     `json:"id"`
		AccountID    int64     `json:"account_id"`
		AccountName  string    `json:"account_name"`
		CategoryID   int64     `json:"category_id"`
		CategoryName string    `json:"category_name"`
		Amount       Money     `json:"amount"`
		Period       YearMonth `json:"period"`
		CreatedAt    time.Time `json:"created_at"`
	}

	// EvaluatedBudget is a budget with its derived remaining balance.
	EvaluatedBudget struct {
		Budget
		Balance Money `json:"balance"`
	}

	// AccountRef addresses an account either by id or by unique name.
	AccountRef struct {
		id   int64
		name string
	}

	// CategoryRef addresses a category either by id or by unique name.
	CategoryRef struct {
		id   int64
		name string
	}
)

// String returns the lowercase name used in the transaction_types table.
func (t TransactionType) String() string {
	switch t {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// Valid reports whether t is one of the two known types.
func (t TransactionType) Valid() bool {
	return t == Deposit || t == Withdrawal
}

// Effect returns the signed balance delta of a transaction of this type.
func (t TransactionType) Effect(amount Money) Money {
	if t == Withdrawal {
		return amount.Neg()
	}
	return amount
}

// MarshalText renders the type name.
func (t TransactionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts what ParseTransactionType accepts.
func (t *TransactionType) UnmarshalText(b []byte) error {
	v, err := ParseTransactionType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TransactionTypes lists the types in id order.
func TransactionTypes() []TransactionType {
	return []TransactionType{Deposit, Withdrawal}
}

// ParseTransactionType accepts a type name, its first letter or its id.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit", "d", "0", "income":
		return Deposit, nil
	case "withdrawal", "w", "1", "expense":
		return Withdrawal, nil
	}
	return 0, Validationf("unknown transaction type %q", s)
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Overspent reports whether matching transactions exceeded the allotment.
func (b EvaluatedBudget) Overspent() bool {
	return b.Balance.IsNegative()
}

// AccountByID references an account by its id.
func AccountByID(id int64) AccountRef { return AccountRef{id: id} }

// AccountByName references an account by its unique name.
func AccountByName(name string) AccountRef { return AccountRef{name: name} }

// ID returns the referenced id and whether the ref is id based.
func (r AccountRef) ID() (int64, bool) { return r.id, r.name == "" }

// Name returns the referenced name and whether the ref is name based.
func (r AccountRef) Name() (string, bool) { return r.name, r.name != "" }

func (r AccountRef) String() string {
	if r.name != "" {
		return strconv.Quote(r.name)
	}
	return "#" + strconv.FormatInt(r.id, 10)
}

// CategoryByID references a category by its id.
func CategoryByID(id int64) CategoryRef { return CategoryRef{id: id} }

// CategoryByName references a category by its unique name.
func CategoryByName(name string) CategoryRef { return CategoryRef{name: name} }

// ID returns the referenced id and whether the ref is id based.
func (r CategoryRef) ID() (int64, bool) { return r.id, r.name == "" }

// Name returns the referenced name and whether the ref is name based.
func (r CategoryRef) Name() (string, bool) { return r.name, r.name != "" }

func (r CategoryRef) String() string {
	if r.name != "" {
		return strconv.Quote(r.name)
	}
	return "#" + strconv.FormatInt(r.id, 10)
}

// ValidAccountNumber reports whether s is a positive-integer token.
func ValidAccountNumber(s string) bool {
	if s == "" {
		return false
	}
	nonZero := false
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
		if r != '0' {
			nonZero = true
		}
	}
	return nonZero
}

// FormatTimestamp renders t in the storage layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp reads a stored timestamp as local wall-clock time.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		// Date-only values written by hand are still accepted.
		if d, derr := time.ParseInLocation(DateLayout, s, time.Local); derr == nil {
			return d, nil
		}
		return time.Time{}, err
	}
	return t, nil
}
