package core

import "time"

// Snapshot is the point-in-time view of every account over a date range.
// Renderers consume it; it is never written back.
type Snapshot struct {
	GeneratedAt time.Time         `json:"created_at"`
	From        string            `json:"from_date,omitempty"`
	To          string            `json:"to_date,omitempty"`
	Accounts    []AccountSnapshot `json:"accounts"`
}

// AccountSnapshot is one account's slice of a Snapshot.
type AccountSnapshot struct {
	ID            int64             `json:"id"`
	Number        string            `json:"account_number"`
	Name          string            `json:"name"`
	CreatedAt     time.Time         `json:"created_at"`
	Balance       Money             `json:"balance"` // as of the end of the range
	TotalIncome   Money             `json:"total_income"`
	TotalExpenses Money             `json:"total_expenses"`
	Transactions  []Transaction     `json:"transactions"`
	Budgets       []EvaluatedBudget `json:"budgets"`
}

// NetRevenue is income minus expenses within the range.
func (a AccountSnapshot) NetRevenue() Money {
	return a.TotalIncome.Sub(a.TotalExpenses)
}

// Account returns the snapshot of the account with the given id.
func (s *Snapshot) Account(id int64) (AccountSnapshot, bool) {
	for _, a := range s.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return AccountSnapshot{}, false
}
