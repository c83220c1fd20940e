package storage

// Row types mirror the tables one to one. Joined name columns are filled by
// the Get/List queries only.

type Account struct {
	ID            int64
	AccountNumber string
	Name          string
	Balance       int64
	CreatedAt     string
}

type Category struct {
	ID   int64
	Name string
}

type Transaction struct {
	ID                int64
	AccountID         int64
	AccountName       string
	TransactionTypeID int64
	Description       string
	Amount            int64
	CategoryID        *int64
	CategoryName      *string
	CreatedAt         string
}

type Budget struct {
	ID           int64
	AccountID    int64
	AccountName  string
	CategoryID   int64
	CategoryName string
	Amount       int64
	Year         int64
	Month        int64
	CreatedAt    string
}
