package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a single ledger entry. Amount is always positive,
// in whole Chilean pesos; the sign is derived from Type.
type Transaction struct {
	Base
	Type        TransactionType `gorm:"not null;index" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Category    string          `gorm:"not null;index" json:"category"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `json:"description"`
}

// Signed returns the amount with the sign implied by the transaction type.
func (t *Transaction) Signed() int64 {
	if t.Type == TransactionTypeExpense {
		return -t.Amount
	}
	return t.Amount
}

// MonthlyStats aggregates ledger activity for a single month.
type MonthlyStats struct {
	Income   int64 `json:"income"`
	Expenses int64 `json:"expenses"`
	Balance  int64 `json:"balance"`
	Month    int   `json:"month"`
	Year     int   `json:"year"`
}
