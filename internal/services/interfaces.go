package services

import (
	"time"

	"michauchera/internal/models"
	"michauchera/internal/pagination"
)

// TransactionFilter holds optional filter parameters for listing transactions.
// FromDate is inclusive and ToDate exclusive, matching the monthly window
// convention in the period package.
type TransactionFilter struct {
	Type     *models.TransactionType
	Category *string
	FromDate *time.Time
	ToDate   *time.Time
}

// TransactionServicer defines the contract for the transaction ledger.
type TransactionServicer interface {
	CreateTransaction(transactionType models.TransactionType, amount int64, category string, date time.Time, description string) (*models.Transaction, error)
	UpdateTransaction(id string, transactionType models.TransactionType, amount int64, category string, date time.Time, description string) (*models.Transaction, error)
	DeleteTransaction(id string) error
	GetTransactionByID(id string) (*models.Transaction, error)
	ListTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	Balance() (int64, error)
	TotalIncome() (int64, error)
	TotalExpenses() (int64, error)
	SumExpensesByCategory(category string, periodStart, periodEnd time.Time) (int64, error)
	SumExpensesByCategoryAll(periodStart, periodEnd time.Time) (map[string]int64, error)
	GetMonthlyStats(month, year int) (*models.MonthlyStats, error)
}

// BudgetServicer defines the contract for the budget store.
type BudgetServicer interface {
	CreateBudget(category string, limitAmount int64, month, year int) (*models.Budget, error)
	UpdateBudget(id string, category string, limitAmount int64, month, year int) (*models.Budget, error)
	UpdateLimit(id string, limitAmount int64) (*models.Budget, error)
	ArchiveBudget(id string) error
	ReactivateBudget(id string) error
	DeleteBudget(id string) error
	GetBudgetByID(id string) (*models.Budget, error)
	ListActiveBudgets(month, year int) ([]models.Budget, error)
	TotalBudgeted(month, year int) (int64, error)
	Exists(category string, month, year int) (bool, error)
	CountActive(month, year int) (int64, error)
	Subscribe() <-chan OperationStatus
}

// EvaluationServicer joins ledger spend with budget limits for a period.
type EvaluationServicer interface {
	Evaluate(month, year int) ([]models.BudgetWithSpend, error)
}

// SettingsServicer exposes the user preferences the alert pipeline reads.
type SettingsServicer interface {
	Get() (*models.Settings, error)
	Update(notificationsEnabled *bool, monthlyLimit *int64) (*models.Settings, error)
	NotificationsEnabled() (bool, error)
	MonthlyLimit() (int64, bool, error)
}
