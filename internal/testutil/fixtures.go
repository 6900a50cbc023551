package testutil

import (
	"testing"
	"time"

	"michauchera/internal/models"

	"gorm.io/gorm"
)

// CreateTestExpense records an expense in the given category and month.
func CreateTestExpense(t *testing.T, db *gorm.DB, category string, amount int64, date time.Time) *models.Transaction {
	t.Helper()
	return CreateTestTransaction(t, db, models.TransactionTypeExpense, category, amount, date)
}

// CreateTestIncome records an income entry.
func CreateTestIncome(t *testing.T, db *gorm.DB, category string, amount int64, date time.Time) *models.Transaction {
	t.Helper()
	return CreateTestTransaction(t, db, models.TransactionTypeIncome, category, amount, date)
}

// CreateTestTransaction inserts a ledger entry directly.
func CreateTestTransaction(t *testing.T, db *gorm.DB, transactionType models.TransactionType, category string, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		Type:     transactionType,
		Amount:   amount,
		Category: category,
		Date:     date,
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestBudget inserts an active budget for (category, month, year).
func CreateTestBudget(t *testing.T, db *gorm.DB, category string, limitAmount int64, month, year int) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Category:    category,
		LimitAmount: limitAmount,
		Month:       month,
		Year:        year,
		Active:      true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestSettings inserts a settings row.
func CreateTestSettings(t *testing.T, db *gorm.DB, notificationsEnabled *bool, monthlyLimit *int64) *models.Settings {
	t.Helper()

	settings := &models.Settings{
		NotificationsEnabled: notificationsEnabled,
		MonthlyLimit:         monthlyLimit,
	}
	if err := db.Create(settings).Error; err != nil {
		t.Fatalf("failed to create test settings: %v", err)
	}
	return settings
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 { return &v }
