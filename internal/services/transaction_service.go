package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "michauchera/internal/errors"
	"michauchera/internal/models"
	"michauchera/internal/pagination"
	"michauchera/internal/period"
)

// transactionService handles ledger business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// validateTransaction checks the invariants every ledger write must hold.
func validateTransaction(transactionType models.TransactionType, amount int64, category string) error {
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return apperrors.ErrInvalidTransactionType
	}
	if amount <= 0 {
		return apperrors.ErrNonPositiveAmount
	}
	if strings.TrimSpace(category) == "" {
		return apperrors.ErrBlankCategory
	}
	return nil
}

// CreateTransaction records a new ledger entry.
func (s *transactionService) CreateTransaction(
	transactionType models.TransactionType,
	amount int64,
	category string,
	date time.Time,
	description string,
) (*models.Transaction, error) {
	if err := validateTransaction(transactionType, amount, category); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		Type:        transactionType,
		Amount:      amount,
		Category:    category,
		Date:        date,
		Description: description,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// UpdateTransaction replaces all fields of an existing entry.
func (s *transactionService) UpdateTransaction(
	id string,
	transactionType models.TransactionType,
	amount int64,
	category string,
	date time.Time,
	description string,
) (*models.Transaction, error) {
	if err := validateTransaction(transactionType, amount, category); err != nil {
		return nil, err
	}

	transaction, err := s.GetTransactionByID(id)
	if err != nil {
		return nil, err
	}

	transaction.Type = transactionType
	transaction.Amount = amount
	transaction.Category = category
	transaction.Date = date
	transaction.Description = description

	if err := s.db.Save(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// DeleteTransaction removes an entry by ID.
func (s *transactionService) DeleteTransaction(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Transaction{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// GetTransactionByID returns a transaction by ID.
func (s *transactionService) GetTransactionByID(id string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// ListTransactions returns a paginated list of entries with optional filters.
func (s *transactionService) ListTransactions(
	page pagination.PageRequest,
	filter TransactionFilter,
) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{})
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date < ?", *filter.ToDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// sumAmounts runs a COALESCE'd SUM over entries matching the query.
func (s *transactionService) sumAmounts(query *gorm.DB) (int64, error) {
	var total int64
	if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// TotalIncome returns the sum of all income entries.
func (s *transactionService) TotalIncome() (int64, error) {
	return s.sumAmounts(s.db.Model(&models.Transaction{}).Where("type = ?", models.TransactionTypeIncome))
}

// TotalExpenses returns the sum of all expense entries.
func (s *transactionService) TotalExpenses() (int64, error) {
	return s.sumAmounts(s.db.Model(&models.Transaction{}).Where("type = ?", models.TransactionTypeExpense))
}

// Balance returns total income minus total expenses.
func (s *transactionService) Balance() (int64, error) {
	income, err := s.TotalIncome()
	if err != nil {
		return 0, err
	}
	expenses, err := s.TotalExpenses()
	if err != nil {
		return 0, err
	}
	return income - expenses, nil
}

// SumExpensesByCategory sums expense amounts for a category in [periodStart, periodEnd).
// An empty match set yields 0.
func (s *transactionService) SumExpensesByCategory(category string, periodStart, periodEnd time.Time) (int64, error) {
	return s.sumAmounts(s.db.Model(&models.Transaction{}).
		Where("type = ? AND category = ? AND date >= ? AND date < ?",
			models.TransactionTypeExpense, category, periodStart, periodEnd))
}

// SumExpensesByCategoryAll groups expense spend by category in [periodStart, periodEnd).
func (s *transactionService) SumExpensesByCategoryAll(periodStart, periodEnd time.Time) (map[string]int64, error) {
	type row struct {
		Category string
		Total    int64
	}
	var rows []row
	err := s.db.Model(&models.Transaction{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("type = ? AND date >= ? AND date < ?", models.TransactionTypeExpense, periodStart, periodEnd).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spend := make(map[string]int64, len(rows))
	for _, r := range rows {
		spend[r.Category] = r.Total
	}
	return spend, nil
}

// GetMonthlyStats aggregates income, expenses, and balance for a month.
func (s *transactionService) GetMonthlyStats(month, year int) (*models.MonthlyStats, error) {
	start, end, err := period.MonthRange(month, year, time.Local)
	if err != nil {
		return nil, err
	}

	income, err := s.sumAmounts(s.db.Model(&models.Transaction{}).
		Where("type = ? AND date >= ? AND date < ?", models.TransactionTypeIncome, start, end))
	if err != nil {
		return nil, err
	}
	expenses, err := s.sumAmounts(s.db.Model(&models.Transaction{}).
		Where("type = ? AND date >= ? AND date < ?", models.TransactionTypeExpense, start, end))
	if err != nil {
		return nil, err
	}

	return &models.MonthlyStats{
		Income:   income,
		Expenses: expenses,
		Balance:  income - expenses,
		Month:    month,
		Year:     year,
	}, nil
}
