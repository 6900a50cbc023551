package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	apperrors "michauchera/internal/errors"
	"michauchera/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB

	mu          sync.Mutex
	subscribers []chan OperationStatus
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// validateBudget checks the invariants every budget write must hold.
func validateBudget(category string, limitAmount int64, month, year int) error {
	if strings.TrimSpace(category) == "" {
		return apperrors.ErrBlankCategory
	}
	if limitAmount <= 0 {
		return apperrors.ErrNonPositiveLimit
	}
	if month < 1 || month > 12 {
		return apperrors.ErrInvalidMonth
	}
	if year < models.MinBudgetYear {
		return apperrors.ErrInvalidYear
	}
	return nil
}

// Subscribe returns a channel that receives operation statuses for every
// mutating call. Slow consumers miss updates rather than block writers.
func (s *budgetService) Subscribe() <-chan OperationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan OperationStatus, 8)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

func (s *budgetService) broadcast(status OperationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- status:
		default:
		}
	}
}

func (s *budgetService) reportResult(err error, successMsg string) {
	if err != nil {
		s.broadcast(OperationStatus{Kind: OperationError, Message: err.Error()})
		return
	}
	s.broadcast(OperationStatus{Kind: OperationSuccess, Message: successMsg})
}

// CreateBudget creates a new active budget for a category and period.
// The duplicate check is read-then-insert: two concurrent creators can both
// pass it. The storage layer carries no uniqueness constraint for it.
func (s *budgetService) CreateBudget(category string, limitAmount int64, month, year int) (budget *models.Budget, err error) {
	defer func() { s.reportResult(err, "Presupuesto creado exitosamente") }()

	if err = validateBudget(category, limitAmount, month, year); err != nil {
		return nil, err
	}

	exists, err := s.Exists(category, month, year)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateBudget,
			fmt.Sprintf("Ya existe un presupuesto para %s en este mes", category))
	}

	budget = &models.Budget{
		Category:    category,
		LimitAmount: limitAmount,
		Month:       month,
		Year:        year,
		Active:      true,
	}
	if dbErr := s.db.Create(budget).Error; dbErr != nil {
		err = apperrors.Wrap(apperrors.ErrInternalServer, dbErr)
		return nil, err
	}
	return budget, nil
}

// UpdateBudget replaces all fields of an existing budget.
func (s *budgetService) UpdateBudget(id string, category string, limitAmount int64, month, year int) (budget *models.Budget, err error) {
	defer func() { s.reportResult(err, "Presupuesto actualizado exitosamente") }()

	if err = validateBudget(category, limitAmount, month, year); err != nil {
		return nil, err
	}

	budget, err = s.GetBudgetByID(id)
	if err != nil {
		return nil, err
	}

	budget.Category = category
	budget.LimitAmount = limitAmount
	budget.Month = month
	budget.Year = year

	if dbErr := s.db.Save(budget).Error; dbErr != nil {
		err = apperrors.Wrap(apperrors.ErrInternalServer, dbErr)
		return nil, err
	}
	return budget, nil
}

// UpdateLimit changes only the spending limit of a budget.
func (s *budgetService) UpdateLimit(id string, limitAmount int64) (budget *models.Budget, err error) {
	defer func() { s.reportResult(err, "Límite actualizado exitosamente") }()

	if limitAmount <= 0 {
		err = apperrors.ErrNonPositiveLimit
		return nil, err
	}

	budget, err = s.GetBudgetByID(id)
	if err != nil {
		return nil, err
	}

	if dbErr := s.db.Model(budget).Update("limit_amount", limitAmount).Error; dbErr != nil {
		err = apperrors.Wrap(apperrors.ErrInternalServer, dbErr)
		return nil, err
	}
	return budget, nil
}

// setActive flips the active flag of a budget.
func (s *budgetService) setActive(id string, active bool) error {
	result := s.db.Model(&models.Budget{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}

// ArchiveBudget soft-deletes a budget: it disappears from active-period
// queries but remains reachable by ID.
func (s *budgetService) ArchiveBudget(id string) (err error) {
	defer func() { s.reportResult(err, "Presupuesto archivado") }()
	err = s.setActive(id, false)
	return err
}

// ReactivateBudget flips an archived budget back to active.
func (s *budgetService) ReactivateBudget(id string) (err error) {
	defer func() { s.reportResult(err, "Presupuesto reactivado") }()
	err = s.setActive(id, true)
	return err
}

// DeleteBudget hard-deletes a budget by ID.
func (s *budgetService) DeleteBudget(id string) (err error) {
	defer func() { s.reportResult(err, "Presupuesto eliminado exitosamente") }()

	result := s.db.Unscoped().Where("id = ?", id).Delete(&models.Budget{})
	if result.Error != nil {
		err = apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		return err
	}
	if result.RowsAffected == 0 {
		err = apperrors.ErrBudgetNotFound
		return err
	}
	return nil
}

// GetBudgetByID returns a budget by ID, archived ones included.
func (s *budgetService) GetBudgetByID(id string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ?", id).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// ListActiveBudgets returns the active budgets for a period, ordered by category.
func (s *budgetService) ListActiveBudgets(month, year int) ([]models.Budget, error) {
	var budgets []models.Budget
	err := s.db.Where("month = ? AND year = ? AND active = ?", month, year, true).
		Order("category ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// TotalBudgeted sums the limits of all active budgets in a period.
func (s *budgetService) TotalBudgeted(month, year int) (int64, error) {
	var total int64
	err := s.db.Model(&models.Budget{}).
		Select("COALESCE(SUM(limit_amount), 0)").
		Where("month = ? AND year = ? AND active = ?", month, year, true).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// Exists reports whether an active budget exists for (category, month, year).
func (s *budgetService) Exists(category string, month, year int) (bool, error) {
	var count int64
	err := s.db.Model(&models.Budget{}).
		Where("category = ? AND month = ? AND year = ? AND active = ?", category, month, year, true).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// CountActive counts active budgets in a period.
func (s *budgetService) CountActive(month, year int) (int64, error) {
	var count int64
	err := s.db.Model(&models.Budget{}).
		Where("month = ? AND year = ? AND active = ?", month, year, true).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}
