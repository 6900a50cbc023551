package services

import (
	"time"

	"gorm.io/gorm"

	"michauchera/internal/models"
	"michauchera/internal/period"
)

// evaluationService joins ledger spend with budget limits for a period.
// It is a pure read over the two stores: no writes, no cached state, so
// evaluating twice with unchanged data yields identical results.
type evaluationService struct {
	budgets BudgetServicer
	ledger  TransactionServicer
}

// NewEvaluationService creates a new EvaluationServicer over the given stores.
func NewEvaluationService(budgets BudgetServicer, ledger TransactionServicer) EvaluationServicer {
	return &evaluationService{budgets: budgets, ledger: ledger}
}

// NewEvaluationServiceDB wires an evaluation service directly from a database
// handle, constructing the default store implementations.
func NewEvaluationServiceDB(db *gorm.DB) EvaluationServicer {
	return NewEvaluationService(NewBudgetService(db), NewTransactionService(db))
}

// Evaluate computes the spend status of every active budget in (month, year).
// Spend is the sum of expense transactions per category inside the month's
// half-open window; budgets with no matching expenses evaluate at zero spend.
func (s *evaluationService) Evaluate(month, year int) ([]models.BudgetWithSpend, error) {
	start, end, err := period.MonthRange(month, year, time.Local)
	if err != nil {
		return nil, err
	}

	budgets, err := s.budgets.ListActiveBudgets(month, year)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return []models.BudgetWithSpend{}, nil
	}

	spendByCategory, err := s.ledger.SumExpensesByCategoryAll(start, end)
	if err != nil {
		return nil, err
	}

	results := make([]models.BudgetWithSpend, 0, len(budgets))
	for _, budget := range budgets {
		results = append(results, models.NewBudgetWithSpend(budget, spendByCategory[budget.Category]))
	}
	return results, nil
}
