package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "michauchera/internal/errors"
	"michauchera/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService     services.BudgetServicer
	evaluationService services.EvaluationServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, evaluationService services.EvaluationServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, evaluationService: evaluationService}
}

// BudgetRequest represents the payload for creating or updating a budget.
type BudgetRequest struct {
	Category    string `json:"category" binding:"required,not_blank,max=100"`
	LimitAmount int64  `json:"limit_amount" binding:"required,gt=0"`
	Month       int    `json:"month" binding:"required,month"`
	Year        int    `json:"year" binding:"required,budget_year"`
}

// UpdateLimitRequest represents the payload for changing only a budget's limit.
type UpdateLimitRequest struct {
	LimitAmount int64 `json:"limit_amount" binding:"required,gt=0"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a monthly spending limit for a category
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       request body BudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Active budget already exists for this category and period"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(req.Category, req.LimitAmount, req.Month, req.Year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// UpdateBudget handles replacing all fields of a budget.
// @Summary     Update a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       id      path string        true "Budget ID"
// @Param       request body BudgetRequest true "Budget details"
// @Success     200 {object} models.Budget "Budget updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateBudget(id, req.Category, req.LimitAmount, req.Month, req.Year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateLimit handles changing only the spending limit.
// @Summary     Update a budget's limit
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Budget ID"
// @Param       request body UpdateLimitRequest true "New limit"
// @Success     200 {object} models.Budget "Budget updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/limit [patch]
func (h *BudgetHandler) UpdateLimit(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateLimit(id, req.LimitAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetBudget handles fetching a single budget, archived ones included.
// @Summary     Get a budget
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// ListActiveBudgets handles listing the active budgets of a period.
// @Summary     List active budgets
// @Description Active budgets for a period (defaults to the current month)
// @Tags        budgets
// @Produce     json
// @Param       month query int false "Month (1-12)"
// @Param       year  query int false "Year"
// @Success     200 {object} []models.Budget "Active budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) ListActiveBudgets(c *gin.Context) {
	month, year, err := parsePeriodQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.ListActiveBudgets(month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// GetBudgetStatus handles the evaluated per-category view of a period.
// @Summary     Evaluate budgets
// @Description Spend, percentage used, and alert level for every active budget in a period
// @Tags        budgets
// @Produce     json
// @Param       month query int false "Month (1-12)"
// @Param       year  query int false "Year"
// @Success     200 {object} []models.BudgetWithSpend "Evaluated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/status [get]
func (h *BudgetHandler) GetBudgetStatus(c *gin.Context) {
	month, year, err := parsePeriodQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	results, err := h.evaluationService.Evaluate(month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetBudgetSummary handles the total-budgeted aggregate for a period.
// @Summary     Budget summary
// @Tags        budgets
// @Produce     json
// @Param       month query int false "Month (1-12)"
// @Param       year  query int false "Year"
// @Success     200 {object} map[string]int64 "Total budgeted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/summary [get]
func (h *BudgetHandler) GetBudgetSummary(c *gin.Context) {
	month, year, err := parsePeriodQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	total, err := h.budgetService.TotalBudgeted(month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}
	count, err := h.budgetService.CountActive(month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total_budgeted": total, "active_budgets": count})
}

// ArchiveBudget handles soft-deleting a budget.
// @Summary     Archive a budget
// @Description Deactivate a budget without deleting it; it stays reachable by ID
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     204 "Budget archived"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/archive [post]
func (h *BudgetHandler) ArchiveBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.ArchiveBudget(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ReactivateBudget handles flipping an archived budget back to active.
// @Summary     Reactivate a budget
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     204 "Budget reactivated"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/reactivate [post]
func (h *BudgetHandler) ReactivateBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.ReactivateBudget(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteBudget handles hard-deleting a budget.
// @Summary     Delete a budget
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     204 "Budget deleted"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
