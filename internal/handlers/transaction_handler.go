package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "michauchera/internal/errors"
	"michauchera/internal/models"
	"michauchera/internal/pagination"
	"michauchera/internal/services"
)

// TransactionHandler handles ledger requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest represents the payload for creating or updating a transaction.
type TransactionRequest struct {
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount      int64                  `json:"amount" binding:"required,gt=0"`
	Category    string                 `json:"category" binding:"required,not_blank,max=100"`
	Date        time.Time              `json:"date"`
	Description string                 `json:"description" binding:"max=500"`
}

// ListTransactionsQuery represents the query parameters for listing transactions.
type ListTransactionsQuery struct {
	pagination.PageRequest
	Type     *models.TransactionType `form:"type" binding:"omitempty,transaction_type"`
	Category *string                 `form:"category"`
	FromDate *time.Time              `form:"from_date" time_format:"2006-01-02"`
	ToDate   *time.Time              `form:"to_date" time_format:"2006-01-02"`
}

// CreateTransaction handles recording a new ledger entry.
// @Summary     Create a transaction
// @Description Record a new income or expense entry
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(
		req.Type, req.Amount, req.Category, req.Date, req.Description,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// UpdateTransaction handles replacing all fields of an entry.
// @Summary     Update a transaction
// @Description Replace all fields of an existing transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Transaction ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     200 {object} models.Transaction "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(
		id, req.Type, req.Amount, req.Category, req.Date, req.Description,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles deleting an entry by ID.
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Param       id path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetTransaction handles fetching a single entry.
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// ListTransactions handles listing entries with optional filters.
// @Summary     List transactions
// @Description Get a paginated list of transactions with optional filters
// @Tags        transactions
// @Produce     json
// @Param       type      query string false "Filter by type (income/expense)"
// @Param       category  query string false "Filter by category"
// @Param       from_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       to_date   query string false "Exclusive end date (YYYY-MM-DD)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var query ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{
		Type:     query.Type,
		Category: query.Category,
		FromDate: query.FromDate,
		ToDate:   query.ToDate,
	}

	result, err := h.transactionService.ListTransactions(query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMonthlyStats handles the monthly income/expense/balance aggregate.
// @Summary     Monthly statistics
// @Description Income, expenses, and balance for a month (defaults to current)
// @Tags        transactions
// @Produce     json
// @Param       month query int false "Month (1-12)"
// @Param       year  query int false "Year"
// @Success     200 {object} models.MonthlyStats "Monthly statistics"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/stats/monthly [get]
func (h *TransactionHandler) GetMonthlyStats(c *gin.Context) {
	month, year, err := parsePeriodQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.transactionService.GetMonthlyStats(month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
