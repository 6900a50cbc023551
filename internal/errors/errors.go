// Package errors provides custom error types for the MiChauchera API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Unsupported transaction type", StatusCode: http.StatusBadRequest}
	ErrNonPositiveAmount      = &AppError{Code: "NON_POSITIVE_AMOUNT", Message: "Amount must be greater than zero", StatusCode: http.StatusBadRequest}
	ErrBlankCategory          = &AppError{Code: "BLANK_CATEGORY", Message: "Category cannot be blank", StatusCode: http.StatusBadRequest}
)

// Budget errors.
var (
	ErrBudgetNotFound   = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrDuplicateBudget  = &AppError{Code: "DUPLICATE_BUDGET", Message: "An active budget already exists for this category and month", StatusCode: http.StatusConflict}
	ErrInvalidMonth     = &AppError{Code: "INVALID_MONTH", Message: "Month must be between 1 and 12", StatusCode: http.StatusBadRequest}
	ErrInvalidYear      = &AppError{Code: "INVALID_YEAR", Message: "Year must be 2000 or later", StatusCode: http.StatusBadRequest}
	ErrNonPositiveLimit = &AppError{Code: "NON_POSITIVE_LIMIT", Message: "Budget limit must be greater than zero", StatusCode: http.StatusBadRequest}
)

// Scheduler errors.
var (
	ErrJobNotFound = &AppError{Code: "JOB_NOT_FOUND", Message: "No job scheduled under that name", StatusCode: http.StatusNotFound}
)
