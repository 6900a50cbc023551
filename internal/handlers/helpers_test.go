package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"michauchera/internal/models"
	"michauchera/internal/pagination"
	"michauchera/internal/services"
	"michauchera/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

const testID = "0198f8a0-1234-7abc-8def-0123456789ab"

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn      func(category string, limitAmount int64, month, year int) (*models.Budget, error)
	updateBudgetFn      func(id, category string, limitAmount int64, month, year int) (*models.Budget, error)
	updateLimitFn       func(id string, limitAmount int64) (*models.Budget, error)
	archiveBudgetFn     func(id string) error
	reactivateBudgetFn  func(id string) error
	deleteBudgetFn      func(id string) error
	getBudgetByIDFn     func(id string) (*models.Budget, error)
	listActiveBudgetsFn func(month, year int) ([]models.Budget, error)
	totalBudgetedFn     func(month, year int) (int64, error)
	countActiveFn       func(month, year int) (int64, error)
}

func (m *mockBudgetService) CreateBudget(category string, limitAmount int64, month, year int) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(category, limitAmount, month, year)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) UpdateBudget(id, category string, limitAmount int64, month, year int) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(id, category, limitAmount, month, year)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) UpdateLimit(id string, limitAmount int64) (*models.Budget, error) {
	if m.updateLimitFn != nil {
		return m.updateLimitFn(id, limitAmount)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) ArchiveBudget(id string) error {
	if m.archiveBudgetFn != nil {
		return m.archiveBudgetFn(id)
	}
	return nil
}

func (m *mockBudgetService) ReactivateBudget(id string) error {
	if m.reactivateBudgetFn != nil {
		return m.reactivateBudgetFn(id)
	}
	return nil
}

func (m *mockBudgetService) DeleteBudget(id string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(id)
	}
	return nil
}

func (m *mockBudgetService) GetBudgetByID(id string) (*models.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(id)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) ListActiveBudgets(month, year int) ([]models.Budget, error) {
	if m.listActiveBudgetsFn != nil {
		return m.listActiveBudgetsFn(month, year)
	}
	return []models.Budget{}, nil
}

func (m *mockBudgetService) TotalBudgeted(month, year int) (int64, error) {
	if m.totalBudgetedFn != nil {
		return m.totalBudgetedFn(month, year)
	}
	return 0, nil
}

func (m *mockBudgetService) Exists(string, int, int) (bool, error) { return false, nil }

func (m *mockBudgetService) CountActive(month, year int) (int64, error) {
	if m.countActiveFn != nil {
		return m.countActiveFn(month, year)
	}
	return 0, nil
}

func (m *mockBudgetService) Subscribe() <-chan services.OperationStatus {
	return make(chan services.OperationStatus)
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

// --- mock evaluation service ---

type mockEvaluationService struct {
	evaluateFn func(month, year int) ([]models.BudgetWithSpend, error)
}

func (m *mockEvaluationService) Evaluate(month, year int) ([]models.BudgetWithSpend, error) {
	if m.evaluateFn != nil {
		return m.evaluateFn(month, year)
	}
	return []models.BudgetWithSpend{}, nil
}

var _ services.EvaluationServicer = (*mockEvaluationService)(nil)

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn func(transactionType models.TransactionType, amount int64, category string, date time.Time, description string) (*models.Transaction, error)
	updateTransactionFn func(id string, transactionType models.TransactionType, amount int64, category string, date time.Time, description string) (*models.Transaction, error)
	deleteTransactionFn func(id string) error
	getTransactionFn    func(id string) (*models.Transaction, error)
	listTransactionsFn  func(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getMonthlyStatsFn   func(month, year int) (*models.MonthlyStats, error)
}

func (m *mockTransactionService) CreateTransaction(transactionType models.TransactionType, amount int64, category string, date time.Time, description string) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(transactionType, amount, category, date, description)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(id string, transactionType models.TransactionType, amount int64, category string, date time.Time, description string) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(id, transactionType, amount, category, date, description)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(id string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(id)
	}
	return nil
}

func (m *mockTransactionService) GetTransactionByID(id string) (*models.Transaction, error) {
	if m.getTransactionFn != nil {
		return m.getTransactionFn(id)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) ListTransactions(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) Balance() (int64, error)       { return 0, nil }
func (m *mockTransactionService) TotalIncome() (int64, error)   { return 0, nil }
func (m *mockTransactionService) TotalExpenses() (int64, error) { return 0, nil }

func (m *mockTransactionService) SumExpensesByCategory(string, time.Time, time.Time) (int64, error) {
	return 0, nil
}

func (m *mockTransactionService) SumExpensesByCategoryAll(time.Time, time.Time) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (m *mockTransactionService) GetMonthlyStats(month, year int) (*models.MonthlyStats, error) {
	if m.getMonthlyStatsFn != nil {
		return m.getMonthlyStatsFn(month, year)
	}
	return &models.MonthlyStats{Month: month, Year: year}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

// --- mock settings service ---

type mockSettingsService struct {
	getFn    func() (*models.Settings, error)
	updateFn func(notificationsEnabled *bool, monthlyLimit *int64) (*models.Settings, error)
}

func (m *mockSettingsService) Get() (*models.Settings, error) {
	if m.getFn != nil {
		return m.getFn()
	}
	return &models.Settings{}, nil
}

func (m *mockSettingsService) Update(notificationsEnabled *bool, monthlyLimit *int64) (*models.Settings, error) {
	if m.updateFn != nil {
		return m.updateFn(notificationsEnabled, monthlyLimit)
	}
	return &models.Settings{}, nil
}

func (m *mockSettingsService) NotificationsEnabled() (bool, error) { return true, nil }
func (m *mockSettingsService) MonthlyLimit() (int64, bool, error)  { return 0, false, nil }

var _ services.SettingsServicer = (*mockSettingsService)(nil)
