// Package integration exercises the full HTTP stack against an isolated
// in-memory database per test.
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"michauchera/internal/alerts"
	"michauchera/internal/handlers"
	"michauchera/internal/logger"
	"michauchera/internal/middleware"
	"michauchera/internal/models"
	"michauchera/internal/scheduler"
	"michauchera/internal/services"
	"michauchera/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Notifier *captureNotifier
	Jobs     *scheduler.Scheduler
}

// captureNotifier records outbound notifications instead of delivering them.
type captureNotifier struct {
	mu   sync.Mutex
	sent []alerts.Notification
}

func (c *captureNotifier) Notify(_ context.Context, n alerts.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
	return nil
}

func (c *captureNotifier) all() []alerts.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]alerts.Notification(nil), c.sent...)
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integration%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Transaction{},
		&models.Budget{},
		&models.Settings{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	transactionService := services.NewTransactionService(db)
	budgetService := services.NewBudgetService(db)
	settingsService := services.NewSettingsService(db)
	evaluationService := services.NewEvaluationService(budgetService, transactionService)

	// Alert pipeline
	notifier := &captureNotifier{}
	dispatcher := alerts.NewDispatcher(settingsService, evaluationService, transactionService,
		notifier, alerts.DefaultGlobalThresholds())
	jobs := scheduler.New(nil)
	t.Cleanup(jobs.Stop)

	// Handlers
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, evaluationService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	alertHandler := handlers.NewAlertHandler(context.Background(), dispatcher, jobs, 0)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/stats/monthly", transactionHandler.GetMonthlyStats)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.ListActiveBudgets)
	budgets.GET("/status", budgetHandler.GetBudgetStatus)
	budgets.GET("/summary", budgetHandler.GetBudgetSummary)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.PATCH("/:id/limit", budgetHandler.UpdateLimit)
	budgets.POST("/:id/archive", budgetHandler.ArchiveBudget)
	budgets.POST("/:id/reactivate", budgetHandler.ReactivateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	settings := v1.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", settingsHandler.UpdateSettings)

	alertRoutes := v1.Group("/alerts")
	alertRoutes.POST("/check", alertHandler.CheckNow)
	alertRoutes.GET("/jobs/:name", alertHandler.GetJobStatus)

	return &testApp{DB: db, Router: router, Notifier: notifier, Jobs: jobs}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createBudget creates a budget through the API and returns its ID.
func (app *testApp) createBudget(t *testing.T, category string, limit int64, month, year int) string {
	t.Helper()
	body := fmt.Sprintf(`{"category":%q,"limit_amount":%d,"month":%d,"year":%d}`, category, limit, month, year)
	rec := app.request("POST", "/api/v1/budgets", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget failed: %d %s", rec.Code, rec.Body.String())
	}
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	return budget["id"].(string)
}

// createExpense records an expense through the API and returns its ID.
func (app *testApp) createExpense(t *testing.T, category string, amount int64, date string) string {
	t.Helper()
	body := fmt.Sprintf(`{"type":"expense","amount":%d,"category":%q,"date":%q}`, amount, category, date)
	rec := app.request("POST", "/api/v1/transactions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}
	transaction := parseJSON(t, rec)["transaction"].(map[string]interface{})
	return transaction["id"].(string)
}

// waitForNotifications polls until the capture sink holds at least n entries.
func (app *testApp) waitForNotifications(t *testing.T, n int) []alerts.Notification {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if sent := app.Notifier.all(); len(sent) >= n {
			return sent
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d notifications, have %d", n, len(app.Notifier.all()))
		case <-time.After(5 * time.Millisecond):
		}
	}
}
