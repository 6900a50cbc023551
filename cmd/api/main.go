package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	"michauchera/internal/alerts"
	"michauchera/internal/config"
	"michauchera/internal/database"
	"michauchera/internal/handlers"
	"michauchera/internal/logger"
	"michauchera/internal/middleware"
	"michauchera/internal/scheduler"
	"michauchera/internal/services"
	"michauchera/internal/validator"
)

// @title           MiChauchera API
// @version         1.0
// @description     MiChauchera tracks income and expense transactions, per-category monthly budgets, and sends threshold alerts when spending approaches or exceeds a budget.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	transactionService := services.NewTransactionService(db)
	budgetService := services.NewBudgetService(db)
	settingsService := services.NewSettingsService(db)
	evaluationService := services.NewEvaluationService(budgetService, transactionService)

	// Alert pipeline
	notifier := buildNotifier(appConfig)
	dispatcher := alerts.NewDispatcher(settingsService, evaluationService, transactionService, notifier,
		alerts.GlobalThresholds{
			WarnPercent:     appConfig.GlobalWarnPercent,
			ExceededPercent: appConfig.GlobalExceededPercent,
		})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobs := scheduler.New(scheduler.AlwaysSatisfied())
	defer jobs.Stop()
	scheduleMonitoring(ctx, jobs, appConfig, dispatcher)

	// Initialize handlers
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, evaluationService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	alertHandler := handlers.NewAlertHandler(ctx, dispatcher, jobs, appConfig.CheckNowDelay)

	validator.Register()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
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

	server := &http.Server{
		Addr:    ":" + appConfig.Port,
		Handler: router,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Infof("Starting server on port %s", appConfig.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("Shutting down...")
		return server.Shutdown(context.Background())
	})

	return group.Wait()
}

// buildNotifier picks the notification sink: Telegram when configured,
// otherwise the application log.
func buildNotifier(cfg *config.Config) alerts.Notifier {
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		notifier, err := alerts.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err == nil {
			logger.Get().Info("Telegram notification sink enabled")
			return notifier
		}
		logger.Get().Warnf("Telegram sink unavailable, falling back to log: %v", err)
	}
	return alerts.NewLogNotifier()
}

// scheduleMonitoring registers the two periodic alert jobs. The keep-existing
// policy makes repeated registration under the same names a no-op.
func scheduleMonitoring(ctx context.Context, jobs *scheduler.Scheduler, cfg *config.Config, dispatcher *alerts.Dispatcher) {
	constraints := scheduler.Constraints{RequireNetwork: true, RequireBatteryNotLow: true}

	jobs.SchedulePeriodic(ctx, handlers.JobCategoryMonitor,
		cfg.MonitorInterval, cfg.MonitorFlex, constraints, dispatcher.RunCategoryAlerts)
	jobs.SchedulePeriodic(ctx, handlers.JobGlobalLimit,
		cfg.GlobalInterval, cfg.GlobalFlex, constraints, dispatcher.RunGlobalLimitAlert)
}
