// The monitor binary runs only the budget alert pipeline: the periodic
// evaluation jobs and the notification dispatcher, without the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"michauchera/internal/alerts"
	"michauchera/internal/config"
	"michauchera/internal/database"
	"michauchera/internal/logger"
	"michauchera/internal/scheduler"
	"michauchera/internal/services"
)

func main() {
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

	db := dbManager.DB()
	transactionService := services.NewTransactionService(db)
	budgetService := services.NewBudgetService(db)
	settingsService := services.NewSettingsService(db)
	evaluationService := services.NewEvaluationService(budgetService, transactionService)

	var notifier alerts.Notifier = alerts.NewLogNotifier()
	if appConfig.TelegramToken != "" && appConfig.TelegramChatID != 0 {
		telegram, err := alerts.NewTelegramNotifier(appConfig.TelegramToken, appConfig.TelegramChatID)
		if err != nil {
			log.Warnf("Telegram sink unavailable, falling back to log: %v", err)
		} else {
			notifier = telegram
		}
	}

	dispatcher := alerts.NewDispatcher(settingsService, evaluationService, transactionService, notifier,
		alerts.GlobalThresholds{
			WarnPercent:     appConfig.GlobalWarnPercent,
			ExceededPercent: appConfig.GlobalExceededPercent,
		})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobs := scheduler.New(scheduler.AlwaysSatisfied())
	defer jobs.Stop()

	constraints := scheduler.Constraints{RequireNetwork: true, RequireBatteryNotLow: true}
	jobs.SchedulePeriodic(ctx, "monitoreo_presupuestos",
		appConfig.MonitorInterval, appConfig.MonitorFlex, constraints, dispatcher.RunCategoryAlerts)
	jobs.SchedulePeriodic(ctx, "presupuesto_alert",
		appConfig.GlobalInterval, appConfig.GlobalFlex, constraints, dispatcher.RunGlobalLimitAlert)

	// Run one evaluation on startup before settling into the cadence.
	jobs.ScheduleOnce(ctx, "monitoreo_inicial", 5*time.Second, scheduler.Constraints{},
		dispatcher.RunCategoryAlerts)

	log.Infow("Budget monitor started",
		"category_interval", appConfig.MonitorInterval,
		"global_interval", appConfig.GlobalInterval,
	)

	<-ctx.Done()
	log.Info("Shutting down...")
	return nil
}
