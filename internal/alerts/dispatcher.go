package alerts

import (
	"context"
	"fmt"
	"time"

	"michauchera/internal/logger"
	"michauchera/internal/models"
	"michauchera/internal/money"
	"michauchera/internal/period"
	"michauchera/internal/services"
)

const (
	// Per-category notifications occupy IDs starting here; the summary takes
	// a fixed slot well past any realistic budget count.
	notificationBaseID = 2000
	summaryOffset      = 999

	// A summary is emitted once this many budgets are outside the normal tier.
	summaryThreshold = 3

	// Slot for the coarser global monthly-limit alert.
	globalLimitID = 1001

	TagWarning     = "advertencia_presupuesto"
	TagExceeded    = "excedido_presupuesto"
	TagSummary     = "resumen"
	TagGlobalLimit = "presupuesto_mensual"
)

// GlobalThresholds configures the coarser whole-month limit check. It keeps
// the two-tier 80/100 ladder of the original monthly-limit alert, separate
// from the canonical per-category 70/90/100 ladder.
type GlobalThresholds struct {
	WarnPercent     float64
	ExceededPercent float64
}

// DefaultGlobalThresholds returns the stock 80/100 configuration.
func DefaultGlobalThresholds() GlobalThresholds {
	return GlobalThresholds{WarnPercent: 80, ExceededPercent: 100}
}

// Dispatcher runs the evaluation engine and pushes the resulting alerts to a
// notification sink. It owns no persistent state; repeated runs over
// unchanged data address the same notification slots with the same content.
type Dispatcher struct {
	settings   services.SettingsServicer
	evaluation services.EvaluationServicer
	ledger     services.TransactionServicer
	notifier   Notifier
	thresholds GlobalThresholds
	now        func() time.Time
}

// NewDispatcher creates a Dispatcher over the given collaborators.
func NewDispatcher(
	settings services.SettingsServicer,
	evaluation services.EvaluationServicer,
	ledger services.TransactionServicer,
	notifier Notifier,
	thresholds GlobalThresholds,
) *Dispatcher {
	return &Dispatcher{
		settings:   settings,
		evaluation: evaluation,
		ledger:     ledger,
		notifier:   notifier,
		thresholds: thresholds,
		now:        time.Now,
	}
}

// RunCategoryAlerts evaluates every active budget for the current period and
// emits at most one notification per category, plus a summary when enough
// budgets are at risk. Disabled notifications and an empty period are both
// successful no-ops.
func (d *Dispatcher) RunCategoryAlerts(ctx context.Context) error {
	enabled, err := d.settings.NotificationsEnabled()
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}

	month, year := period.Current(d.now())
	results, err := d.evaluation.Evaluate(month, year)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	atRisk := 0
	exceeded := 0
	for i, result := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		if result.AlertLevel == models.AlertLevelNormal {
			continue
		}
		atRisk++
		if result.IsExceeded {
			exceeded++
		}
		if err := d.notifier.Notify(ctx, categoryNotification(result, i)); err != nil {
			return err
		}
	}

	if atRisk >= summaryThreshold {
		if err := d.notifier.Notify(ctx, summaryNotification(atRisk, exceeded)); err != nil {
			return err
		}
	}

	logger.Get().Infow("category alert run complete",
		"month", month, "year", year,
		"budgets", len(results), "at_risk", atRisk, "exceeded", exceeded,
	)
	return nil
}

// RunGlobalLimitAlert compares the month's total expenses against the global
// monthly limit from settings. No limit configured means nothing to check.
func (d *Dispatcher) RunGlobalLimitAlert(ctx context.Context) error {
	enabled, err := d.settings.NotificationsEnabled()
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}

	limit, ok, err := d.settings.MonthlyLimit()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	now := d.now()
	month, year := period.Current(now)
	stats, err := d.ledger.GetMonthlyStats(month, year)
	if err != nil {
		return err
	}

	percentUsed := float64(stats.Expenses) / float64(limit) * 100
	body := fmt.Sprintf("Has gastado %s de %s este mes (%d%%).",
		money.FormatCLP(stats.Expenses), money.FormatCLP(limit), int(percentUsed))

	switch {
	case percentUsed >= d.thresholds.ExceededPercent:
		return d.notifier.Notify(ctx, Notification{
			Tag:      TagGlobalLimit,
			ID:       globalLimitID,
			Title:    "⚠️ ¡Límite de Presupuesto Superado!",
			Body:     body,
			Priority: PriorityHigh,
		})
	case percentUsed >= d.thresholds.WarnPercent:
		return d.notifier.Notify(ctx, Notification{
			Tag:      TagGlobalLimit,
			ID:       globalLimitID,
			Title:    "⚠️ Acercándote al Límite",
			Body:     body,
			Priority: PriorityDefault,
		})
	}
	return nil
}

// categoryNotification builds the per-category alert for a non-normal result.
// The slot ID is derived from the budget's position in the evaluation list so
// repeat runs update instead of duplicate.
func categoryNotification(result models.BudgetWithSpend, index int) Notification {
	budget := result.Budget
	percent := int(result.PercentUsed)
	id := notificationBaseID + index

	switch result.AlertLevel {
	case models.AlertLevelCritical:
		excess := result.CurrentSpend - budget.LimitAmount
		return Notification{
			Tag:   TagExceeded,
			ID:    id,
			Title: "🚨 ¡PRESUPUESTO EXCEDIDO!",
			Body: fmt.Sprintf("%s: Has gastado %s de %s (%d%%). Excediste en %s.",
				budget.Category, money.FormatCLP(result.CurrentSpend),
				money.FormatCLP(budget.LimitAmount), percent, money.FormatCLP(excess)),
			Priority: PriorityHigh,
		}
	case models.AlertLevelHigh:
		return Notification{
			Tag:   TagWarning,
			ID:    id,
			Title: "⚠️ Casi sin Presupuesto",
			Body: fmt.Sprintf("%s: Usaste %d%%. Solo quedan %s disponibles.",
				budget.Category, percent, money.FormatCLP(result.Available)),
			Priority: PriorityDefault,
		}
	default:
		return Notification{
			Tag:   TagWarning,
			ID:    id,
			Title: "💡 Precaución con tu Presupuesto",
			Body: fmt.Sprintf("%s: Ya usaste %d%% del presupuesto del mes.",
				budget.Category, percent),
			Priority: PriorityLow,
		}
	}
}

// summaryNotification aggregates the run into one extra notification.
func summaryNotification(atRisk, exceeded int) Notification {
	warning := atRisk - exceeded
	body := ""
	if exceeded > 0 {
		plural := ""
		if exceeded > 1 {
			plural = "s"
		}
		body += fmt.Sprintf("%d presupuesto%s excedido%s. ", exceeded, plural, plural)
	}
	if warning > 0 {
		body += fmt.Sprintf("%d en zona de advertencia.", warning)
	}
	return Notification{
		Tag:      TagSummary,
		ID:       notificationBaseID + summaryOffset,
		Title:    "📊 Resumen de Presupuestos",
		Body:     body,
		Priority: PriorityDefault,
	}
}
