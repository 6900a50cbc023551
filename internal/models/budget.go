package models

// MinBudgetYear is the earliest year a budget may be created for.
const MinBudgetYear = 2000

// Budget represents a per-category monthly spending limit.
// At most one active budget exists per (category, month, year).
type Budget struct {
	Base
	Category    string `gorm:"not null;index" json:"category"`
	LimitAmount int64  `gorm:"type:bigint;not null" json:"limit_amount"`
	Month       int    `gorm:"not null;index:idx_budgets_period" json:"month"`
	Year        int    `gorm:"not null;index:idx_budgets_period" json:"year"`
	Active      bool   `gorm:"default:true" json:"active"`
}

// AlertLevel classifies how much of a budget has been consumed.
type AlertLevel string

const (
	AlertLevelNormal   AlertLevel = "normal"
	AlertLevelMedium   AlertLevel = "medium"
	AlertLevelHigh     AlertLevel = "high"
	AlertLevelCritical AlertLevel = "critical"
)

// ClassifyAlertLevel maps a percentage of budget used onto the alert ladder.
// Boundary values classify into the higher tier.
func ClassifyAlertLevel(percentUsed float64) AlertLevel {
	switch {
	case percentUsed >= 100:
		return AlertLevelCritical
	case percentUsed >= 90:
		return AlertLevelHigh
	case percentUsed >= 70:
		return AlertLevelMedium
	default:
		return AlertLevelNormal
	}
}

// BudgetWithSpend pairs a budget with the spend accumulated in its period.
// It is derived at evaluation time and never persisted.
type BudgetWithSpend struct {
	Budget       Budget     `json:"budget"`
	CurrentSpend int64      `json:"current_spend"`
	PercentUsed  float64    `json:"percent_used"`
	Available    int64      `json:"available"`
	IsExceeded   bool       `json:"is_exceeded"`
	AlertLevel   AlertLevel `json:"alert_level"`
}

// NewBudgetWithSpend derives the evaluation view for a budget and its spend.
func NewBudgetWithSpend(budget Budget, currentSpend int64) BudgetWithSpend {
	var percent float64
	if budget.LimitAmount > 0 {
		percent = float64(currentSpend) / float64(budget.LimitAmount) * 100
	}
	return BudgetWithSpend{
		Budget:       budget,
		CurrentSpend: currentSpend,
		PercentUsed:  percent,
		Available:    budget.LimitAmount - currentSpend,
		// Strictly greater: a budget at exactly 100% is Critical but not exceeded.
		IsExceeded: currentSpend > budget.LimitAmount,
		AlertLevel: ClassifyAlertLevel(percent),
	}
}
