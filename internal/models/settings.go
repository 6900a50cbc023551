package models

// Settings holds the single row of user preferences the alert pipeline reads.
// Nullable fields distinguish "unset" from an explicit value.
type Settings struct {
	Base
	NotificationsEnabled *bool  `json:"notifications_enabled"`
	MonthlyLimit         *int64 `gorm:"type:bigint" json:"monthly_limit"`
}
