package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "michauchera/internal/errors"
	"michauchera/internal/models"
)

// settingsService reads and writes the single user-preferences row.
type settingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(db *gorm.DB) SettingsServicer {
	return &settingsService{db: db}
}

// Get returns the stored settings, or an empty row when none exist yet.
func (s *settingsService) Get() (*models.Settings, error) {
	var settings models.Settings
	if err := s.db.First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.Settings{}, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// Update patches the settings row, creating it on first write.
// Nil fields are left untouched.
func (s *settingsService) Update(notificationsEnabled *bool, monthlyLimit *int64) (*models.Settings, error) {
	if monthlyLimit != nil && *monthlyLimit < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Monthly limit cannot be negative")
	}

	var settings models.Settings
	err := s.db.First(&settings).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if notificationsEnabled != nil {
		settings.NotificationsEnabled = notificationsEnabled
	}
	if monthlyLimit != nil {
		settings.MonthlyLimit = monthlyLimit
	}

	if err := s.db.Save(&settings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// NotificationsEnabled reports whether alerts may be delivered.
// Missing settings default to enabled.
func (s *settingsService) NotificationsEnabled() (bool, error) {
	settings, err := s.Get()
	if err != nil {
		return false, err
	}
	if settings.NotificationsEnabled == nil {
		return true, nil
	}
	return *settings.NotificationsEnabled, nil
}

// MonthlyLimit returns the global monthly spending limit and whether one is set.
func (s *settingsService) MonthlyLimit() (int64, bool, error) {
	settings, err := s.Get()
	if err != nil {
		return 0, false, err
	}
	if settings.MonthlyLimit == nil || *settings.MonthlyLimit <= 0 {
		return 0, false, nil
	}
	return *settings.MonthlyLimit, true, nil
}
