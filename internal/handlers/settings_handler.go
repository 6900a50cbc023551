package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "michauchera/internal/errors"
	"michauchera/internal/services"
)

// SettingsHandler handles user-preference requests.
type SettingsHandler struct {
	settingsService services.SettingsServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents the payload for patching settings.
// Omitted fields keep their stored values.
type UpdateSettingsRequest struct {
	NotificationsEnabled *bool  `json:"notifications_enabled"`
	MonthlyLimit         *int64 `json:"monthly_limit" binding:"omitempty,gte=0"`
}

// GetSettings handles reading the stored preferences.
// @Summary     Get settings
// @Tags        settings
// @Produce     json
// @Success     200 {object} models.Settings "Settings"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Get()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings handles patching the stored preferences.
// @Summary     Update settings
// @Tags        settings
// @Accept      json
// @Produce     json
// @Param       request body UpdateSettingsRequest true "Settings patch"
// @Success     200 {object} models.Settings "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.Update(req.NotificationsEnabled, req.MonthlyLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
