package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"michauchera/internal/alerts"
	apperrors "michauchera/internal/errors"
	"michauchera/internal/scheduler"
)

// Logical job names the monitor runs under.
const (
	JobCategoryMonitor = "monitoreo_presupuestos"
	JobGlobalLimit     = "presupuesto_alert"
)

// AlertHandler exposes the alert pipeline: manual runs and job status.
// One-off runs are tied to the application context, not the request, so they
// survive the response.
type AlertHandler struct {
	appCtx        context.Context
	dispatcher    *alerts.Dispatcher
	jobs          *scheduler.Scheduler
	checkNowDelay time.Duration
	checkCount    atomic.Int64
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(appCtx context.Context, dispatcher *alerts.Dispatcher, jobs *scheduler.Scheduler, checkNowDelay time.Duration) *AlertHandler {
	return &AlertHandler{appCtx: appCtx, dispatcher: dispatcher, jobs: jobs, checkNowDelay: checkNowDelay}
}

// CheckNow enqueues a one-off evaluation run with relaxed constraints.
// @Summary     Run alert check now
// @Description Enqueue an immediate one-off budget evaluation and alert run
// @Tags        alerts
// @Produce     json
// @Success     202 {object} map[string]string "Run enqueued"
// @Router      /alerts/check [post]
func (h *AlertHandler) CheckNow(c *gin.Context) {
	name := fmt.Sprintf("monitoreo_inmediato_%d", h.checkCount.Add(1))

	h.jobs.ScheduleOnce(h.appCtx, name, h.checkNowDelay,
		scheduler.Constraints{}, h.dispatcher.RunCategoryAlerts)

	c.JSON(http.StatusAccepted, gin.H{"job": name})
}

// GetJobStatus reads the lifecycle state of a scheduled job.
// @Summary     Get job status
// @Tags        alerts
// @Produce     json
// @Param       name path string true "Job name"
// @Success     200 {object} map[string]string "Job state"
// @Failure     404 {object} ErrorResponse "No job under that name"
// @Router      /alerts/jobs/{name} [get]
func (h *AlertHandler) GetJobStatus(c *gin.Context) {
	name := c.Param("name")
	state, ok := h.jobs.Status(name)
	if !ok {
		respondWithError(c, apperrors.ErrJobNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": name, "state": state})
}
