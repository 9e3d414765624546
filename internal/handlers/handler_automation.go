package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vendorbridge/currency_engine_app/internal/apperrors"
	portssvc "github.com/vendorbridge/currency_engine_app/internal/core/ports/services"
	"github.com/vendorbridge/currency_engine_app/internal/dto"
	"github.com/vendorbridge/currency_engine_app/internal/middleware"
)

// automationHandler handles HTTP requests for the automation surface:
// schedules, update runs, notifications and settings.
type automationHandler struct {
	automationService portssvc.AutomationSvc
}

func newAutomationHandler(as portssvc.AutomationSvc) *automationHandler {
	return &automationHandler{automationService: as}
}

// registerAutomationRoutes registers automation routes.
func registerAutomationRoutes(rg *gin.RouterGroup, automationService portssvc.AutomationSvc) {
	h := newAutomationHandler(automationService)

	automation := rg.Group("/automation")
	{
		schedules := automation.Group("/schedules")
		{
			schedules.GET("", h.listSchedules)
			schedules.POST("", h.createSchedule)
			schedules.PATCH("/:id", h.updateSchedule)
			schedules.DELETE("/:id", h.deleteSchedule)
		}

		updates := automation.Group("/updates")
		{
			updates.POST("/trigger", h.triggerManualUpdate)
			updates.POST("/run", h.runScheduledUpdates)
			updates.GET("/history", h.getUpdateHistory)
			updates.GET("/stats", h.getUpdateStatistics)
		}

		notifications := automation.Group("/notifications")
		{
			notifications.GET("", h.listNotifications)
			notifications.POST("/:id/read", h.markNotificationRead)
		}

		settings := automation.Group("/settings")
		{
			settings.GET("", h.getSettings)
			settings.PATCH("", h.updateSettings)
		}
	}
}

func (h *automationHandler) listSchedules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	schedules, err := h.automationService.GetUpdateSchedules(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list schedules", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list schedules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedules": dto.ToListScheduleResponse(schedules)})
}

func (h *automationHandler) createSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	schedule, err := h.automationService.CreateSchedule(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create schedule", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		}
		return
	}

	logger.Info("Schedule created", slog.String("schedule_id", schedule.ScheduleID))
	c.JSON(http.StatusCreated, dto.ToScheduleResponse(schedule))
}

func (h *automationHandler) updateSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	scheduleID := c.Param("id")

	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	schedule, err := h.automationService.UpdateSchedule(c.Request.Context(), scheduleID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		} else {
			logger.Error("Failed to update schedule", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update schedule"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToScheduleResponse(schedule))
}

func (h *automationHandler) deleteSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	scheduleID := c.Param("id")

	if err := h.automationService.DeleteSchedule(c.Request.Context(), scheduleID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		} else {
			logger.Error("Failed to delete schedule", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete schedule"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *automationHandler) triggerManualUpdate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TriggerManualUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	run, err := h.automationService.TriggerManualUpdate(c.Request.Context(), req.CurrencyPairs)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to trigger manual update", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to trigger update"})
		}
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *automationHandler) runScheduledUpdates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	results, err := h.automationService.ExecuteScheduledUpdates(c.Request.Context())
	if err != nil {
		logger.Error("Failed to run scheduled updates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run scheduled updates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": results})
}

func (h *automationHandler) getUpdateHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	runs, err := h.automationService.GetUpdateHistory(c.Request.Context(), limit)
	if err != nil {
		logger.Error("Failed to get update history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve update history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (h *automationHandler) getUpdateStatistics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	stats, err := h.automationService.GetUpdateStatistics(c.Request.Context(), days)
	if err != nil {
		logger.Error("Failed to get update statistics", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve update statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *automationHandler) listNotifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	unreadOnly := c.DefaultQuery("unread", "false") == "true"

	notifications, err := h.automationService.GetNotifications(c.Request.Context(), unreadOnly)
	if err != nil {
		logger.Error("Failed to list notifications", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	responses := make([]dto.NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = dto.ToNotificationResponse(&notifications[i])
	}
	c.JSON(http.StatusOK, gin.H{"notifications": responses})
}

func (h *automationHandler) markNotificationRead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	notificationID := c.Param("id")

	if err := h.automationService.MarkNotificationAsRead(c.Request.Context(), notificationID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		} else {
			logger.Error("Failed to mark notification read", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification read"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "marked read"})
}

func (h *automationHandler) getSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	settings, err := h.automationService.GetAutomationSettings(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get automation settings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve settings"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAutomationSettingsResponse(settings))
}

func (h *automationHandler) updateSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateAutomationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	settings, err := h.automationService.UpdateAutomationSettings(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update automation settings", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAutomationSettingsResponse(settings))
}
