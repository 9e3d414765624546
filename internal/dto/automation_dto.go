package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
)

// CreateScheduleRequest defines the data needed to create an update schedule.
type CreateScheduleRequest struct {
	Name          string   `json:"name" binding:"required"`
	Frequency     string   `json:"frequency" binding:"required,oneof=hourly daily weekly manual"`
	CurrencyPairs []string `json:"currencyPairs" binding:"required,min=1"`
	Sources       []string `json:"sources"`
	MaxRetries    int      `json:"maxRetries" binding:"omitempty,min=1"`
	IsActive      *bool    `json:"isActive"`
}

// UpdateScheduleRequest defines a partial update to an existing schedule.
// Nil fields are left untouched.
type UpdateScheduleRequest struct {
	Name          *string   `json:"name"`
	Frequency     *string   `json:"frequency" binding:"omitempty,oneof=hourly daily weekly manual"`
	CurrencyPairs *[]string `json:"currencyPairs" binding:"omitempty,min=1"`
	Sources       *[]string `json:"sources"`
	MaxRetries    *int      `json:"maxRetries" binding:"omitempty,min=1"`
	IsActive      *bool     `json:"isActive"`
}

// ScheduleResponse defines the data returned for an update schedule.
type ScheduleResponse struct {
	ScheduleID    string    `json:"scheduleID"`
	Name          string    `json:"name"`
	Frequency     string    `json:"frequency"`
	IsActive      bool      `json:"isActive"`
	LastUpdate    time.Time `json:"lastUpdate"`
	NextUpdate    time.Time `json:"nextUpdate"`
	CurrencyPairs []string  `json:"currencyPairs"`
	Sources       []string  `json:"sources"`
	FailureCount  int       `json:"failureCount"`
	MaxRetries    int       `json:"maxRetries"`
}

// ToScheduleResponse converts a domain.UpdateSchedule to its DTO.
func ToScheduleResponse(s *domain.UpdateSchedule) ScheduleResponse {
	return ScheduleResponse{
		ScheduleID:    s.ScheduleID,
		Name:          s.Name,
		Frequency:     string(s.Frequency),
		IsActive:      s.IsActive,
		LastUpdate:    s.LastUpdate,
		NextUpdate:    s.NextUpdate,
		CurrencyPairs: s.CurrencyPairs,
		Sources:       s.Sources,
		FailureCount:  s.FailureCount,
		MaxRetries:    s.MaxRetries,
	}
}

// ToListScheduleResponse converts a slice of schedules to DTOs.
func ToListScheduleResponse(schedules []domain.UpdateSchedule) []ScheduleResponse {
	res := make([]ScheduleResponse, len(schedules))
	for i, s := range schedules {
		res[i] = ToScheduleResponse(&s)
	}
	return res
}

// TriggerManualUpdateRequest carries the optional explicit pair list for an
// ad hoc update run.
type TriggerManualUpdateRequest struct {
	CurrencyPairs []string `json:"currencyPairs"`
}

// NotificationResponse defines the data returned for a notification.
type NotificationResponse struct {
	NotificationID string         `json:"notificationID"`
	Type           string         `json:"type"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Timestamp      time.Time      `json:"timestamp"`
	Payload        map[string]any `json:"payload,omitempty"`
	Recipients     []string       `json:"recipients"`
	IsRead         bool           `json:"isRead"`
}

// ToNotificationResponse converts a domain.Notification to its DTO.
func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		NotificationID: n.NotificationID,
		Type:           string(n.Type),
		Title:          n.Title,
		Message:        n.Message,
		Timestamp:      n.Timestamp,
		Payload:        n.Payload,
		Recipients:     n.Recipients,
		IsRead:         n.IsRead,
	}
}

// UpdateAutomationSettingsRequest defines a partial update to the automation
// settings document. Nil fields are left untouched.
type UpdateAutomationSettingsRequest struct {
	EnableAutomaticUpdates    *bool                 `json:"enableAutomaticUpdates"`
	UpdateFrequency           *string               `json:"updateFrequency" binding:"omitempty,oneof=hourly daily weekly"`
	AlertThreshold            *decimal.Decimal      `json:"alertThreshold"`
	MaxRetries                *int                  `json:"maxRetries" binding:"omitempty,min=1"`
	RetryDelayMinutes         *int                  `json:"retryDelayMinutes" binding:"omitempty,min=1"`
	EnableNotifications       *bool                 `json:"enableNotifications"`
	NotificationRecipients    *[]string             `json:"notificationRecipients"`
	BusinessHoursOnly         *bool                 `json:"businessHoursOnly"`
	BusinessHours             *domain.BusinessHours `json:"businessHours"`
	ExcludeWeekends           *bool                 `json:"excludeWeekends"`
	EmergencyContactThreshold *decimal.Decimal      `json:"emergencyContactThreshold"`
}

// AutomationSettingsResponse defines the settings document returned to
// callers. Durations are surfaced in minutes for the UI.
type AutomationSettingsResponse struct {
	EnableAutomaticUpdates           bool                 `json:"enableAutomaticUpdates"`
	UpdateFrequency                  string               `json:"updateFrequency"`
	AlertThreshold                   decimal.Decimal      `json:"alertThreshold"`
	MaxRetries                       int                  `json:"maxRetries"`
	RetryDelayMinutes                int                  `json:"retryDelayMinutes"`
	EnableNotifications              bool                 `json:"enableNotifications"`
	NotificationRecipients           []string             `json:"notificationRecipients"`
	BusinessHoursOnly                bool                 `json:"businessHoursOnly"`
	BusinessHours                    domain.BusinessHours `json:"businessHours"`
	ExcludeWeekends                  bool                 `json:"excludeWeekends"`
	EmergencyContactThreshold        decimal.Decimal      `json:"emergencyContactThreshold"`
	EstimatedScheduledDurationMins   int                  `json:"estimatedScheduledDurationMinutes"`
	EstimatedManualDurationMins      int                  `json:"estimatedManualDurationMinutes"`
}

// ToAutomationSettingsResponse converts domain settings to the response DTO.
func ToAutomationSettingsResponse(s *domain.AutomationSettings) AutomationSettingsResponse {
	return AutomationSettingsResponse{
		EnableAutomaticUpdates:         s.EnableAutomaticUpdates,
		UpdateFrequency:                string(s.UpdateFrequency),
		AlertThreshold:                 s.AlertThreshold,
		MaxRetries:                     s.MaxRetries,
		RetryDelayMinutes:              int(s.RetryDelay.Minutes()),
		EnableNotifications:            s.EnableNotifications,
		NotificationRecipients:         s.NotificationRecipients,
		BusinessHoursOnly:              s.BusinessHoursOnly,
		BusinessHours:                  s.BusinessHours,
		ExcludeWeekends:                s.ExcludeWeekends,
		EmergencyContactThreshold:      s.EmergencyContactThreshold,
		EstimatedScheduledDurationMins: int(s.EstimatedScheduledDuration.Minutes()),
		EstimatedManualDurationMins:    int(s.EstimatedManualDuration.Minutes()),
	}
}
