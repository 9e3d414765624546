package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessHours gates automatic updates to a daily window when enabled.
type BusinessHours struct {
	Start    string `json:"start"` // HH:MM
	End      string `json:"end"`   // HH:MM
	Timezone string `json:"timezone"`
}

// AutomationSettings is the mutable configuration document of the automation
// scheduler. Estimated run durations are presentation heuristics kept
// configurable rather than hard-coded.
type AutomationSettings struct {
	EnableAutomaticUpdates     bool            `json:"enableAutomaticUpdates"`
	UpdateFrequency            UpdateFrequency `json:"updateFrequency"`
	AlertThreshold             decimal.Decimal `json:"alertThreshold"` // percent
	MaxRetries                 int             `json:"maxRetries"`
	RetryDelay                 time.Duration   `json:"retryDelay"`
	EnableNotifications        bool            `json:"enableNotifications"`
	NotificationRecipients     []string        `json:"notificationRecipients"`
	BusinessHoursOnly          bool            `json:"businessHoursOnly"`
	BusinessHours              BusinessHours   `json:"businessHours"`
	ExcludeWeekends            bool            `json:"excludeWeekends"`
	EmergencyContactThreshold  decimal.Decimal `json:"emergencyContactThreshold"` // percent
	EstimatedScheduledDuration time.Duration   `json:"estimatedScheduledDuration"`
	EstimatedManualDuration    time.Duration   `json:"estimatedManualDuration"`
}
