package domain

import "time"

// NotificationType classifies automation notifications.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationFailure NotificationType = "failure"
	NotificationAlert   NotificationType = "alert" // elevated severity
	NotificationWarning NotificationType = "warning"
)

// Notification is produced by the automation scheduler and the rate change
// tracker, never by UI collaborators. Actual transport (email/SMS/webhook)
// is the delivery channel's responsibility.
type Notification struct {
	NotificationID string           `json:"notificationID"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Timestamp      time.Time        `json:"timestamp"`
	Payload        map[string]any   `json:"payload,omitempty"`
	Recipients     []string         `json:"recipients"`
	IsRead         bool             `json:"isRead"`
}
