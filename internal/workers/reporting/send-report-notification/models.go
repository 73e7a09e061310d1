package sendreportnotification

import "insight-workers/internal/models"

type Input struct {
	ReportID    string  `json:"reportId"`
	Document    string  `json:"document"`
	Status      string  `json:"status"`
	HealthScore float64 `json:"healthScore"`
	Priority    string  `json:"priority,omitempty"`
	// Recipients and PhoneNumbers override the configured lists.
	Recipients   []string `json:"recipients,omitempty"`
	PhoneNumbers []string `json:"phoneNumbers,omitempty"`
}

type Output struct {
	NotificationID string                `json:"notificationId"`
	Status         string                `json:"status"` // "sent", "failed", "disabled"
	Deliveries     []models.Notification `json:"deliveries"`
	SentAt         string                `json:"sentAt"`
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

const PriorityHigh = "high"
