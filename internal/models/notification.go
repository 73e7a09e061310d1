package models

// Notification records one delivery attempt of a leadership report.
type Notification struct {
	ID        string `json:"id"`
	ReportID  string `json:"reportId"`
	Channel   string `json:"channel"` // "email", "sms"
	Recipient string `json:"recipient"`
	Status    string `json:"status"` // "sent", "failed", "disabled"
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
	SentAt    string `json:"sentAt,omitempty"`
}
