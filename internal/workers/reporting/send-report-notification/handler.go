package sendreportnotification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"insight-workers/internal/common/camunda"
	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/models"
)

const TaskType = "send-report-notification"

// EmailSender and SMSSender are satisfied by the SES and SNS senders in
// internal/common/aws.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

type SMSSender interface {
	Send(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config *Config
	email  EmailSender
	sms    SMSSender
	now    func() time.Time
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		email:  email,
		sms:    sms,
		now:    time.Now,
		runner: camunda.NewRunner(TaskType, config.Timeout, log, opts...),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.RunJob(h.runner, client, job, h.Execute)
}

// Execute emails the report to every recipient. A text message goes out only
// when the business is Critical or the caller asks for high priority.
// The job fails (retryably) only when every attempted delivery failed.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ReportID == "" || strings.TrimSpace(input.Document) == "" {
		return nil, errors.NewInvalidInputError("reportId and document are required")
	}

	sentAt := h.now().UTC().Format(time.RFC3339)
	out := &Output{
		NotificationID: uuid.NewString(),
		Status:         StatusDisabled,
		Deliveries:     []models.Notification{},
		SentAt:         sentAt,
	}

	if h.config.EmailEnabled && h.email != nil {
		subject := emailSubject(input)
		for _, to := range pick(input.Recipients, h.config.Recipients) {
			msgID, err := h.email.Send(ctx, to, subject, input.Document)
			out.Deliveries = append(out.Deliveries, h.delivery(input.ReportID, ChannelEmail, to, msgID, err, sentAt))
		}
	}

	if h.config.SMSEnabled && h.sms != nil && needsSMS(input) {
		text := smsText(input)
		for _, phone := range pick(input.PhoneNumbers, h.config.PhoneNumbers) {
			msgID, err := h.sms.Send(ctx, phone, text)
			out.Deliveries = append(out.Deliveries, h.delivery(input.ReportID, ChannelSMS, phone, msgID, err, sentAt))
		}
	}

	var sent, failed int
	for _, d := range out.Deliveries {
		if d.Status == StatusSent {
			sent++
		} else {
			failed++
		}
	}
	switch {
	case sent > 0:
		out.Status = StatusSent
	case failed > 0:
		return nil, errors.NewNotificationSendFailedError("all",
			fmt.Errorf("%d deliveries failed for report %s", failed, input.ReportID))
	}

	h.logger.Info("report notification processed", map[string]interface{}{
		"reportId": input.ReportID,
		"status":   out.Status,
		"sent":     sent,
		"failed":   failed,
	})
	return out, nil
}

func (h *Handler) delivery(reportID, channel, recipient, msgID string, err error, sentAt string) models.Notification {
	n := models.Notification{
		ID:        uuid.NewString(),
		ReportID:  reportID,
		Channel:   channel,
		Recipient: recipient,
		Status:    StatusSent,
		MessageID: msgID,
		SentAt:    sentAt,
	}
	if err != nil {
		h.logger.Error(channel+" send failed", map[string]interface{}{
			"error":     err.Error(),
			"recipient": recipient,
		})
		n.Status = StatusFailed
		n.Error = err.Error()
		n.SentAt = ""
	}
	return n
}

func needsSMS(input *Input) bool {
	return input.Status == string(models.HealthCritical) || strings.EqualFold(input.Priority, PriorityHigh)
}

func emailSubject(input *Input) string {
	return fmt.Sprintf("Executive Leadership Report: %s (%.0f/100)", statusOrUnknown(input.Status), input.HealthScore)
}

func smsText(input *Input) string {
	return fmt.Sprintf("Leadership report %s: business health %s at %.0f/100. Full report sent by email.",
		shortID(input.ReportID), statusOrUnknown(input.Status), input.HealthScore)
}

func statusOrUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func pick(override, configured []string) []string {
	if len(override) > 0 {
		return override
	}
	return configured
}
