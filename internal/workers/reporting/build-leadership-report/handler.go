package buildleadershipreport

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"insight-workers/internal/boards"
	"insight-workers/internal/common/camunda"
	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/common/metrics"
	"insight-workers/internal/insights"
)

const TaskType = "build-leadership-report"

type BoardLoader interface {
	Load(ctx context.Context) *boards.Boards
}

type Handler struct {
	config *Config
	boards BoardLoader
	now    func() time.Time
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, loader BoardLoader, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		boards: loader,
		now:    time.Now,
		runner: camunda.NewRunner(TaskType, config.Timeout, log, opts...),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.RunJob(h.runner, client, job, h.Execute)
}

// Execute refuses with REPORT_NO_DATA unless both boards have rows.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	b := h.boards.Load(ctx)
	if b.IsEmpty() {
		return nil, errors.NewReportNoDataError()
	}

	now := h.now()
	work, deals := b.Tables()
	report := insights.BuildLeadershipReport(work, deals, now)
	meta := report.Metadata
	metrics.ReportsGenerated.WithLabelValues(string(meta.Status)).Inc()

	h.logger.Info("leadership report built", map[string]interface{}{
		"reportId":    meta.ID,
		"healthScore": meta.HealthScore,
		"status":      string(meta.Status),
		"requestedBy": input.RequestedBy,
	})

	return &Output{
		ReportID:    meta.ID,
		Document:    report.Document,
		FileName:    insights.ReportFileName(now),
		Status:      string(meta.Status),
		HealthScore: meta.HealthScore,
		Metadata:    meta,
	}, nil
}
