package checkclarification

import (
	"context"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"insight-workers/internal/boards"
	"insight-workers/internal/common/camunda"
	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/common/metrics"
	"insight-workers/internal/insights"
)

const TaskType = "check-clarification"

// BoardLoader supplies the boards the sector rule reads.
type BoardLoader interface {
	Load(ctx context.Context) *boards.Boards
}

type Handler struct {
	config *Config
	boards BoardLoader
	gate   *insights.Gate
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, loader BoardLoader, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		boards: loader,
		gate:   insights.NewGate(config.FiscalYear, nil),
		runner: camunda.NewRunner(TaskType, config.Timeout, log, opts...),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.RunJob(h.runner, client, job, h.Execute)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, errors.NewInvalidInputError("query is required")
	}

	work, deals := h.boards.Load(ctx).Tables()
	clar := h.gate.Check(input.Query, work, deals)

	out := &Output{
		ForwardedQuery:        clar.ForwardedQuery,
		ClarificationAskedFor: input.ClarificationAskedFor,
	}
	if !clar.Needed || input.Query == input.ClarificationAskedFor {
		return out, nil
	}

	out.NeedsClarification = true
	out.Question = clar.Question
	out.Reason = string(clar.Reason)
	out.ReplyText = insights.ClarificationReply(clar.Question)
	out.ClarificationAskedFor = input.Query
	metrics.ClarificationsTotal.WithLabelValues(out.Reason).Inc()

	h.logger.Debug("clarification needed", map[string]interface{}{
		"reason": out.Reason,
		"query":  input.Query,
	})
	return out, nil
}
