package fetchboarddata

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"insight-workers/internal/boards"
	"insight-workers/internal/common/camunda"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/insights"
	"insight-workers/internal/models"
)

const TaskType = "fetch-board-data"

// BoardLoader is satisfied by *boards.Provider.
type BoardLoader interface {
	LoadStrict(ctx context.Context) (*boards.Boards, error)
	Invalidate(ctx context.Context) error
}

type Handler struct {
	config *Config
	boards BoardLoader
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, loader BoardLoader, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		boards: loader,
		runner: camunda.NewRunner(TaskType, config.Timeout, log, opts...),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.RunJob(h.runner, client, job, h.Execute)
}

// Execute loads both boards. Unlike the chat path a fetch failure fails the
// job so the engine can retry it.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Refresh {
		if err := h.boards.Invalidate(ctx); err != nil {
			h.logger.Warn("board cache invalidation failed", map[string]interface{}{"error": err.Error()})
		}
	}

	b, err := h.boards.LoadStrict(ctx)
	if err != nil {
		return nil, err
	}

	out := &Output{
		WorkOrders: summarize(b.WorkOrders),
		Deals:      summarize(b.Deals),
		DataReady:  !b.IsEmpty(),
		Quality:    insights.AssessDataQuality(b.WorkOrders, b.Deals),
		FetchedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if input.IncludeTables {
		out.Tables = &Tables{WorkOrders: b.WorkOrders, Deals: b.Deals}
	}

	h.logger.Info("boards fetched", map[string]interface{}{
		"workOrderRows": out.WorkOrders.Rows,
		"dealRows":      out.Deals.Rows,
	})
	return out, nil
}

func summarize(t *models.RawTable) BoardSummary {
	if t == nil {
		return BoardSummary{Columns: []string{}}
	}
	return BoardSummary{BoardID: t.BoardID, Rows: t.Len(), Columns: t.Columns}
}
