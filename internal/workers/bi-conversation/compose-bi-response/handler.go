package composebiresponse

import (
	"context"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"insight-workers/internal/boards"
	"insight-workers/internal/common/camunda"
	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/common/metrics"
	"insight-workers/internal/insights"
	"insight-workers/internal/models"
)

const TaskType = "compose-bi-response"

type BoardLoader interface {
	Load(ctx context.Context) *boards.Boards
}

type Handler struct {
	config  *Config
	boards  BoardLoader
	compose func(query string, work, deals *models.Table) insights.Composition
	runner  *camunda.Runner
	logger  logger.Logger
}

func NewHandler(config *Config, loader BoardLoader, classifier insights.IntentClassifier, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		boards:  loader,
		compose: insights.NewComposer(classifier).Compose,
		runner:  camunda.NewRunner(TaskType, config.Timeout, log, opts...),
		logger:  log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.RunJob(h.runner, client, job, h.Execute)
}

// Execute answers the query from whatever board data is available; missing
// boards render as zeros rather than failing the job.
func (h *Handler) Execute(ctx context.Context, input *Input) (out *Output, err error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, errors.NewInvalidInputError("query is required")
	}

	b := h.boards.Load(ctx)
	work, deals := b.Tables()

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = errors.NewResponseCompositionFailedError(fmt.Errorf("%v", r))
		}
	}()

	comp := h.compose(input.Query, work, deals)
	text := comp.Text
	if !h.config.DisableFollowUps {
		text += insights.FollowUps(comp.Intents)
	}

	primary := "general"
	if len(comp.Intents) > 0 {
		primary = string(comp.Intents[0])
	}
	metrics.QueriesTotal.WithLabelValues(primary).Inc()

	return &Output{
		Response:      text,
		Template:      comp.Template,
		Intents:       comp.Intents.Strings(),
		DataAvailable: !b.IsEmpty(),
	}, nil
}
