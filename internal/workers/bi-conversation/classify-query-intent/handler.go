package classifyqueryintent

import (
	"context"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"insight-workers/internal/common/camunda"
	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/insights"
)

const TaskType = "classify-query-intent"

type Handler struct {
	config     *Config
	classifier insights.IntentClassifier
	runner     *camunda.Runner
	logger     logger.Logger
}

func NewHandler(config *Config, classifier insights.IntentClassifier, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	if classifier == nil {
		classifier = insights.NewKeywordClassifier()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		classifier: classifier,
		runner:     camunda.NewRunner(TaskType, config.Timeout, log, opts...),
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.RunJob(h.runner, client, job, h.Execute)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, errors.NewInvalidInputError("query is required")
	}

	intents := h.classifier.Classify(input.Query)
	out := &Output{
		Intents:       intents.Strings(),
		PrimaryIntent: PrimaryGeneral,
		Matched:       len(intents) > 0,
	}
	if out.Matched {
		out.PrimaryIntent = string(intents[0])
	}
	return out, nil
}
