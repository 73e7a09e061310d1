package main

const configTemplate = `package {{ .Package }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{Timeout: {{ .TimeoutExpr }}}
}
`

const modelsTemplate = `package {{ .Package }}

type Input struct {
{{- range .Input }}
	{{ .Name }} {{ .Type }} ` + "`" + `json:"{{ .JSONName }}{{ if not .Required }},omitempty{{ end }}"` + "`" + `
{{- end }}
}

type Output struct {
{{- range .Output }}
	{{ .Name }} {{ .Type }} ` + "`" + `json:"{{ .JSONName }}"` + "`" + `
{{- end }}
}
`

const handlerTemplate = `package {{ .Package }}

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"insight-workers/internal/common/camunda"
	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
)

const TaskType = "{{ .TaskType }}"

type Handler struct {
	config *Config
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		runner: camunda.NewRunner(TaskType, config.Timeout, log, opts...),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.RunJob(h.runner, client, job, h.Execute)
}
{{ if .Description }}
// Execute: {{ .Description }}
{{- end }}
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return nil, errors.NewInternalError(fmt.Errorf("%s is not implemented", TaskType))
}
`

const testTemplate = `package {{ .Package }}

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"insight-workers/internal/common/logger"
)

func TestExecute(t *testing.T) {
	h := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{})
	assert.Nil(t, out)
	assert.Error(t, err)
}
`
