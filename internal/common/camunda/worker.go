package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/common/metrics"
	"insight-workers/internal/common/observability"
	"insight-workers/internal/common/validation"
)

const (
	statusCompleted = "completed"
	statusFailed    = "failed"
)

// Runner carries what every job handler needs around its Execute call:
// input validation, timeouts, metrics, tracing and failure mapping.
type Runner struct {
	taskType  string
	timeout   time.Duration
	validator *validation.SchemaValidator
	obs       *observability.Observability
	errors    *errors.ErrorHandler
	log       logger.Logger
}

type RunnerOption func(*Runner)

// WithValidator checks job variables against the registry before decoding.
func WithValidator(v *validation.SchemaValidator) RunnerOption {
	return func(r *Runner) { r.validator = v }
}

func WithObservability(o *observability.Observability) RunnerOption {
	return func(r *Runner) {
		if o != nil {
			r.obs = o
		}
	}
}

func NewRunner(taskType string, timeout time.Duration, log logger.Logger, opts ...RunnerOption) *Runner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r := &Runner{
		taskType: taskType,
		timeout:  timeout,
		obs:      &observability.Observability{},
		errors:   errors.NewErrorHandler(log),
		log:      log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) TaskType() string { return r.taskType }

// RunJob validates and decodes the job variables into I, runs exec and
// completes the job with its output. Failures go through the error handler.
func RunJob[I any, O any](r *Runner, client worker.JobClient, job entities.Job, exec func(context.Context, *I) (*O, error)) {
	start := time.Now()
	active := metrics.WorkerJobsActive.WithLabelValues(r.taskType)
	active.Inc()
	defer active.Dec()

	r.log.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	ctx, span := r.obs.StartSpan(ctx, "job."+r.taskType,
		attribute.Int64("job.key", job.Key),
		attribute.Int64("job.process_instance_key", job.ProcessInstanceKey),
	)
	defer span.End()

	output, err := Process(ctx, r, job.Variables, exec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.fail(ctx, client, job, err, start)
		return
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		r.fail(ctx, client, job, errors.NewInternalError(fmt.Errorf("encode output: %w", err)), start)
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		r.log.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	elapsed := time.Since(start)
	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(elapsed.Seconds())
	r.obs.RecordJobProcessed(ctx, r.taskType, statusCompleted)
	r.obs.RecordJobDuration(ctx, r.taskType, elapsed, statusCompleted)

	r.log.Info("job completed", map[string]interface{}{
		"jobKey":   job.Key,
		"duration": elapsed.String(),
	})
}

// Process is the transport-free part of RunJob.
func Process[I any, O any](ctx context.Context, r *Runner, variables string, exec func(context.Context, *I) (*O, error)) (*O, error) {
	if err := r.validator.Validate(r.taskType, variables); err != nil {
		return nil, err
	}

	var input I
	if variables != "" {
		if err := json.Unmarshal([]byte(variables), &input); err != nil {
			return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
		}
	}

	output, err := exec(ctx, &input)
	if err != nil {
		return nil, err
	}
	return output, nil
}

func (r *Runner) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	code := string(errors.ErrCodeInternal)
	if stdErr, ok := errors.AsStandardError(err); ok {
		code = string(stdErr.Code)
	}

	elapsed := time.Since(start)
	metrics.WorkerJobsFailed.WithLabelValues(r.taskType, code).Inc()
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(elapsed.Seconds())
	r.obs.RecordJobProcessed(ctx, r.taskType, statusFailed)
	r.obs.RecordJobDuration(ctx, r.taskType, elapsed, statusFailed)

	r.errors.HandleJobError(context.Background(), client, job, err)
}

// JobWorker is an open Zeebe job subscription.
type JobWorker struct {
	worker   worker.JobWorker
	taskType string
	log      logger.Logger
}

// WorkerOptions tune a job subscription.
type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
	PollInterval  time.Duration
}

// OpenWorker subscribes handler to taskType.
func OpenWorker(client zbc.Client, taskType string, handler worker.JobHandler, opts WorkerOptions, log logger.Logger) *JobWorker {
	step := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout)
	if opts.PollInterval > 0 {
		step = step.PollInterval(opts.PollInterval)
	}

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": opts.MaxJobsActive,
		"timeout":       opts.Timeout.String(),
	})
	return &JobWorker{worker: step.Open(), taskType: taskType, log: log}
}

func (w *JobWorker) TaskType() string { return w.taskType }

// Close stops polling and waits for in-flight jobs.
func (w *JobWorker) Close() {
	w.log.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})
	w.worker.Close()
	w.worker.AwaitClose()
}
