// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"insight-workers/internal/api"
	"insight-workers/internal/boards"
	"insight-workers/internal/common/aws"
	"insight-workers/internal/common/camunda"
	"insight-workers/internal/common/config"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/common/observability"
	"insight-workers/internal/common/validation"
	"insight-workers/internal/insights"
	"insight-workers/internal/session"
	"insight-workers/pkg/registry"

	fbd "insight-workers/internal/workers/data-access/fetch-board-data"

	cc "insight-workers/internal/workers/bi-conversation/check-clarification"
	cqi "insight-workers/internal/workers/bi-conversation/classify-query-intent"
	cbr "insight-workers/internal/workers/bi-conversation/compose-bi-response"

	blr "insight-workers/internal/workers/reporting/build-leadership-report"
	srn "insight-workers/internal/workers/reporting/send-report-notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{"service": cfg.App.Name})

	zapLog.Info("Starting worker manager...", zap.String("version", cfg.App.Version), zap.String("boardSource", cfg.Boards.Source))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.Tracing.ServiceName,
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
	})
	if err != nil {
		zapLog.Fatal("observability setup failed", zap.Error(err))
	}

	// --- Boards ---
	source, closeBoards, err := boards.Open(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("board source setup failed", zap.Error(err))
	}
	provider := boards.NewProvider(source, cfg.Boards.WorkOrdersBoardID, cfg.Boards.DealsBoardID, log)

	// --- Activity registry ---
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.String("path", cfg.Registry.Path), zap.Error(err))
	}
	for _, problem := range reg.Validate() {
		zapLog.Warn("activity registry problem", zap.Error(problem))
	}
	validator, err := validation.NewSchemaValidator(reg)
	if err != nil {
		zapLog.Fatal("input schema compilation failed", zap.Error(err))
	}

	// --- Zeebe workers ---
	var (
		zeebe   *camunda.Client
		workers []*camunda.JobWorker
	)
	if cfg.Camunda.BrokerAddress == "" {
		zapLog.Warn("camunda.broker_address not set, running the chat API only")
	} else {
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			RetryConfig:            &camunda.RetryConfig{MaxRetries: 10, BaseDelay: 2 * time.Second, MaxDelay: 30 * time.Second},
		})
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		runnerOpts := []camunda.RunnerOption{camunda.WithValidator(validator), camunda.WithObservability(obs)}
		workers = startWorkers(ctx, cfg, reg, zeebe, provider, log, runnerOpts)
		zapLog.Info("Workers registered", zap.Int("count", len(workers)))
	}

	// --- Chat API ---
	store := session.NewStore(provider, session.Options{
		FiscalYear:       cfg.Insights.FiscalYear,
		DisableFollowUps: cfg.Insights.DisableFollowUps,
		HistorySize:      cfg.Insights.ReportHistorySize,
	}, log)

	checks := map[string]api.ReadyCheck{
		"boards": func(ctx context.Context) error {
			_, err := provider.LoadStrict(ctx)
			return err
		},
	}
	if zeebe != nil {
		checks["zeebe"] = zeebe.HealthCheck
	}

	server := api.NewServer(store, provider, api.Options{
		Mode:        cfg.Server.Mode,
		ReadyChecks: checks,
		Version:     cfg.App.Version,
	}, log)
	httpServer := server.HTTPServer(cfg.Server.Address,
		config.GetDuration(cfg.Server.ReadTimeout),
		config.GetDuration(cfg.Server.WriteTimeout))

	go func() {
		zapLog.Info("Chat API listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Chat API server failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping chat API", zap.Error(err))
	}
	for _, w := range workers {
		w.Close()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	if err := closeBoards(); err != nil {
		zapLog.Error("Error closing board source", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// startWorkers opens a job worker for every enabled task type. Handler
// timeouts come from the activity registry; activation settings from the
// workers config section.
func startWorkers(
	ctx context.Context,
	cfg *config.Config,
	reg *registry.ActivityRegistry,
	zeebe *camunda.Client,
	provider *boards.Provider,
	log logger.Logger,
	opts []camunda.RunnerOption,
) []*camunda.JobWorker {
	var workers []*camunda.JobWorker
	classifier := insights.NewKeywordClassifier()

	start := func(taskType string, handler func(worker.JobClient, entities.Job)) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		if !wcfg.Enabled {
			log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
			return
		}
		workers = append(workers, camunda.OpenWorker(zeebe.GetClient(), taskType, handler, camunda.WorkerOptions{
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
		}, log))
	}

	// --- 1. Data Access ---
	{
		c := fbd.LoadConfig()
		c.Timeout = reg.TimeoutFor(fbd.TaskType, c.Timeout)
		start(fbd.TaskType, fbd.NewHandler(c, provider, log, opts...).Handle)
	}

	// --- 2. BI Conversation ---
	{
		c := cqi.LoadConfig()
		c.Timeout = reg.TimeoutFor(cqi.TaskType, c.Timeout)
		start(cqi.TaskType, cqi.NewHandler(c, classifier, log, opts...).Handle)
	}
	{
		c := cc.LoadConfig()
		c.Timeout = reg.TimeoutFor(cc.TaskType, c.Timeout)
		c.FiscalYear = cfg.Insights.FiscalYear
		start(cc.TaskType, cc.NewHandler(c, provider, log, opts...).Handle)
	}
	{
		c := cbr.LoadConfig()
		c.Timeout = reg.TimeoutFor(cbr.TaskType, c.Timeout)
		c.DisableFollowUps = cfg.Insights.DisableFollowUps
		start(cbr.TaskType, cbr.NewHandler(c, provider, classifier, log, opts...).Handle)
	}

	// --- 3. Reporting ---
	{
		c := blr.LoadConfig()
		c.Timeout = reg.TimeoutFor(blr.TaskType, c.Timeout)
		start(blr.TaskType, blr.NewHandler(c, provider, log, opts...).Handle)
	}
	{
		c := srn.LoadConfig()
		c.Timeout = reg.TimeoutFor(srn.TaskType, c.Timeout)
		c.EmailEnabled = cfg.Notifications.Email.Enabled
		c.SMSEnabled = cfg.Notifications.SMS.Enabled
		c.Recipients = cfg.Notifications.Email.Recipients
		c.PhoneNumbers = cfg.Notifications.SMS.PhoneNumbers

		// Interfaces stay nil unless a sender was built.
		var (
			email srn.EmailSender
			sms   srn.SMSSender
		)
		if c.EmailEnabled {
			sender, err := aws.NewSESEmailSender(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.Email.FromEmail)
			if err != nil {
				log.Error("SES setup failed, email delivery disabled", map[string]interface{}{"error": err.Error()})
			} else {
				email = sender
			}
		}
		if c.SMSEnabled {
			sender, err := aws.NewSNSSMSSender(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.SMS.SenderID)
			if err != nil {
				log.Error("SNS setup failed, SMS delivery disabled", map[string]interface{}{"error": err.Error()})
			} else {
				sms = sender
			}
		}
		start(srn.TaskType, srn.NewHandler(c, email, sms, log, opts...).Handle)
	}

	return workers
}
