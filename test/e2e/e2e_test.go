// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"insight-workers/internal/boards"
	"insight-workers/internal/common/camunda"
	"insight-workers/internal/common/config"
	"insight-workers/internal/common/database"
	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/common/validation"
	"insight-workers/internal/insights"
	"insight-workers/internal/models"
	"insight-workers/pkg/registry"

	fbd "insight-workers/internal/workers/data-access/fetch-board-data"

	cc "insight-workers/internal/workers/bi-conversation/check-clarification"
	cqi "insight-workers/internal/workers/bi-conversation/classify-query-intent"
	cbr "insight-workers/internal/workers/bi-conversation/compose-bi-response"

	blr "insight-workers/internal/workers/reporting/build-leadership-report"
	srn "insight-workers/internal/workers/reporting/send-report-notification"
)

const (
	workOrdersBoard = "5026565302"
	dealsBoard      = "5026565254"
	registryPath    = "../../configs/activity-registry.json"
)

const workOrdersReply = `{"data": {"boards": [{"items_page": {"items": [
  {"name": "WO-1", "column_values": [
    {"column": {"title": "Sector"}, "text": "Mining"},
    {"column": {"title": "Billed Value in Rupees (Incl of GST.) (Masked)"}, "text": "₹ 600,000"},
    {"column": {"title": "Collected Amount in Rupees (Incl of GST.) (Masked)"}, "text": "500000"}
  ]},
  {"name": "WO-2", "column_values": [
    {"column": {"title": "Sector"}, "text": "Powerline"},
    {"column": {"title": "Billed Value in Rupees (Incl of GST.) (Masked)"}, "text": "400000"},
    {"column": {"title": "Collected Amount in Rupees (Incl of GST.) (Masked)"}, "text": "400000"}
  ]}
]}}]}}`

const dealsReply = `{"data": {"boards": [{"items_page": {"items": [
  {"name": "D-1", "column_values": [
    {"column": {"title": "Deal Status"}, "text": "Won"},
    {"column": {"title": "Masked Deal Value"}, "text": "700000"}
  ]},
  {"name": "D-2", "column_values": [
    {"column": {"title": "Deal Status"}, "text": "Open"},
    {"column": {"title": "Masked Deal Value"}, "text": "800000"}
  ]}
]}}]}}`

type mockEmail struct{ mock.Mock }

func (m *mockEmail) Send(ctx context.Context, to, subject, body string) (string, error) {
	args := m.Called(to, subject, body)
	return args.String(0), args.Error(1)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) Send(ctx context.Context, phone, message string) (string, error) {
	args := m.Called(phone, message)
	return args.String(0), args.Error(1)
}

// env is one in-process deployment: a fake Monday API behind the Redis
// board cache, and the shipped activity registry for input validation.
type env struct {
	provider  *boards.Provider
	validator *validation.SchemaValidator
	registry  *registry.ActivityRegistry
	hits      *int64
	log       logger.Logger
}

func newMondayServer(t testing.TB, hits *int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Variables struct {
				BoardID []string `json:"boardId"`
			} `json:"variables"`
		}
		if err := json.Unmarshal(body, &req); err != nil || len(req.Variables.BoardID) != 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch req.Variables.BoardID[0] {
		case workOrdersBoard:
			_, _ = io.WriteString(w, workOrdersReply)
		case dealsBoard:
			_, _ = io.WriteString(w, dealsReply)
		default:
			_, _ = io.WriteString(w, `{"data": {"boards": []}}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newEnv(t testing.TB, log logger.Logger) *env {
	t.Helper()
	var hits int64
	srv := newMondayServer(t, &hits)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	monday := boards.NewMondaySource(config.MondayConfig{
		APIURL:     srv.URL,
		APIKey:     "e2e-token",
		APIVersion: "2024-01",
		PageLimit:  500,
	}, 5*time.Second)
	cache := boards.NewCache(monday, database.NewRedisFromClient(rdb), boards.CacheOptions{TTL: time.Hour}, log)

	reg, err := registry.LoadRegistry(registryPath)
	require.NoError(t, err)
	require.Empty(t, reg.Validate())
	validator, err := validation.NewSchemaValidator(reg)
	require.NoError(t, err)

	return &env{
		provider:  boards.NewProvider(cache, workOrdersBoard, dealsBoard, log),
		validator: validator,
		registry:  reg,
		hits:      &hits,
		log:       log,
	}
}

func (e *env) runner(taskType string) *camunda.Runner {
	return camunda.NewRunner(taskType, e.registry.TimeoutFor(taskType, 30*time.Second), e.log, camunda.WithValidator(e.validator))
}

func vars(t testing.TB, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

// TestFullPipeline drives every worker in process order, feeding each job
// the variables the previous one produced.
func TestFullPipeline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log := logger.NewTestLogger(t)
	e := newEnv(t, log)
	classifier := insights.NewKeywordClassifier()
	query := "What's our win rate?"

	// --- 1. Data Access ---
	fetchH := fbd.NewHandler(fbd.LoadConfig(), e.provider, log)
	fetched, err := camunda.Process(ctx, e.runner(fbd.TaskType), `{"refresh":true}`, fetchH.Execute)
	require.NoError(t, err)
	assert.True(t, fetched.DataReady)
	assert.Equal(t, workOrdersBoard, fetched.WorkOrders.BoardID)
	assert.Equal(t, 2, fetched.WorkOrders.Rows)
	assert.Equal(t, 2, fetched.Deals.Rows)
	assert.Contains(t, fetched.Deals.Columns, "Deal Status")

	// --- 2. BI Conversation ---
	classifyH := cqi.NewHandler(cqi.LoadConfig(), classifier, log)
	intent, err := camunda.Process(ctx, e.runner(cqi.TaskType), vars(t, map[string]string{"query": query}), classifyH.Execute)
	require.NoError(t, err)
	assert.Equal(t, string(models.IntentConversion), intent.PrimaryIntent)
	assert.True(t, intent.Matched)

	clarifyCfg := cc.LoadConfig()
	clarifyCfg.FiscalYear = 2025
	clarifyH := cc.NewHandler(clarifyCfg, e.provider, log)
	gate, err := camunda.Process(ctx, e.runner(cc.TaskType), vars(t, map[string]string{"query": query}), clarifyH.Execute)
	require.NoError(t, err)
	assert.False(t, gate.NeedsClarification)
	assert.Equal(t, query, gate.ForwardedQuery)

	composeH := cbr.NewHandler(cbr.LoadConfig(), e.provider, classifier, log)
	answer, err := camunda.Process(ctx, e.runner(cbr.TaskType), vars(t, map[string]string{"query": gate.ForwardedQuery}), composeH.Execute)
	require.NoError(t, err)
	assert.Equal(t, "conversion", answer.Template)
	assert.True(t, answer.DataAvailable)
	assert.Contains(t, answer.Response, "🎯 **Pipeline Conversion Effectiveness Analysis**")

	// --- 3. Reporting ---
	reportH := blr.NewHandler(blr.LoadConfig(), e.provider, log)
	report, err := camunda.Process(ctx, e.runner(blr.TaskType), `{"requestedBy":"e2e"}`, reportH.Execute)
	require.NoError(t, err)
	require.NotEmpty(t, report.ReportID)
	assert.True(t, strings.HasPrefix(report.Document, "# 📊 Executive Leadership Report"))
	assert.True(t, strings.HasSuffix(report.FileName, ".md"))
	assert.Contains(t, []string{
		string(models.HealthHealthy),
		string(models.HealthNeedsAttention),
		string(models.HealthCritical),
	}, report.Status)
	assert.GreaterOrEqual(t, report.HealthScore, 0.0)
	assert.LessOrEqual(t, report.HealthScore, 100.0)

	email := &mockEmail{}
	email.On("Send", "ceo@example.com", mock.AnythingOfType("string"), report.Document).Return("ses-1", nil).Once()
	sms := &mockSMS{}
	sms.On("Send", "+919800000000", mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, report.Status)
	})).Return("sns-1", nil).Once()

	notifyCfg := srn.LoadConfig()
	notifyCfg.EmailEnabled = true
	notifyCfg.SMSEnabled = true
	notifyCfg.Recipients = []string{"ceo@example.com"}
	notifyCfg.PhoneNumbers = []string{"+919800000000"}
	notifyH := srn.NewHandler(notifyCfg, email, sms, log)

	notified, err := camunda.Process(ctx, e.runner(srn.TaskType), vars(t, map[string]interface{}{
		"reportId":    report.ReportID,
		"document":    report.Document,
		"status":      report.Status,
		"healthScore": report.HealthScore,
		"priority":    srn.PriorityHigh,
	}), notifyH.Execute)
	require.NoError(t, err)
	assert.Equal(t, srn.StatusSent, notified.Status)
	require.Len(t, notified.Deliveries, 2)
	for _, d := range notified.Deliveries {
		assert.Equal(t, report.ReportID, d.ReportID)
		assert.Equal(t, srn.StatusSent, d.Status)
	}
	email.AssertExpectations(t)
	sms.AssertExpectations(t)

	// Every later job was served from the cache filled by the refresh.
	assert.Equal(t, int64(2), atomic.LoadInt64(e.hits))
}

func TestPipeline_ClarificationRoundTrip(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)
	e := newEnv(t, log)

	clarifyH := cc.NewHandler(cc.LoadConfig(), e.provider, log)
	runner := e.runner(cc.TaskType)
	query := "Which sector is best?"

	first, err := camunda.Process(ctx, runner, vars(t, map[string]string{"query": query}), clarifyH.Execute)
	require.NoError(t, err)
	require.True(t, first.NeedsClarification)
	assert.Equal(t, "sector", first.Reason)
	assert.Contains(t, first.Question, "'Mining', 'Powerline'")
	assert.Equal(t, query, first.ClarificationAskedFor)

	// The process hands clarificationAskedFor back; the same query is not
	// questioned twice.
	second, err := camunda.Process(ctx, runner, vars(t, map[string]string{
		"query":                 query,
		"clarificationAskedFor": first.ClarificationAskedFor,
	}), clarifyH.Execute)
	require.NoError(t, err)
	assert.False(t, second.NeedsClarification)
	assert.Equal(t, query, second.ForwardedQuery)
}

func TestPipeline_RejectsInvalidVariables(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)
	e := newEnv(t, log)

	tests := []struct {
		name      string
		taskType  string
		variables string
		run       func(r *camunda.Runner, variables string) error
	}{
		{
			name:      "classify without a query",
			taskType:  cqi.TaskType,
			variables: `{}`,
			run: func(r *camunda.Runner, v string) error {
				_, err := camunda.Process(ctx, r, v, cqi.NewHandler(cqi.LoadConfig(), nil, log).Execute)
				return err
			},
		},
		{
			name:      "compose with a numeric query",
			taskType:  cbr.TaskType,
			variables: `{"query": 42}`,
			run: func(r *camunda.Runner, v string) error {
				_, err := camunda.Process(ctx, r, v, cbr.NewHandler(cbr.LoadConfig(), e.provider, nil, log).Execute)
				return err
			},
		},
		{
			name:      "notify with an out of range health score",
			taskType:  srn.TaskType,
			variables: `{"reportId":"r-1","document":"# report","status":"Healthy","healthScore":140}`,
			run: func(r *camunda.Runner, v string) error {
				_, err := camunda.Process(ctx, r, v, srn.NewHandler(srn.LoadConfig(), nil, nil, log).Execute)
				return err
			},
		},
		{
			name:      "notify with an unknown status",
			taskType:  srn.TaskType,
			variables: `{"reportId":"r-1","document":"# report","status":"Fine","healthScore":80}`,
			run: func(r *camunda.Runner, v string) error {
				_, err := camunda.Process(ctx, r, v, srn.NewHandler(srn.LoadConfig(), nil, nil, log).Execute)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(e.runner(tt.taskType), tt.variables)
			require.Error(t, err)
			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok, "want a StandardError, got %T", err)
			assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)
		})
	}
	assert.Zero(t, atomic.LoadInt64(e.hits))
}

func TestPipeline_NotificationsDisabled(t *testing.T) {
	log := logger.NewTestLogger(t)
	e := newEnv(t, log)

	out, err := camunda.Process(context.Background(), e.runner(srn.TaskType),
		`{"reportId":"r-1","document":"# report","status":"Critical","healthScore":12}`,
		srn.NewHandler(srn.LoadConfig(), nil, nil, log).Execute)
	require.NoError(t, err)
	assert.Equal(t, srn.StatusDisabled, out.Status)
	assert.Empty(t, out.Deliveries)
}

func BenchmarkPipeline_ComposeFromCache(b *testing.B) {
	log := logger.NewNoOpLogger()
	e := newEnv(b, log)
	ctx := context.Background()
	h := cbr.NewHandler(cbr.LoadConfig(), e.provider, nil, log)
	runner := e.runner(cbr.TaskType)

	queries := []string{"What's our win rate?", "Show the pipeline", "How are collections looking overall"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q := queries[i%len(queries)]
		if _, err := camunda.Process(ctx, runner, fmt.Sprintf(`{"query":%q}`, q), h.Execute); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPipeline_BuildReport(b *testing.B) {
	log := logger.NewNoOpLogger()
	e := newEnv(b, log)
	ctx := context.Background()
	h := blr.NewHandler(blr.LoadConfig(), e.provider, log)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := h.Execute(ctx, &blr.Input{}); err != nil {
			b.Fatal(err)
		}
	}
}
