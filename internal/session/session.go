// Package session holds per-conversation state: the clarification state
// machine, the message log and the leadership report history.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"insight-workers/internal/boards"
	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/common/metrics"
	"insight-workers/internal/insights"
	"insight-workers/internal/models"
)

// BoardLoader supplies both boards; *boards.Provider implements it.
type BoardLoader interface {
	Load(ctx context.Context) *boards.Boards
	Invalidate(ctx context.Context) error
}

// Reply is the assistant's answer to one user message.
type Reply struct {
	Kind     models.ReplyKind `json:"kind"`
	Text     string           `json:"text"`
	Question string           `json:"question,omitempty"`
	Template string           `json:"template,omitempty"`
	Intents  []string         `json:"intents"`
	Query    string           `json:"query"`
}

// Options configure new sessions.
type Options struct {
	FiscalYear       int
	DisableFollowUps bool
	HistorySize      int
	Classifier       insights.IntentClassifier
}

type composeFunc func(query string, work, deals *models.Table) insights.Composition

// Session is one conversation. Turns are serialised.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	state    models.ConversationContext
	messages []models.Message
	reports  *insights.ReportHistory

	loader     BoardLoader
	gate       *insights.Gate
	classifier insights.IntentClassifier
	compose    composeFunc
	followUps  bool
	log        logger.Logger
	now        func() time.Time
}

func New(loader BoardLoader, opts Options, log logger.Logger) *Session {
	classifier := opts.Classifier
	if classifier == nil {
		classifier = insights.NewKeywordClassifier()
	}
	fiscalYear := opts.FiscalYear
	if fiscalYear == 0 {
		fiscalYear = 2024
	}
	id := uuid.NewString()
	return &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		state:      models.NewConversationContext(),
		messages:   []models.Message{},
		reports:    insights.NewReportHistory(opts.HistorySize),
		loader:     loader,
		gate:       insights.NewGate(fiscalYear, classifier),
		classifier: classifier,
		compose:    insights.NewComposer(classifier).Compose,
		followUps:  !opts.DisableFollowUps,
		log:        log.With(map[string]interface{}{"sessionId": id}),
		now:        time.Now,
	}
}

// HandleMessage runs one turn. A reply to a clarifying question is folded
// into the pending query as "<pending> (<reply>)".
func (s *Session) HandleMessage(ctx context.Context, text string) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendMessage(models.RoleUser, "", text)

	query := text
	if s.state.State == models.StateAwaitingClarification {
		query = fmt.Sprintf("%s (%s)", s.state.PendingQuery, text)
		s.state.State = models.StateNormal
		s.state.PendingQuery = ""
	}

	work, deals := s.loader.Load(ctx).Tables()
	intents := s.classifier.Classify(query)

	clar := s.gate.Check(query, work, deals)
	if clar.Needed && query != s.state.ClarificationAskedFor {
		s.state.State = models.StateAwaitingClarification
		s.state.PendingQuery = clar.ForwardedQuery
		s.state.ClarificationAskedFor = query
		metrics.ClarificationsTotal.WithLabelValues(string(clar.Reason)).Inc()

		reply := Reply{
			Kind:     models.ReplyClarification,
			Text:     insights.ClarificationReply(clar.Question),
			Question: clar.Question,
			Intents:  intents.Strings(),
			Query:    query,
		}
		s.appendMessage(models.RoleAssistant, reply.Kind, reply.Text)
		return reply
	}

	reply := s.answer(query, intents, work, deals)
	s.state.LastIntents = intents
	s.appendMessage(models.RoleAssistant, reply.Kind, reply.Text)
	return reply
}

// answer composes a reply; a panic while composing becomes an error reply.
func (s *Session) answer(query string, intents models.IntentSet, work, deals *models.Table) (reply Reply) {
	reply = Reply{Query: query, Intents: intents.Strings()}
	defer func() {
		if r := recover(); r != nil {
			err := errors.NewResponseCompositionFailedError(fmt.Errorf("%v", r))
			s.log.Error("Response composition failed", map[string]interface{}{
				"query": query,
				"error": err,
			})
			reply.Kind = models.ReplyError
			reply.Text = insights.ErrorReply(r)
			reply.Template = ""
		}
	}()

	comp := s.compose(query, work, deals)
	reply.Kind = models.ReplyAnswer
	reply.Text = comp.Text
	reply.Template = comp.Template
	if s.followUps {
		reply.Text += insights.FollowUps(comp.Intents)
	}

	primary := "general"
	if len(comp.Intents) > 0 {
		primary = string(comp.Intents[0])
	}
	metrics.QueriesTotal.WithLabelValues(primary).Inc()
	return reply
}

func (s *Session) appendMessage(role models.MessageRole, kind models.ReplyKind, content string) {
	s.messages = append(s.messages, models.Message{
		Role:      role,
		Kind:      kind,
		Content:   content,
		Timestamp: s.now(),
	})
}

// Refresh drops cached boards and starts the conversation over. Report
// history is kept.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = models.NewConversationContext()
	s.messages = []models.Message{}
	return s.loader.Invalidate(ctx)
}

// GenerateReport builds a leadership report and appends it to the history.
func (s *Session) GenerateReport(ctx context.Context) (*models.LeadershipReport, error) {
	b := s.loader.Load(ctx)
	if b.IsEmpty() {
		return nil, errors.NewReportNoDataError()
	}

	work, deals := b.Tables()
	report := insights.BuildLeadershipReport(work, deals, s.now())
	s.reports.Append(report)
	metrics.ReportsGenerated.WithLabelValues(string(report.Metadata.Status)).Inc()

	s.log.Info("Leadership report generated", map[string]interface{}{
		"reportId":    report.Metadata.ID,
		"healthScore": report.Metadata.HealthScore,
		"status":      string(report.Metadata.Status),
	})
	return report, nil
}

// Reports exposes the report history.
func (s *Session) Reports() *insights.ReportHistory {
	return s.reports
}

// Context returns a copy of the conversation state.
func (s *Session) Context() models.ConversationContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.state
	c.LastIntents = append(models.IntentSet(nil), s.state.LastIntents...)
	return c
}

// Messages returns a copy of the message log.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message(nil), s.messages...)
}
