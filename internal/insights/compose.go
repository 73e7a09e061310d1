package insights

import (
	"fmt"
	"strings"

	"insight-workers/internal/models"
)

// Analysis bundles every metric the narratives and the report draw on.
type Analysis struct {
	Metrics     *models.MetricsBundle      `json:"metrics"`
	Collections *models.CollectionAnalysis `json:"collections,omitempty"`
	Sectors     []models.SectorGroup       `json:"sectors,omitempty"`
}

// Analyze computes metrics from cleaned boards using the conventional columns.
func Analyze(work, deals *models.Table) *Analysis {
	return &Analysis{
		Metrics:     ComputeConversionMetrics(work, deals, ColBilled, ColDealValue, ColDealStatus),
		Collections: ComputeCollections(work),
		Sectors:     ComputeSectorBreakdown(work, ColBilled),
	}
}

// TopSector returns the highest-revenue sector, or "N/A".
func (a *Analysis) TopSector() string {
	if len(a.Sectors) == 0 {
		return "N/A"
	}
	return a.Sectors[0].Sector
}

// ComposeInput is what a narrative template renders from.
type ComposeInput struct {
	Query   string
	Intents models.IntentSet
	*Analysis
}

// Template is one branch of the response ladder.
type Template struct {
	Name    string
	Matches func(in *ComposeInput) bool
	Render  func(in *ComposeInput) string
}

// Composition is a rendered answer and the branch that produced it.
type Composition struct {
	Text     string           `json:"text"`
	Template string           `json:"template"`
	Intents  models.IntentSet `json:"intents"`
}

// Composer picks the first matching template in priority order.
type Composer struct {
	classifier IntentClassifier
	templates  []Template
}

func NewComposer(classifier IntentClassifier) *Composer {
	if classifier == nil {
		classifier = defaultClassifier
	}
	return &Composer{classifier: classifier, templates: responseTemplates}
}

// Compose answers query from cleaned boards.
func (c *Composer) Compose(query string, work, deals *models.Table) Composition {
	in := &ComposeInput{
		Query:    query,
		Intents:  c.classifier.Classify(query),
		Analysis: Analyze(work, deals),
	}
	for _, t := range c.templates {
		if t.Matches(in) {
			return Composition{Text: t.Render(in), Template: t.Name, Intents: in.Intents}
		}
	}
	return Composition{Text: renderFallback(in), Template: fallbackTemplate, Intents: in.Intents}
}

var defaultComposer = NewComposer(nil)

// ComposeResponse answers query with the built-in classifier.
func ComposeResponse(query string, work, deals *models.Table) string {
	return defaultComposer.Compose(query, work, deals).Text
}

var (
	pipelineFollowUps = []string{
		"Which deals are at risk?",
		"What's our average deal size?",
		"How long is our sales cycle?",
	}
	revenueFollowUps = []string{
		"What's outstanding in receivables?",
		"Which sector drives most revenue?",
		"How does this compare to last quarter?",
	}
)

// FollowUps suggests next questions for pipeline or revenue answers and
// returns "" otherwise.
func FollowUps(intents models.IntentSet) string {
	var questions []string
	switch {
	case intents.Has(models.IntentPipeline):
		questions = pipelineFollowUps
	case intents.Has(models.IntentRevenue):
		questions = revenueFollowUps
	default:
		return ""
	}
	return "\n\n💡 **Follow-up questions you might ask:**\n• " + strings.Join(questions, "\n• ")
}

// SampleQuestions are offered to new sessions.
var SampleQuestions = []string{
	"Are we converting pipeline effectively?",
	"What's our revenue by sector?",
	"How healthy is our cash collection?",
	"Which sector is performing best?",
	"Give me a leadership summary",
	"What's our win rate?",
	"How much is outstanding in receivables?",
}

const (
	clarificationReply = "🤔 To give you the most accurate answer, I need a bit more information:\n\n**%s**\n\nPlease reply with more specific details."
	errorReply         = "❌ I encountered an error analyzing your data: %v\n\nPlease try rephrasing your question or check if the data boards are accessible."
)

// ClarificationReply wraps a clarifying question for display.
func ClarificationReply(question string) string {
	return fmt.Sprintf(clarificationReply, question)
}

// ErrorReply renders a failed analysis with a rephrase hint.
func ErrorReply(cause interface{}) string {
	return fmt.Sprintf(errorReply, cause)
}
