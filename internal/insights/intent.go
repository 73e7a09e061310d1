package insights

import (
	"strings"

	"insight-workers/internal/models"
)

// IntentClassifier maps a free-text question to the categories it touches.
type IntentClassifier interface {
	Classify(query string) models.IntentSet
}

type keywordRule struct {
	intent   models.Intent
	keywords []string
}

// Keywords match as plain substrings of the lower-cased question, so
// "collect" also fires inside "recollect".
var keywordRules = []keywordRule{
	{models.IntentConversion, []string{"convert", "conversion", "converting", "effectively", "efficiency", "win rate", "close rate"}},
	{models.IntentRevenue, []string{"revenue", "billed", "collected", "realized", "income", "earnings", "money made"}},
	{models.IntentPipeline, []string{"pipeline", "deals", "opportunities", "forecast", "upcoming"}},
	{models.IntentSector, []string{"sector", "industry", "vertical", "segment", "domain", "category"}},
	{models.IntentPerformance, []string{"performance", "overview", "summary", "health", "status", "how are we doing"}},
	{models.IntentCollection, []string{"collection", "collect", "receivable", "outstanding", "payment", "unpaid", "pending"}},
	{models.IntentTrends, []string{"trend", "growth", "decline", "change", "compare", "over time", "quarter", "monthly"}},
	{models.IntentLeadership, []string{"leadership", "executive", "founder", "ceo", "report", "board", "investor"}},
}

// KeywordClassifier is the rule-table IntentClassifier.
type KeywordClassifier struct {
	rules []keywordRule
}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{rules: keywordRules}
}

func (c *KeywordClassifier) Classify(query string) models.IntentSet {
	q := strings.ToLower(query)
	set := models.IntentSet{}
	for _, rule := range c.rules {
		if containsAny(q, rule.keywords) {
			set = append(set, rule.intent)
		}
	}
	return set
}

var defaultClassifier IntentClassifier = NewKeywordClassifier()

// ClassifyIntent classifies query with the built-in keyword table.
func ClassifyIntent(query string) models.IntentSet {
	return defaultClassifier.Classify(query)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
