package insights

import (
	"fmt"
	"strings"

	"insight-workers/internal/models"
)

type ClarificationReason string

const (
	ReasonNone    ClarificationReason = ""
	ReasonSector  ClarificationReason = "sector"
	ReasonQuarter ClarificationReason = "quarter"
	ReasonVague   ClarificationReason = "vague"
)

// Clarification is the gate's verdict. ForwardedQuery is the query to
// resubmit once the user answers.
type Clarification struct {
	Needed         bool                `json:"needed"`
	Question       string              `json:"question,omitempty"`
	ForwardedQuery string              `json:"forwardedQuery"`
	Reason         ClarificationReason `json:"reason,omitempty"`
}

const (
	maxListedSectors = 5
	vagueMaxTokens   = 4
	vagueQuestion    = "Could you be more specific? You can ask about revenue, pipeline, sector performance, or collections."
)

var (
	sectorWords   = []string{"sector", "industry", "vertical"}
	relativeTimes = []string{"this quarter", "last quarter", "this month", "last month", "recent", "latest"}
	vagueWords    = []string{"how", "what", "tell me", "update"}
)

// Gate decides whether a question is too ambiguous to answer directly.
type Gate struct {
	fiscalYear int
	classifier IntentClassifier
}

func NewGate(fiscalYear int, classifier IntentClassifier) *Gate {
	if classifier == nil {
		classifier = defaultClassifier
	}
	return &Gate{fiscalYear: fiscalYear, classifier: classifier}
}

// Check applies the rules in order; the first that fires wins.
func (g *Gate) Check(query string, work, deals *models.Table) Clarification {
	q := strings.ToLower(query)
	result := Clarification{ForwardedQuery: query}

	if g.classifier.Classify(query).Has(models.IntentSector) || containsAny(q, sectorWords) {
		if sectors := DistinctSectors(work); len(sectors) > 0 && !mentionsAny(q, sectors) {
			listed := sectors
			if len(listed) > maxListedSectors {
				listed = listed[:maxListedSectors]
			}
			quoted := make([]string, len(listed))
			for i, s := range listed {
				quoted[i] = "'" + s + "'"
			}
			result.Needed = true
			result.Reason = ReasonSector
			result.Question = fmt.Sprintf("I found these sectors: %s. Which one would you like to know about?", strings.Join(quoted, ", "))
			return result
		}
	}

	if containsAny(q, relativeTimes) && strings.Contains(q, "quarter") {
		result.Needed = true
		result.Reason = ReasonQuarter
		result.Question = fmt.Sprintf("I currently have the latest data available. Are you looking for Q1, Q2, Q3, or Q4 %d?", g.fiscalYear)
		return result
	}

	if len(strings.Fields(query)) < vagueMaxTokens && containsAny(q, vagueWords) {
		result.Needed = true
		result.Reason = ReasonVague
		result.Question = vagueQuestion
		return result
	}

	return result
}

var defaultGate = NewGate(2024, nil)

// CheckClarification runs the default gate (fiscal year 2024).
func CheckClarification(query string, work, deals *models.Table) Clarification {
	return defaultGate.Check(query, work, deals)
}

// DistinctSectors lists non-blank sector values in first-appearance order.
func DistinctSectors(work *models.Table) []string {
	if !work.HasColumn(ColSector) {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, c := range work.Values(ColSector) {
		if c.IsBlank() {
			continue
		}
		s := c.String()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func mentionsAny(lowerQuery string, values []string) bool {
	for _, v := range values {
		if strings.Contains(lowerQuery, strings.ToLower(v)) {
			return true
		}
	}
	return false
}
