package insights

import (
	"fmt"
	"strings"

	"insight-workers/internal/models"
)

// AssessDataQuality inspects the boards as fetched, before cleaning turns
// blanks into zeros.
func AssessDataQuality(work, deals *models.RawTable) *models.DataQuality {
	q := &models.DataQuality{
		WorkOrderRows:      work.Len(),
		DealRows:           deals.Len(),
		WorkOrderMissing:   missingByColumn(work),
		DealMissing:        missingByColumn(deals),
		StatusDistribution: []models.StatusCount{},
		Issues:             []string{},
	}

	if work.IsEmpty() {
		q.Issues = append(q.Issues, "❌ Work Orders board is empty or inaccessible")
	} else {
		if total := sumCounts(q.WorkOrderMissing); total > 0 {
			q.Issues = append(q.Issues, fmt.Sprintf("⚠️ Work Orders has %d missing values", total))
		}
		if col, ok := findColumn(work, ColSector); ok {
			q.MissingSectors = q.WorkOrderMissing[col]
			if q.MissingSectors > 0 {
				q.Issues = append(q.Issues, fmt.Sprintf("⚠️ %d work orders missing sector classification", q.MissingSectors))
			}
		}
	}

	if deals.IsEmpty() {
		q.Issues = append(q.Issues, "❌ Deals board is empty or inaccessible")
	} else {
		if total := sumCounts(q.DealMissing); total > 0 {
			q.Issues = append(q.Issues, fmt.Sprintf("⚠️ Deals has %d missing values", total))
		}
		if _, ok := findColumn(deals, ColDealStatus); ok {
			q.StatusDistribution = CountValues(CleanDeals(deals), ColDealStatus)
		}
	}
	return q
}

func missingByColumn(t *models.RawTable) map[string]int {
	out := make(map[string]int)
	if t == nil {
		return out
	}
	for _, col := range t.Columns {
		for _, row := range t.Rows {
			if strings.TrimSpace(row[col]) == "" {
				out[col]++
			}
		}
	}
	return out
}

func findColumn(t *models.RawTable, normalized string) (string, bool) {
	for _, col := range t.Columns {
		if NormalizeColumn(col) == normalized {
			return col, true
		}
	}
	return "", false
}

func sumCounts(m map[string]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}
