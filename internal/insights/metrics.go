package insights

import (
	"sort"
	"strings"

	"insight-workers/internal/models"
)

// Status spellings counted as won or lost. Matching is exact: any other
// spelling, "WON" included, counts as active.
var (
	wonStatuses  = map[string]bool{"Won": true, "won": true, "Closed Won": true}
	lostStatuses = map[string]bool{"Lost": true, "lost": true, "Closed Lost": true}
)

const openStatus = "Open"

var closureWeights = map[string]float64{
	"high":   0.8,
	"medium": 0.5,
	"low":    0.2,
}

const defaultClosureWeight = 0.5

// ColumnSum adds up a column, coercing text cells as currency. A missing
// column sums to 0.
func ColumnSum(t *models.Table, column string) float64 {
	var sum float64
	for _, c := range t.Values(column) {
		sum += cellNumber(c)
	}
	return sum
}

func cellNumber(c models.Cell) float64 {
	switch c.Kind {
	case models.CellNumber:
		return c.Number
	case models.CellText:
		return ParseCurrency(c.Text)
	default:
		return 0
	}
}

// ComputeConversionMetrics derives deal outcomes and financial totals from
// both boards. Missing columns degrade to zeros.
func ComputeConversionMetrics(work, deals *models.Table, revenueCol, dealValueCol, statusCol string) *models.MetricsBundle {
	m := &models.MetricsBundle{
		TotalDeals:   deals.Len(),
		StatusCounts: []models.StatusCount{},
	}

	if deals.HasColumn(statusCol) {
		m.StatusCounts = CountValues(deals, statusCol)
		for _, sc := range m.StatusCounts {
			switch {
			case wonStatuses[sc.Status]:
				m.WonDeals += sc.Count
			case lostStatuses[sc.Status]:
				m.LostDeals += sc.Count
			}
		}
		m.ActiveDeals = m.TotalDeals - m.WonDeals - m.LostDeals
	}

	if deals.HasColumn(dealValueCol) {
		m.TotalPipeline = ColumnSum(deals, dealValueCol)
	}
	if work.HasColumn(revenueCol) {
		m.TotalRevenue = ColumnSum(work, revenueCol)
	}

	if closed := m.WonDeals + m.LostDeals; closed > 0 {
		m.WinRate = float64(m.WonDeals) / float64(closed) * 100
	}
	if m.TotalDeals > 0 {
		m.ConversionRate = float64(m.WonDeals) / float64(m.TotalDeals) * 100
	}
	if m.TotalPipeline > 0 {
		m.RealizationRate = m.TotalRevenue / m.TotalPipeline * 100
	}

	if m.TotalDeals > 0 {
		m.HealthScore = m.WinRate*0.4 + minFloat(m.RealizationRate, 100)*0.6
	}
	m.HealthScore = minFloat(m.HealthScore, 100)
	return m
}

// CountValues counts non-blank values of a column, highest count first and
// ties in order of first appearance.
func CountValues(t *models.Table, column string) []models.StatusCount {
	index := make(map[string]int)
	counts := []models.StatusCount{}
	for _, c := range t.Values(column) {
		if c.IsBlank() {
			continue
		}
		key := c.String()
		if i, ok := index[key]; ok {
			counts[i].Count++
			continue
		}
		index[key] = len(counts)
		counts = append(counts, models.StatusCount{Status: key, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// AnalyzeCollections compares billed and collected amounts. It returns nil
// when the billed column is absent.
func AnalyzeCollections(work *models.Table, billedCol, collectedCol, receivableCol string) *models.CollectionAnalysis {
	if !work.HasColumn(billedCol) {
		return nil
	}

	a := &models.CollectionAnalysis{TotalBilled: ColumnSum(work, billedCol)}
	if work.HasColumn(collectedCol) {
		a.TotalCollected = ColumnSum(work, collectedCol)
		if a.TotalBilled > 0 {
			a.CollectionRate = a.TotalCollected / a.TotalBilled * 100
		}
	}

	if work.HasColumn(receivableCol) {
		a.Receivables = ColumnSum(work, receivableCol)
	} else {
		a.Receivables = a.TotalBilled - a.TotalCollected
	}
	return a
}

// ComputeCollections runs AnalyzeCollections over the conventional columns.
func ComputeCollections(work *models.Table) *models.CollectionAnalysis {
	return AnalyzeCollections(work, ColBilled, ColCollected, ColReceivable)
}

// ComputeSectorBreakdown groups work orders by sector, revenue descending
// and sector name ascending on ties. It returns nil when either the sector
// or the revenue column is absent.
func ComputeSectorBreakdown(work *models.Table, revenueCol string) []models.SectorGroup {
	if !work.HasColumn(ColSector) || !work.HasColumn(revenueCol) {
		return nil
	}

	index := make(map[string]int)
	groups := []models.SectorGroup{}
	for _, row := range work.Rows {
		sector := row[ColSector].String()
		i, ok := index[sector]
		if !ok {
			i = len(groups)
			index[sector] = i
			groups = append(groups, models.SectorGroup{Sector: sector})
		}
		groups[i].Revenue += cellNumber(row[revenueCol])
		groups[i].DealCount++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Revenue != groups[j].Revenue {
			return groups[i].Revenue > groups[j].Revenue
		}
		return groups[i].Sector < groups[j].Sector
	})
	return groups
}

// ComputePipelineForecast weights every open deal by its closure probability
// (High 0.8, Medium 0.5, Low 0.2, anything else 0.5). A deal is open only when
// its status is exactly "Open"; without a status column every deal is.
func ComputePipelineForecast(deals *models.Table) *models.PipelineForecast {
	f := &models.PipelineForecast{}
	hasStatus := deals.HasColumn(ColDealStatus)
	for _, row := range deals.Rows {
		if hasStatus {
			if row[ColDealStatus].Text != openStatus {
				continue
			}
		}
		value := cellNumber(row[ColDealValue])
		weight, ok := closureWeights[strings.ToLower(strings.TrimSpace(row[ColClosureProbability].Text))]
		if !ok {
			weight = defaultClosureWeight
		}

		f.OpenDeals++
		f.OpenPipeline += value
		f.WeightedPipeline += value * weight
	}
	if f.OpenDeals > 0 {
		f.AverageDealSize = f.OpenPipeline / float64(f.OpenDeals)
	}
	return f
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
