package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"insight-workers/internal/models"
)

// ReportTimeLayout is how report timestamps are shown to readers.
const ReportTimeLayout = "January 02, 2006 at 03:04 PM"

// HealthStatusFor labels a health score: above 70 Healthy, above 40 Needs
// Attention, anything else (40 included) Critical.
func HealthStatusFor(score float64) models.HealthStatus {
	switch {
	case score > 70:
		return models.HealthHealthy
	case score > 40:
		return models.HealthNeedsAttention
	default:
		return models.HealthCritical
	}
}

func status(ok bool, good, bad string) string {
	if ok {
		return "✅ " + good
	}
	return "⚠️ " + bad
}

// BuildLeadershipReport renders the executive report for the given boards
// as of now.
func BuildLeadershipReport(work, deals *models.Table, now time.Time) *models.LeadershipReport {
	a := Analyze(work, deals)
	m := a.Metrics

	var collectionRate, receivables float64
	if a.Collections != nil {
		collectionRate = a.Collections.CollectionRate
		receivables = a.Collections.Receivables
	}
	health := HealthStatusFor(m.HealthScore)
	topSector := a.TopSector()

	var b strings.Builder
	b.WriteString("# 📊 Executive Leadership Report\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n---\n\n", now.Format(ReportTimeLayout))

	fmt.Fprintf(&b, "## 🎯 Overall Business Health: %s %s (%s/100)\n\n---\n\n", healthDot(m.HealthScore), health, score(m.HealthScore))

	b.WriteString("## 💰 Financial Performance\n\n")
	b.WriteString("| Metric | Value | Status |\n")
	b.WriteString("|--------|-------|--------|\n")
	fmt.Fprintf(&b, "| **Total Revenue** | %s | %s |\n", formatMoney(m.TotalRevenue), status(m.TotalRevenue > 1000000, "Strong", "Low"))
	fmt.Fprintf(&b, "| **Active Pipeline** | %s | %s |\n", formatMoney(m.TotalPipeline), status(m.TotalPipeline > m.TotalRevenue, "Growing", "Stagnant"))
	fmt.Fprintf(&b, "| **Realization Rate** | %s%% | %s |\n", pct(m.RealizationRate), status(m.RealizationRate > 50, "Good", "Needs Work"))
	fmt.Fprintf(&b, "| **Collection Rate** | %s%% | %s |\n\n---\n\n", pct(collectionRate), status(collectionRate > 80, "Healthy", "Poor"))

	b.WriteString("## 📈 Operational Metrics\n\n")
	fmt.Fprintf(&b, "- **Total Deals:** %d\n", m.TotalDeals)
	fmt.Fprintf(&b, "- **Win Rate:** %s%% (%d won / %d lost)\n", pct(m.WinRate), m.WonDeals, m.LostDeals)
	fmt.Fprintf(&b, "- **Active Opportunities:** %d deals in progress\n", m.ActiveDeals)
	fmt.Fprintf(&b, "- **Top Performing Sector:** %s\n\n---\n\n", topSector)

	b.WriteString("## 🎯 CEO Action Items\n\n")
	fmt.Fprintf(&b, "1. **Revenue Growth:** %s\n", pick(m.ActiveDeals > 5, "Accelerate deal closures", "Generate new pipeline"))
	fmt.Fprintf(&b, "2. **Conversion:** %s\n", pick(m.WinRate > 30, "Maintain momentum", "Review sales process"))
	fmt.Fprintf(&b, "3. **Cash Flow:** %s\n\n---\n\n", pick(receivables > 1000000, "Monitor receivables", "Optimize working capital"))

	b.WriteString("## 📢 Board-Ready Summary\n\n")
	fmt.Fprintf(&b, "We are currently operating at **%s** levels with %s in realized revenue\n", health, formatMoney(m.TotalRevenue))
	fmt.Fprintf(&b, "and %s in active pipeline. The %s sector is driving our growth with\n", formatMoney(m.TotalPipeline), topSector)
	fmt.Fprintf(&b, "a %s%% win rate. %s\n\n---\n\n", pct(m.WinRate),
		pick(collectionRate < 70, "Immediate attention required on collections.", "Collections are on track."))
	b.WriteString("*Report prepared by the Business Intelligence Agent*\n")

	return &models.LeadershipReport{
		Document: b.String(),
		Metadata: models.ReportMetadata{
			ID:          uuid.NewString(),
			Timestamp:   now,
			HealthScore: m.HealthScore,
			Revenue:     m.TotalRevenue,
			Pipeline:    m.TotalPipeline,
			Status:      health,
		},
	}
}

// ReportFileName is the suggested download name for a report.
func ReportFileName(at time.Time) string {
	return "leadership_report_" + at.Format("20060102_1504") + ".md"
}
