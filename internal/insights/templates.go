package insights

import (
	"fmt"
	"strings"

	"insight-workers/internal/models"
)

const fallbackTemplate = "fallback"

// Matched against the raw question, case-sensitive.
var conversionPhrases = []string{"effectively", "efficiency", "win rate", "close rate", "converting"}

var responseTemplates = []Template{
	{
		Name: "conversion",
		Matches: func(in *ComposeInput) bool {
			return in.Intents.Has(models.IntentConversion) || containsAny(in.Query, conversionPhrases)
		},
		Render: renderConversion,
	},
	{Name: "collection", Matches: hasIntent(models.IntentCollection), Render: renderCollection},
	{Name: "sector", Matches: hasIntent(models.IntentSector), Render: renderSector},
	{Name: "revenue", Matches: hasIntent(models.IntentRevenue), Render: renderRevenue},
	{Name: "pipeline", Matches: hasIntent(models.IntentPipeline), Render: renderPipeline},
	{Name: "trends", Matches: hasIntent(models.IntentTrends), Render: renderTrends},
	{
		Name: "leadership",
		Matches: func(in *ComposeInput) bool {
			return in.Intents.Has(models.IntentLeadership) || in.Intents.Has(models.IntentPerformance)
		},
		Render: renderLeadership,
	},
}

func hasIntent(i models.Intent) func(*ComposeInput) bool {
	return func(in *ComposeInput) bool { return in.Intents.Has(i) }
}

// pick returns a when cond holds, b otherwise.
func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func healthDot(score float64) string {
	switch {
	case score > 70:
		return "🟢"
	case score > 40:
		return "🟡"
	default:
		return "🔴"
	}
}

func collectionRate(c *models.CollectionAnalysis) float64 {
	if c == nil {
		return 0
	}
	return c.CollectionRate
}

func renderConversion(in *ComposeInput) string {
	m := in.Metrics
	var b strings.Builder

	b.WriteString("🎯 **Pipeline Conversion Effectiveness Analysis**\n\n")
	b.WriteString("**Conversion Metrics:**\n")
	fmt.Fprintf(&b, "• Total Deals: **%d**\n", m.TotalDeals)
	fmt.Fprintf(&b, "• Won: **%d** | Lost: **%d** | Active: **%d**\n", m.WonDeals, m.LostDeals, m.ActiveDeals)
	fmt.Fprintf(&b, "• **Win Rate: %s%%** (Closed deals only)\n", pct(m.WinRate))
	fmt.Fprintf(&b, "• **Overall Conversion: %s%%** (All deals)\n\n", pct(m.ConversionRate))

	b.WriteString("**Financial Realization:**\n")
	fmt.Fprintf(&b, "• Pipeline Value: %s\n", formatMoney(m.TotalPipeline))
	fmt.Fprintf(&b, "• Realized Revenue: %s\n", formatMoney(m.TotalRevenue))
	fmt.Fprintf(&b, "• **Realization Rate: %s%%**\n", pct(m.RealizationRate))
	fmt.Fprintf(&b, "• Pipeline Health Score: **%s %s** (%s/100)\n\n",
		healthDot(m.HealthScore), HealthStatusFor(m.HealthScore), score(m.HealthScore))

	b.WriteString("**Assessment:**\n")
	switch {
	case m.RealizationRate > 80:
		b.WriteString("✅ Excellent conversion efficiency! Revenue closely matches pipeline.\n\n")
	case m.RealizationRate > 50:
		b.WriteString("✅ Good conversion rate. Monitor pipeline quality.\n\n")
	default:
		b.WriteString("⚠️ Revenue significantly lags pipeline. Focus on deal qualification and closing techniques.\n\n")
	}

	b.WriteString("**Recommendations:**\n")
	fmt.Fprintf(&b, "1. %s\n", pick(m.WinRate > 40, "Maintain current sales process", "Review sales methodology and training"))
	fmt.Fprintf(&b, "2. %s\n", pick(m.ActiveDeals > m.WonDeals, "Accelerate active deal closure", "Generate new pipeline"))
	fmt.Fprintf(&b, "3. %s", pick(m.LostDeals > m.WonDeals, "Improve deal qualification to reduce losses", "Scale successful approaches"))
	return b.String()
}

func renderCollection(in *ComposeInput) string {
	c := in.Collections
	if c == nil {
		return "❌ Collection data not available in work orders."
	}
	var b strings.Builder

	b.WriteString("💰 **Collection & Receivables Analysis**\n\n")
	b.WriteString("**Collection Performance:**\n")
	fmt.Fprintf(&b, "• Total Billed: %s\n", formatMoney(c.TotalBilled))
	fmt.Fprintf(&b, "• Total Collected: %s\n", formatMoney(c.TotalCollected))
	fmt.Fprintf(&b, "• Outstanding Receivables: %s\n", formatMoney(c.Receivables))
	fmt.Fprintf(&b, "• **Collection Rate: %s%%**\n\n", pct(c.CollectionRate))

	b.WriteString("**Cash Flow Health:**\n")
	switch {
	case c.CollectionRate > 90:
		b.WriteString("✅ Excellent collection rate. Strong cash flow position.\n\n")
	case c.CollectionRate > 70:
		b.WriteString("⚠️ Moderate collections. Monitor aging receivables.\n\n")
	default:
		b.WriteString("🔴 Poor collection rate. Immediate attention required on receivables.\n\n")
	}

	b.WriteString("**Action Items:**\n")
	fmt.Fprintf(&b, "1. %s\n", pick(c.CollectionRate > 90, "Continue proactive collection practices", "Implement stricter payment terms"))
	fmt.Fprintf(&b, "2. %s\n", pick(c.Receivables > c.TotalBilled*0.2, "Review outstanding invoices >30 days", "Maintain current credit policies"))
	b.WriteString("3. Consider early payment incentives or automated reminders")
	return b.String()
}

func renderSector(in *ComposeInput) string {
	sectors := in.Sectors
	if len(sectors) == 0 {
		return "❌ Sector data not available in work orders."
	}

	var total float64
	for _, s := range sectors {
		total += s.Revenue
	}
	share := func(v float64) float64 {
		if total > 0 {
			return v / total * 100
		}
		return 0
	}

	top := sectors[0]
	var b strings.Builder

	b.WriteString("🏆 **Sector Performance Analysis**\n\n")
	fmt.Fprintf(&b, "**Top Performing Sector: %s**\n", top.Sector)
	fmt.Fprintf(&b, "• Revenue: %s (%s%% of total)\n", formatMoney(top.Revenue), pct(share(top.Revenue)))
	fmt.Fprintf(&b, "• Deals: %d\n\n", top.DealCount)

	b.WriteString("**Sector Breakdown:**\n")
	for i, s := range sectors {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "  • %s: %s (%s%%) - %d deals\n", s.Sector, formatMoney(s.Revenue), pct(share(s.Revenue)), s.DealCount)
	}
	b.WriteString("\n")

	b.WriteString("**Strategic Insights:**\n")
	fmt.Fprintf(&b, "• %s\n", pick(total > 0 && top.Revenue/total < 0.5,
		"Revenue is well-diversified across sectors",
		fmt.Sprintf("Heavy reliance on %s - consider diversification", top.Sector)))
	fmt.Fprintf(&b, "• %s\n\n", pick(len(sectors) > 3, "Opportunity to strengthen secondary sectors", "Focus on core competency expansion"))

	b.WriteString("**Recommendations:**\n")
	fmt.Fprintf(&b, "1. Double down on %s success factors\n", top.Sector)
	fmt.Fprintf(&b, "2. %s\n", pick(len(sectors) > 1, "Invest in underperforming sectors", "Develop additional sector expertise"))
	b.WriteString("3. Align marketing spend with high-conversion sectors")
	return b.String()
}

func renderRevenue(in *ComposeInput) string {
	m := in.Metrics
	rate := collectionRate(in.Collections)
	var collected float64
	if in.Collections != nil {
		collected = in.Collections.TotalCollected
	}
	var b strings.Builder

	b.WriteString("💰 **Revenue Analysis**\n\n")
	b.WriteString("**Realized Revenue:**\n")
	fmt.Fprintf(&b, "• Total Billed: %s\n", formatMoney(m.TotalRevenue))
	fmt.Fprintf(&b, "• Collected: %s\n", formatMoney(collected))
	fmt.Fprintf(&b, "• Collection Efficiency: %s%%\n\n", pct(rate))

	b.WriteString("**Revenue vs Pipeline:**\n")
	fmt.Fprintf(&b, "• Pipeline: %s\n", formatMoney(m.TotalPipeline))
	fmt.Fprintf(&b, "• Conversion Gap: %s\n\n", formatMoney(m.TotalPipeline-m.TotalRevenue))

	b.WriteString("**Performance Indicators:**\n")
	fmt.Fprintf(&b, "%s\n", pick(m.RealizationRate > 60, "✅ Revenue realization is strong", "⚠️ Gap between pipeline and revenue needs attention"))
	fmt.Fprintf(&b, "%s\n\n", pick(rate > 80, "✅ Collections are healthy", "⚠️ Improve collection processes"))

	b.WriteString("**Focus Areas:**\n")
	fmt.Fprintf(&b, "1. Convert remaining pipeline to revenue (%d active deals)\n", m.ActiveDeals)
	fmt.Fprintf(&b, "2. %s\n", pick(rate < 90, "Accelerate collections", "Maintain collection momentum"))
	b.WriteString("3. Review pricing in top sectors")
	return b.String()
}

func renderPipeline(in *ComposeInput) string {
	m := in.Metrics
	var b strings.Builder

	b.WriteString("📈 **Pipeline Overview**\n\n")
	b.WriteString("**Current Pipeline Status:**\n")
	fmt.Fprintf(&b, "• Total Value: %s\n", formatMoney(m.TotalPipeline))
	fmt.Fprintf(&b, "• Total Deals: %d\n", m.TotalDeals)
	fmt.Fprintf(&b, "• Active Opportunities: %d\n", m.ActiveDeals)
	fmt.Fprintf(&b, "• Won: %d | Lost: %d\n\n", m.WonDeals, m.LostDeals)

	b.WriteString("**Deal Status Distribution:**\n")
	if len(m.StatusCounts) == 0 {
		b.WriteString("  • No status data available\n")
	}
	for i, sc := range m.StatusCounts {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "  • %s: %d\n", sc.Status, sc.Count)
	}
	b.WriteString("\n")

	mostCommon, ok := m.MostCommonStatus()
	if !ok {
		mostCommon = "N/A"
	}
	b.WriteString("**Pipeline Health:**\n")
	fmt.Fprintf(&b, "• Win Rate: %s%%\n", pct(m.WinRate))
	fmt.Fprintf(&b, "• Most Common Status: %s\n\n", mostCommon)

	b.WriteString("**Strategic Insight:**\n")
	fmt.Fprintf(&b, "The pipeline of %s represents %s future revenue potential.\n",
		formatMoney(m.TotalPipeline), pick(m.TotalPipeline > m.TotalRevenue, "strong", "concerning"))
	b.WriteString(pick(m.ActiveDeals > 0, "Focus on closing active deals to realize value.", "Generate new opportunities to replenish pipeline."))
	return b.String()
}

func renderTrends(in *ComposeInput) string {
	m := in.Metrics
	var b strings.Builder

	b.WriteString("📊 **Business Trends & Trajectory**\n\n")
	b.WriteString("**Current Position:**\n")
	fmt.Fprintf(&b, "• Revenue: %s\n", formatMoney(m.TotalRevenue))
	fmt.Fprintf(&b, "• Pipeline: %s\n", formatMoney(m.TotalPipeline))
	fmt.Fprintf(&b, "• Ratio (Rev/Pipe): %s%%\n\n", pct(m.RealizationRate))

	b.WriteString("**Trend Indicators:**\n")
	fmt.Fprintf(&b, "• %s\n", pick(m.TotalPipeline > m.TotalRevenue, "Growing: Pipeline exceeds revenue", "Maturing: Revenue catching up to pipeline"))
	fmt.Fprintf(&b, "• %s (%s%%)\n", pick(m.WinRate > 30, "Healthy win rate", "Improve win rate needed"), pct(m.WinRate))
	fmt.Fprintf(&b, "• %s\n\n", pick(collectionRate(in.Collections) > 80, "Strong collection foundation", "Collection process needs optimization"))

	b.WriteString("*Note: Connect time-series data for month-over-month trend analysis*")
	return b.String()
}

func renderLeadership(in *ComposeInput) string {
	m := in.Metrics
	rate := collectionRate(in.Collections)
	var receivables float64
	if in.Collections != nil {
		receivables = in.Collections.Receivables
	}
	var b strings.Builder

	b.WriteString("📢 **Executive Leadership Summary**\n\n")
	fmt.Fprintf(&b, "%s **Overall Health Score: %s/100**\n\n", healthDot(m.HealthScore), score(m.HealthScore))

	b.WriteString("**Financial Snapshot:**\n")
	fmt.Fprintf(&b, "• 💰 Revenue Realized: %s\n", formatMoney(m.TotalRevenue))
	fmt.Fprintf(&b, "• 📈 Active Pipeline: %s\n", formatMoney(m.TotalPipeline))
	fmt.Fprintf(&b, "• 🎯 Conversion Rate: %s%%\n", pct(m.ConversionRate))
	fmt.Fprintf(&b, "• 💵 Collection Rate: %s%%\n\n", pct(rate))

	b.WriteString("**Operational Highlights:**\n")
	fmt.Fprintf(&b, "• Top Sector: %s\n", in.TopSector())
	fmt.Fprintf(&b, "• Deal Success: %d won / %d lost\n", m.WonDeals, m.LostDeals)
	fmt.Fprintf(&b, "• Outstanding Receivables: %s\n\n", formatMoney(receivables))

	b.WriteString("**CEO Priorities:**\n")
	fmt.Fprintf(&b, "1. **Conversion:** %s\n", pick(m.ConversionRate > 40, "Scale success", "Fix funnel - too many losses"))
	fmt.Fprintf(&b, "2. **Cash Flow:** %s\n", pick(in.Collections != nil && receivables > m.TotalRevenue*0.3, "Optimize working capital", "Maintain strong collections"))
	fmt.Fprintf(&b, "3. **Growth:** %s\n\n", pick(in.Sectors != nil && len(in.Sectors) < 3, "Diversify sectors", "Dominate top sectors"))

	b.WriteString("**Board-Ready Insight:**\n")
	switch {
	case m.HealthScore > 70:
		b.WriteString("We are hitting targets with strong unit economics.")
	case m.HealthScore > 40:
		b.WriteString("We are operationally challenged but fixable.")
	default:
		b.WriteString("We are in critical need of strategy reset.")
	}
	return b.String()
}

func renderFallback(in *ComposeInput) string {
	m := in.Metrics
	var b strings.Builder

	b.WriteString("📊 **Business Intelligence Summary**\n\n")
	fmt.Fprintf(&b, "I analyzed your query: *\"%s\"*\n\n", in.Query)

	b.WriteString("**Available Metrics:**\n")
	fmt.Fprintf(&b, "• Revenue: %s\n", formatMoney(m.TotalRevenue))
	fmt.Fprintf(&b, "• Pipeline: %s\n", formatMoney(m.TotalPipeline))
	fmt.Fprintf(&b, "• Win Rate: %s%%\n", pct(m.WinRate))
	fmt.Fprintf(&b, "• Active Deals: %d\n\n", m.ActiveDeals)

	b.WriteString("**Try asking about:**\n")
	for _, q := range fallbackSuggestions {
		fmt.Fprintf(&b, "• \"%s\"\n", q)
	}
	b.WriteString("\n")

	detected := "General inquiry"
	if len(in.Intents) > 0 {
		detected = strings.Join(in.Intents.Strings(), ", ")
	}
	fmt.Fprintf(&b, "*Detected intents: %s*", detected)
	return b.String()
}

var fallbackSuggestions = []string{
	"How effective is our pipeline conversion?",
	"Which sector performs best?",
	"What's our collection rate?",
	"Give me a leadership summary",
	"Are we converting pipeline effectively?",
}
