package insights

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insight-workers/internal/models"
)

func TestHealthStatusFor(t *testing.T) {
	tests := []struct {
		score float64
		want  models.HealthStatus
	}{
		{score: 0, want: models.HealthCritical},
		{score: 40, want: models.HealthCritical},
		{score: 40.01, want: models.HealthNeedsAttention},
		{score: 70, want: models.HealthNeedsAttention},
		{score: 70.01, want: models.HealthHealthy},
		{score: 100, want: models.HealthHealthy},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score %.2f", tt.score), func(t *testing.T) {
			assert.Equal(t, tt.want, HealthStatusFor(tt.score))
		})
	}
}

func TestBuildLeadershipReport(t *testing.T) {
	work, deals := fixtureBoards()
	now := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

	report := BuildLeadershipReport(work, deals, now)
	doc := report.Document

	assert.True(t, strings.HasPrefix(doc, "# 📊 Executive Leadership Report\n**Generated:** March 05, 2024 at 02:30 PM\n"))
	for _, want := range []string{
		"## 🎯 Overall Business Health: 🟢 Healthy (87/100)",
		"| **Total Revenue** | ₹ 1,000,000.00 | ⚠️ Low |",
		"| **Active Pipeline** | ₹ 1,000,000.00 | ⚠️ Stagnant |",
		"| **Realization Rate** | 100.0% | ✅ Good |",
		"| **Collection Rate** | 80.0% | ⚠️ Poor |",
		"- **Win Rate:** 66.7% (2 won / 1 lost)",
		"- **Top Performing Sector:** Mining",
		"1. **Revenue Growth:** Generate new pipeline",
		"2. **Conversion:** Maintain momentum",
		"3. **Cash Flow:** Optimize working capital",
		"We are currently operating at **Healthy** levels",
		"Collections are on track.",
	} {
		assert.Contains(t, doc, want)
	}
	assert.True(t, strings.HasSuffix(doc, "*Report prepared by the Business Intelligence Agent*\n"))

	meta := report.Metadata
	assert.NotEmpty(t, meta.ID)
	assert.Equal(t, now, meta.Timestamp)
	assert.Equal(t, models.HealthHealthy, meta.Status)
	assert.Equal(t, 1000000.0, meta.Revenue)
	assert.Equal(t, 1000000.0, meta.Pipeline)
	assert.InDelta(t, 260.0/3, meta.HealthScore, 1e-9)

	assert.NotEqual(t, meta.ID, BuildLeadershipReport(work, deals, now).Metadata.ID)
}

func TestBuildLeadershipReport_CriticalAtForty(t *testing.T) {
	deals := dealsWithStatuses([]string{"Won"}, 1000)
	report := BuildLeadershipReport(&models.Table{}, deals, time.Now())

	require.Equal(t, 40.0, report.Metadata.HealthScore)
	assert.Equal(t, models.HealthCritical, report.Metadata.Status)
	assert.Contains(t, report.Document, "## 🎯 Overall Business Health: 🔴 Critical (40/100)")
	assert.Contains(t, report.Document, "- **Top Performing Sector:** N/A")
	assert.Contains(t, report.Document, "Immediate attention required on collections.")
}

func TestReportFileName(t *testing.T) {
	at := time.Date(2024, 3, 5, 14, 30, 59, 0, time.UTC)
	assert.Equal(t, "leadership_report_20240305_1430.md", ReportFileName(at))
}

func TestReportHistory(t *testing.T) {
	h := NewReportHistory(0)
	assert.Nil(t, h.Latest())
	assert.Empty(t, h.Recent())

	for i := 0; i < 7; i++ {
		h.Append(&models.LeadershipReport{Metadata: models.ReportMetadata{ID: fmt.Sprintf("r%d", i)}})
	}

	assert.Equal(t, 7, h.Len())
	assert.Equal(t, "r6", h.Latest().Metadata.ID)

	recent := h.Recent()
	require.Len(t, recent, DefaultBrowsableReports)
	assert.Equal(t, "r6", recent[0].ID)
	assert.Equal(t, "r2", recent[4].ID)

	old, ok := h.Get("r0")
	require.True(t, ok)
	assert.Equal(t, "r0", old.Metadata.ID)

	_, ok = h.Get("missing")
	assert.False(t, ok)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{name: "millions", in: 1234567.891, want: "₹ 1,234,567.89"},
		{name: "zero", in: 0, want: "₹ 0.00"},
		{name: "three digits", in: 100, want: "₹ 100.00"},
		{name: "rounds up across a group", in: 999.999, want: "₹ 1,000.00"},
		{name: "negative", in: -1500.5, want: "₹ -1,500.50"},
		{name: "negative rounding to zero", in: -0.001, want: "₹ 0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(tt.in))
		})
	}
	assert.Equal(t, "66.7", pct(200.0/3))
	assert.Equal(t, "87", score(260.0/3))
}
