package buildleadershipreport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insight-workers/internal/boards"
	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/models"
)

type stubLoader struct {
	boards *boards.Boards
}

func (s stubLoader) Load(ctx context.Context) *boards.Boards { return s.boards }

const billed = "Billed Value in Rupees (Incl of GST.) (Masked)"

func withDeals(statuses ...string) *boards.Boards {
	work := models.NewRawTable("w")
	work.AddRow(map[string]string{"Sector": "Mining", billed: "0"}, "Sector", billed)

	deals := models.NewRawTable("d")
	for _, s := range statuses {
		deals.AddRow(map[string]string{"Deal Status": s, "Masked Deal Value": "100000"}, "Deal Status", "Masked Deal Value")
	}
	return &boards.Boards{WorkOrders: work, Deals: deals}
}

func createTestHandler(t *testing.T, b *boards.Boards) *Handler {
	h := NewHandler(LoadConfig(), stubLoader{b}, logger.NewTestLogger(t))
	h.now = func() time.Time { return time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC) }
	return h
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []string
		wantStatus string
		wantScore  float64
	}{
		{name: "all won without revenue", statuses: []string{"Won"}, wantStatus: "Critical", wantScore: 40},
		{name: "all lost", statuses: []string{"Lost", "Lost"}, wantStatus: "Critical", wantScore: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := createTestHandler(t, withDeals(tt.statuses...)).Execute(context.Background(), &Input{RequestedBy: "ceo"})
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, out.Status)
			assert.InDelta(t, tt.wantScore, out.HealthScore, 0.001)
			assert.Equal(t, "leadership_report_20240305_1430.md", out.FileName)
			assert.Equal(t, out.ReportID, out.Metadata.ID)
			assert.NotEmpty(t, out.ReportID)
			assert.Contains(t, out.Document, "# 📊 Executive Leadership Report")
			assert.Contains(t, out.Document, "**Generated:** March 05, 2024 at 02:30 PM")
		})
	}
}

func TestHandler_Execute_NoData(t *testing.T) {
	tests := []struct {
		name   string
		boards *boards.Boards
	}{
		{name: "no deals", boards: withDeals()},
		{name: "no work orders", boards: &boards.Boards{WorkOrders: models.NewRawTable("w"), Deals: withDeals("Won").Deals}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := createTestHandler(t, tt.boards).Execute(context.Background(), &Input{})
			assert.True(t, errors.HasCode(err, errors.ErrCodeReportNoData))
		})
	}
}
