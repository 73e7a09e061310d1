package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insight-workers/internal/models"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "rupee with separators", input: "₹1,250,000", want: 1250000},
		{name: "rupee with space", input: "₹ 600,000", want: 600000},
		{name: "dollar", input: "$12.50", want: 12.5},
		{name: "plain", input: "300000", want: 300000},
		{name: "negative kept", input: "-1,000", want: -1000},
		{name: "not a number", input: "N/A", want: 0},
		{name: "blank", input: "   ", want: 0},
		{name: "nan text", input: "NaN", want: 0},
		{name: "infinity text", input: "Inf", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCurrency(tt.input))
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "iso", input: "2024-03-15", want: "2024-03-15"},
		{name: "day first dashes", input: "15-03-2024", want: "2024-03-15"},
		{name: "rfc3339", input: "2024-03-15T10:00:00Z", want: "2024-03-15"},
		{name: "timestamp", input: "2024-03-15 08:30:00", want: "2024-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}

	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("next tuesday"))
}

func TestClean_WorkOrders(t *testing.T) {
	work := CleanWorkOrders(workOrdersRaw())

	assert.Equal(t, []string{ColItemName, ColSector, ColBilled, ColCollected, ColReceivable}, work.Columns)
	require.Equal(t, 3, work.Len())

	first := work.Rows[0]
	assert.Equal(t, models.CellNumber, first[ColBilled].Kind)
	assert.Equal(t, 600000.0, first[ColBilled].Number)
	assert.Equal(t, "Mining", first[ColSector].Text)

	// blank currency becomes zero, not missing
	assert.Equal(t, models.NumberCell(0), work.Rows[2][ColCollected])
}

func TestClean_Deals(t *testing.T) {
	deals := CleanDeals(dealsRaw())

	require.Equal(t, 4, deals.Len())
	assert.Equal(t, "won", deals.Rows[1][ColDealStatus].Text)
	assert.Equal(t, 200000.0, deals.Rows[1][ColDealValue].Number)
}

func TestClean_EdgeCases(t *testing.T) {
	t.Run("nil table", func(t *testing.T) {
		out := Clean(nil, DealProfile)
		assert.True(t, out.IsEmpty())
		assert.Empty(t, out.Columns)
	})

	t.Run("duplicate labels keep the first", func(t *testing.T) {
		raw := &models.RawTable{
			Columns: []string{"Sector", " sector "},
			Rows:    []map[string]string{{"Sector": "Mining", " sector ": "Railways"}},
		}
		out := Clean(raw, WorkOrderProfile)
		assert.Equal(t, []string{ColSector}, out.Columns)
		assert.Equal(t, "Mining", out.Rows[0][ColSector].Text)
	})

	t.Run("status spelling is kept", func(t *testing.T) {
		raw := models.NewRawTable("d")
		raw.AddRow(map[string]string{"Deal Status": "Deal Status", "Masked Deal Value": "Masked Deal Value"}, "Deal Status", "Masked Deal Value")
		raw.AddRow(map[string]string{"Deal Status": "  closed won ", "Masked Deal Value": "10"})
		out := CleanDeals(raw)
		require.Equal(t, 2, out.Len())
		assert.Equal(t, "Deal Status", out.Rows[0][ColDealStatus].Text)
		assert.Equal(t, "closed won", out.Rows[1][ColDealStatus].Text)
	})

	t.Run("unparseable dates stay blank", func(t *testing.T) {
		raw := models.NewRawTable("w")
		raw.AddRow(map[string]string{"Created Date": "soon"})
		raw.AddRow(map[string]string{"Created Date": "2024-01-31"})
		out := CleanWorkOrders(raw)
		assert.True(t, out.Rows[0]["created date"].IsBlank())
		assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), *out.Rows[1]["created date"].Date)
	})
}
