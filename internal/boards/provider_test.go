package boards

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/insights"
	"insight-workers/internal/models"
)

type stubSource struct {
	tables      map[string]*models.RawTable
	errs        map[string]error
	invalidated []string
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(ctx context.Context, boardID string) (*models.RawTable, error) {
	if err := s.errs[boardID]; err != nil {
		return nil, err
	}
	return s.tables[boardID], nil
}

func (s *stubSource) Invalidate(ctx context.Context, boardIDs ...string) error {
	s.invalidated = append(s.invalidated, boardIDs...)
	return nil
}

func workTable() *models.RawTable {
	t := models.NewRawTable("w")
	t.AddRow(map[string]string{"Sector": "Mining", "Billed Value in Rupees (Incl of GST.) (Masked)": "₹ 1,000"}, "Sector")
	return t
}

func TestProvider_LoadDegradesFailures(t *testing.T) {
	src := &stubSource{
		tables: map[string]*models.RawTable{"w": workTable()},
		errs:   map[string]error{"d": errors.NewBoardFetchTimeoutError("d", 0)},
	}
	p := NewProvider(Instrument(src), "w", "d", logger.NewTestLogger(t))

	b := p.Load(context.Background())
	assert.Equal(t, 1, b.WorkOrders.Len())
	require.NotNil(t, b.Deals)
	assert.True(t, b.Deals.IsEmpty())
	assert.Equal(t, "d", b.Deals.BoardID)
	assert.True(t, b.IsEmpty())

	_, err := p.LoadStrict(context.Background())
	assert.True(t, errors.HasCode(err, errors.ErrCodeBoardFetchTimeout))
}

func TestProvider_Tables(t *testing.T) {
	deals := models.NewRawTable("d")
	deals.AddRow(map[string]string{"Deal Status": " WON "}, "Deal Status")
	src := &stubSource{tables: map[string]*models.RawTable{"w": workTable(), "d": deals}}
	p := NewProvider(src, "w", "d", logger.NewNoOpLogger())

	b, err := p.LoadStrict(context.Background())
	require.NoError(t, err)
	assert.False(t, b.IsEmpty())

	work, cleanDeals := b.Tables()
	assert.Equal(t, 1000.0, work.Rows[0][insights.ColBilled].Number)
	assert.Equal(t, "WON", cleanDeals.Rows[0][insights.ColDealStatus].Text)
}

func TestProvider_Invalidate(t *testing.T) {
	src := &stubSource{}
	p := NewProvider(Instrument(src), "w", "d", logger.NewNoOpLogger())

	require.NoError(t, p.Invalidate(context.Background()))
	assert.Equal(t, []string{"w", "d"}, src.invalidated)

	plain := NewProvider(&MondaySource{}, "w", "d", logger.NewNoOpLogger())
	assert.NoError(t, plain.Invalidate(context.Background()))
}
