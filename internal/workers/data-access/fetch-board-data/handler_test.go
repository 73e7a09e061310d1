package fetchboarddata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insight-workers/internal/boards"
	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/models"
)

type stubLoader struct {
	boards      *boards.Boards
	err         error
	invalidated int
}

func (s *stubLoader) LoadStrict(ctx context.Context) (*boards.Boards, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.boards, nil
}

func (s *stubLoader) Invalidate(ctx context.Context) error {
	s.invalidated++
	return nil
}

func testBoards() *boards.Boards {
	work := models.NewRawTable("wo-1")
	work.AddRow(map[string]string{"Item Name": "WO-1", "Sector": "Mining"}, "Item Name", "Sector")
	work.AddRow(map[string]string{"Item Name": "WO-2", "Sector": ""}, "Item Name", "Sector")

	deals := models.NewRawTable("deals-1")
	deals.AddRow(map[string]string{"Item Name": "D-1", "Deal Status": "Won"}, "Item Name", "Deal Status")
	return &boards.Boards{WorkOrders: work, Deals: deals}
}

func createTestHandler(t *testing.T, loader BoardLoader) *Handler {
	return NewHandler(LoadConfig(), loader, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name        string
		input       *Input
		wantTables  bool
		wantRefresh int
	}{
		{name: "summary only", input: &Input{}},
		{name: "with tables", input: &Input{IncludeTables: true}, wantTables: true},
		{name: "refresh first", input: &Input{Refresh: true}, wantRefresh: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &stubLoader{boards: testBoards()}
			out, err := createTestHandler(t, loader).Execute(context.Background(), tt.input)
			require.NoError(t, err)

			assert.Equal(t, BoardSummary{BoardID: "wo-1", Rows: 2, Columns: []string{"Item Name", "Sector"}}, out.WorkOrders)
			assert.Equal(t, 1, out.Deals.Rows)
			assert.True(t, out.DataReady)
			assert.Equal(t, 1, out.Quality.MissingSectors)
			assert.NotEmpty(t, out.FetchedAt)
			assert.Equal(t, tt.wantTables, out.Tables != nil)
			assert.Equal(t, tt.wantRefresh, loader.invalidated)
		})
	}
}

func TestHandler_Execute_EmptyBoard(t *testing.T) {
	b := testBoards()
	b.Deals = models.NewRawTable("deals-1")

	out, err := createTestHandler(t, &stubLoader{boards: b}).Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.False(t, out.DataReady)
	assert.Equal(t, 0, out.Deals.Rows)
}

func TestHandler_Execute_FetchFailure(t *testing.T) {
	loader := &stubLoader{err: errors.NewBoardFetchTimeoutError("deals-1", 0)}

	_, err := createTestHandler(t, loader).Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBoardFetchTimeout))
}
