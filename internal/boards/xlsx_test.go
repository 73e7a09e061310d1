package boards

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"insight-workers/internal/common/config"
	"insight-workers/internal/common/errors"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	path := filepath.Join(t.TempDir(), "board.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestXLSXSource_Fetch(t *testing.T) {
	deals := writeWorkbook(t, [][]interface{}{
		{"", "", ""},
		{"Deal Name", "Deal Status", "Masked Deal Value"},
		{"D-1", "Won", "400000"},
		{"D-2", "Open"},
		{"", "", ""},
		{"D-3", "Lost", "₹ 1,000"},
	})
	src := NewXLSXSource(config.BoardsConfig{
		WorkOrdersBoardID: "w",
		DealsBoardID:      "d",
		XLSX:              config.XLSXConfig{DealsFile: deals},
	})

	table, err := src.Fetch(context.Background(), "d")
	require.NoError(t, err)
	assert.Equal(t, "d", table.BoardID)
	assert.Equal(t, []string{"Deal Name", "Deal Status", "Masked Deal Value"}, table.Columns)
	assert.Equal(t, []map[string]string{
		{"Deal Name": "D-1", "Deal Status": "Won", "Masked Deal Value": "400000"},
		{"Deal Name": "D-2", "Deal Status": "Open", "Masked Deal Value": ""},
		{"Deal Name": "D-3", "Deal Status": "Lost", "Masked Deal Value": "₹ 1,000"},
	}, table.Rows)
}

func TestXLSXSource_Errors(t *testing.T) {
	src := NewXLSXSource(config.BoardsConfig{
		WorkOrdersBoardID: "w",
		DealsBoardID:      "d",
		XLSX:              config.XLSXConfig{WorkOrdersFile: filepath.Join(t.TempDir(), "missing.xlsx")},
	})

	_, err := src.Fetch(context.Background(), "w")
	assert.True(t, errors.HasCode(err, errors.ErrCodeBoardFetchFailed))

	_, err = src.Fetch(context.Background(), "d")
	assert.True(t, errors.HasCode(err, errors.ErrCodeSourceNotConfigured))

	_, err = src.Fetch(context.Background(), "unknown")
	assert.True(t, errors.HasCode(err, errors.ErrCodeSourceNotConfigured))
}
