package boards

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"insight-workers/internal/common/config"
	"insight-workers/internal/common/errors"
	"insight-workers/internal/models"
)

// XLSXSource reads board exports from disk, one workbook per board. The first
// non-empty row of the sheet is the header.
type XLSXSource struct {
	files map[string]string
	sheet string
}

// NewXLSXSource maps the configured board IDs to their export files.
func NewXLSXSource(cfg config.BoardsConfig) *XLSXSource {
	return &XLSXSource{
		files: map[string]string{
			cfg.WorkOrdersBoardID: cfg.XLSX.WorkOrdersFile,
			cfg.DealsBoardID:      cfg.XLSX.DealsFile,
		},
		sheet: cfg.XLSX.Sheet,
	}
}

func (s *XLSXSource) Name() string { return config.SourceXLSX }

func (s *XLSXSource) Fetch(ctx context.Context, boardID string) (*models.RawTable, error) {
	path, ok := s.files[boardID]
	if !ok || path == "" {
		return nil, errors.NewSourceNotConfiguredError(fmt.Sprintf("xlsx board %s", boardID))
	}
	if err := ctx.Err(); err != nil {
		return nil, fetchError(boardID, 0, err)
	}
	return ReadWorkbook(path, s.sheet, boardID)
}

// ReadWorkbook loads sheet (or the first sheet when empty) from path.
func ReadWorkbook(path, sheet, boardID string) (*models.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewBoardFetchFailedError(boardID, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.NewBoardFetchFailedError(boardID, err)
	}

	table := models.NewRawTable(boardID)
	var header []string
	for _, cells := range rows {
		if isBlankRow(cells) {
			continue
		}
		if header == nil {
			header = make([]string, len(cells))
			for i, c := range cells {
				header[i] = strings.TrimSpace(c)
			}
			continue
		}

		row := make(map[string]string, len(header))
		order := make([]string, 0, len(header))
		for i, title := range header {
			if title == "" {
				continue
			}
			if _, dup := row[title]; dup {
				continue
			}
			value := ""
			if i < len(cells) {
				value = cells[i]
			}
			row[title] = value
			order = append(order, title)
		}
		table.AddRow(row, order...)
	}
	return table, nil
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
