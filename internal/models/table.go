package models

import (
	"strconv"
	"strings"
	"time"
)

// RawTable is a board as delivered by a source: column titles in first-seen
// order and one text map per board item.
type RawTable struct {
	BoardID string              `json:"boardId,omitempty"`
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// NewRawTable returns an empty table for boardID.
func NewRawTable(boardID string) *RawTable {
	return &RawTable{BoardID: boardID, Columns: []string{}, Rows: []map[string]string{}}
}

// AddRow appends row, registering any column title not seen before.
func (t *RawTable) AddRow(row map[string]string, order ...string) {
	for _, col := range order {
		t.addColumn(col)
	}
	for col := range row {
		t.addColumn(col)
	}
	t.Rows = append(t.Rows, row)
}

func (t *RawTable) addColumn(col string) {
	for _, c := range t.Columns {
		if c == col {
			return
		}
	}
	t.Columns = append(t.Columns, col)
}

func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *RawTable) IsEmpty() bool {
	return t.Len() == 0
}

// CellKind tells which field of a Cell carries the value.
type CellKind int

const (
	CellText CellKind = iota
	CellNumber
	CellDate
)

// Cell is a single cleaned value. Date is nil when the raw text did not parse.
type Cell struct {
	Kind   CellKind   `json:"kind"`
	Text   string     `json:"text,omitempty"`
	Number float64    `json:"number,omitempty"`
	Date   *time.Time `json:"date,omitempty"`
}

func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

func NumberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

func DateCell(d *time.Time) Cell {
	return Cell{Kind: CellDate, Date: d}
}

// IsBlank reports a missing value: empty text or an unparsed date.
// Numeric cells are never blank.
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case CellNumber:
		return false
	case CellDate:
		return c.Date == nil
	default:
		return strings.TrimSpace(c.Text) == ""
	}
}

func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		if c.Date == nil {
			return ""
		}
		return c.Date.Format("2006-01-02")
	default:
		return c.Text
	}
}

type Row map[string]Cell

// Table is a cleaned board: lower-cased column labels and typed cells.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Values returns the column's cells in row order. Rows lacking the column
// yield a zero Cell.
func (t *Table) Values(column string) []Cell {
	if t == nil {
		return nil
	}
	out := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[column]
	}
	return out
}
