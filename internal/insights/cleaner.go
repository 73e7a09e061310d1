package insights

import (
	"math"
	"strconv"
	"strings"
	"time"

	"insight-workers/internal/models"
)

// Conventional board column labels, after normalisation.
const (
	ColItemName           = "item name"
	ColBilled             = "billed value in rupees (incl of gst.) (masked)"
	ColCollected          = "collected amount in rupees (incl of gst.) (masked)"
	ColReceivable         = "amount receivable (masked)"
	ColSector             = "sector"
	ColDealValue          = "masked deal value"
	ColDealStatus         = "deal status"
	ColClosureProbability = "closure probability"
)

// Profile names the typed columns of one board kind.
type Profile struct {
	Name            string
	CurrencyColumns []string
	DateColumns     []string
	StatusColumns   []string
}

var WorkOrderProfile = Profile{
	Name:            "work_orders",
	CurrencyColumns: []string{ColBilled, ColCollected, ColReceivable},
	DateColumns:     []string{"collection date", "actual billing month", "created date"},
}

var DealProfile = Profile{
	Name:            "deals",
	CurrencyColumns: []string{ColDealValue},
	DateColumns:     []string{"close date (a)", "created date", "expected close date"},
	StatusColumns:   []string{ColDealStatus},
}

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
	"02/01/2006",
	"1/2/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

var currencyReplacer = strings.NewReplacer("₹", "", "$", "", ",", "")

// ParseCurrency strips currency symbols and separators and parses the rest.
// Anything unparseable is 0.
func ParseCurrency(s string) float64 {
	s = strings.TrimSpace(currencyReplacer.Replace(s))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseDate tries the supported layouts in order and returns nil when none
// match.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// NormalizeColumn lower-cases and trims a column label.
func NormalizeColumn(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Clean returns a typed copy of raw. Column labels are normalised; when two
// labels normalise to the same name the first one wins. Status values are
// only trimmed: their spelling decides how a deal is counted.
func Clean(raw *models.RawTable, profile Profile) *models.Table {
	out := &models.Table{Columns: []string{}, Rows: []models.Row{}}
	if raw == nil {
		return out
	}

	currency := toSet(profile.CurrencyColumns)
	dates := toSet(profile.DateColumns)
	status := toSet(profile.StatusColumns)

	type mapping struct{ raw, norm string }
	var cols []mapping
	seen := make(map[string]bool, len(raw.Columns))
	for _, c := range raw.Columns {
		norm := NormalizeColumn(c)
		if seen[norm] {
			continue
		}
		seen[norm] = true
		cols = append(cols, mapping{raw: c, norm: norm})
		out.Columns = append(out.Columns, norm)
	}

	for _, rawRow := range raw.Rows {
		row := make(models.Row, len(cols))
		for _, m := range cols {
			v := rawRow[m.raw]
			switch {
			case currency[m.norm]:
				row[m.norm] = models.NumberCell(ParseCurrency(v))
			case dates[m.norm]:
				row[m.norm] = models.DateCell(ParseDate(v))
			case status[m.norm]:
				row[m.norm] = models.TextCell(strings.TrimSpace(v))
			default:
				row[m.norm] = models.TextCell(v)
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// CleanWorkOrders applies WorkOrderProfile.
func CleanWorkOrders(raw *models.RawTable) *models.Table {
	return Clean(raw, WorkOrderProfile)
}

// CleanDeals applies DealProfile.
func CleanDeals(raw *models.RawTable) *models.Table {
	return Clean(raw, DealProfile)
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
