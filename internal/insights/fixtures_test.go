package insights

import (
	"insight-workers/internal/models"
)

const (
	rawBilled     = "Billed Value in Rupees (Incl of GST.) (Masked)"
	rawCollected  = "Collected Amount in Rupees (Incl of GST.) (Masked)"
	rawReceivable = "Amount Receivable (Masked)"
)

// workOrdersRaw: billed 1,000,000, collected 800,000, Mining 700k over two
// orders and Powerline 300k over one.
func workOrdersRaw() *models.RawTable {
	t := models.NewRawTable("5026565302")
	order := []string{"Item Name", "Sector", rawBilled, rawCollected, rawReceivable}
	t.AddRow(map[string]string{
		"Item Name": "WO-1", "Sector": "Mining",
		rawBilled: "₹ 600,000", rawCollected: "500,000", rawReceivable: "100,000",
	}, order...)
	t.AddRow(map[string]string{
		"Item Name": "WO-2", "Sector": "Powerline",
		rawBilled: "300000", rawCollected: "300000", rawReceivable: "0",
	}, order...)
	t.AddRow(map[string]string{
		"Item Name": "WO-3", "Sector": "Mining",
		rawBilled: "100000", rawCollected: "", rawReceivable: "100000",
	}, order...)
	return t
}

// dealsRaw: pipeline 1,000,000 with two won, one lost and one open deal.
func dealsRaw() *models.RawTable {
	t := models.NewRawTable("5026565276")
	order := []string{"Item Name", "Deal Status", "Masked Deal Value", "Closure Probability"}
	t.AddRow(map[string]string{"Item Name": "D-1", "Deal Status": "Won", "Masked Deal Value": "400000", "Closure Probability": "High"}, order...)
	t.AddRow(map[string]string{"Item Name": "D-2", "Deal Status": "won", "Masked Deal Value": "200000", "Closure Probability": ""}, order...)
	t.AddRow(map[string]string{"Item Name": "D-3", "Deal Status": "Lost", "Masked Deal Value": "100000", "Closure Probability": "Low"}, order...)
	t.AddRow(map[string]string{"Item Name": "D-4", "Deal Status": "Open", "Masked Deal Value": "300000", "Closure Probability": "High"}, order...)
	return t
}

func fixtureBoards() (*models.Table, *models.Table) {
	return CleanWorkOrders(workOrdersRaw()), CleanDeals(dealsRaw())
}

// numberTable builds a cleaned table with one numeric column per key.
func numberTable(values map[string][]float64) *models.Table {
	t := &models.Table{Columns: []string{}, Rows: []models.Row{}}
	n := 0
	for col, vs := range values {
		t.Columns = append(t.Columns, col)
		if len(vs) > n {
			n = len(vs)
		}
	}
	for i := 0; i < n; i++ {
		row := models.Row{}
		for col, vs := range values {
			if i < len(vs) {
				row[col] = models.NumberCell(vs[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// dealsWithStatuses builds a deals table whose values sum to pipeline.
func dealsWithStatuses(statuses []string, pipeline float64) *models.Table {
	t := &models.Table{Columns: []string{ColDealStatus, ColDealValue}, Rows: []models.Row{}}
	for i, s := range statuses {
		value := 0.0
		if i == 0 {
			value = pipeline
		}
		t.Rows = append(t.Rows, models.Row{
			ColDealStatus: models.TextCell(s),
			ColDealValue:  models.NumberCell(value),
		})
	}
	return t
}
