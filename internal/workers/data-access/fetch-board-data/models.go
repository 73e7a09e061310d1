package fetchboarddata

import "insight-workers/internal/models"

type Input struct {
	// Refresh drops cached copies before loading.
	Refresh       bool `json:"refresh,omitempty"`
	IncludeTables bool `json:"includeTables,omitempty"`
}

type BoardSummary struct {
	BoardID string   `json:"boardId"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

type Output struct {
	WorkOrders BoardSummary        `json:"workOrders"`
	Deals      BoardSummary        `json:"deals"`
	DataReady  bool                `json:"dataReady"`
	Tables     *Tables             `json:"tables,omitempty"`
	Quality    *models.DataQuality `json:"quality"`
	FetchedAt  string              `json:"fetchedAt"`
}

type Tables struct {
	WorkOrders *models.RawTable `json:"workOrders"`
	Deals      *models.RawTable `json:"deals"`
}
