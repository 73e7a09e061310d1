package models

// StatusCount is one entry of a status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// MetricsBundle holds the conversion metrics derived from both boards.
// Rates are percentages in [0, 100]; HealthScore is capped at 100.
type MetricsBundle struct {
	TotalPipeline   float64       `json:"totalPipeline"`
	TotalRevenue    float64       `json:"totalRevenue"`
	TotalDeals      int           `json:"totalDeals"`
	WonDeals        int           `json:"wonDeals"`
	LostDeals       int           `json:"lostDeals"`
	ActiveDeals     int           `json:"activeDeals"`
	WinRate         float64       `json:"winRate"`
	ConversionRate  float64       `json:"conversionRate"`
	RealizationRate float64       `json:"realizationRate"`
	HealthScore     float64       `json:"healthScore"`
	StatusCounts    []StatusCount `json:"statusCounts"`
}

// MostCommonStatus returns the status with the highest count.
func (m *MetricsBundle) MostCommonStatus() (string, bool) {
	if m == nil || len(m.StatusCounts) == 0 {
		return "", false
	}
	return m.StatusCounts[0].Status, true
}

// CollectionAnalysis summarises billed against collected work-order values.
type CollectionAnalysis struct {
	TotalBilled    float64 `json:"totalBilled"`
	TotalCollected float64 `json:"totalCollected"`
	CollectionRate float64 `json:"collectionRate"`
	Receivables    float64 `json:"receivables"`
}

type SectorGroup struct {
	Sector    string  `json:"sector"`
	Revenue   float64 `json:"revenue"`
	DealCount int     `json:"dealCount"`
}

// PipelineForecast weights open deals by their closure probability.
type PipelineForecast struct {
	OpenDeals        int     `json:"openDeals"`
	OpenPipeline     float64 `json:"openPipeline"`
	WeightedPipeline float64 `json:"weightedPipeline"`
	AverageDealSize  float64 `json:"averageDealSize"`
}

type DataQuality struct {
	WorkOrderRows      int            `json:"workOrderRows"`
	DealRows           int            `json:"dealRows"`
	WorkOrderMissing   map[string]int `json:"workOrderMissing"`
	DealMissing        map[string]int `json:"dealMissing"`
	MissingSectors     int            `json:"missingSectors"`
	StatusDistribution []StatusCount  `json:"statusDistribution"`
	Issues             []string       `json:"issues"`
}
