package buildleadershipreport

import "insight-workers/internal/models"

type Input struct {
	RequestedBy string `json:"requestedBy,omitempty"`
}

type Output struct {
	ReportID    string                `json:"reportId"`
	Document    string                `json:"document"`
	FileName    string                `json:"fileName"`
	Status      string                `json:"status"`
	HealthScore float64               `json:"healthScore"`
	Metadata    models.ReportMetadata `json:"metadata"`
}
