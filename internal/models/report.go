package models

import "time"

type HealthStatus string

const (
	HealthHealthy        HealthStatus = "Healthy"
	HealthNeedsAttention HealthStatus = "Needs Attention"
	HealthCritical       HealthStatus = "Critical"
)

type ReportMetadata struct {
	ID          string       `json:"id"`
	Timestamp   time.Time    `json:"timestamp"`
	HealthScore float64      `json:"healthScore"`
	Revenue     float64      `json:"revenue"`
	Pipeline    float64      `json:"pipeline"`
	Status      HealthStatus `json:"status"`
}

type LeadershipReport struct {
	Document string         `json:"document"`
	Metadata ReportMetadata `json:"metadata"`
}
