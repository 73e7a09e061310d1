package insights

import (
	"sync"

	"insight-workers/internal/models"
)

// DefaultBrowsableReports is how many past reports a reader can browse.
const DefaultBrowsableReports = 5

// ReportHistory is an append-only list of generated reports.
type ReportHistory struct {
	mu      sync.RWMutex
	reports []*models.LeadershipReport
	browse  int
}

func NewReportHistory(browsable int) *ReportHistory {
	if browsable <= 0 {
		browsable = DefaultBrowsableReports
	}
	return &ReportHistory{browse: browsable}
}

func (h *ReportHistory) Append(r *models.LeadershipReport) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reports = append(h.reports, r)
}

// Latest returns the most recent report, or nil.
func (h *ReportHistory) Latest() *models.LeadershipReport {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.reports) == 0 {
		return nil
	}
	return h.reports[len(h.reports)-1]
}

// Recent returns metadata of the browsable reports, newest first.
func (h *ReportHistory) Recent() []models.ReportMetadata {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := len(h.reports)
	if n > h.browse {
		n = h.browse
	}
	out := make([]models.ReportMetadata, 0, n)
	for i := len(h.reports) - 1; i >= len(h.reports)-n; i-- {
		out = append(out, h.reports[i].Metadata)
	}
	return out
}

// Get finds a report by ID anywhere in the history.
func (h *ReportHistory) Get(id string) (*models.LeadershipReport, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, r := range h.reports {
		if r.Metadata.ID == id {
			return r, true
		}
	}
	return nil, false
}

func (h *ReportHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.reports)
}
