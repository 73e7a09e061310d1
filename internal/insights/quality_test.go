package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"insight-workers/internal/models"
)

func TestAssessDataQuality(t *testing.T) {
	t.Run("fixture boards", func(t *testing.T) {
		q := AssessDataQuality(workOrdersRaw(), dealsRaw())

		assert.Equal(t, 3, q.WorkOrderRows)
		assert.Equal(t, 4, q.DealRows)
		assert.Equal(t, map[string]int{rawCollected: 1}, q.WorkOrderMissing)
		assert.Equal(t, map[string]int{"Closure Probability": 1}, q.DealMissing)
		assert.Zero(t, q.MissingSectors)
		assert.Equal(t, []string{
			"⚠️ Work Orders has 1 missing values",
			"⚠️ Deals has 1 missing values",
		}, q.Issues)
		assert.Equal(t, []models.StatusCount{
			{Status: "Won", Count: 1},
			{Status: "won", Count: 1},
			{Status: "Lost", Count: 1},
			{Status: "Open", Count: 1},
		}, q.StatusDistribution)
	})

	t.Run("missing sectors", func(t *testing.T) {
		work := workOrdersRaw()
		work.AddRow(map[string]string{"Item Name": "WO-4", "Sector": " ", rawBilled: "1", rawCollected: "1", rawReceivable: "0"})

		q := AssessDataQuality(work, dealsRaw())
		assert.Equal(t, 1, q.MissingSectors)
		assert.Contains(t, q.Issues, "⚠️ 1 work orders missing sector classification")
		assert.Contains(t, q.Issues, "⚠️ Work Orders has 2 missing values")
	})

	t.Run("empty boards", func(t *testing.T) {
		q := AssessDataQuality(nil, models.NewRawTable("d"))

		assert.Equal(t, []string{
			"❌ Work Orders board is empty or inaccessible",
			"❌ Deals board is empty or inaccessible",
		}, q.Issues)
		assert.Empty(t, q.StatusDistribution)
		assert.Empty(t, q.WorkOrderMissing)
	})
}
