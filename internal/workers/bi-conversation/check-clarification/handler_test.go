package checkclarification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insight-workers/internal/boards"
	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/models"
)

type stubLoader struct {
	boards *boards.Boards
}

func (s stubLoader) Load(ctx context.Context) *boards.Boards { return s.boards }

func sectorBoards(sectors ...string) *boards.Boards {
	work := models.NewRawTable("w")
	for _, s := range sectors {
		work.AddRow(map[string]string{"Sector": s}, "Sector")
	}
	return &boards.Boards{WorkOrders: work, Deals: models.NewRawTable("d")}
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name         string
		input        Input
		fiscalYear   int
		wantNeeded   bool
		wantReason   string
		wantQuestion string
	}{
		{
			name:         "short vague question",
			input:        Input{Query: "How are we?"},
			wantNeeded:   true,
			wantReason:   "vague",
			wantQuestion: "Could you be more specific? You can ask about revenue, pipeline, sector performance, or collections.",
		},
		{
			name:         "sector without a name",
			input:        Input{Query: "Which sector leads billing this year"},
			wantNeeded:   true,
			wantReason:   "sector",
			wantQuestion: "I found these sectors: 'Mining', 'Railways'. Which one would you like to know about?",
		},
		{
			name:  "named sector",
			input: Input{Query: "How is the mining sector doing overall"},
		},
		{
			name:         "relative quarter uses configured fiscal year",
			input:        Input{Query: "Revenue for this quarter so far please"},
			fiscalYear:   2025,
			wantNeeded:   true,
			wantReason:   "quarter",
			wantQuestion: "I currently have the latest data available. Are you looking for Q1, Q2, Q3, or Q4 2025?",
		},
		{
			name:  "already asked for this query",
			input: Input{Query: "How are we?", ClarificationAskedFor: "How are we?"},
		},
		{
			name:  "specific question",
			input: Input{Query: "Show the deal pipeline by stage"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			if tt.fiscalYear != 0 {
				cfg.FiscalYear = tt.fiscalYear
			}
			h := NewHandler(cfg, stubLoader{sectorBoards("Mining", "Railways", "Mining")}, logger.NewTestLogger(t))

			out, err := h.Execute(context.Background(), &tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNeeded, out.NeedsClarification)
			assert.Equal(t, tt.wantReason, out.Reason)
			assert.Equal(t, tt.wantQuestion, out.Question)
			assert.Equal(t, tt.input.Query, out.ForwardedQuery)
			if tt.wantNeeded {
				assert.Equal(t, tt.input.Query, out.ClarificationAskedFor)
				assert.Contains(t, out.ReplyText, "**"+tt.wantQuestion+"**")
			} else {
				assert.Empty(t, out.ReplyText)
			}
		})
	}
}

func TestHandler_Execute_EmptyQuery(t *testing.T) {
	h := NewHandler(LoadConfig(), stubLoader{sectorBoards()}, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
}
