package boards

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"insight-workers/internal/common/config"
	"insight-workers/internal/common/http"
	"insight-workers/internal/models"
)

const itemNameColumn = "item name"

const mondayItemsQuery = `query ($boardId: [ID!]) {
  boards(ids: $boardId) {
    items_page(limit: %d) {
      items {
        name
        column_values {
          column { title }
          text
        }
      }
    }
  }
}`

type mondayRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type mondayResponse struct {
	Data struct {
		Boards []struct {
			ItemsPage struct {
				Items []mondayItem `json:"items"`
			} `json:"items_page"`
		} `json:"boards"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type mondayItem struct {
	Name         string `json:"name"`
	ColumnValues []struct {
		Column struct {
			Title string `json:"title"`
		} `json:"column"`
		Text *string `json:"text"`
	} `json:"column_values"`
}

// MondaySource reads boards through the monday.com GraphQL API.
type MondaySource struct {
	client     *http.Client
	apiURL     string
	apiKey     string
	apiVersion string
	pageLimit  int
	timeout    time.Duration
}

func NewMondaySource(cfg config.MondayConfig, timeout time.Duration) *MondaySource {
	return &MondaySource{
		client:     http.NewClient(timeout),
		apiURL:     cfg.APIURL,
		apiKey:     cfg.APIKey,
		apiVersion: cfg.APIVersion,
		pageLimit:  cfg.PageLimit,
		timeout:    timeout,
	}
}

func (s *MondaySource) Name() string { return config.SourceMonday }

func (s *MondaySource) Fetch(ctx context.Context, boardID string) (*models.RawTable, error) {
	req := mondayRequest{
		Query:     fmt.Sprintf(mondayItemsQuery, s.pageLimit),
		Variables: map[string]interface{}{"boardId": []string{boardID}},
	}
	headers := map[string]string{
		"Authorization": s.apiKey,
		"API-Version":   s.apiVersion,
	}

	table := models.NewRawTable(boardID)

	var resp mondayResponse
	if err := s.client.PostJSON(ctx, s.apiURL, headers, req, &resp); err != nil {
		var decodeErr *http.DecodeError
		if stderrors.As(err, &decodeErr) {
			return table, nil
		}
		return nil, fetchError(boardID, s.timeout, err)
	}

	if len(resp.Errors) > 0 || len(resp.Data.Boards) == 0 {
		return table, nil
	}

	for _, item := range resp.Data.Boards[0].ItemsPage.Items {
		row := map[string]string{itemNameColumn: item.Name}
		order := []string{itemNameColumn}
		for _, cv := range item.ColumnValues {
			title := cv.Column.Title
			if title == "" {
				continue
			}
			if _, dup := row[title]; dup {
				continue
			}
			text := ""
			if cv.Text != nil {
				text = *cv.Text
			}
			row[title] = text
			order = append(order, title)
		}
		table.AddRow(row, order...)
	}
	return table, nil
}
