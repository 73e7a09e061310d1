package boards

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"insight-workers/internal/common/config"
	"insight-workers/internal/common/database"
	"insight-workers/internal/models"
)

// ElasticsearchSource reads boards from an index of item documents:
//
//	{"board_id": "...", "item_name": "...", "position": 3,
//	 "columns": [{"title": "Sector", "text": "Mining"}]}
type ElasticsearchSource struct {
	es      *database.ElasticsearchClient
	index   string
	size    int
	timeout time.Duration
}

func NewElasticsearchSource(es *database.ElasticsearchClient, cfg config.ElasticsearchBoardConfig, timeout time.Duration) *ElasticsearchSource {
	return &ElasticsearchSource{es: es, index: cfg.Index, size: cfg.Size, timeout: timeout}
}

func (s *ElasticsearchSource) Name() string { return config.SourceElasticsearch }

type itemDocument struct {
	BoardID  string `json:"board_id"`
	ItemName string `json:"item_name"`
	Position int    `json:"position"`
	Columns  []struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	} `json:"columns"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source itemDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticsearchSource) Fetch(ctx context.Context, boardID string) (*models.RawTable, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{"board_id": boardID},
		},
		"sort": []interface{}{
			map[string]interface{}{"position": map[string]interface{}{"order": "asc", "unmapped_type": "long"}},
		},
	}
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(query); err != nil {
		return nil, fetchError(boardID, s.timeout, err)
	}

	client := s.es.Client
	res, err := client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(s.index),
		client.Search.WithBody(&body),
		client.Search.WithSize(s.size),
	)
	if err != nil {
		return nil, fetchError(boardID, s.timeout, err)
	}
	defer res.Body.Close()

	table := models.NewRawTable(boardID)
	if res.StatusCode == http.StatusNotFound {
		return table, nil
	}
	if res.IsError() {
		return nil, fetchError(boardID, s.timeout, fmt.Errorf("search %s: %s", s.index, res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return table, nil
	}

	for _, hit := range parsed.Hits.Hits {
		doc := hit.Source
		row := map[string]string{itemNameColumn: doc.ItemName}
		order := []string{itemNameColumn}
		for _, c := range doc.Columns {
			if c.Title == "" {
				continue
			}
			if _, dup := row[c.Title]; dup {
				continue
			}
			row[c.Title] = c.Text
			order = append(order, c.Title)
		}
		table.AddRow(row, order...)
	}
	return table, nil
}
