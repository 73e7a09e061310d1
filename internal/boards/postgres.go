package boards

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"insight-workers/internal/common/config"
	"insight-workers/internal/common/database"
	"insight-workers/internal/models"
)

// PostgresSource reads boards mirrored into a long-format table with one
// row per item and column:
//
//	board_id, item_id, item_name, column_title, text_value, position
type PostgresSource struct {
	db      *database.PostgresClient
	query   string
	timeout time.Duration
}

func NewPostgresSource(db *database.PostgresClient, cfg config.PostgresBoardConfig, timeout time.Duration) *PostgresSource {
	return &PostgresSource{
		db: db,
		query: fmt.Sprintf(
			"SELECT item_id, item_name, column_title, text_value FROM %s WHERE board_id = $1 ORDER BY item_id, position",
			pq.QuoteIdentifier(cfg.Table),
		),
		timeout: timeout,
	}
}

func (s *PostgresSource) Name() string { return config.SourcePostgres }

func (s *PostgresSource) Fetch(ctx context.Context, boardID string) (*models.RawTable, error) {
	rows, err := s.db.Query(ctx, s.query, boardID)
	if err != nil {
		return nil, fetchError(boardID, s.timeout, err)
	}
	defer rows.Close()

	table := models.NewRawTable(boardID)
	var (
		currentID string
		row       map[string]string
		order     []string
	)
	flush := func() {
		if row != nil {
			table.AddRow(row, order...)
		}
	}

	for rows.Next() {
		var (
			itemID, itemName string
			title, text      sql.NullString
		)
		if err := rows.Scan(&itemID, &itemName, &title, &text); err != nil {
			return nil, fetchError(boardID, s.timeout, err)
		}
		if row == nil || itemID != currentID {
			flush()
			currentID = itemID
			row = map[string]string{itemNameColumn: itemName}
			order = []string{itemNameColumn}
		}
		if !title.Valid || title.String == "" {
			continue
		}
		if _, dup := row[title.String]; dup {
			continue
		}
		row[title.String] = text.String
		order = append(order, title.String)
	}
	if err := rows.Err(); err != nil {
		return nil, fetchError(boardID, s.timeout, err)
	}
	flush()
	return table, nil
}
