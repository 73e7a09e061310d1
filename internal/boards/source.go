// Package boards loads the work-order and deal boards from the configured
// source, optionally through a Redis read-through cache.
package boards

import (
	"context"
	stderrors "errors"
	"net"
	"time"

	"insight-workers/internal/common/errors"
	"insight-workers/internal/models"
)

// Source fetches one board as a raw table.
//
// A board that answers but cannot be interpreted yields an empty table and a
// nil error. Transport failures return a *errors.StandardError coded
// BOARD_FETCH_FAILED or BOARD_FETCH_TIMEOUT.
type Source interface {
	Name() string
	Fetch(ctx context.Context, boardID string) (*models.RawTable, error)
}

// Invalidator is implemented by sources that keep copies of boards.
type Invalidator interface {
	Invalidate(ctx context.Context, boardIDs ...string) error
}

// fetchError maps a transport error onto the board error taxonomy.
func fetchError(boardID string, timeout time.Duration, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsStandardError(err); ok {
		return err
	}
	if isTimeout(err) {
		return errors.NewBoardFetchTimeoutError(boardID, timeout)
	}
	return errors.NewBoardFetchFailedError(boardID, err)
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
