package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lectorio/lectorio/pkg/database"
	"github.com/lectorio/lectorio/pkg/logger"
	"github.com/lectorio/lectorio/pkg/stats"
	"github.com/lectorio/lectorio/pkg/utils"
)

// ViewOutcome describes what a RegisterView call did.
type ViewOutcome int

const (
	ViewCreated ViewOutcome = iota
	ViewAlreadyExists
)

func (o ViewOutcome) Status() string {
	if o == ViewAlreadyExists {
		return "info"
	}
	return "success"
}

func (o ViewOutcome) Message() string {
	if o == ViewAlreadyExists {
		return "View already recorded for this chapter"
	}
	return "View recorded"
}

// ViewLedger owns the at-most-one-view-per-user-per-chapter invariant and
// the views counters on chapter and series rows. The existence check and
// the counter increments run in a single transaction keyed on the
// (user_id, chapter_id) unique constraint, so two simultaneous first views
// from the same user cannot double-count.
type ViewLedger struct {
	log *logger.Logger
}

func NewViewLedger() *ViewLedger {
	return &ViewLedger{log: logger.WithContext("component", "view_ledger")}
}

// RegisterView records the first view of a chapter by a user. Repeat calls
// for the same (viewer, chapter) pair are no-ops. View rows are append-only
// and never deleted.
func (l *ViewLedger) RegisterView(ctx context.Context, viewerID, seriesID, chapterID string) (ViewOutcome, error) {
	if viewerID == "" {
		return ViewAlreadyExists, validationErrorf("viewer id is required")
	}
	if seriesID == "" || chapterID == "" {
		return ViewAlreadyExists, validationErrorf("series_id and chapter_id are required")
	}

	var outcome ViewOutcome
	err := database.WithTx(ctx, func(tx *sql.Tx) error {
		outcome = ViewAlreadyExists

		res, err := tx.ExecContext(ctx,
			`INSERT INTO views (id, user_id, series_id, chapter_id, recorded_at)
			 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT(user_id, chapter_id) DO NOTHING`,
			utils.NewID(), viewerID, seriesID, chapterID,
		)
		if err != nil {
			return fmt.Errorf("insert view: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return nil
		}

		res, err = tx.ExecContext(ctx,
			`UPDATE chapters SET views = views + 1 WHERE id = ? AND series_id = ?`,
			chapterID, seriesID,
		)
		if err != nil {
			return fmt.Errorf("update chapter views: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			l.log.Warn("view_chapter_missing", "series_id", seriesID, "chapter_id", chapterID)
		}

		res, err = tx.ExecContext(ctx,
			`UPDATE series SET views = views + 1 WHERE id = ?`, seriesID,
		)
		if err != nil {
			return fmt.Errorf("update series views: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			l.log.Warn("view_series_missing", "series_id", seriesID)
		}

		outcome = ViewCreated
		return nil
	})
	if err != nil {
		return ViewAlreadyExists, err
	}
	if outcome == ViewCreated {
		stats.IncrementViews()
	}
	return outcome, nil
}
