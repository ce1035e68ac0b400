package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lectorio/lectorio/pkg/config"
	"github.com/lectorio/lectorio/pkg/database"
	"github.com/lectorio/lectorio/pkg/logger"
	"github.com/lectorio/lectorio/pkg/models"
	"github.com/lectorio/lectorio/pkg/stats"
)

// RankingAggregator periodically recomputes a derived popularity score per
// series from the aggregate counters. It only reads counters and writes the
// rankings table; it never touches the vote or view ledgers.
type RankingAggregator struct {
	ViewWeight float64
	BatchSize  int

	log *logger.Logger
}

func NewRankingAggregator(viewWeight float64, batchSize int) *RankingAggregator {
	if viewWeight == 0 {
		viewWeight = config.DefaultViewWeight
	}
	if batchSize <= 0 {
		batchSize = config.DefaultRankingBatchSize
	}
	return &RankingAggregator{
		ViewWeight: viewWeight,
		BatchSize:  batchSize,
		log:        logger.WithContext("component", "ranking_aggregator"),
	}
}

// Score computes the popularity score for one set of counters:
// (likes - dislikes) + views * ViewWeight.
func (a *RankingAggregator) Score(likes, dislikes, views int) float64 {
	return float64(likes-dislikes) + float64(views)*a.ViewWeight
}

// RecomputeRankings scores every series and upserts one ranking row each.
// Upserts are chunked into batches of at most BatchSize rows, each chunk
// committing atomically in its own transaction. On a chunk failure the
// count of series already committed is returned along with the error.
func (a *RankingAggregator) RecomputeRankings(ctx context.Context) (int, error) {
	rows, err := database.DB.QueryContext(ctx,
		`SELECT id, likes, dislikes, views FROM series`)
	if err != nil {
		return 0, fmt.Errorf("query series counters: %w", err)
	}
	defer rows.Close()

	computedAt := time.Now().UTC()
	var rankings []models.Ranking
	for rows.Next() {
		var id string
		var likes, dislikes, views int
		if err := rows.Scan(&id, &likes, &dislikes, &views); err != nil {
			return 0, fmt.Errorf("scan series counters: %w", err)
		}
		rankings = append(rankings, models.Ranking{
			SeriesID:   id,
			Score:      a.Score(likes, dislikes, views),
			ComputedAt: computedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate series counters: %w", err)
	}

	updated := 0
	for start := 0; start < len(rankings); start += a.BatchSize {
		end := start + a.BatchSize
		if end > len(rankings) {
			end = len(rankings)
		}
		chunk := rankings[start:end]

		err := database.WithTx(ctx, func(tx *sql.Tx) error {
			for _, r := range chunk {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO rankings (series_id, score, computed_at)
					 VALUES (?, ?, ?)
					 ON CONFLICT(series_id) DO UPDATE SET
					     score = excluded.score,
					     computed_at = excluded.computed_at`,
					r.SeriesID, r.Score, r.ComputedAt,
				); err != nil {
					return fmt.Errorf("upsert ranking for series %s: %w", r.SeriesID, err)
				}
			}
			return nil
		})
		if err != nil {
			return updated, fmt.Errorf("ranking batch commit: %w", err)
		}
		updated += len(chunk)
	}

	stats.IncrementRankingRuns()
	a.log.Info("rankings_recomputed", "series_updated", updated, "view_weight", a.ViewWeight)
	return updated, nil
}
