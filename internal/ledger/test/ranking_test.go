package ledger_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/lectorio/lectorio/internal/ledger"
	"github.com/lectorio/lectorio/pkg/database"
	"github.com/stretchr/testify/require"
)

func TestRecomputeRankings_Score(t *testing.T) {
	cleanup := setupLedgerTest(t)
	defer cleanup()

	mustExec(t, `INSERT INTO series (id, title, likes, dislikes, views) VALUES (?, ?, ?, ?, ?)`,
		"s1", "Series s1", 10, 2, 500)

	agg := ledger.NewRankingAggregator(0.01, 0)
	updated, err := agg.RecomputeRankings(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, updated)

	var score float64
	err = database.DB.QueryRow(`SELECT score FROM rankings WHERE series_id = ?`, "s1").Scan(&score)
	require.NoError(t, err)
	// (10 - 2) + 500*0.01 = 13.0
	require.InDelta(t, 13.0, score, 1e-9)
	require.Equal(t, 1, countRows(t, "rankings"))
}

func TestRecomputeRankings_UpsertsExistingRows(t *testing.T) {
	cleanup := setupLedgerTest(t)
	defer cleanup()

	mustExec(t, `INSERT INTO series (id, title, likes, dislikes, views) VALUES (?, ?, 1, 0, 0)`, "s1", "Series s1")

	agg := ledger.NewRankingAggregator(0.01, 0)
	ctx := context.Background()

	_, err := agg.RecomputeRankings(ctx)
	require.NoError(t, err)

	mustExec(t, `UPDATE series SET likes = 3 WHERE id = ?`, "s1")

	updated, err := agg.RecomputeRankings(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, updated)
	require.Equal(t, 1, countRows(t, "rankings"))

	var score float64
	err = database.DB.QueryRow(`SELECT score FROM rankings WHERE series_id = ?`, "s1").Scan(&score)
	require.NoError(t, err)
	require.InDelta(t, 3.0, score, 1e-9)
}

func TestRecomputeRankings_ChunksLargeSeriesSets(t *testing.T) {
	cleanup := setupLedgerTest(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("s%d", i)
		mustExec(t, `INSERT INTO series (id, title, likes) VALUES (?, ?, ?)`, id, "Series "+id, i)
	}

	// Batch size 2 forces three sequential chunks.
	agg := ledger.NewRankingAggregator(0.01, 2)
	updated, err := agg.RecomputeRankings(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, updated)
	require.Equal(t, 5, countRows(t, "rankings"))
}

func TestRecomputeRankings_EmptySeriesSet(t *testing.T) {
	cleanup := setupLedgerTest(t)
	defer cleanup()

	agg := ledger.NewRankingAggregator(0.01, 0)
	updated, err := agg.RecomputeRankings(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, updated)
	require.Equal(t, 0, countRows(t, "rankings"))
}

func TestRecomputeRankings_NeverTouchesLedgers(t *testing.T) {
	cleanup := setupLedgerTest(t)
	defer cleanup()

	insertSeries(t, "s1")
	insertChapter(t, "c1", "s1")

	votes := ledger.NewVoteLedger()
	views := ledger.NewViewLedger()
	ctx := context.Background()

	_, err := votes.CastVote(ctx, "user-x", ledger.TargetSeries, "s1", "", 1)
	require.NoError(t, err)
	_, err = views.RegisterView(ctx, "user-x", "s1", "c1")
	require.NoError(t, err)

	agg := ledger.NewRankingAggregator(0.01, 0)
	_, err = agg.RecomputeRankings(ctx)
	require.NoError(t, err)

	require.Equal(t, 1, countRows(t, "votes"))
	require.Equal(t, 1, countRows(t, "views"))
}
