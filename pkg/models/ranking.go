package models

import "time"

// Ranking is fully derived from series counters; rows are overwritten on
// each recompute and carry no ledger invariant of their own.
type Ranking struct {
	SeriesID   string    `json:"series_id" db:"series_id"`
	Score      float64   `json:"score" db:"score"`
	ComputedAt time.Time `json:"computed_at" db:"computed_at"`
}

// RankedSeries is the read-side join of a ranking row with its series.
type RankedSeries struct {
	SeriesID   string    `json:"series_id"`
	Title      string    `json:"title"`
	Score      float64   `json:"score"`
	Likes      int       `json:"likes"`
	Dislikes   int       `json:"dislikes"`
	Views      int       `json:"views"`
	ComputedAt time.Time `json:"computed_at"`
}
