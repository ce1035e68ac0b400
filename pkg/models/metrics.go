package models

import "time"

// Vote is the ledger record behind the like/dislike counters. At most one
// row exists per (user, target_kind, target_id); a vote withdrawn to 0 is
// deleted, not stored.
type Vote struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	TargetKind string    `json:"target_kind" db:"target_kind"`
	TargetID   string    `json:"target_id" db:"target_id"`
	Value      int       `json:"value" db:"value"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// View is append-only: one row per (user, chapter), never updated.
type View struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	SeriesID   string    `json:"series_id" db:"series_id"`
	ChapterID  string    `json:"chapter_id" db:"chapter_id"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

type VoteRequest struct {
	TargetKind   string `json:"target_kind" binding:"required,oneof=series chapter"`
	TargetID     string `json:"target_id" binding:"required"`
	DesiredValue *int   `json:"desired_value" binding:"required,oneof=-1 0 1"` // pointer so 0 survives binding
	SeriesID     string `json:"series_id"`
}

type ViewRequest struct {
	SeriesID  string `json:"series_id" binding:"required"`
	ChapterID string `json:"chapter_id" binding:"required"`
}

// MetricsResponse is the boundary shape for all /metrics endpoints.
type MetricsResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
