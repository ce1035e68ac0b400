package models

import "time"

// Series is a target aggregate document. The likes/dislikes/views counters
// are denormalized from the vote and view ledgers and are never written
// directly by a client request.
type Series struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Author    string    `json:"author" db:"author"`
	Synopsis  string    `json:"synopsis" db:"synopsis"`
	CoverURL  string    `json:"cover_url" db:"cover_url"`
	Likes     int       `json:"likes" db:"likes"`
	Dislikes  int       `json:"dislikes" db:"dislikes"`
	Views     int       `json:"views" db:"views"`
	CreatedBy string    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Chapter is nested under its series and carries its own counters.
type Chapter struct {
	ID        string    `json:"id" db:"id"`
	SeriesID  string    `json:"series_id" db:"series_id"`
	Number    int       `json:"number" db:"number"`
	Title     string    `json:"title" db:"title"`
	Likes     int       `json:"likes" db:"likes"`
	Dislikes  int       `json:"dislikes" db:"dislikes"`
	Views     int       `json:"views" db:"views"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateSeriesRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	Author   string `json:"author" binding:"omitempty,max=255"`
	Synopsis string `json:"synopsis"`
	CoverURL string `json:"cover_url"`
}

type CreateChapterRequest struct {
	Number int    `json:"number" binding:"min=0"`
	Title  string `json:"title" binding:"required,max=255"`
}

type ListSeriesRequest struct {
	Limit  int `form:"limit" binding:"min=0,max=100"`
	Offset int `form:"offset" binding:"min=0"`
}
