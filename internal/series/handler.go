package series

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lectorio/lectorio/pkg/database"
	"github.com/lectorio/lectorio/pkg/models"
	"github.com/lectorio/lectorio/pkg/utils"
)

// Handler handles series and chapter content operations. Counters on these
// rows are read-only here: only the ledgers mutate them.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// CreateSeries creates a new series with zeroed counters.
func (h *Handler) CreateSeries(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seriesID := utils.NewID()
	query := `INSERT INTO series (id, title, author, synopsis, cover_url, created_by) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := database.DB.Exec(query, seriesID, req.Title, req.Author, req.Synopsis, req.CoverURL, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create series"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": seriesID, "message": "Series created successfully"})
}

// ListSeries returns series newest-first with their aggregate counters.
func (h *Handler) ListSeries(c *gin.Context) {
	var req models.ListSeriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	query := `SELECT id, title, COALESCE(author, ''), COALESCE(synopsis, ''), COALESCE(cover_url, ''),
	                 likes, dislikes, views, created_at
	          FROM series ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := database.DB.Query(query, req.Limit, req.Offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	seriesList := []models.Series{}
	for rows.Next() {
		var s models.Series
		if err := rows.Scan(&s.ID, &s.Title, &s.Author, &s.Synopsis, &s.CoverURL,
			&s.Likes, &s.Dislikes, &s.Views, &s.CreatedAt); err != nil {
			continue
		}
		seriesList = append(seriesList, s)
	}

	c.JSON(http.StatusOK, seriesList)
}

// GetSeries returns one series by id.
func (h *Handler) GetSeries(c *gin.Context) {
	seriesID := c.Param("id")

	var s models.Series
	query := `SELECT id, title, COALESCE(author, ''), COALESCE(synopsis, ''), COALESCE(cover_url, ''),
	                 likes, dislikes, views, created_at
	          FROM series WHERE id = ?`
	err := database.DB.QueryRow(query, seriesID).Scan(&s.ID, &s.Title, &s.Author, &s.Synopsis,
		&s.CoverURL, &s.Likes, &s.Dislikes, &s.Views, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Series not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, s)
}

// CreateChapter adds a chapter under a series.
func (h *Handler) CreateChapter(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	seriesID := c.Param("id")
	var exists bool
	if err := database.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM series WHERE id = ?)`, seriesID).Scan(&exists); err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Series not found"})
		return
	}

	var req models.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapterID := utils.NewID()
	query := `INSERT INTO chapters (id, series_id, number, title) VALUES (?, ?, ?, ?)`
	if _, err := database.DB.Exec(query, chapterID, seriesID, req.Number, req.Title); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chapter"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": chapterID, "message": "Chapter created successfully"})
}

// ListChapters returns all chapters of a series in reading order.
func (h *Handler) ListChapters(c *gin.Context) {
	seriesID := c.Param("id")

	query := `SELECT id, series_id, number, title, likes, dislikes, views, created_at
	          FROM chapters WHERE series_id = ? ORDER BY number ASC`
	rows, err := database.DB.Query(query, seriesID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	chapters := []models.Chapter{}
	for rows.Next() {
		var ch models.Chapter
		if err := rows.Scan(&ch.ID, &ch.SeriesID, &ch.Number, &ch.Title,
			&ch.Likes, &ch.Dislikes, &ch.Views, &ch.CreatedAt); err != nil {
			continue
		}
		chapters = append(chapters, ch)
	}

	c.JSON(http.StatusOK, chapters)
}

// GetChapter returns one chapter scoped to its series.
func (h *Handler) GetChapter(c *gin.Context) {
	seriesID := c.Param("id")
	chapterID := c.Param("chapter_id")

	var ch models.Chapter
	query := `SELECT id, series_id, number, title, likes, dislikes, views, created_at
	          FROM chapters WHERE id = ? AND series_id = ?`
	err := database.DB.QueryRow(query, chapterID, seriesID).Scan(&ch.ID, &ch.SeriesID, &ch.Number,
		&ch.Title, &ch.Likes, &ch.Dislikes, &ch.Views, &ch.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chapter not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, ch)
}

// GetRankings returns the top series by computed score.
func (h *Handler) GetRankings(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	query := `SELECT r.series_id, s.title, r.score, s.likes, s.dislikes, s.views, r.computed_at
	          FROM rankings r JOIN series s ON s.id = r.series_id
	          ORDER BY r.score DESC LIMIT ?`
	rows, err := database.DB.Query(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	rankings := []models.RankedSeries{}
	for rows.Next() {
		var r models.RankedSeries
		if err := rows.Scan(&r.SeriesID, &r.Title, &r.Score, &r.Likes, &r.Dislikes, &r.Views, &r.ComputedAt); err != nil {
			continue
		}
		rankings = append(rankings, r)
	}

	c.JSON(http.StatusOK, rankings)
}
