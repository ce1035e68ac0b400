package metrics

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lectorio/lectorio/internal/ledger"
	"github.com/lectorio/lectorio/pkg/logger"
	"github.com/lectorio/lectorio/pkg/models"
)

// Handler exposes the metrics subsystem over HTTP. Identity comes from the
// auth middleware; internal failure detail is logged, never returned.
type Handler struct {
	votes   *ledger.VoteLedger
	views   *ledger.ViewLedger
	ranking *ledger.RankingAggregator

	log *logger.Logger
}

func NewHandler(votes *ledger.VoteLedger, views *ledger.ViewLedger, ranking *ledger.RankingAggregator) *Handler {
	return &Handler{
		votes:   votes,
		views:   views,
		ranking: ranking,
		log:     logger.WithContext("component", "metrics_handler"),
	}
}

// CastVote handles POST /metrics/vote.
func (h *Handler) CastVote(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TargetKind == ledger.TargetChapter && req.SeriesID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "series_id is required for chapter votes"})
		return
	}

	outcome, err := h.votes.CastVote(c.Request.Context(), userID, req.TargetKind, req.TargetID, req.SeriesID, *req.DesiredValue)
	if err != nil {
		if errors.Is(err, ledger.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("vote_failed", "user_id", userID, "target_kind", req.TargetKind, "target_id", req.TargetID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error while processing vote"})
		return
	}

	c.JSON(http.StatusOK, models.MetricsResponse{Status: outcome.Status(), Message: outcome.Message()})
}

// RegisterView handles POST /metrics/view.
func (h *Handler) RegisterView(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.ViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.views.RegisterView(c.Request.Context(), userID, req.SeriesID, req.ChapterID)
	if err != nil {
		if errors.Is(err, ledger.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("view_failed", "user_id", userID, "series_id", req.SeriesID, "chapter_id", req.ChapterID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error while recording view"})
		return
	}

	c.JSON(http.StatusOK, models.MetricsResponse{Status: outcome.Status(), Message: outcome.Message()})
}

// RecomputeRankings handles GET /metrics/recompute-ranking. The shared
// secret check happens in middleware; no per-user data is touched here.
func (h *Handler) RecomputeRankings(c *gin.Context) {
	updated, err := h.ranking.RecomputeRankings(c.Request.Context())
	if err != nil {
		h.log.Error("ranking_recompute_failed", "series_committed", updated, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error while recomputing rankings"})
		return
	}

	c.JSON(http.StatusOK, models.MetricsResponse{
		Status:  "success",
		Message: fmt.Sprintf("Ranking recomputed for %d series", updated),
	})
}
