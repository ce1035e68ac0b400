package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"votes_processed_total": GetVotes(),
		"views_recorded_total":  GetViews(),
		"ranking_runs_total":    GetRankingRuns(),
	})
}
