package stats_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lectorio/lectorio/pkg/stats"
)

func TestCountersAccumulate(t *testing.T) {
	stats.Reset()

	stats.IncrementVotes()
	stats.IncrementVotes()
	stats.IncrementViews()
	stats.IncrementRankingRuns()

	if got := stats.GetVotes(); got != 2 {
		t.Fatalf("expected 2 votes, got %d", got)
	}
	if got := stats.GetViews(); got != 1 {
		t.Fatalf("expected 1 view, got %d", got)
	}
	if got := stats.GetRankingRuns(); got != 1 {
		t.Fatalf("expected 1 ranking run, got %d", got)
	}

	stats.Reset()
	if got := stats.GetVotes(); got != 0 {
		t.Fatalf("expected 0 after reset, got %d", got)
	}
}

func TestStatsEndpoint(t *testing.T) {
	stats.Reset()
	stats.IncrementVotes()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/stats", stats.NewHandler().Stats)

	req := httptest.NewRequest("GET", "/stats", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != 200 {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"votes_processed_total":1`) {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}
