package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lectorio/lectorio/internal/auth"
	"github.com/lectorio/lectorio/internal/ledger"
	"github.com/lectorio/lectorio/internal/metrics"
	"github.com/lectorio/lectorio/pkg/database"
	"github.com/lectorio/lectorio/pkg/logger"
	"github.com/lectorio/lectorio/pkg/utils"
)

const (
	testJWTSecret  = "test-jwt-secret"
	testCronSecret = "test-cron-secret"
)

func setupMetricsTest(t *testing.T) (*gin.Engine, func()) {
	t.Helper()

	logger.Init(logger.INFO, false, nil)

	dbPath := t.TempDir() + "/test.db"
	if err := database.InitDatabase(dbPath); err != nil {
		t.Fatalf("init db: %v", err)
	}

	handler := metrics.NewHandler(
		ledger.NewVoteLedger(),
		ledger.NewViewLedger(),
		ledger.NewRankingAggregator(0.01, 0),
	)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	userScoped := router.Group("/metrics")
	userScoped.Use(auth.AuthMiddleware(testJWTSecret))
	{
		userScoped.POST("/vote", handler.CastVote)
		userScoped.POST("/view", handler.RegisterView)
	}

	cron := router.Group("/metrics")
	cron.Use(auth.SharedSecretMiddleware(testCronSecret))
	{
		cron.GET("/recompute-ranking", handler.RecomputeRankings)
	}

	return router, func() { database.Close() }
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.GenerateJWT(userID, "user-"+userID, testJWTSecret)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func seedSeries(t *testing.T, id string) {
	t.Helper()
	if _, err := database.DB.Exec(`INSERT INTO series (id, title) VALUES (?, ?)`, id, "Series "+id); err != nil {
		t.Fatalf("seed series: %v", err)
	}
}

func seedChapter(t *testing.T, id, seriesID string) {
	t.Helper()
	if _, err := database.DB.Exec(`INSERT INTO chapters (id, series_id, number, title) VALUES (?, ?, 1, ?)`, id, seriesID, "Chapter "+id); err != nil {
		t.Fatalf("seed chapter: %v", err)
	}
}

func rowCount(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := database.DB.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func doJSON(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestVote_UnauthenticatedWritesNothing(t *testing.T) {
	router, cleanup := setupMetricsTest(t)
	defer cleanup()

	seedSeries(t, "s1")

	resp := doJSON(router, "POST", "/metrics/vote", "",
		`{"target_kind":"series","target_id":"s1","desired_value":1}`)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.Code, resp.Body.String())
	}
	if n := rowCount(t, "votes"); n != 0 {
		t.Fatalf("expected zero vote writes, got %d", n)
	}
}

func TestVote_InvalidDesiredValue(t *testing.T) {
	router, cleanup := setupMetricsTest(t)
	defer cleanup()

	resp := doJSON(router, "POST", "/metrics/vote", bearerToken(t, "user-x"),
		`{"target_kind":"series","target_id":"s1","desired_value":2}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
	if n := rowCount(t, "votes"); n != 0 {
		t.Fatalf("expected zero vote writes, got %d", n)
	}
}

func TestVote_ChapterRequiresSeriesID(t *testing.T) {
	router, cleanup := setupMetricsTest(t)
	defer cleanup()

	resp := doJSON(router, "POST", "/metrics/vote", bearerToken(t, "user-x"),
		`{"target_kind":"chapter","target_id":"c1","desired_value":1}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestVote_SuccessAndRepeatIsInfo(t *testing.T) {
	router, cleanup := setupMetricsTest(t)
	defer cleanup()

	seedSeries(t, "s1")
	token := bearerToken(t, "user-x")

	resp := doJSON(router, "POST", "/metrics/vote", token,
		`{"target_kind":"series","target_id":"s1","desired_value":1}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"status":"success"`) {
		t.Fatalf("expected success status: %s", resp.Body.String())
	}

	resp = doJSON(router, "POST", "/metrics/vote", token,
		`{"target_kind":"series","target_id":"s1","desired_value":1}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"status":"info"`) {
		t.Fatalf("expected info status on unchanged vote: %s", resp.Body.String())
	}

	var likes int
	if err := database.DB.QueryRow(`SELECT likes FROM series WHERE id = 's1'`).Scan(&likes); err != nil {
		t.Fatalf("query likes: %v", err)
	}
	if likes != 1 {
		t.Fatalf("expected likes=1 after idempotent repeat, got %d", likes)
	}
}

func TestView_UnauthenticatedWritesNothing(t *testing.T) {
	router, cleanup := setupMetricsTest(t)
	defer cleanup()

	resp := doJSON(router, "POST", "/metrics/view", "",
		`{"series_id":"s1","chapter_id":"c1"}`)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if n := rowCount(t, "views"); n != 0 {
		t.Fatalf("expected zero view writes, got %d", n)
	}
}

func TestView_MissingChapterID(t *testing.T) {
	router, cleanup := setupMetricsTest(t)
	defer cleanup()

	resp := doJSON(router, "POST", "/metrics/view", bearerToken(t, "user-x"),
		`{"series_id":"s1"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestView_SuccessAndRepeatIsInfo(t *testing.T) {
	router, cleanup := setupMetricsTest(t)
	defer cleanup()

	seedSeries(t, "s1")
	seedChapter(t, "c1", "s1")
	token := bearerToken(t, "user-x")

	resp := doJSON(router, "POST", "/metrics/view", token,
		`{"series_id":"s1","chapter_id":"c1"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"status":"success"`) {
		t.Fatalf("expected success status: %s", resp.Body.String())
	}

	resp = doJSON(router, "POST", "/metrics/view", token,
		`{"series_id":"s1","chapter_id":"c1"}`)
	if !strings.Contains(resp.Body.String(), `"status":"info"`) {
		t.Fatalf("expected info status on repeat view: %s", resp.Body.String())
	}

	if n := rowCount(t, "views"); n != 1 {
		t.Fatalf("expected one view record, got %d", n)
	}
}

func TestRecomputeRanking_RequiresSharedSecret(t *testing.T) {
	router, cleanup := setupMetricsTest(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/metrics/recompute-ranking", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without secret, got %d", resp.Code)
	}

	req = httptest.NewRequest("GET", "/metrics/recompute-ranking", nil)
	req.Header.Set("Authorization", "Bearer wrong-secret")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong secret, got %d", resp.Code)
	}
}

func TestRecomputeRanking_Success(t *testing.T) {
	router, cleanup := setupMetricsTest(t)
	defer cleanup()

	seedSeries(t, "s1")
	seedSeries(t, "s2")

	req := httptest.NewRequest("GET", "/metrics/recompute-ranking", nil)
	req.Header.Set("Authorization", "Bearer "+testCronSecret)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "2 series") {
		t.Fatalf("expected 2 series in message: %s", resp.Body.String())
	}
	if n := rowCount(t, "rankings"); n != 2 {
		t.Fatalf("expected 2 ranking rows, got %d", n)
	}
}
