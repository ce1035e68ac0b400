package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lectorio/lectorio/internal/auth"
	"github.com/lectorio/lectorio/pkg/database"
	"github.com/lectorio/lectorio/pkg/logger"
)

const testJWTSecret = "test-jwt-secret"

func setupAuthTest(t *testing.T) (*gin.Engine, func()) {
	t.Helper()

	logger.Init(logger.INFO, false, nil)

	dbPath := t.TempDir() + "/test.db"
	if err := database.InitDatabase(dbPath); err != nil {
		t.Fatalf("init db: %v", err)
	}

	handler := auth.NewHandler(testJWTSecret)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/register", handler.Register)
	router.POST("/auth/login", handler.Login)

	protected := router.Group("")
	protected.Use(auth.AuthMiddleware(testJWTSecret))
	protected.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})

	return router, func() { database.Close() }
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

func TestRegisterAndLogin(t *testing.T) {
	router, cleanup := setupAuthTest(t)
	defer cleanup()

	resp := doJSON(router, "POST", "/auth/register", "",
		`{"username":"reader1","email":"reader1@example.com","password":"Sup3rSecret"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"token"`) {
		t.Fatalf("expected token in response: %s", resp.Body.String())
	}

	resp = doJSON(router, "POST", "/auth/login", "",
		`{"username":"reader1","password":"Sup3rSecret"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	router, cleanup := setupAuthTest(t)
	defer cleanup()

	doJSON(router, "POST", "/auth/register", "",
		`{"username":"reader1","email":"reader1@example.com","password":"Sup3rSecret"}`)

	resp := doJSON(router, "POST", "/auth/login", "",
		`{"username":"reader1","password":"WrongPass1"}`)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	router, cleanup := setupAuthTest(t)
	defer cleanup()

	resp := doJSON(router, "POST", "/auth/register", "",
		`{"username":"reader1","email":"reader1@example.com","password":"weakpwd"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	router, cleanup := setupAuthTest(t)
	defer cleanup()

	doJSON(router, "POST", "/auth/register", "",
		`{"username":"reader1","email":"reader1@example.com","password":"Sup3rSecret"}`)
	resp := doJSON(router, "POST", "/auth/register", "",
		`{"username":"reader1","email":"other@example.com","password":"Sup3rSecret"}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAuthMiddleware_VerifiedIdentityInContext(t *testing.T) {
	router, cleanup := setupAuthTest(t)
	defer cleanup()

	resp := doJSON(router, "POST", "/auth/register", "",
		`{"username":"reader1","email":"reader1@example.com","password":"Sup3rSecret"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("register failed: %d", resp.Code)
	}

	var tokenStart = strings.Index(resp.Body.String(), `"token":"`)
	if tokenStart < 0 {
		t.Fatalf("no token in response")
	}
	rest := resp.Body.String()[tokenStart+len(`"token":"`):]
	token := rest[:strings.Index(rest, `"`)]

	whoami := doJSON(router, "GET", "/whoami", "Bearer "+token, "")
	if whoami.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", whoami.Code, whoami.Body.String())
	}

	noToken := doJSON(router, "GET", "/whoami", "", "")
	if noToken.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", noToken.Code)
	}

	badToken := doJSON(router, "GET", "/whoami", "Bearer not-a-jwt", "")
	if badToken.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with invalid token, got %d", badToken.Code)
	}
}
