package router

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"spending/config"
	"spending/database"
	"spending/middleware"
	"spending/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T, secret string) (*gin.Engine, *bool) {
	t.Helper()
	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode},
		Database:  config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "router.db"), LogLevel: "silent"},
		Admin:     config.AdminConfig{TokenSecret: secret},
		RateLimit: config.RateLimitConfig{BulkMax: 2, BulkWindow: time.Minute},
	}
	db, err := database.Open(&cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	middleware.InitJWT(cfg)
	t.Cleanup(func() { middleware.InitJWT(&config.Config{}) })

	exited := false
	return SetupRouter(cfg, service.New(db, cfg, nil), func() { exited = true }), &exited
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupRouter_HealthAndCORS(t *testing.T) {
	r, _ := setupTestRouter(t, "")

	w := serve(r, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(r, "OPTIONS", "/api/expenses", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetupRouter_Routes(t *testing.T) {
	r, _ := setupTestRouter(t, "")

	for _, path := range []string{
		"/api/expense-types",
		"/api/expense-names",
		"/api/payment-methods",
		"/api/credit-cards",
		"/api/expenses",
		"/api/credit-card-payments",
		"/api/reports/2024",
		"/api/reports/2024/3",
		"/api/database/backup",
	} {
		assert.Equal(t, http.StatusOK, serve(r, "GET", path, "").Code, path)
	}
	assert.Equal(t, http.StatusOK, serve(r, "GET", "/api/reports/2024/3/export", "").Code)
}

func TestSetupRouter_AdminGuard(t *testing.T) {
	r, exited := setupTestRouter(t, "router-test-secret")

	assert.Equal(t, http.StatusUnauthorized, serve(r, "DELETE", "/api/database/clear", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "POST", "/api/exit", "bad-token").Code)
	assert.False(t, *exited)

	token, err := middleware.GenerateToken("test", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, serve(r, "POST", "/api/exit", token).Code)
	assert.True(t, *exited)
}

func TestSetupRouter_BulkRateLimit(t *testing.T) {
	r, _ := setupTestRouter(t, "")

	assert.Equal(t, http.StatusOK, serve(r, "DELETE", "/api/database/clear", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "DELETE", "/api/database/clear", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "DELETE", "/api/database/clear", "").Code)
}
