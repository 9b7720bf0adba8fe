package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spending/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initJWTTestConfig(secret string) {
	InitJWT(&config.Config{Admin: config.AdminConfig{TokenSecret: secret}})
}

func TestGenerateAndParseToken(t *testing.T) {
	initJWTTestConfig("test-jwt-secret-key")
	defer initJWTTestConfig("")

	token, err := GenerateToken("cli", time.Hour)
	require.NoError(t, err)
	assert.Greater(t, len(token), 20)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cli", claims.Subject)
	assert.Equal(t, "admin", claims.Scope)

	// 空字符串
	_, err = ParseToken("")
	assert.Error(t, err)

	// 无效格式
	_, err = ParseToken("not.a.valid.jwt")
	assert.Error(t, err)

	// 已过期
	expired, err := GenerateToken("cli", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired)
	assert.Error(t, err)

	// 换密钥后旧令牌失效
	initJWTTestConfig("another-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestGenerateToken_WithoutSecret(t *testing.T) {
	initJWTTestConfig("")
	_, err := GenerateToken("cli", time.Hour)
	assert.Error(t, err)
}

func TestAdminGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AdminGuard())
	router.DELETE("/api/database/clear", func(c *gin.Context) {
		c.String(200, "cleared")
	})

	do := func(auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("DELETE", "/api/database/clear", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// 未配置密钥时放行
	initJWTTestConfig("")
	assert.Equal(t, http.StatusOK, do("").Code)

	initJWTTestConfig("test-jwt-secret-key")
	defer initJWTTestConfig("")

	assert.Equal(t, http.StatusUnauthorized, do("").Code)
	assert.Equal(t, http.StatusUnauthorized, do("Bearer garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do("Basic abc").Code)

	token, err := GenerateToken("cli", time.Hour)
	require.NoError(t, err)
	w := do("Bearer " + token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cleared", w.Body.String())
}
