package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"spending/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const adminScope = "admin"

// AdminClaims 管理令牌声明
type AdminClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

var jwtSecret []byte

// InitJWT 初始化签名密钥，密钥为空时不启用管理令牌校验
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.Admin.TokenSecret)
}

// AdminAuthEnabled 是否启用了管理令牌
func AdminAuthEnabled() bool {
	return len(jwtSecret) > 0
}

// GenerateToken 签发管理令牌
func GenerateToken(subject string, ttl time.Duration) (string, error) {
	if !AdminAuthEnabled() {
		return "", errors.New("admin.token_secret is not configured")
	}
	now := time.Now()
	claims := AdminClaims{
		Scope: adminScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "spending",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// ParseToken 解析并校验管理令牌
func ParseToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Scope != adminScope {
		return nil, errors.New("token is not an admin token")
	}
	return claims, nil
}

// AdminGuard 保护清库、导入、退出等接口；未配置密钥时放行
func AdminGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !AdminAuthEnabled() {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "Admin token required",
			})
			return
		}

		claims, err := ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "Invalid or expired admin token",
			})
			return
		}

		c.Set("admin_subject", claims.Subject)
		c.Next()
	}
}
