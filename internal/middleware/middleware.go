package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/bitfantasy/ordertrack/internal/order/policy"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 上下文键
const (
	ContextRequestID = "request_id"
	ContextUserID    = "user_id"
	ContextUsername  = "username"
	ContextRoleTag   = "role_tag"
	ContextRoles     = "roles"
)

// Logger 日志中间件
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", latency),
			zap.String("request_id", c.GetString(ContextRequestID)),
		}
		if username := c.GetString(ContextUsername); username != "" {
			fields = append(fields, zap.String("username", username))
		}
		if role := c.GetString(ContextRoleTag); role != "" {
			fields = append(fields, zap.String("role", role))
		}

		if status >= 500 {
			logger.Error("Server error", fields...)
		} else if status >= 400 {
			logger.Warn("Client error", fields...)
		} else {
			logger.Info("Request", fields...)
		}
	}
}

// CORS 跨域中间件
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID, X-Role, X-User")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestID 请求ID中间件
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextRequestID, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// JWTClaims JWT claims
type JWTClaims struct {
	UserID string   `json:"uid"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// JWTAuth JWT认证中间件，roles 中第一个可识别的角色作为角色标签
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// 回退到 query param（SSE 等场景使用）
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40100,
				"message": "Authorization is required",
			})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40102,
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40103,
				"message": "Invalid token claims",
			})
			c.Abort()
			return
		}

		username := claims.Name
		if username == "" {
			username = claims.UserID
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, username)
		c.Set(ContextRoles, claims.Roles)
		if tag := roleTag(claims.Roles); tag != "" {
			c.Set(ContextRoleTag, tag)
		}
		c.Next()
	}
}

// roleTag 都无法识别时取第一个，由 policy 回退
func roleTag(roles []string) string {
	for _, r := range roles {
		if policy.IsKnown(r) {
			return r
		}
	}
	if len(roles) > 0 {
		return roles[0]
	}
	return ""
}

// RoleHeader 未配置 JWT 时从 X-Role / X-User 读取调用方身份
// 缺省不拦截，角色解析由 policy 回退到最低权限
func RoleHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role := strings.TrimSpace(c.GetHeader("X-Role")); role != "" {
			c.Set(ContextRoleTag, role)
			c.Set(ContextRoles, []string{role})
		}
		if user := strings.TrimSpace(c.GetHeader("X-User")); user != "" {
			c.Set(ContextUsername, user)
		}
		c.Next()
	}
}

// GetRoleTag 原始角色标签，可能为空
func GetRoleTag(c *gin.Context) string {
	return c.GetString(ContextRoleTag)
}

// GetUsername 未识别身份时返回 "anonymous"
func GetUsername(c *gin.Context) string {
	if name := c.GetString(ContextUsername); name != "" {
		return name
	}
	return "anonymous"
}
