package middleware

import (
	"net/http"
	"strings"

	"kiu_social_server/pkg/errorx"
	"kiu_social_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey is where JWTAuth stores the authenticated user uuid.
const ContextUserIDKey = "user_id"

// JWTAuth validates the Authorization bearer token and stores the user uuid
// in the request context.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "access token required",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "malformed authorization header, expected Bearer token",
			})
			return
		}

		claims, err := jwt.ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "invalid or expired token",
			})
			return
		}

		if claims.Subject != "access_token" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "an access token is required for this endpoint",
			})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated user uuid set by JWTAuth.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
