package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/lokamart/e-commerce-api/internal/platform/web"
	"github.com/lokamart/e-commerce-api/internal/user/domain"
	"github.com/lokamart/e-commerce-api/internal/user/repository"
)

const (
	ContextUserKey   = "user"
	ContextUserIDKey = "userID"
)

// AuthRequired memverifikasi bearer token dan menaruh user di context request.
func AuthRequired(users repository.UserRepository, accessSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if authHeader == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			web.Fail(c, http.StatusUnauthorized, "Missing authentication token")
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(accessSecret), nil
		})
		if err != nil || !token.Valid {
			web.Fail(c, http.StatusForbidden, "Token is invalid or expired")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			web.Fail(c, http.StatusForbidden, "Token is invalid or expired")
			c.Abort()
			return
		}
		userID, _ := claims["user_id"].(string)
		if userID == "" {
			web.Fail(c, http.StatusForbidden, "Token is invalid or expired")
			c.Abort()
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			web.Fail(c, http.StatusNotFound, "User does not exist")
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// AdminOnly harus dipasang setelah AuthRequired.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserKey)
		if !exists {
			web.Fail(c, http.StatusUnauthorized, "Please sign in first")
			c.Abort()
			return
		}
		user, ok := value.(*domain.User)
		if !ok || user.Role != domain.RoleAdmin {
			web.Fail(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID mengambil id user yang sudah di-set oleh AuthRequired.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
