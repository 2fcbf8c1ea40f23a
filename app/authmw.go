package app

import (
	"errors"
	"net/http"
	"strings"

	"Gin_postgres_redis_task_api/models"
	"Gin_postgres_redis_task_api/services"

	"github.com/gin-gonic/gin"
)

const (
	userKey   = "user"
	userIDKey = "userID"
	tokenKey  = "token"
)

// BearerToken 取 Authorization: Bearer <token>
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthRequired 解析 bearer token，把调用者放进 Context
func AuthRequired(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			Abort(c, http.StatusUnauthorized, "Unauthenticated.", nil)
			return
		}
		u, err := auth.Resolve(c.Request.Context(), token)
		if errors.Is(err, services.ErrUnauthenticated) {
			Abort(c, http.StatusUnauthorized, "Unauthenticated.", nil)
			return
		}
		if err != nil {
			_ = c.Error(err)
			Abort(c, http.StatusInternalServerError, "Server Error.", nil)
			return
		}

		c.Set(userKey, u)
		c.Set(userIDKey, u.ID)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// AdminOnly 必须挂在 AuthRequired 之后
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			Abort(c, http.StatusUnauthorized, "Unauthenticated.", nil)
			return
		}
		if !services.IsAdmin(u) {
			Abort(c, http.StatusBadRequest, "This action is unauthorized.", nil)
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}
