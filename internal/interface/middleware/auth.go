package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
	"github.com/mercatohq/mercato/pkg/helpers"
	"github.com/mercatohq/mercato/pkg/response"
)

const userCtxKey = "auth_user"

// CurrentUser returns the authenticated user set by Authenticate, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

// Authenticate parses the bearer token, loads the user and stores it in the
// request context. Any failure is a 401.
func Authenticate(jwt *helpers.JWTManager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.AbortError(c, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := jwt.Parse(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(userCtxKey, u)
		c.Next()
	}
}

// RequireRoles rejects authenticated users whose role is not listed.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			response.AbortError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		for _, role := range roles {
			if u.Role == role {
				c.Next()
				return
			}
		}
		response.AbortError(c, http.StatusForbidden,
			"requires one of roles: "+strings.Join(roles, ", "))
	}
}
