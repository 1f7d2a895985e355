package middleware

import (
	"net/http"
	"strings"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/olekhv/shoplift/internal/dto"
	"github.com/olekhv/shoplift/internal/infrastructure/token"
)

// UserIDKey is the context key the authenticated user id is stored
// under.
const UserIDKey = "user_id"

func AuthMiddleware(tokens *token.Manager) ginext.HandlerFunc {
	return func(c *ginext.Context) {
		const prefix = "Bearer "

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing bearer token",
			})
			return
		}

		userID, err := tokens.Parse(strings.TrimSpace(strings.TrimPrefix(header, prefix)))
		if err != nil {
			zlog.Logger.Warn().Err(err).Msg("rejected bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
			})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
