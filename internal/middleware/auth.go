package middleware

import (
	"net/http"
	"strings"

	"github.com/JohnShema/BE-Capstone-project/internal/dto"
	"github.com/JohnShema/BE-Capstone-project/pkg/token"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the context key RequireAuth stores the caller's id under.
const UserIDKey = "auth.user_id"

const bearerPrefix = "Bearer "

// RequireAuth rejects requests that lack a valid Bearer access token and
// stores the caller's user id on the context for handlers.
func RequireAuth(tokens *token.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return unauthorized("missing bearer token")
			}
			userID, err := tokens.VerifyAccess(strings.TrimSpace(header[len(bearerPrefix):]))
			if err != nil {
				return unauthorized("invalid or expired token")
			}
			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated caller id stored by RequireAuth, or zero
// when the request never passed through it.
func UserID(c echo.Context) uint {
	id, _ := c.Get(UserIDKey).(uint)
	return id
}

func unauthorized(message string) error {
	return echo.NewHTTPError(http.StatusUnauthorized, dto.ErrorResponse{Code: "unauthorized", Message: message})
}
