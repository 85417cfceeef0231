package middleware

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"ecomstore/internal/auth"
	apperrors "ecomstore/internal/errors"
	"ecomstore/internal/model"
)

// TokenCookieName is the cookie carrying the session token.
const TokenCookieName = "token"

const (
	contextKeyUserID = "userID"
	contextKeyRole   = "role"
)

// TokenVerifier checks a session token and returns the identity it carries.
type TokenVerifier interface {
	ValidateToken(token string) (*auth.Session, error)
}

// AuthMiddleware provides middleware for cookie based JWT authentication and authorization.
type AuthMiddleware struct {
	tokens TokenVerifier
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate validates the session cookie and puts the caller's id and role on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(TokenCookieName)
		if err != nil || cookie.Value == "" {
			return apperrors.Detail(apperrors.ErrUnauthenticated, "no token")
		}

		session, err := m.tokens.ValidateToken(cookie.Value)
		switch {
		case errors.Is(err, auth.ErrTokenInvalid):
			return apperrors.Detail(apperrors.ErrUnauthenticated, "invalid token")
		case err != nil:
			return fmt.Errorf("verify session token: %w", err)
		}

		c.Set(contextKeyUserID, session.UserID)
		c.Set(contextKeyRole, session.Role)
		return next(c)
	}
}

// RequireRole checks that the authenticated caller holds role.
// It must be used AFTER Authenticate.
func (m *AuthMiddleware) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Role(c) != role {
				return apperrors.ErrForbidden
			}
			return next(c)
		}
	}
}

// RequireAdmin is RequireRole for the admin role.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireRole(model.RoleAdmin)(next)
}

// UserID returns the authenticated caller's id.
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(contextKeyUserID).(uuid.UUID)
	return id, ok
}

// Role returns the authenticated caller's role, or "" outside an authenticated route.
func Role(c echo.Context) string {
	role, _ := c.Get(contextKeyRole).(string)
	return role
}
