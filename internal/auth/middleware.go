package auth

import (
	"net/http"
	"strings"

	"drive-service/internal/session"
	apperrors "drive-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Middleware struct {
	jwtService *JWTService
}

func NewMiddleware(jwtService *JWTService) *Middleware {
	return &Middleware{
		jwtService: jwtService,
	}
}

// RequireJWT verifies the bearer token and stores the caller's session in the context.
func (m *Middleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c)
			if token == "" {
				return respondError(c, http.StatusUnauthorized, msgMissingAuthorization)
			}

			claims, err := m.jwtService.Verify(token)
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredToken)
			}

			ownerID, err := claims.OwnerID()
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredToken)
			}

			sess, err := session.New(ownerID)
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredToken)
			}

			c.Set(ContextKeySession, sess)
			c.Set(ContextKeyOwnerID, ownerID)

			return next(c)
		}
	}
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

// GetSession returns the session stored by RequireJWT.
func GetSession(c echo.Context) (session.Session, error) {
	value := c.Get(ContextKeySession)
	if value == nil {
		return session.Session{}, apperrors.Unauthorized(msgUserNotAuthenticated)
	}

	sess, ok := value.(session.Session)
	if !ok {
		return session.Session{}, apperrors.InternalServer(msgInvalidSessionCtx, nil)
	}

	return sess, nil
}

// GetOwnerID returns the authenticated owner id, or uuid.Nil when there is none.
func GetOwnerID(c echo.Context) uuid.UUID {
	if id, ok := c.Get(ContextKeyOwnerID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}
