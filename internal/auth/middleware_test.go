package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "drive-service/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-length-0123456789"

func runRequireJWT(t *testing.T, header string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := NewMiddleware(NewJWTService(testSecret)).RequireJWT()
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)

	return rec, c, called
}

func TestRequireJWTAcceptsValidToken(t *testing.T) {
	owner := uuid.New()
	token, err := NewJWTService(testSecret).Generate(owner, "user@example.com", time.Hour)
	require.NoError(t, err)

	rec, c, called := runRequireJWT(t, "Bearer "+token)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)

	sess, err := GetSession(c)
	require.NoError(t, err)
	assert.Equal(t, owner, sess.OwnerID)
	assert.Equal(t, owner, GetOwnerID(c))
}

func TestRequireJWTRejects(t *testing.T) {
	expired, err := NewJWTService(testSecret).Generate(uuid.New(), "", -time.Minute)
	require.NoError(t, err)

	otherSecret, err := NewJWTService("another-secret-with-enough-length-987").Generate(uuid.New(), "", time.Hour)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not.a.jwt"},
		{name: "expired", header: "Bearer " + expired},
		{name: "wrong secret", header: "Bearer " + otherSecret},
		{name: "subject not uuid", header: "Bearer " + badSubject},
		{name: "no expiry", header: "Bearer " + noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, c, called := runRequireJWT(t, tt.header)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			_, err := GetSession(c)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})
	}
}
