package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func validClaims(sub string, role string) jwt.MapClaims {
	return jwt.MapClaims{
		"iss":  utils.TokenIssuer,
		"sub":  sub,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, role, ok := UserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Header().Set("X-Sub", sub)
		w.Header().Set("X-Role", string(role))
		w.WriteHeader(http.StatusNoContent)
	})
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	key := newKey(t)
	handler := AuthMiddleware(&key.PublicKey)(echoUser())
	sub := uuid.NewString()

	t.Run("ValidToken", func(t *testing.T) {
		rec := serve(handler, sign(t, key, validClaims(sub, "tenant")))
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, sub, rec.Header().Get("X-Sub"))
		assert.Equal(t, string(models.RoleTenant), rec.Header().Get("X-Role"))
	})

	t.Run("MissingHeader", func(t *testing.T) {
		rec := serve(handler, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), utils.ErrCodeUnauthorized)
	})

	t.Run("Expired", func(t *testing.T) {
		claims := validClaims(sub, "ADMIN")
		claims["exp"] = time.Now().Add(-time.Minute).Unix()
		rec := serve(handler, sign(t, key, claims))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), utils.ErrCodeTokenExpired)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		claims := validClaims(sub, "ADMIN")
		claims["iss"] = "someone-else"
		rec := serve(handler, sign(t, key, claims))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		rec := serve(handler, sign(t, key, validClaims(sub, "landlord")))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ForeignKey", func(t *testing.T) {
		rec := serve(handler, sign(t, newKey(t), validClaims(sub, "ADMIN")))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	key := newKey(t)
	handler := AuthMiddleware(&key.PublicKey)(RequireRoles(models.RoleAdmin)(echoUser()))

	rec := serve(handler, sign(t, key, validClaims(uuid.NewString(), "ADMIN")))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(handler, sign(t, key, validClaims(uuid.NewString(), "TENANT")))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), utils.ErrCodeForbidden)

	// Without the auth middleware there is no user in context.
	rec = serve(RequireRoles(models.RoleAdmin)(echoUser()), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(utils.CtxKeyRequestID).(string)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
}
