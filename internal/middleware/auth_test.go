package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuth("test-secret")
	userID := uuid.New()

	token, err := auth.GenerateToken(userID, "alice")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewAuth("one-secret").GenerateToken(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = NewAuth("other-secret").ValidateToken(token)
	assert.Error(t, err)
}

func TestRequireAuthRedirectsToLogin(t *testing.T) {
	auth := NewAuth("test-secret")
	handler := auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	})

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login/?next=%2Fcreate%2F", rec.Header().Get("Location"))
}

func TestRequireAuthAcceptsBearerToken(t *testing.T) {
	auth := NewAuth("test-secret")
	userID := uuid.New()
	token, err := auth.GenerateToken(userID, "alice")
	require.NoError(t, err)

	var gotID uuid.UUID
	var gotName string
	handler := auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserIDFromContext(r.Context())
		gotName, _ = GetUsernameFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "alice", gotName)
}

func TestRequireAuthAcceptsCookie(t *testing.T) {
	auth := NewAuth("test-secret")
	token, err := auth.GenerateToken(uuid.New(), "alice")
	require.NoError(t, err)

	handler := auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWithIdentityNeverBlocks(t *testing.T) {
	auth := NewAuth("test-secret")

	var hadIdentity bool
	handler := auth.WithIdentity(func(w http.ResponseWriter, r *http.Request) {
		_, hadIdentity = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	// No token: the request still reaches the handler, anonymously.
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, hadIdentity)

	// Garbage token: same outcome.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, hadIdentity)

	// Valid token: identity lands in the context.
	token, err := auth.GenerateToken(uuid.New(), "alice")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, hadIdentity)
}
