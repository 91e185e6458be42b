// internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthCookieName is the cookie used as a fallback when no Authorization
// header is present, so redirect-driven browser flows stay logged in.
const AuthCookieName = "auth_token"

// LoginPath is where unauthenticated requests to protected routes are sent.
// The original request path is carried in the "next" query parameter.
const LoginPath = "/auth/login/"

// Claims represents the JWT claims for our application
type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}

// Auth issues and validates tokens and guards protected routes.
type Auth struct {
	secret     []byte
	expiration time.Duration
}

// NewAuth creates an Auth with the given signing secret. Tokens are valid
// for 24 hours.
func NewAuth(secret string) *Auth {
	return &Auth{
		secret:     []byte(secret),
		expiration: 24 * time.Hour,
	}
}

// GenerateToken creates a new JWT token for the given user
func (a *Auth) GenerateToken(userID uuid.UUID, username string) (string, error) {
	expirationTime := time.Now().Add(a.expiration)

	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "bayou-blog-api",
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates the provided JWT token
func (a *Auth) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.secret, nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// extractToken pulls a token from the Authorization header or the auth cookie.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := r.Cookie(AuthCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireAuth wraps a handler so that requests without a valid identity are
// redirected to the login page with the original path in "next".
func (a *Auth) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString == "" {
			redirectToLogin(w, r)
			return
		}

		claims, err := a.ValidateToken(tokenString)
		if err != nil {
			redirectToLogin(w, r)
			return
		}

		ctx := SetUserInContext(r.Context(), claims.UserID, claims.Username)
		next(w, r.WithContext(ctx))
	}
}

// WithIdentity resolves the current user when a valid token is present but
// never blocks the request; public pages use it to personalize output.
func (a *Auth) WithIdentity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tokenString := extractToken(r); tokenString != "" {
			if claims, err := a.ValidateToken(tokenString); err == nil {
				r = r.WithContext(SetUserInContext(r.Context(), claims.UserID, claims.Username))
			}
		}
		next(w, r)
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginPath + "?next=" + url.QueryEscape(r.URL.Path)
	http.Redirect(w, r, target, http.StatusFound)
}

// Define a custom context key type to avoid collisions
type contextKey string

const (
	// UserIDKey is the key used to store the user ID in the context
	UserIDKey contextKey = "user_id"
	// UsernameKey is the key used to store the username in the context
	UsernameKey contextKey = "username"
)

// SetUserInContext saves the acting identity in the request context
func SetUserInContext(ctx context.Context, userID uuid.UUID, username string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UsernameKey, username)
}

// GetUserIDFromContext retrieves the user ID from the context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUsernameFromContext retrieves the username from the context
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}
