package handlers

import (
	"encoding/json"
	"net/http"

	"bayou-blog/internal/middleware"
	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUserRequest represents a request to register a new user
type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a request to log in a user
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a response to a login request
type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// HandleUserRegistration handles requests to register a new user
func (s *Server) HandleUserRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request format", http.StatusBadRequest)
			return
		}

		if req.Username == "" || req.Email == "" || req.Password == "" {
			http.Error(w, "Username, email and password are required", http.StatusBadRequest)
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.Log.WithError(err).Error("Failed to hash password")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		user := &models.User{
			ID:             uuid.New(),
			Username:       req.Username,
			Email:          req.Email,
			HashedPassword: string(hashed),
		}
		if err := s.Store.SaveUser(r.Context(), user); err != nil {
			s.respondAppError(w, err)
			return
		}

		token, err := s.Auth.GenerateToken(user.ID, user.Username)
		if err != nil {
			s.Log.WithError(err).Error("Failed to generate token")
			http.Error(w, "Failed to generate auth token", http.StatusInternalServerError)
			return
		}

		s.respondJSON(w, http.StatusOK, LoginResponse{
			Success: true,
			Token:   token,
			User:    user,
		})
	}
}

// HandleUserLogin handles requests to log in a user
func (s *Server) HandleUserLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request format", http.StatusBadRequest)
			return
		}

		user, err := s.Store.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			if utils.IsErrorCode(err, utils.ErrUserNotFound) {
				s.respondJSON(w, http.StatusUnauthorized, LoginResponse{Success: false, Error: "invalid credentials"})
				return
			}
			s.respondAppError(w, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
			s.respondJSON(w, http.StatusUnauthorized, LoginResponse{Success: false, Error: "invalid credentials"})
			return
		}

		token, err := s.Auth.GenerateToken(user.ID, user.Username)
		if err != nil {
			s.Log.WithError(err).Error("Failed to generate token")
			http.Error(w, "Failed to generate auth token", http.StatusInternalServerError)
			return
		}

		// Cookie fallback keeps redirect-driven flows authenticated.
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.AuthCookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		s.respondJSON(w, http.StatusOK, LoginResponse{
			Success: true,
			Token:   token,
			User:    user,
		})
	}
}

// HandleLoginPage is the target of authentication redirects. It reports what
// the client should do next; the "next" parameter carries the original path.
func (s *Server) HandleLoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{
			"message": "authentication required",
			"next":    r.URL.Query().Get("next"),
		})
	}
}
