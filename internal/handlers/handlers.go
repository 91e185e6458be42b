package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"bayou-blog/internal/cache"
	"bayou-blog/internal/database"
	"bayou-blog/internal/forms"
	"bayou-blog/internal/middleware"
	"bayou-blog/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Server holds all HTTP handler dependencies
type Server struct {
	Store    database.Store
	Cache    cache.PageCache
	Auth     *middleware.Auth
	Log      *logrus.Logger
	PageSize int
	CacheTTL time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	store database.Store,
	pageCache cache.PageCache,
	auth *middleware.Auth,
	log *logrus.Logger,
	pageSize int,
	cacheTTL time.Duration,
) *Server {
	return &Server{
		Store:    store,
		Cache:    pageCache,
		Auth:     auth,
		Log:      log,
		PageSize: pageSize,
		CacheTTL: cacheTTL,
	}
}

// Routes builds the request multiplexer for the whole application.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Public feeds and detail pages
	mux.HandleFunc("GET /{$}", s.Auth.WithIdentity(s.HandleIndex()))
	mux.HandleFunc("GET /group/{slug}/{$}", s.HandleGroupFeed())
	mux.HandleFunc("GET /groups/{$}", s.HandleListGroups())
	mux.HandleFunc("GET /profile/{username}/{$}", s.Auth.WithIdentity(s.HandleProfile()))
	mux.HandleFunc("GET /posts/{id}/{$}", s.HandlePostDetail())

	// Authenticated mutations
	mux.HandleFunc("POST /groups/{$}", s.Auth.RequireAuth(s.HandleCreateGroup()))
	mux.HandleFunc("GET /create/{$}", s.Auth.RequireAuth(s.HandleNewPostForm()))
	mux.HandleFunc("POST /create/{$}", s.Auth.RequireAuth(s.HandleCreatePost()))
	mux.HandleFunc("GET /posts/{id}/edit/{$}", s.Auth.RequireAuth(s.HandleEditPostForm()))
	mux.HandleFunc("POST /posts/{id}/edit/{$}", s.Auth.RequireAuth(s.HandleEditPost()))
	mux.HandleFunc("DELETE /posts/{id}/{$}", s.Auth.RequireAuth(s.HandleDeletePost()))
	mux.HandleFunc("POST /posts/{id}/comment/{$}", s.Auth.RequireAuth(s.HandleAddComment()))
	mux.HandleFunc("GET /follow/{$}", s.Auth.RequireAuth(s.HandleFollowFeed()))
	mux.HandleFunc("GET /profile/{username}/follow/{$}", s.Auth.RequireAuth(s.HandleFollow()))
	mux.HandleFunc("GET /profile/{username}/unfollow/{$}", s.Auth.RequireAuth(s.HandleUnfollow()))

	// Auth surface
	mux.HandleFunc("POST /auth/register", s.HandleUserRegistration())
	mux.HandleFunc("POST /auth/login", s.HandleUserLogin())
	mux.HandleFunc("GET /auth/login/{$}", s.HandleLoginPage())

	// Everything else is a not-found page
	mux.HandleFunc("/", s.HandleNotFound())

	return mux
}

// HandleNotFound serves the catch-all not-found page.
func (s *Server) HandleNotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusNotFound, map[string]string{"error": "page not found"})
	}
}

// respondJSON writes v as a JSON response with the given status code.
func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.WithError(err).Error("Failed to encode response")
	}
}

// respondAppError maps an application error to its HTTP status and writes it.
func (s *Server) respondAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*utils.AppError); ok {
		status := utils.AppErrorToHTTPStatus(appErr.Code)
		if status >= http.StatusInternalServerError {
			s.Log.WithError(appErr.Origin).WithField("code", appErr.Code).Error(appErr.Message)
		}
		s.respondJSON(w, status, map[string]string{"error": appErr.Message, "code": appErr.Code})
		return
	}
	s.Log.WithError(err).Error("Unhandled error")
	s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// respondFormErrors re-presents the submitted form alongside field-level
// error messages. Nothing has been persisted at this point.
func (s *Server) respondFormErrors(w http.ResponseWriter, form any, fieldErrors forms.FieldErrors) {
	s.respondJSON(w, http.StatusBadRequest, map[string]any{
		"form":   form,
		"errors": fieldErrors,
	})
}

// redirect sends the client to target after a processed request.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// currentUser returns the acting identity placed in the context by the auth
// middleware.
func currentUser(r *http.Request) (uuid.UUID, string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, "", false
	}
	username, _ := middleware.GetUsernameFromContext(r.Context())
	return userID, username, true
}

// parsePage reads the ?page query parameter, defaulting to the first page.
func parsePage(r *http.Request) int {
	pageStr := r.URL.Query().Get("page")
	if pageStr == "" {
		return 1
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func profilePath(username string) string {
	return "/profile/" + username + "/"
}

func postDetailPath(id uuid.UUID) string {
	return "/posts/" + id.String() + "/"
}
