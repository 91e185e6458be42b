package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/google/uuid"
)

// HandleIndex serves the main paginated feed. The rendered page body is
// cached for a fixed TTL; a post deleted meanwhile stays visible until the
// entry expires or the cache is cleared.
func (s *Server) HandleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := parsePage(r)
		key := fmt.Sprintf("feed:p%d", page)

		if body, ok := s.Cache.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write(body)
			return
		}

		posts, total, err := s.Store.ListRecentPosts(r.Context(), s.PageSize, (page-1)*s.PageSize)
		if err != nil {
			s.respondAppError(w, err)
			return
		}

		body, err := json.Marshal(models.NewPostPage(posts, page, s.PageSize, total))
		if err != nil {
			s.Log.WithError(err).Error("Failed to marshal feed page")
			s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}

		s.Cache.Set(r.Context(), key, body, s.CacheTTL)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "MISS")
		w.Write(body)
	}
}

// HandleGroupFeed serves the paginated feed of one group. An unknown slug is
// a not-found error, not an empty page.
func (s *Server) HandleGroupFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := r.PathValue("slug")

		group, err := s.Store.GetGroupBySlug(r.Context(), slug)
		if err != nil {
			s.respondAppError(w, err)
			return
		}

		page := parsePage(r)
		posts, total, err := s.Store.ListGroupPosts(r.Context(), group.ID, s.PageSize, (page-1)*s.PageSize)
		if err != nil {
			s.respondAppError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, struct {
			Group *models.Group `json:"group"`
			*models.PostPage
		}{
			Group:    group,
			PostPage: models.NewPostPage(posts, page, s.PageSize, total),
		})
	}
}

// HandleProfile serves an author's paginated feed. For an authenticated
// requester the response also says whether they follow the author.
func (s *Server) HandleProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.PathValue("username")

		author, err := s.Store.GetUserByUsername(r.Context(), username)
		if err != nil {
			s.respondAppError(w, err)
			return
		}

		following := false
		if userID, _, ok := currentUser(r); ok {
			following, err = s.Store.IsFollowing(r.Context(), userID, author.ID)
			if err != nil {
				s.respondAppError(w, err)
				return
			}
		}

		page := parsePage(r)
		posts, total, err := s.Store.ListAuthorPosts(r.Context(), author.ID, s.PageSize, (page-1)*s.PageSize)
		if err != nil {
			s.respondAppError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, struct {
			Author    *models.User `json:"author"`
			Following bool         `json:"following"`
			*models.PostPage
		}{
			Author:    author,
			Following: following,
			PostPage:  models.NewPostPage(posts, page, s.PageSize, total),
		})
	}
}

// HandlePostDetail serves a single post together with its comments.
func (s *Server) HandlePostDetail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			s.respondAppError(w, utils.NewAppError(utils.ErrNotFound, "post not found", err))
			return
		}

		post, err := s.Store.GetPost(r.Context(), postID)
		if err != nil {
			s.respondAppError(w, err)
			return
		}

		comments, err := s.Store.GetPostComments(r.Context(), postID)
		if err != nil {
			s.respondAppError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, struct {
			Post     *models.Post      `json:"post"`
			Comments []*models.Comment `json:"comments"`
		}{
			Post:     post,
			Comments: comments,
		})
	}
}

// HandleFollowFeed serves the personalized feed of posts by authors the
// requesting user follows.
func (s *Server) HandleFollowFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := currentUser(r)
		if !ok {
			s.respondAppError(w, utils.NewUnauthorizedError("no identity in request"))
			return
		}

		page := parsePage(r)
		posts, total, err := s.Store.ListFollowedPosts(r.Context(), userID, s.PageSize, (page-1)*s.PageSize)
		if err != nil {
			s.respondAppError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, models.NewPostPage(posts, page, s.PageSize, total))
	}
}
