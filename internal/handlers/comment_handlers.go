package handlers

import (
	"encoding/json"
	"net/http"

	"bayou-blog/internal/forms"
	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/google/uuid"
)

// HandleAddComment creates a comment on an existing post and redirects to
// the post's detail view. Invalid input is reported with field errors and
// creates nothing.
func (s *Server) HandleAddComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := currentUser(r)
		if !ok {
			s.respondAppError(w, utils.NewUnauthorizedError("no identity in request"))
			return
		}

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

		var form forms.CommentForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			http.Error(w, "Invalid request format", http.StatusBadRequest)
			return
		}

		if fieldErrors := form.Validate(); len(fieldErrors) > 0 {
			s.respondFormErrors(w, form, fieldErrors)
			return
		}

		comment := &models.Comment{
			ID:       uuid.New(),
			PostID:   post.ID,
			AuthorID: userID,
			Text:     form.Text,
		}
		if err := s.Store.SaveComment(r.Context(), comment); err != nil {
			s.respondAppError(w, err)
			return
		}

		s.redirect(w, r, postDetailPath(post.ID))
	}
}
