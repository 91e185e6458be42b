package handlers

import (
	"encoding/json"
	"net/http"

	"bayou-blog/internal/forms"
	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// validatePostForm runs field validation plus the group existence check.
// A group reference pointing at a nonexistent group is a field error, not a
// not-found response.
func (s *Server) validatePostForm(r *http.Request, form *forms.PostForm) (forms.FieldErrors, *uuid.UUID) {
	fieldErrors := form.Validate()

	groupID := form.GroupID()
	if form.Group != "" && groupID != nil {
		if _, err := s.Store.GetGroupByID(r.Context(), *groupID); err != nil {
			if utils.IsErrorCode(err, utils.ErrGroupNotFound) {
				if fieldErrors == nil {
					fieldErrors = forms.FieldErrors{}
				}
				fieldErrors["group"] = "The selected group does not exist."
				groupID = nil
			}
		}
	}

	return fieldErrors, groupID
}

// HandleNewPostForm serves the blank post form.
func (s *Server) HandleNewPostForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]any{
			"form":   forms.PostForm{},
			"errors": forms.FieldErrors{},
		})
	}
}

// HandleCreatePost creates a post authored by the acting identity and
// redirects to the author's profile. Invalid input re-presents the form with
// field errors and persists nothing.
func (s *Server) HandleCreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, username, ok := currentUser(r)
		if !ok {
			s.respondAppError(w, utils.NewUnauthorizedError("no identity in request"))
			return
		}

		var form forms.PostForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			http.Error(w, "Invalid request format", http.StatusBadRequest)
			return
		}

		fieldErrors, groupID := s.validatePostForm(r, &form)
		if len(fieldErrors) > 0 {
			s.respondFormErrors(w, form, fieldErrors)
			return
		}

		post := &models.Post{
			ID:       uuid.New(),
			Text:     form.Text,
			AuthorID: userID,
			GroupID:  groupID,
			Image:    form.ImageRef(),
		}
		if err := s.Store.SavePost(r.Context(), post); err != nil {
			s.respondAppError(w, err)
			return
		}

		s.Log.WithFields(logrus.Fields{"postId": post.ID, "author": username}).Info("Post created")
		s.redirect(w, r, profilePath(username))
	}
}

// HandleEditPostForm serves the edit form pre-filled with the post's current
// fields. Non-authors get the same redirect as the edit submission itself.
func (s *Server) HandleEditPostForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, refused := s.loadOwnPost(w, r)
		if post == nil {
			return
		}
		if refused {
			s.redirect(w, r, postDetailPath(post.ID))
			return
		}

		form := forms.PostForm{Text: post.Text}
		if post.GroupID != nil {
			form.Group = post.GroupID.String()
		}
		if post.Image != nil {
			form.Image = *post.Image
		}

		s.respondJSON(w, http.StatusOK, map[string]any{
			"form":   form,
			"errors": forms.FieldErrors{},
			"post":   post,
		})
	}
}

// HandleEditPost updates a post in place. Only the author may edit; anyone
// else is sent to the read-only detail view with no changes applied. The
// creation timestamp is never altered.
func (s *Server) HandleEditPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, refused := s.loadOwnPost(w, r)
		if post == nil {
			return
		}
		if refused {
			s.redirect(w, r, postDetailPath(post.ID))
			return
		}

		var form forms.PostForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			http.Error(w, "Invalid request format", http.StatusBadRequest)
			return
		}

		fieldErrors, groupID := s.validatePostForm(r, &form)
		if len(fieldErrors) > 0 {
			s.respondFormErrors(w, form, fieldErrors)
			return
		}

		if err := s.Store.UpdatePost(r.Context(), post.ID, form.Text, groupID, form.ImageRef()); err != nil {
			s.respondAppError(w, err)
			return
		}

		s.redirect(w, r, postDetailPath(post.ID))
	}
}

// HandleDeletePost removes a post and its comments. Author-only, with the
// same silent refusal policy as editing.
func (s *Server) HandleDeletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, refused := s.loadOwnPost(w, r)
		if post == nil {
			return
		}
		if refused {
			s.redirect(w, r, postDetailPath(post.ID))
			return
		}

		if err := s.Store.DeletePost(r.Context(), post.ID); err != nil {
			s.respondAppError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// loadOwnPost resolves the {id} path value and checks post ownership. It
// returns (nil, false) after writing a response when the post cannot be
// loaded, and (post, true) when the acting identity is not the author — an
// explicit refusal the caller turns into a redirect rather than an error.
func (s *Server) loadOwnPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondAppError(w, utils.NewAppError(utils.ErrNotFound, "post not found", err))
		return nil, false
	}

	post, err := s.Store.GetPost(r.Context(), postID)
	if err != nil {
		s.respondAppError(w, err)
		return nil, false
	}

	userID, _, ok := currentUser(r)
	if !ok {
		s.respondAppError(w, utils.NewUnauthorizedError("no identity in request"))
		return nil, false
	}

	if post.AuthorID != userID {
		refusal := utils.NewForbiddenError("only the author may modify a post")
		s.Log.WithFields(logrus.Fields{
			"postId": post.ID,
			"userId": userID,
			"code":   utils.ErrForbidden,
		}).Warn(refusal.Message)
		return post, true
	}

	return post, false
}
