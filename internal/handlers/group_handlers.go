package handlers

import (
	"encoding/json"
	"net/http"

	"bayou-blog/internal/forms"
	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// HandleListGroups lists all groups.
func (s *Server) HandleListGroups() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := s.Store.GetAllGroups(r.Context())
		if err != nil {
			s.respondAppError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, groups)
	}
}

// HandleCreateGroup creates a new group. The slug is taken from the form
// when given, otherwise derived from the title.
func (s *Server) HandleCreateGroup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := currentUser(r)
		if !ok {
			s.respondAppError(w, utils.NewUnauthorizedError("no identity in request"))
			return
		}

		var form forms.GroupForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			http.Error(w, "Invalid request format", http.StatusBadRequest)
			return
		}

		if fieldErrors := form.Validate(); len(fieldErrors) > 0 {
			s.respondFormErrors(w, form, fieldErrors)
			return
		}

		groupSlug := form.Slug
		if groupSlug == "" {
			groupSlug = slug.Make(form.Title)
		}

		group := &models.Group{
			ID:          uuid.New(),
			Title:       form.Title,
			Slug:        groupSlug,
			Description: form.Description,
			CreatorID:   userID,
		}
		if err := s.Store.CreateGroup(r.Context(), group); err != nil {
			s.respondAppError(w, err)
			return
		}

		s.respondJSON(w, http.StatusCreated, group)
	}
}
