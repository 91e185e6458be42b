package handlers

import (
	"net/http"

	"bayou-blog/internal/utils"

	"github.com/sirupsen/logrus"
)

// HandleFollow creates a follow edge from the acting identity to the target
// author. A self-follow is refused and a repeated follow is idempotent; in
// every case the client ends up on the target's profile.
func (s *Server) HandleFollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, username, ok := currentUser(r)
		if !ok {
			s.respondAppError(w, utils.NewUnauthorizedError("no identity in request"))
			return
		}

		target := r.PathValue("username")

		if username == target {
			s.Log.WithFields(logrus.Fields{
				"user": username,
				"code": utils.ErrSelfFollow,
			}).Warn("Self-follow refused")
			s.redirect(w, r, profilePath(target))
			return
		}

		author, err := s.Store.GetUserByUsername(r.Context(), target)
		if err != nil {
			s.respondAppError(w, err)
			return
		}

		if err := s.Store.CreateFollow(r.Context(), userID, author.ID); err != nil {
			// The store refuses self-follows too; keep the redirect policy.
			if utils.IsErrorCode(err, utils.ErrSelfFollow) {
				s.redirect(w, r, profilePath(target))
				return
			}
			s.respondAppError(w, err)
			return
		}

		s.redirect(w, r, profilePath(target))
	}
}

// HandleUnfollow deletes the follow edge from the acting identity to the
// target author. A missing edge is a not-found failure with no state change.
func (s *Server) HandleUnfollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := currentUser(r)
		if !ok {
			s.respondAppError(w, utils.NewUnauthorizedError("no identity in request"))
			return
		}

		target := r.PathValue("username")

		author, err := s.Store.GetUserByUsername(r.Context(), target)
		if err != nil {
			s.respondAppError(w, err)
			return
		}

		if err := s.Store.DeleteFollow(r.Context(), userID, author.ID); err != nil {
			s.respondAppError(w, err)
			return
		}

		s.redirect(w, r, profilePath(target))
	}
}
