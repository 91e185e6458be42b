package database

import (
	"context"
	"time"

	"bayou-blog/internal/utils"

	"github.com/google/uuid"
)

// CreateFollow records a follow edge from userID to authorID. Repeating the
// call is a no-op: the composite primary key plus ON CONFLICT DO NOTHING
// makes the edge idempotent even under concurrent requests. Self-follows are
// refused here and rejected again by the schema's CHECK constraint.
func (s *SQLStore) CreateFollow(ctx context.Context, userID, authorID uuid.UUID) error {
	if userID == authorID {
		return utils.NewAppError(utils.ErrSelfFollow, "users cannot follow themselves", nil)
	}

	query := s.rebind(`
		INSERT INTO follows (user_id, author_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, author_id) DO NOTHING
	`)
	_, err := s.DB.ExecContext(ctx, query, userID, authorID, time.Now())
	if err != nil {
		if isCheckViolation(err) {
			return utils.NewAppError(utils.ErrSelfFollow, "users cannot follow themselves", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to create follow edge", err)
	}
	return nil
}

// DeleteFollow removes the follow edge from userID to authorID. A missing
// edge is a not-found error, not a silent no-op.
func (s *SQLStore) DeleteFollow(ctx context.Context, userID, authorID uuid.UUID) error {
	query := s.rebind(`DELETE FROM follows WHERE user_id = ? AND author_id = ?`)
	result, err := s.DB.ExecContext(ctx, query, userID, authorID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete follow edge", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrFollowNotFound, "follow edge not found", nil)
	}
	return nil
}

// IsFollowing reports whether userID follows authorID.
func (s *SQLStore) IsFollowing(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	query := s.rebind(`SELECT COUNT(*) FROM follows WHERE user_id = ? AND author_id = ?`)
	var count int
	if err := s.DB.GetContext(ctx, &count, query, userID, authorID); err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to query follow edge", err)
	}
	return count > 0, nil
}
