package database

import (
	"context"
	"time"

	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/google/uuid"
)

// SaveComment inserts a new comment and increments the comment_count on the
// post within one transaction. A missing post rolls everything back.
func (s *SQLStore) SaveComment(ctx context.Context, comment *models.Comment) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin transaction for save comment", err)
	}
	defer tx.Rollback() // Rollback is ignored if tx is committed.

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	commentQuery := `
		INSERT INTO comments (id, post_id, author_id, text, created_at)
		VALUES (:id, :post_id, :author_id, :text, :created_at)
	`
	if _, err = tx.NamedExecContext(ctx, commentQuery, comment); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save comment", err)
	}

	updatePostQuery := s.rebind(`UPDATE posts SET comment_count = comment_count + 1, updated_at = ? WHERE id = ?`)
	result, err := tx.ExecContext(ctx, updatePostQuery, time.Now(), comment.PostID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update post comment_count", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "post not found to update comment count", nil)
	}

	if err := tx.Commit(); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to commit comment transaction", err)
	}
	return nil
}

// GetPostComments fetches all comments for a post, oldest first.
func (s *SQLStore) GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	query := s.rebind(`
		SELECT c.id, c.post_id, c.author_id, u.username AS author_username, c.text, c.created_at
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.post_id = ?
		ORDER BY c.created_at ASC, c.id
	`)
	comments := []*models.Comment{}
	if err := s.DB.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query post comments", err)
	}
	return comments, nil
}
