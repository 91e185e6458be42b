package database

import (
	"context"
	"database/sql"
	"time"

	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// postSelect joins the author and group so listings never need per-row lookups.
const postSelect = `
	SELECT
		p.id, p.text, p.author_id, u.username AS author_username,
		p.group_id, g.title AS group_title, g.slug AS group_slug,
		p.image, p.comment_count, p.created_at, p.updated_at
	FROM posts p
	JOIN users u ON p.author_id = u.id
	LEFT JOIN groups g ON p.group_id = g.id
`

// SavePost inserts a new post. CreatedAt is assigned here exactly once;
// edits go through UpdatePost which never touches it.
func (s *SQLStore) SavePost(ctx context.Context, post *models.Post) error {
	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = post.CreatedAt

	query := `
		INSERT INTO posts (id, text, author_id, group_id, image, comment_count, created_at, updated_at)
		VALUES (:id, :text, :author_id, :group_id, :image, :comment_count, :created_at, :updated_at)
	`
	_, err := s.DB.NamedExecContext(ctx, query, post)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save post", err)
	}
	return nil
}

// UpdatePost updates the mutable fields of a post in place. The author and
// creation timestamp are immutable.
func (s *SQLStore) UpdatePost(ctx context.Context, id uuid.UUID, text string, groupID *uuid.UUID, image *string) error {
	query := s.rebind(`UPDATE posts SET text = ?, group_id = ?, image = ?, updated_at = ? WHERE id = ?`)
	result, err := s.DB.ExecContext(ctx, query, text, groupID, image, time.Now(), id)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update post", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to get rows affected after update", err)
	}
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "post not found for update", nil)
	}
	return nil
}

// DeletePost removes a post; its comments go with it via the cascade rule.
func (s *SQLStore) DeletePost(ctx context.Context, id uuid.UUID) error {
	query := s.rebind(`DELETE FROM posts WHERE id = ?`)
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete post", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "post not found for deletion", nil)
	}
	return nil
}

// GetPost fetches a post by its ID with author and group preloaded.
func (s *SQLStore) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := s.rebind(postSelect + ` WHERE p.id = ?`)
	var post models.Post
	err := s.DB.GetContext(ctx, &post, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "post not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query post by id", err)
	}
	return &post, nil
}

// ListRecentPosts retrieves the newest posts across all groups plus the
// total post count for pagination.
func (s *SQLStore) ListRecentPosts(ctx context.Context, limit, offset int) ([]*models.Post, int, error) {
	var total int
	if err := s.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts`); err != nil {
		return nil, 0, utils.NewAppError(utils.ErrDatabase, "failed to count posts", err)
	}

	query := s.rebind(postSelect + ` ORDER BY p.created_at DESC, p.id LIMIT ? OFFSET ?`)
	posts := []*models.Post{}
	if err := s.DB.SelectContext(ctx, &posts, query, limit, offset); err != nil {
		return nil, 0, utils.NewAppError(utils.ErrDatabase, "failed to query recent posts", err)
	}
	return posts, total, nil
}

// ListGroupPosts retrieves the newest posts in one group with the group's
// total post count.
func (s *SQLStore) ListGroupPosts(ctx context.Context, groupID uuid.UUID, limit, offset int) ([]*models.Post, int, error) {
	var total int
	countQuery := s.rebind(`SELECT COUNT(*) FROM posts WHERE group_id = ?`)
	if err := s.DB.GetContext(ctx, &total, countQuery, groupID); err != nil {
		return nil, 0, utils.NewAppError(utils.ErrDatabase, "failed to count group posts", err)
	}

	query := s.rebind(postSelect + ` WHERE p.group_id = ? ORDER BY p.created_at DESC, p.id LIMIT ? OFFSET ?`)
	posts := []*models.Post{}
	if err := s.DB.SelectContext(ctx, &posts, query, groupID, limit, offset); err != nil {
		return nil, 0, utils.NewAppError(utils.ErrDatabase, "failed to query group posts", err)
	}
	return posts, total, nil
}

// ListAuthorPosts retrieves the newest posts by one author with the author's
// total post count.
func (s *SQLStore) ListAuthorPosts(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*models.Post, int, error) {
	var total int
	countQuery := s.rebind(`SELECT COUNT(*) FROM posts WHERE author_id = ?`)
	if err := s.DB.GetContext(ctx, &total, countQuery, authorID); err != nil {
		return nil, 0, utils.NewAppError(utils.ErrDatabase, "failed to count author posts", err)
	}

	query := s.rebind(postSelect + ` WHERE p.author_id = ? ORDER BY p.created_at DESC, p.id LIMIT ? OFFSET ?`)
	posts := []*models.Post{}
	if err := s.DB.SelectContext(ctx, &posts, query, authorID, limit, offset); err != nil {
		return nil, 0, utils.NewAppError(utils.ErrDatabase, "failed to query author posts", err)
	}
	return posts, total, nil
}

// ListFollowedPosts retrieves the newest posts by authors the user follows.
// A user with no follow edges gets an empty page, not an error.
func (s *SQLStore) ListFollowedPosts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Post, int, error) {
	// 1. Resolve followed author IDs
	var authorIDs []uuid.UUID
	followQuery := s.rebind(`SELECT author_id FROM follows WHERE user_id = ?`)
	if err := s.DB.SelectContext(ctx, &authorIDs, followQuery, userID); err != nil {
		return nil, 0, utils.NewAppError(utils.ErrDatabase, "failed to query follow edges", err)
	}

	if len(authorIDs) == 0 {
		return []*models.Post{}, 0, nil
	}

	// 2. Count and fetch posts from those authors
	countQuery, countArgs, err := sqlx.In(`SELECT COUNT(*) FROM posts WHERE author_id IN (?)`, authorIDs)
	if err != nil {
		return nil, 0, utils.NewAppError(utils.ErrDatabase, "failed to build followed count query", err)
	}
	var total int
	if err := s.DB.GetContext(ctx, &total, s.rebind(countQuery), countArgs...); err != nil {
		return nil, 0, utils.NewAppError(utils.ErrDatabase, "failed to count followed posts", err)
	}

	query, args, err := sqlx.In(
		postSelect+` WHERE p.author_id IN (?) ORDER BY p.created_at DESC, p.id LIMIT ? OFFSET ?`,
		authorIDs, limit, offset,
	)
	if err != nil {
		return nil, 0, utils.NewAppError(utils.ErrDatabase, "failed to build followed feed query", err)
	}

	posts := []*models.Post{}
	if err := s.DB.SelectContext(ctx, &posts, s.rebind(query), args...); err != nil {
		return nil, 0, utils.NewAppError(utils.ErrDatabase, "failed to query followed posts", err)
	}
	return posts, total, nil
}
