package database

import (
	"context"
	"database/sql"
	"time"

	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/google/uuid"
)

// CreateGroup inserts a new group record.
func (s *SQLStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO groups (id, title, slug, description, created_by, created_at)
		VALUES (:id, :title, :slug, :description, :created_by, :created_at)
	`
	_, err := s.DB.NamedExecContext(ctx, query, group)
	if err != nil {
		if isUniqueViolation(err) {
			return utils.NewAppError(utils.ErrGroupExists, "group slug already taken: "+group.Slug, err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to create group", err)
	}
	return nil
}

// GetGroupByID fetches a group by its ID.
func (s *SQLStore) GetGroupByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	query := s.rebind(`SELECT id, title, slug, description, created_by, created_at FROM groups WHERE id = ?`)
	var group models.Group
	err := s.DB.GetContext(ctx, &group, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrGroupNotFound, "group not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query group by id", err)
	}
	return &group, nil
}

// GetGroupBySlug fetches a group by its slug.
func (s *SQLStore) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	query := s.rebind(`SELECT id, title, slug, description, created_by, created_at FROM groups WHERE slug = ?`)
	var group models.Group
	err := s.DB.GetContext(ctx, &group, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewGroupNotFoundError(slug)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query group by slug", err)
	}
	return &group, nil
}

// GetAllGroups fetches all group records.
func (s *SQLStore) GetAllGroups(ctx context.Context) ([]*models.Group, error) {
	query := `SELECT id, title, slug, description, created_by, created_at FROM groups ORDER BY title ASC`
	groups := []*models.Group{}
	err := s.DB.SelectContext(ctx, &groups, query)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query all groups", err)
	}
	return groups, nil
}
