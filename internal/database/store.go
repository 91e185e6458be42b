// internal/database/store.go
package database

import (
	"context"
	"fmt"
	"time"

	"bayou-blog/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Store defines the common interface for database operations. It is
// implemented by SQLStore for both PostgreSQL and SQLite backends.
type Store interface {
	// Connection
	Close() error
	InitializeTables(ctx context.Context) error

	// User methods
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Group methods
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroupByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	GetAllGroups(ctx context.Context) ([]*models.Group, error)

	// Post methods
	SavePost(ctx context.Context, post *models.Post) error
	UpdatePost(ctx context.Context, id uuid.UUID, text string, groupID *uuid.UUID, image *string) error
	DeletePost(ctx context.Context, id uuid.UUID) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	ListRecentPosts(ctx context.Context, limit, offset int) ([]*models.Post, int, error)
	ListGroupPosts(ctx context.Context, groupID uuid.UUID, limit, offset int) ([]*models.Post, int, error)
	ListAuthorPosts(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*models.Post, int, error)
	ListFollowedPosts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Post, int, error)

	// Comment methods
	SaveComment(ctx context.Context, comment *models.Comment) error
	GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)

	// Follow methods
	CreateFollow(ctx context.Context, userID, authorID uuid.UUID) error
	DeleteFollow(ctx context.Context, userID, authorID uuid.UUID) error
	IsFollowing(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
}

// SQLStore is a Store backed by a relational database through sqlx.
// Queries are written with ? placeholders and rebound per driver.
type SQLStore struct {
	DB     *sqlx.DB
	driver string
}

// NewSQLStore opens a database connection for the given driver
// ("postgres" or "sqlite3") and DSN.
func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %v", driver, err)
	}

	if driver == "postgres" {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	} else {
		// SQLite allows a single writer; a pool of one avoids SQLITE_BUSY
		// and keeps in-memory databases on one connection.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping %s: %v", driver, err)
	}

	logrus.WithField("driver", driver).Info("Connected to database")

	return &SQLStore{DB: db, driver: driver}, nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	logrus.Info("Closing database connection...")
	return s.DB.Close()
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(100) UNIQUE NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		id UUID PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		slug VARCHAR(50) UNIQUE NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_by UUID REFERENCES users(id),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id UUID PRIMARY KEY,
		text TEXT NOT NULL,
		author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		group_id UUID REFERENCES groups(id) ON DELETE SET NULL,
		image VARCHAR(255),
		comment_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id UUID PRIMARY KEY,
		post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		text TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS follows (
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		PRIMARY KEY (user_id, author_id),
		CHECK (user_id <> author_id)
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT UNIQUE NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_by TEXT REFERENCES users(id),
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		author_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		group_id TEXT REFERENCES groups(id) ON DELETE SET NULL,
		image TEXT,
		comment_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		author_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		text TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS follows (
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		author_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, author_id),
		CHECK (user_id <> author_id)
	)`,
}

// InitializeTables creates all necessary tables if they don't exist
func (s *SQLStore) InitializeTables(ctx context.Context) error {
	schema := postgresSchema
	if s.driver != "postgres" {
		schema = sqliteSchema
	}
	for _, stmt := range schema {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize tables: %v", err)
		}
	}
	return nil
}

// rebind converts ? placeholders to the driver's bindvar format.
func (s *SQLStore) rebind(query string) string {
	return s.DB.Rebind(query)
}

// isUniqueViolation reports whether err is a unique or primary key
// constraint violation from either backend.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code.Name() == "unique_violation"
	}
	if sqErr, ok := err.(sqlite3.Error); ok {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// isCheckViolation reports whether err is a CHECK constraint violation.
func isCheckViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code.Name() == "check_violation"
	}
	if sqErr, ok := err.(sqlite3.Error); ok {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintCheck
	}
	return false
}
