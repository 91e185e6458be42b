package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge meaning UserID wants AuthorID's posts in their
// personal feed. The schema enforces uniqueness of the pair and forbids
// self-follows.
type Follow struct {
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	AuthorID  uuid.UUID `json:"authorId" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
