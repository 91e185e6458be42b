package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a user-authored text entry. GroupID is nullable: deleting a group
// detaches its posts instead of cascading. CreatedAt is assigned once at
// creation and never changed by edits.
type Post struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Text           string     `json:"text" db:"text"`
	AuthorID       uuid.UUID  `json:"authorId" db:"author_id"`
	AuthorUsername string     `json:"authorUsername" db:"author_username"`
	GroupID        *uuid.UUID `json:"groupId,omitempty" db:"group_id"`
	GroupTitle     *string    `json:"groupTitle,omitempty" db:"group_title"`
	GroupSlug      *string    `json:"groupSlug,omitempty" db:"group_slug"`
	Image          *string    `json:"image,omitempty" db:"image"`
	CommentCount   int        `json:"commentCount" db:"comment_count"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}
