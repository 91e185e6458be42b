package models

import (
	"time"

	"github.com/google/uuid"
)

// Group is a named community that posts may optionally belong to.
type Group struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatorID   uuid.UUID `json:"creatorId" db:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
