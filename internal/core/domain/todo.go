package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Todo is the single domain record. ID is the surrogate key used for
// pagination, UUID is the only identifier exposed over HTTP.
type Todo struct {
	ID          int
	UUID        uuid.UUID
	Title       string `validate:"required,max=255"`
	Description string `validate:"max=1000"`
	Completed   bool
	UserId      int `validate:"required"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Todo) BelongsToUser(userID int) bool {
	return t.UserId == userID
}

func (t *Todo) HasTitle() bool {
	return strings.TrimSpace(t.Title) != ""
}

// Toggle flips completion and bumps UpdatedAt. Applying it twice
// restores the original value.
func (t *Todo) Toggle() {
	t.Completed = !t.Completed
	t.UpdatedAt = time.Now()
}
