package port

import (
	"context"

	"todos/internal/core/domain"
	"todos/internal/core/model/response"
)

// TodoChanges carries a partial update. Nil fields are left untouched.
type TodoChanges struct {
	Title       *string
	Description *string
	Completed   *bool
}

type TodoRepository interface {
	GetAllWithCursor(ctx context.Context, userId int, limit int, cursor string) ([]domain.Todo, bool, error)
	GetByUUID(ctx context.Context, uid string) (domain.Todo, error)
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Update(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	DeleteByUUID(ctx context.Context, uid string) error
}

type TodoService interface {
	List(ctx context.Context, userId int, limit int, cursor string) (*response.CursorResponse, error)
	GetByUUID(ctx context.Context, userId int, uid string) (domain.Todo, error)
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Update(ctx context.Context, userId int, uid string, changes TodoChanges) (domain.Todo, error)
	ToggleComplete(ctx context.Context, userId int, uid string) (domain.Todo, error)
	Delete(ctx context.Context, userId int, uid string) error
}
