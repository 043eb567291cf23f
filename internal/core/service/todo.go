package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"todos/internal/core/domain"
	"todos/internal/core/model/response"
	"todos/internal/core/port"
	tel "todos/internal/core/telemetry"
	"todos/internal/core/util"
)

// TodoService applies ownership and validation rules on top of the
// repository. Every read or mutation verifies the record belongs to the
// requesting user before acting, and unknown ids and foreign records
// surface as different errors.
type TodoService struct {
	repo  port.TodoRepository
	probe port.Telemetry
}

func NewTodoService(repo port.TodoRepository, probe port.Telemetry) *TodoService {
	if probe == nil {
		probe = tel.NewNoOpProbe()
	}

	return &TodoService{repo: repo, probe: probe}
}

func (ts *TodoService) List(ctx context.Context, userId int, limit int, cursor string) (*response.CursorResponse, error) {
	ctx, span := ts.probe.StartServiceSpan(ctx, "todo.List", userId,
		attribute.Int("pagination.limit", limit),
		attribute.String("pagination.cursor", cursor),
	)
	defer span.End()

	rows, hasNext, err := ts.repo.GetAllWithCursor(ctx, userId, limit, cursor)

	data := make([]response.TodoResponse, 0)

	if err != nil {
		ts.probe.RecordError(ctx, "todo.List", err)
		dataBytes, _ := util.Serialize(data)

		resp := response.CursorResponse{Size: 0, Data: dataBytes}

		return &resp, err
	}

	for _, todo := range rows {
		data = append(data, response.NewTodoResponse(todo))
	}

	var nextCursor string

	if hasNext && len(rows) > 0 {
		lastTodo := rows[len(rows)-1]
		// Full precision, otherwise the boundary row repeats on the next page.
		nextCursor = util.EncodeCursor(lastTodo.CreatedAt.Format(time.RFC3339Nano), lastTodo.ID)
	}

	dataBytes, _ := util.Serialize(data)

	resp := response.CursorResponse{
		Size: len(data),
		Data: dataBytes,
	}
	resp.Pagination.HasNext = hasNext
	resp.Pagination.NextCursor = nextCursor

	span.SetAttributes(
		attribute.Int("todo.count", len(data)),
		attribute.Bool("todo.has_next", hasNext),
	)

	return &resp, nil
}

// GetByUUID returns the record only when it exists and belongs to the
// caller. Foreign records are reported as access denied, not hidden
// behind not-found, so the two failure kinds stay distinct.
func (ts *TodoService) GetByUUID(ctx context.Context, userId int, uid string) (domain.Todo, error) {
	todo, err := ts.repo.GetByUUID(ctx, uid)

	if err != nil {
		return domain.Todo{}, err
	}

	if !todo.BelongsToUser(userId) {
		return domain.Todo{}, domain.ErrAccessDenied
	}

	return todo, nil
}

func (ts *TodoService) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := ts.probe.StartServiceSpan(ctx, "todo.Create", todo.UserId)
	defer span.End()

	if !todo.HasTitle() {
		return domain.Todo{}, domain.ErrTitleRequired
	}

	now := time.Now()

	newTodo := domain.Todo{
		UUID:        uuid.New(),
		Title:       strings.TrimSpace(todo.Title),
		Description: todo.Description,
		Completed:   todo.Completed,
		UserId:      todo.UserId,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	saved, err := ts.repo.Create(ctx, newTodo)

	if err != nil {
		ts.probe.RecordError(ctx, "todo.Create", err)
		return domain.Todo{}, err
	}

	ts.probe.RecordBusinessEvent(ctx, "created", "todo", saved.UUID.String(), saved.UserId)

	return saved, nil
}

func (ts *TodoService) Update(ctx context.Context, userId int, uid string, changes port.TodoChanges) (domain.Todo, error) {
	ctx, span := ts.probe.StartServiceSpan(ctx, "todo.Update", userId)
	defer span.End()

	todo, err := ts.GetByUUID(ctx, userId, uid)

	if err != nil {
		return domain.Todo{}, err
	}

	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)

		if title == "" {
			return domain.Todo{}, domain.ErrTitleRequired
		}

		todo.Title = title
	}

	if changes.Description != nil {
		todo.Description = *changes.Description
	}

	if changes.Completed != nil {
		todo.Completed = *changes.Completed
	}

	todo.UpdatedAt = time.Now()

	updated, err := ts.repo.Update(ctx, todo)

	if err != nil {
		ts.probe.RecordError(ctx, "todo.Update", err)
		return domain.Todo{}, err
	}

	ts.probe.RecordBusinessEvent(ctx, "updated", "todo", updated.UUID.String(), userId)

	return updated, nil
}

// ToggleComplete flips the completion flag. Two toggles in a row leave
// the record as it started.
func (ts *TodoService) ToggleComplete(ctx context.Context, userId int, uid string) (domain.Todo, error) {
	ctx, span := ts.probe.StartServiceSpan(ctx, "todo.ToggleComplete", userId)
	defer span.End()

	todo, err := ts.GetByUUID(ctx, userId, uid)

	if err != nil {
		return domain.Todo{}, err
	}

	todo.Toggle()

	updated, err := ts.repo.Update(ctx, todo)

	if err != nil {
		ts.probe.RecordError(ctx, "todo.ToggleComplete", err)
		return domain.Todo{}, err
	}

	ts.probe.RecordBusinessEvent(ctx, "toggled", "todo", updated.UUID.String(), userId)

	return updated, nil
}

func (ts *TodoService) Delete(ctx context.Context, userId int, uid string) error {
	ctx, span := ts.probe.StartServiceSpan(ctx, "todo.Delete", userId)
	defer span.End()

	if _, err := ts.GetByUUID(ctx, userId, uid); err != nil {
		return err
	}

	if err := ts.repo.DeleteByUUID(ctx, uid); err != nil {
		ts.probe.RecordError(ctx, "todo.Delete", err)
		return err
	}

	ts.probe.RecordBusinessEvent(ctx, "deleted", "todo", uid, userId)

	return nil
}
