package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"

	"todos/internal/adapter/database/sqlite"
	"todos/internal/core/domain"
	"todos/internal/core/port"
	tel "todos/internal/core/telemetry"
	"todos/internal/core/util"
)

type TodoRepository struct {
	db      *sqlite.DB
	scanner *sqlite.Scanner
	probe   port.Telemetry
}

func NewTodoRepository(db *sqlite.DB, probe port.Telemetry) port.TodoRepository {
	if probe == nil {
		probe = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		db:      db,
		scanner: sqlite.NewScanner(),
		probe:   probe,
	}
}

// GetAllWithCursor pages through the user's todos in creation order,
// oldest first. The cursor pins a (created_at, id) position; one extra
// row is fetched to detect whether a next page exists.
func (tr *TodoRepository) GetAllWithCursor(ctx context.Context, userId int, limit int, cursor string) ([]domain.Todo, bool, error) {
	ctx, span := tr.probe.StartRepositorySpan(ctx, "GetAllWithCursor", "todos",
		attribute.Int("user.id", userId),
		attribute.Int("pagination.limit", limit),
	)
	defer span.End()

	op := tel.StartOperation(tr.probe, ctx, "GetAllWithCursor", "todos")

	actualLimit := limit + 1

	query := tr.db.QueryBuilder.Select("id", "uuid", "title", "description", "completed", "user_id", "created_at", "updated_at").
		From("todos").
		Where(sq.Eq{"user_id": userId}).
		OrderBy("created_at ASC, id ASC").
		Limit(uint64(actualLimit))

	if cursor != "" {
		datetimeStr, id, err := util.DecodeCursor(cursor)

		if err != nil {
			op.End(err)
			return []domain.Todo{}, false, domain.ErrInvalidCursor
		}

		datetime, err := time.Parse(time.RFC3339, datetimeStr)

		if err != nil {
			op.End(err)
			return []domain.Todo{}, false, domain.ErrInvalidCursor
		}

		query = query.Where(sq.Or{
			sq.Gt{"created_at": datetime},
			sq.And{
				sq.Eq{"created_at": datetime},
				sq.Gt{"id": id},
			},
		})
	}

	stmt, args, err := query.ToSql()

	if err != nil {
		op.End(err)
		return []domain.Todo{}, false, err
	}

	rows, err := tr.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error fetching todos", "error", err)
		op.End(err)
		return []domain.Todo{}, false, err
	}

	defer rows.Close()

	todos := []domain.Todo{}

	if err := tr.scanner.ScanRowsToSlice(rows, &todos); err != nil {
		op.End(err)
		return []domain.Todo{}, false, err
	}

	hasNext := len(todos) == actualLimit

	if hasNext {
		todos = todos[:limit]
	}

	span.SetAttributes(
		attribute.Int("db.rows_returned", len(todos)),
		attribute.Bool("db.has_next", hasNext),
	)

	op.End(nil)

	return todos, hasNext, nil
}

func (tr *TodoRepository) GetByUUID(ctx context.Context, uid string) (domain.Todo, error) {
	query := tr.db.QueryBuilder.Select("id", "uuid", "title", "description", "completed", "user_id", "created_at", "updated_at").
		From("todos").
		Where(sq.Eq{"uuid": uid}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	rows, err := tr.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return domain.Todo{}, err
	}

	defer rows.Close()

	var todo domain.Todo

	if err := tr.scanner.ScanRowToStruct(rows, &todo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Todo{}, domain.ErrTodoNotFound
		}

		slog.Error("Error getting todo by uuid", "error", err)
		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	op := tel.StartOperation(tr.probe, ctx, "Create", "todos")

	query := tr.db.QueryBuilder.Insert("todos").
		Columns("uuid", "title", "description", "completed", "user_id", "created_at", "updated_at").
		Values(todo.UUID.String(), todo.Title, todo.Description, todo.Completed, todo.UserId, todo.CreatedAt, todo.UpdatedAt)

	stmt, args, err := query.ToSql()

	if err != nil {
		op.End(err)
		return domain.Todo{}, err
	}

	if _, err := tr.db.ExecContext(ctx, stmt, args...); err != nil {
		slog.Error("Error creating todo", "error", err)
		op.End(err)
		return domain.Todo{}, err
	}

	saved, err := tr.GetByUUID(ctx, todo.UUID.String())
	op.End(err)

	return saved, err
}

func (tr *TodoRepository) Update(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	op := tel.StartOperation(tr.probe, ctx, "Update", "todos")

	query := tr.db.QueryBuilder.Update("todos").
		SetMap(map[string]interface{}{
			"title":       todo.Title,
			"description": todo.Description,
			"completed":   todo.Completed,
			"updated_at":  todo.UpdatedAt,
		}).
		Where(sq.Eq{"uuid": todo.UUID.String()})

	stmt, args, err := query.ToSql()

	if err != nil {
		op.End(err)
		return domain.Todo{}, err
	}

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error updating todo", "error", err)
		op.End(err)
		return domain.Todo{}, err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		op.End(domain.ErrTodoNotFound)
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	updated, err := tr.GetByUUID(ctx, todo.UUID.String())
	op.End(err)

	return updated, err
}

// DeleteByUUID removes the row permanently. Ids are never reused, the
// surrogate key keeps counting.
func (tr *TodoRepository) DeleteByUUID(ctx context.Context, uid string) error {
	op := tel.StartOperation(tr.probe, ctx, "DeleteByUUID", "todos")

	query := tr.db.QueryBuilder.Delete("todos").
		Where(sq.Eq{"uuid": uid})

	stmt, args, err := query.ToSql()

	if err != nil {
		op.End(err)
		return err
	}

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		op.End(err)
		return err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		op.End(domain.ErrTodoNotFound)
		return domain.ErrTodoNotFound
	}

	op.End(nil)

	return nil
}
