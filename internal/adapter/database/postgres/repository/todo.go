package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"

	"todos/internal/adapter/database/postgres"
	"todos/internal/core/domain"
	"todos/internal/core/port"
	tel "todos/internal/core/telemetry"
	"todos/internal/core/util"
)

type TodoRepository struct {
	db    *postgres.DB
	probe port.Telemetry
}

func NewTodoRepository(db *postgres.DB, probe port.Telemetry) port.TodoRepository {
	if probe == nil {
		probe = tel.NewNoOpProbe()
	}

	return &TodoRepository{db: db, probe: probe}
}

func scanTodo(row pgx.Row) (domain.Todo, error) {
	var todo domain.Todo

	err := row.Scan(
		&todo.ID,
		&todo.UUID,
		&todo.Title,
		&todo.Description,
		&todo.Completed,
		&todo.UserId,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)

	return todo, err
}

func (tr *TodoRepository) GetAllWithCursor(ctx context.Context, userId int, limit int, cursor string) ([]domain.Todo, bool, error) {
	ctx, span := tr.probe.StartRepositorySpan(ctx, "GetAllWithCursor", "todos",
		attribute.Int("user.id", userId),
		attribute.Int("pagination.limit", limit),
	)
	defer span.End()

	actualLimit := limit + 1

	query := tr.db.QueryBuilder.Select("id", "uuid", "title", "description", "completed", "user_id", "created_at", "updated_at").
		From("todos").
		Where(sq.Eq{"user_id": userId}).
		OrderBy("created_at ASC, id ASC").
		Limit(uint64(actualLimit))

	if cursor != "" {
		datetimeStr, id, err := util.DecodeCursor(cursor)

		if err != nil {
			return []domain.Todo{}, false, domain.ErrInvalidCursor
		}

		datetime, err := time.Parse(time.RFC3339, datetimeStr)

		if err != nil {
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
		return []domain.Todo{}, false, err
	}

	rows, err := tr.db.Query(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error fetching todos", "error", err)
		return []domain.Todo{}, false, err
	}

	defer rows.Close()

	todos := []domain.Todo{}

	for rows.Next() {
		todo, err := scanTodo(rows)

		if err != nil {
			return []domain.Todo{}, false, err
		}

		todos = append(todos, todo)
	}

	hasNext := len(todos) == actualLimit

	if hasNext {
		todos = todos[:limit]
	}

	span.SetAttributes(
		attribute.Int("db.rows_returned", len(todos)),
		attribute.Bool("db.has_next", hasNext),
	)

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

	todo, err := scanTodo(tr.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
		Values(todo.UUID.String(), todo.Title, todo.Description, todo.Completed, todo.UserId, todo.CreatedAt, todo.UpdatedAt).
		Suffix("RETURNING id, uuid, title, description, completed, user_id, created_at, updated_at")

	stmt, args, err := query.ToSql()

	if err != nil {
		op.End(err)
		return domain.Todo{}, err
	}

	saved, err := scanTodo(tr.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		slog.Error("Error creating todo", "error", err)
		op.End(err)
		return domain.Todo{}, err
	}

	op.End(nil)

	return saved, nil
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
		Where(sq.Eq{"uuid": todo.UUID.String()}).
		Suffix("RETURNING id, uuid, title, description, completed, user_id, created_at, updated_at")

	stmt, args, err := query.ToSql()

	if err != nil {
		op.End(err)
		return domain.Todo{}, err
	}

	updated, err := scanTodo(tr.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			op.End(domain.ErrTodoNotFound)
			return domain.Todo{}, domain.ErrTodoNotFound
		}

		slog.Error("Error updating todo", "error", err)
		op.End(err)
		return domain.Todo{}, err
	}

	op.End(nil)

	return updated, nil
}

func (tr *TodoRepository) DeleteByUUID(ctx context.Context, uid string) error {
	op := tel.StartOperation(tr.probe, ctx, "DeleteByUUID", "todos")

	query := tr.db.QueryBuilder.Delete("todos").
		Where(sq.Eq{"uuid": uid})

	stmt, args, err := query.ToSql()

	if err != nil {
		op.End(err)
		return err
	}

	tag, err := tr.db.Exec(ctx, stmt, args...)

	if err != nil {
		op.End(err)
		return err
	}

	if tag.RowsAffected() == 0 {
		op.End(domain.ErrTodoNotFound)
		return domain.ErrTodoNotFound
	}

	op.End(nil)

	return nil
}
