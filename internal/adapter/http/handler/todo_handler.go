package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"todos/internal/adapter/http/helper"
	"todos/internal/adapter/http/validation"
	"todos/internal/core/domain"
	"todos/internal/core/model/request"
	"todos/internal/core/model/response"
	"todos/internal/core/port"
	"todos/internal/core/util"
	"todos/internal/shared"
)

const defaultPageSize = 10

type TodoHandler struct {
	svc    port.TodoService
	logger *shared.LokiLogger
}

func NewTodoHandler(svc port.TodoService, logger *shared.LokiLogger) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		logger: logger,
	}
}

func (t *TodoHandler) GetAllTodos(c *gin.Context) {
	ctx := c.Request.Context()

	userId := c.GetInt("x-user-id")
	cursor := c.Query("cursor")
	limit, _ := strconv.Atoi(c.Query("limit"))

	if limit <= 0 {
		limit = defaultPageSize
	}

	data, err := t.svc.List(ctx, userId, limit, cursor)

	if err != nil {
		if t.logger != nil {
			t.logger.ErrorWithTrace(ctx, "Failed to list todos",
				zap.Error(err),
				zap.Int("user_id", userId),
			)
		}

		// Bad cursors are client input, only unexpected failures may
		// surface as 500.
		helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

func (t *TodoHandler) GetTodo(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetInt("x-user-id")

	uid, ok := parseUUIDParam(c)

	if !ok {
		return
	}

	todo, err := t.svc.GetByUUID(ctx, userId, uid)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetInt("x-user-id")

	params, err := util.ParamsToMap[request.TodoRequest](c)

	if err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	todo := domain.Todo{
		Title:       params.Title,
		Description: params.Description,
		Completed:   params.Completed,
		UserId:      userId,
	}

	todo, err = t.svc.Create(ctx, todo)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusCreated, response.NewTodoResponse(todo))
}

func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetInt("x-user-id")

	uid, ok := parseUUIDParam(c)

	if !ok {
		return
	}

	params, err := util.ParamsToMap[request.TodoUpdateRequest](c)

	if err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	todo, err := t.svc.Update(ctx, userId, uid, port.TodoChanges{
		Title:       params.Title,
		Description: params.Description,
		Completed:   params.Completed,
	})

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) ToggleComplete(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetInt("x-user-id")

	uid, ok := parseUUIDParam(c)

	if !ok {
		return
	}

	todo, err := t.svc.ToggleComplete(ctx, userId, uid)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) DeleteByUUID(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetInt("x-user-id")

	uid, ok := parseUUIDParam(c)

	if !ok {
		return
	}

	if err := t.svc.Delete(ctx, userId, uid); err != nil {
		helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Todo deleted successfully",
	})
}

// A malformed uuid cannot reference any record, report it the same way
// as an unknown one.
func parseUUIDParam(c *gin.Context) (string, bool) {
	uid := c.Param("uuid")

	if _, err := uuid.Parse(uid); err != nil {
		helper.SendNotFoundError(c, "Todo not found")
		return "", false
	}

	return uid, true
}
