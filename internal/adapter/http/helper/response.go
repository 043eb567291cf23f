package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todos/internal/adapter/http/validation"
	"todos/internal/core/domain"
	"todos/internal/core/model/response"
)

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	resp := response.SuccessResponse{
		Data: data,
	}

	if len(message) > 0 && message[0] != "" {
		resp.Message = message[0]
	}

	c.JSON(statusCode, resp)
}

func SendError(c *gin.Context, statusCode int, code string, errs []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errs,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.JSON(statusCode, errorResponse)
}

func SendValidationError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", validation.FormatValidationErrors(err))
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	errs := []response.ValidationError{
		{Field: "server", Message: message},
	}

	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", errs, details...)
}

func SendUnauthorizedError(c *gin.Context, message string) {
	errs := []response.ValidationError{
		{Field: "auth", Message: message},
	}

	SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", errs)
}

func SendForbiddenError(c *gin.Context, message string) {
	errs := []response.ValidationError{
		{Field: "resource", Message: message},
	}

	SendError(c, http.StatusForbidden, "FORBIDDEN", errs)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errs := []response.ValidationError{
		{Field: field, Message: message},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", errs)
}

func SendNotFoundError(c *gin.Context, message string) {
	errs := []response.ValidationError{
		{Field: "resource", Message: message},
	}

	SendError(c, http.StatusNotFound, "NOT_FOUND", errs)
}

// SendDomainError maps the domain sentinel errors onto their HTTP
// responses. The three failure kinds stay distinguishable for clients
// and no internal detail leaks into the body.
func SendDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTodoNotFound):
		SendNotFoundError(c, "Todo not found")
	case errors.Is(err, domain.ErrAccessDenied):
		SendForbiddenError(c, "You do not have access to this todo")
	case errors.Is(err, domain.ErrTitleRequired):
		SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", []response.ValidationError{
			{Field: "title", Message: "title must not be empty"},
		})
	case errors.Is(err, domain.ErrInvalidCursor):
		SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", []response.ValidationError{
			{Field: "cursor", Message: "cursor is invalid or has been tampered with"},
		})
	case errors.Is(err, domain.ErrEmailTaken):
		SendBadRequestError(c, "email", "Email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		SendUnauthorizedError(c, "Invalid email or password")
	default:
		SendInternalError(c, "Something went wrong")
	}
}
