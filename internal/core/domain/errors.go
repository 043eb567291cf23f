package domain

import "errors"

// Sentinel errors shared by services and repositories. Handlers map
// them onto HTTP responses in one place, keeping validation, not-found
// and access failures distinguishable for clients.
var (
	ErrTodoNotFound = errors.New("todo not found")
	ErrUserNotFound = errors.New("user not found")

	ErrAccessDenied = errors.New("access denied")

	ErrTitleRequired = errors.New("title must not be empty")
	ErrInvalidCursor = errors.New("invalid pagination cursor")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
