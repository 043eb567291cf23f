package http

import (
	"todos/internal/adapter/database/postgres"
	pgrepo "todos/internal/adapter/database/postgres/repository"
	"todos/internal/adapter/database/sqlite"
	"todos/internal/adapter/database/sqlite/repository"
	"todos/internal/adapter/http/handler"
	"todos/internal/core/port"
	"todos/internal/core/service"
	"todos/internal/shared"
)

type Container struct {
	UserRepo port.UserRepository
	TodoRepo port.TodoRepository

	TodoService port.TodoService
	AuthService port.AuthService

	TodoHandler *handler.TodoHandler
	AuthHandler *handler.AuthHandler
}

func NewContainer(db *sqlite.DB, logger *shared.LokiLogger, probe port.Telemetry) *Container {
	userRepo := repository.NewUserRepository(db, probe)
	todoRepo := repository.NewTodoRepository(db, probe)

	return assemble(userRepo, todoRepo, logger, probe)
}

func NewPostgresContainer(db *postgres.DB, logger *shared.LokiLogger, probe port.Telemetry) *Container {
	userRepo := pgrepo.NewUserRepository(db, probe)
	todoRepo := pgrepo.NewTodoRepository(db, probe)

	return assemble(userRepo, todoRepo, logger, probe)
}

func assemble(userRepo port.UserRepository, todoRepo port.TodoRepository, logger *shared.LokiLogger, probe port.Telemetry) *Container {
	authSvc := service.NewAuthService(userRepo)
	todoSvc := service.NewTodoService(todoRepo, probe)

	return &Container{
		UserRepo: userRepo,
		TodoRepo: todoRepo,

		TodoService: todoSvc,
		AuthService: authSvc,

		TodoHandler: handler.NewTodoHandler(todoSvc, logger),
		AuthHandler: handler.NewAuthHandler(authSvc),
	}
}
